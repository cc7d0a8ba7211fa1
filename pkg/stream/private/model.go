package private

import (
	"github.com/cockroachdb/apd/v3"

	"bybitasync/pkg/core"
)

// Message is the envelope of private topics.
type Message[T any] struct {
	ID    string `json:"id"`
	Topic string `json:"topic"`
	// CreationTime is when the data was created, in ms.
	CreationTime uint64 `json:"creationTime"`
	Data         T      `json:"data"`
}

// Pong is the reply to a ping on the private stream.
type Pong struct {
	ReqID  *string   `json:"req_id"`
	Op     string    `json:"op"`
	Args   [1]string `json:"args"`
	ConnID string    `json:"conn_id"`
}

// Position is one position update. Fields documented as "" under portfolio
// margin are kept as strings.
type Position struct {
	// Category is absent on unified accounts.
	Category       *string          `json:"category"`
	Symbol         string           `json:"symbol"`
	Side           core.Side        `json:"side"`
	Size           string           `json:"size"`
	PositionIdx    core.PositionIdx `json:"positionIdx"`
	TradeMode      uint8            `json:"tradeMode"`
	PositionValue  string           `json:"positionValue"`
	RiskID         uint16           `json:"riskId"`
	RiskLimitValue string           `json:"riskLimitValue"`
	EntryPrice     string           `json:"entryPrice"`
	MarkPrice      string           `json:"markPrice"`
	Leverage       string           `json:"leverage"`
	// PositionBalance and AutoAddMargin are absent on unified accounts.
	PositionBalance *string `json:"positionBalance"`
	AutoAddMargin   *uint8  `json:"autoAddMargin"`
	PositionMM      string  `json:"positionMM"`
	PositionIM      string  `json:"positionIM"`
	LiqPrice        string  `json:"liqPrice"`
	BustPrice       string  `json:"bustPrice"`
	TpslMode        string  `json:"tpslMode"`
	TakeProfit      string  `json:"takeProfit"`
	StopLoss        string  `json:"stopLoss"`
	TrailingStop    string  `json:"trailingStop"`
	UnrealisedPnl   string  `json:"unrealisedPnl"`
	CumRealisedPnl  string  `json:"cumRealisedPnl"`
	// PositionStatus is Normal, Liq or Adl.
	PositionStatus string `json:"positionStatus"`
	CreatedTime    string `json:"createdTime"`
	UpdatedTime    string `json:"updatedTime"`
}

func (p *Position) SizeDecimal() (*apd.Decimal, error) { return core.ParseDecimal(p.Size) }

// LiqPriceDecimal returns nil for unified accounts, which report "".
func (p *Position) LiqPriceDecimal() (*apd.Decimal, error) { return core.ParseDecimal(p.LiqPrice) }

// Execution is one fill of an order. A message may carry several fills of
// the same order.
type Execution struct {
	Category      string         `json:"category"`
	Symbol        string         `json:"symbol"`
	IsLeverage    string         `json:"isLeverage"`
	OrderID       string         `json:"orderId"`
	OrderLinkID   string         `json:"orderLinkId"`
	Side          core.Side      `json:"side"`
	OrderPrice    string         `json:"orderPrice"`
	OrderQty      string         `json:"orderQty"`
	LeavesQty     string         `json:"leavesQty"`
	OrderType     core.OrderType `json:"orderType"`
	StopOrderType string         `json:"stopOrderType"`
	ExecFee       string         `json:"execFee"`
	ExecID        string         `json:"execId"`
	ExecPrice     string         `json:"execPrice"`
	ExecQty       string         `json:"execQty"`
	ExecType      string         `json:"execType"`
	ExecValue     string         `json:"execValue"`
	ExecTime      string         `json:"execTime"`
	IsMaker       bool           `json:"isMaker"`
	FeeRate       string         `json:"feeRate"`
	TradeIV       string         `json:"tradeIv"`
	MarkIV        string         `json:"markIv"`
	MarkPrice     string         `json:"markPrice"`
	IndexPrice    string         `json:"indexPrice"`
	// UnderlyingPrice is set for options only.
	UnderlyingPrice string `json:"underlyingPrice"`
	BlockTradeID    string `json:"blockTradeId"`
}

func (e *Execution) ExecPriceDecimal() (*apd.Decimal, error) { return core.ParseDecimal(e.ExecPrice) }
func (e *Execution) ExecQtyDecimal() (*apd.Decimal, error)   { return core.ParseDecimal(e.ExecQty) }

// Order is one order update.
type Order struct {
	Category       string           `json:"category"`
	OrderID        string           `json:"orderId"`
	OrderLinkID    string           `json:"orderLinkId"`
	IsLeverage     string           `json:"isLeverage"`
	BlockTradeID   string           `json:"blockTradeId"`
	Symbol         string           `json:"symbol"`
	Price          string           `json:"price"`
	Qty            string           `json:"qty"`
	Side           core.Side        `json:"side"`
	PositionIdx    core.PositionIdx `json:"positionIdx"`
	OrderStatus    core.OrderStatus `json:"orderStatus"`
	CancelType     string           `json:"cancelType"`
	RejectReason   string           `json:"rejectReason"`
	AvgPrice       string           `json:"avgPrice"`
	LeavesQty      string           `json:"leavesQty"`
	LeavesValue    string           `json:"leavesValue"`
	CumExecQty     string           `json:"cumExecQty"`
	CumExecValue   string           `json:"cumExecValue"`
	CumExecFee     string           `json:"cumExecFee"`
	TimeInForce    core.TimeInForce `json:"timeInForce"`
	OrderType      core.OrderType   `json:"orderType"`
	StopOrderType  string           `json:"stopOrderType"`
	OrderIV        string           `json:"orderIv"`
	TriggerPrice   string           `json:"triggerPrice"`
	TakeProfit     string           `json:"takeProfit"`
	StopLoss       string           `json:"stopLoss"`
	// TpTriggerBy, SlTriggerBy and TriggerBy are TriggerByNone when unset.
	TpTriggerBy core.TriggerBy `json:"tpTriggerBy"`
	SlTriggerBy core.TriggerBy `json:"slTriggerBy"`
	// TriggerDirection is 1 for rise and 2 for fall.
	TriggerDirection   uint8          `json:"triggerDirection"`
	TriggerBy          core.TriggerBy `json:"triggerBy"`
	LastPriceOnCreated string         `json:"lastPriceOnCreated"`
	ReduceOnly         bool           `json:"reduceOnly"`
	CloseOnTrigger     bool           `json:"closeOnTrigger"`
	CreatedTime        string         `json:"createdTime"`
	UpdatedTime        string         `json:"updatedTime"`
}

// AvgPriceDecimal returns nil while the order is unfilled.
func (o *Order) AvgPriceDecimal() (*apd.Decimal, error) { return core.ParseDecimal(o.AvgPrice) }

func (o *Order) CumExecQtyDecimal() (*apd.Decimal, error) { return core.ParseDecimal(o.CumExecQty) }

// WalletCoin is the balance of one coin in a wallet.
type WalletCoin struct {
	Coin                string `json:"coin"`
	Equity              string `json:"equity"`
	USDValue            string `json:"usdValue"`
	WalletBalance       string `json:"walletBalance"`
	BorrowAmount        string `json:"borrowAmount"`
	AvailableToBorrow   string `json:"availableToBorrow"`
	AvailableToWithdraw string `json:"availableToWithdraw"`
	AccruedInterest     string `json:"accruedInterest"`
	TotalOrderIM        string `json:"totalOrderIM"`
	TotalPositionIM     string `json:"totalPositionIM"`
	TotalPositionMM     string `json:"totalPositionMM"`
	UnrealisedPnl       string `json:"unrealisedPnl"`
	CumRealisedPnl      string `json:"cumRealisedPnl"`
}

func (c *WalletCoin) WalletBalanceDecimal() (*apd.Decimal, error) {
	return core.ParseDecimal(c.WalletBalance)
}

// Wallet is an account balance update. The account-level totals are "" on
// non-unified accounts.
type Wallet struct {
	// AccountType is UNIFIED or CONTRACT.
	AccountType            string       `json:"accountType"`
	AccountIMRate          string       `json:"accountIMRate"`
	AccountMMRate          string       `json:"accountMMRate"`
	TotalEquity            string       `json:"totalEquity"`
	TotalWalletBalance     string       `json:"totalWalletBalance"`
	TotalMarginBalance     string       `json:"totalMarginBalance"`
	TotalAvailableBalance  string       `json:"totalAvailableBalance"`
	TotalPerpUPL           string       `json:"totalPerpUPL"`
	TotalInitialMargin     string       `json:"totalInitialMargin"`
	TotalMaintenanceMargin string       `json:"totalMaintenanceMargin"`
	Coin                   []WalletCoin `json:"coin"`
}

// Greek is the aggregated option greeks of one base coin.
type Greek struct {
	BaseCoin   string `json:"baseCoin"`
	TotalDelta string `json:"totalDelta"`
	TotalGamma string `json:"totalGamma"`
	TotalVega  string `json:"totalVega"`
	TotalTheta string `json:"totalTheta"`
}
