package rest

import (
	"github.com/cockroachdb/apd/v3"

	"bybitasync/pkg/core"
)

// PlaceOrderRequest is the body of /v5/order/create.
type PlaceOrderRequest struct {
	Category         string            `json:"category"`
	Symbol           string            `json:"symbol"`
	IsLeverage       *int              `json:"isLeverage,omitempty"`
	Side             core.Side         `json:"side"`
	OrderType        core.OrderType    `json:"orderType"`
	Qty              string            `json:"qty"`
	Price            *string           `json:"price,omitempty"`
	TriggerDirection *int              `json:"triggerDirection,omitempty"`
	OrderFilter      *string           `json:"orderFilter,omitempty"`
	TriggerPrice     *string           `json:"triggerPrice,omitempty"`
	TriggerBy        *core.TriggerBy   `json:"triggerBy,omitempty"`
	OrderIv          *string           `json:"orderIv,omitempty"`
	TimeInForce      *core.TimeInForce `json:"timeInForce,omitempty"`
	PositionIdx      *core.PositionIdx `json:"positionIdx,omitempty"`
	OrderLinkID      *string           `json:"orderLinkId,omitempty"`
	TakeProfit       *string           `json:"takeProfit,omitempty"`
	StopLoss         *string           `json:"stopLoss,omitempty"`
	TpTriggerBy      *core.TriggerBy   `json:"tpTriggerBy,omitempty"`
	SlTriggerBy      *core.TriggerBy   `json:"slTriggerBy,omitempty"`
	ReduceOnly       *bool             `json:"reduceOnly,omitempty"`
	CloseOnTrigger   *bool             `json:"closeOnTrigger,omitempty"`
	SmpType          *string           `json:"smpType,omitempty"`
	Mmp              *bool             `json:"mmp,omitempty"`
}

// NewLimitOrder builds a GTC limit order.
func NewLimitOrder(category core.Category, symbol string, side core.Side, qty, price *apd.Decimal) *PlaceOrderRequest {
	p := core.FormatDecimal(price)
	tif := core.TimeInForceGTC
	return &PlaceOrderRequest{
		Category:    category.String(),
		Symbol:      symbol,
		Side:        side,
		OrderType:   core.OrderTypeLimit,
		Qty:         core.FormatDecimal(qty),
		Price:       &p,
		TimeInForce: &tif,
	}
}

// NewMarketOrder builds a market order.
func NewMarketOrder(category core.Category, symbol string, side core.Side, qty *apd.Decimal) *PlaceOrderRequest {
	return &PlaceOrderRequest{
		Category:  category.String(),
		Symbol:    symbol,
		Side:      side,
		OrderType: core.OrderTypeMarket,
		Qty:       core.FormatDecimal(qty),
	}
}

// WithOrderLinkID sets the caller's order id and returns the request for chaining.
func (r *PlaceOrderRequest) WithOrderLinkID(id string) *PlaceOrderRequest {
	r.OrderLinkID = &id
	return r
}

// WithReduceOnly marks the order reduce-only and returns the request for chaining.
func (r *PlaceOrderRequest) WithReduceOnly() *PlaceOrderRequest {
	v := true
	r.ReduceOnly = &v
	return r
}

type PlaceOrderResponse struct {
	OrderID     string `json:"orderId"`
	OrderLinkID string `json:"orderLinkId"`
}

// CancelOrderRequest is the body of /v5/order/cancel. One of OrderID or
// OrderLinkID is required by the venue.
type CancelOrderRequest struct {
	Category    string  `json:"category"`
	Symbol      string  `json:"symbol"`
	OrderID     *string `json:"orderId,omitempty"`
	OrderLinkID *string `json:"orderLinkId,omitempty"`
	OrderFilter *string `json:"orderFilter,omitempty"`
}

type CancelOrderResponse struct {
	OrderID     string `json:"orderId"`
	OrderLinkID string `json:"orderLinkId"`
}

// CancelAllOrderRequest is the body of /v5/order/cancel-all.
type CancelAllOrderRequest struct {
	Category      string  `json:"category"`
	Symbol        *string `json:"symbol,omitempty"`
	BaseCoin      *string `json:"baseCoin,omitempty"`
	SettleCoin    *string `json:"settleCoin,omitempty"`
	OrderFilter   *string `json:"orderFilter,omitempty"`
	StopOrderType *string `json:"stopOrderType,omitempty"`
}

type CancelAllOrderResponse struct {
	List    []CancelOrderResponse `json:"list"`
	Success string                `json:"success"`
}

// InstrumentsInfoRequest is the query of /v5/market/instruments-info.
type InstrumentsInfoRequest struct {
	Category string  `url:"category"`
	Symbol   *string `url:"symbol,omitempty"`
	Status   *string `url:"status,omitempty"`
	BaseCoin *string `url:"baseCoin,omitempty"`
	Limit    *int    `url:"limit,omitempty"`
	Cursor   *string `url:"cursor,omitempty"`
}

type InstrumentsInfoResponse struct {
	Category       string       `json:"category"`
	NextPageCursor string       `json:"nextPageCursor"`
	List           []Instrument `json:"list"`
}

// Instrument is one listing. Fields that only some categories carry are
// empty for the others.
type Instrument struct {
	Symbol          string          `json:"symbol"`
	ContractType    string          `json:"contractType,omitempty"`
	OptionsType     string          `json:"optionsType,omitempty"`
	Status          string          `json:"status"`
	BaseCoin        string          `json:"baseCoin"`
	QuoteCoin       string          `json:"quoteCoin"`
	SettleCoin      string          `json:"settleCoin,omitempty"`
	LaunchTime      string          `json:"launchTime,omitempty"`
	DeliveryTime    string          `json:"deliveryTime,omitempty"`
	DeliveryFeeRate string          `json:"deliveryFeeRate,omitempty"`
	PriceScale      string          `json:"priceScale,omitempty"`
	FundingInterval int             `json:"fundingInterval,omitempty"`
	Innovation      string          `json:"innovation,omitempty"`
	MarginTrading   string          `json:"marginTrading,omitempty"`
	LeverageFilter  *LeverageFilter `json:"leverageFilter,omitempty"`
	PriceFilter     PriceFilter     `json:"priceFilter"`
	LotSizeFilter   LotSizeFilter   `json:"lotSizeFilter"`
}

type LeverageFilter struct {
	MinLeverage  string `json:"minLeverage"`
	MaxLeverage  string `json:"maxLeverage"`
	LeverageStep string `json:"leverageStep"`
}

type PriceFilter struct {
	MinPrice string `json:"minPrice,omitempty"`
	MaxPrice string `json:"maxPrice,omitempty"`
	TickSize string `json:"tickSize"`
}

// TickSizeDecimal returns the price increment, or nil when absent.
func (f PriceFilter) TickSizeDecimal() (*apd.Decimal, error) {
	return core.ParseDecimal(f.TickSize)
}

type LotSizeFilter struct {
	BasePrecision    string `json:"basePrecision,omitempty"`
	QuotePrecision   string `json:"quotePrecision,omitempty"`
	MinOrderQty      string `json:"minOrderQty"`
	MaxOrderQty      string `json:"maxOrderQty"`
	MinOrderAmt      string `json:"minOrderAmt,omitempty"`
	MaxOrderAmt      string `json:"maxOrderAmt,omitempty"`
	QtyStep          string `json:"qtyStep,omitempty"`
	MinNotionalValue string `json:"minNotionalValue,omitempty"`
}
