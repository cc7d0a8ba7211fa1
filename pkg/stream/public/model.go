package public

import (
	"github.com/cockroachdb/apd/v3"

	"bybitasync/pkg/core"
)

// Message is the common envelope of spot and linear topics.
type Message[T any] struct {
	Topic string `json:"topic"`
	// Type is "snapshot" or "delta".
	Type string `json:"type"`
	// TS is when the venue generated the data, in ms.
	TS   uint64 `json:"ts"`
	Data T      `json:"data"`
}

// TickerMessage is the envelope of spot and linear ticker topics.
type TickerMessage[T any] struct {
	Topic string `json:"topic"`
	Type  string `json:"type"`
	// CS is the cross sequence.
	CS   uint64 `json:"cs"`
	TS   uint64 `json:"ts"`
	Data T      `json:"data"`
}

// OptionMessage is the envelope of option topics.
type OptionMessage[T any] struct {
	ID    string `json:"id"`
	Topic string `json:"topic"`
	Type  string `json:"type"`
	TS    uint64 `json:"ts"`
	Data  T      `json:"data"`
}

// Level is one (price, size) pair of an order book side.
type Level [2]string

func (l Level) Price() string { return l[0] }
func (l Level) Size() string  { return l[1] }

func (l Level) PriceDecimal() (*apd.Decimal, error) { return core.ParseDecimal(l[0]) }
func (l Level) SizeDecimal() (*apd.Decimal, error)  { return core.ParseDecimal(l[1]) }

// Orderbook is a snapshot or delta of one symbol's book. A size of "0" in a
// delta removes the level.
type Orderbook struct {
	Symbol string `json:"s"`
	// Bids are sorted by price descending in snapshots.
	Bids []Level `json:"b"`
	// Asks are sorted by price ascending in snapshots.
	Asks []Level `json:"a"`
	// UpdateID is a sequence. An update id of 1 is a snapshot sent after a
	// service restart.
	UpdateID uint64 `json:"u"`
	// Seq is the cross sequence. Options do not carry it.
	Seq *uint64 `json:"seq"`
}

// Trade is one public fill.
type Trade struct {
	Time   uint64    `json:"T"`
	Symbol string    `json:"s"`
	Side   core.Side `json:"S"`
	Size   string    `json:"v"`
	Price  string    `json:"p"`
	// Direction is the tick direction. Futures only.
	Direction *string `json:"L"`
	TradeID   string  `json:"i"`
	Block     bool    `json:"BT"`
}

func (t *Trade) PriceDecimal() (*apd.Decimal, error) { return core.ParseDecimal(t.Price) }
func (t *Trade) SizeDecimal() (*apd.Decimal, error)  { return core.ParseDecimal(t.Size) }

// SpotTicker is a spot ticker snapshot.
type SpotTicker struct {
	Symbol        string `json:"symbol"`
	LastPrice     string `json:"lastPrice"`
	HighPrice24h  string `json:"highPrice24h"`
	LowPrice24h   string `json:"lowPrice24h"`
	PrevPrice24h  string `json:"prevPrice24h"`
	Volume24h     string `json:"volume24h"`
	Turnover24h   string `json:"turnover24h"`
	Price24hPcnt  string `json:"price24hPcnt"`
	USDIndexPrice string `json:"usdIndexPrice"`
}

func (t *SpotTicker) LastPriceDecimal() (*apd.Decimal, error) { return core.ParseDecimal(t.LastPrice) }

// FutureTicker is a linear ticker snapshot or delta. In a delta, nil fields
// did not change.
type FutureTicker struct {
	Symbol                 string  `json:"symbol"`
	TickDirection          *string `json:"tickDirection"`
	Price24hPcnt           *string `json:"price24hPcnt"`
	LastPrice              *string `json:"lastPrice"`
	PrevPrice24h           *string `json:"prevPrice24h"`
	HighPrice24h           *string `json:"highPrice24h"`
	LowPrice24h            *string `json:"lowPrice24h"`
	PrevPrice1h            *string `json:"prevPrice1h"`
	MarkPrice              *string `json:"markPrice"`
	IndexPrice             *string `json:"indexPrice"`
	OpenInterest           *string `json:"openInterest"`
	OpenInterestValue      *string `json:"openInterestValue"`
	Turnover24h            *string `json:"turnover24h"`
	Volume24h              *string `json:"volume24h"`
	NextFundingTime        *string `json:"nextFundingTime"`
	FundingRate            *string `json:"fundingRate"`
	Bid1Price              *string `json:"bid1Price"`
	Bid1Size               *string `json:"bid1Size"`
	Ask1Price              *string `json:"ask1Price"`
	Ask1Size               *string `json:"ask1Size"`
	DeliveryTime           *string `json:"deliveryTime"`
	BasisRate              *string `json:"basisRate"`
	DeliveryFeeRate        *string `json:"deliveryFeeRate"`
	PredictedDeliveryPrice *string `json:"predictedDeliveryPrice"`
}

// MarkPriceDecimal returns nil when the mark price did not change.
func (t *FutureTicker) MarkPriceDecimal() (*apd.Decimal, error) {
	if t.MarkPrice == nil {
		return nil, nil
	}
	return core.ParseDecimal(*t.MarkPrice)
}

// OptionTicker is an option ticker snapshot.
type OptionTicker struct {
	Symbol                 string `json:"symbol"`
	BidPrice               string `json:"bidPrice"`
	BidSize                string `json:"bidSize"`
	BidIV                  string `json:"bidIv"`
	AskPrice               string `json:"askPrice"`
	AskSize                string `json:"askSize"`
	AskIV                  string `json:"askIv"`
	LastPrice              string `json:"lastPrice"`
	HighPrice24h           string `json:"highPrice24h"`
	LowPrice24h            string `json:"lowPrice24h"`
	MarkPrice              string `json:"markPrice"`
	IndexPrice             string `json:"indexPrice"`
	MarkPriceIV            string `json:"markPriceIv"`
	UnderlyingPrice        string `json:"underlyingPrice"`
	OpenInterest           string `json:"openInterest"`
	Turnover24h            string `json:"turnover24h"`
	Volume24h              string `json:"volume24h"`
	TotalVolume            string `json:"totalVolume"`
	TotalTurnover          string `json:"totalTurnover"`
	Delta                  string `json:"delta"`
	Gamma                  string `json:"gamma"`
	Vega                   string `json:"vega"`
	Theta                  string `json:"theta"`
	PredictedDeliveryPrice string `json:"predictedDeliveryPrice"`
	Change24h              string `json:"change24h"`
}

// Kline is one candle. Leveraged token klines carry no volume or turnover.
type Kline struct {
	Start    uint64  `json:"start"`
	End      uint64  `json:"end"`
	Interval string  `json:"interval"`
	Open     string  `json:"open"`
	Close    string  `json:"close"`
	High     string  `json:"high"`
	Low      string  `json:"low"`
	Volume   *string `json:"volume"`
	Turnover *string `json:"turnover"`
	// Confirm is true once the candle is closed.
	Confirm   bool   `json:"confirm"`
	Timestamp uint64 `json:"timestamp"`
}

func (k *Kline) CloseDecimal() (*apd.Decimal, error) { return core.ParseDecimal(k.Close) }

// Liquidation is a forced close on a linear contract.
type Liquidation struct {
	UpdatedTime uint64    `json:"updatedTime"`
	Symbol      string    `json:"symbol"`
	Side        core.Side `json:"side"`
	Size        string    `json:"size"`
	Price       string    `json:"price"`
}

func (l *Liquidation) PriceDecimal() (*apd.Decimal, error) { return core.ParseDecimal(l.Price) }

// LtTicker is a leveraged token ticker.
type LtTicker struct {
	Symbol       string `json:"symbol"`
	Price24hPcnt string `json:"price24hPcnt"`
	LastPrice    string `json:"lastPrice"`
	PrevPrice24h string `json:"prevPrice24h"`
	HighPrice24h string `json:"highPrice24h"`
	LowPrice24h  string `json:"lowPrice24h"`
}

// LtNav is a leveraged token net asset value.
type LtNav struct {
	Time           uint64 `json:"time"`
	Symbol         string `json:"symbol"`
	Nav            string `json:"nav"`
	BasketPosition string `json:"basketPosition"`
	Leverage       string `json:"leverage"`
	BasketLoan     string `json:"basketLoan"`
	Circulation    string `json:"circulation"`
	Basket         string `json:"basket"`
}

// OptionPong is the reply to a ping on the option stream.
type OptionPong struct {
	Args [1]string `json:"args"`
	Op   string    `json:"op"`
}

// OptionSubscription is the reply to a subscribe on the option stream.
type OptionSubscription struct {
	Success bool   `json:"success"`
	ConnID  string `json:"conn_id"`
	Data    struct {
		FailTopics    []string `json:"failTopics"`
		SuccessTopics []string `json:"successTopics"`
	} `json:"data"`
	Type string `json:"type"`
}
