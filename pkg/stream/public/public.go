// Package public provides Bybit v5 public stream sessions for spot, linear
// and option markets.
package public

import (
	"bybitasync/internal/shape"
	"bybitasync/pkg/core"
	"bybitasync/pkg/stream"
)

// Stream endpoints.
const (
	SpotMainnetURL   = "wss://stream.bybit.com/v5/public/spot"
	SpotTestnetURL   = "wss://stream-testnet.bybit.com/v5/public/spot"
	FutureMainnetURL = "wss://stream.bybit.com/v5/public/linear"
	FutureTestnetURL = "wss://stream-testnet.bybit.com/v5/public/linear"
	OptionMainnetURL = "wss://stream.bybit.com/v5/public/option"
	OptionTestnetURL = "wss://stream-testnet.bybit.com/v5/public/option"
)

// Kind names the variant held by an event.
type Kind string

const (
	KindOrderbook    Kind = "orderbook"
	KindTrade        Kind = "trade"
	KindTicker       Kind = "ticker"
	KindKline        Kind = "kline"
	KindLtTicker     Kind = "lt_ticker"
	KindLtNav        Kind = "lt_nav"
	KindLiquidation  Kind = "liquidation"
	KindOp           Kind = "op"
	KindPong         Kind = "pong"
	KindSubscription Kind = "subscription"
)

// SpotEvent is one decoded spot frame. Exactly the field matching Kind is set.
type SpotEvent struct {
	Kind      Kind
	Orderbook *Message[Orderbook]
	Trade     *Message[[]Trade]
	Ticker    *TickerMessage[SpotTicker]
	Kline     *Message[[]Kline]
	LtTicker  *Message[LtTicker]
	LtNav     *Message[LtNav]
	Op        *stream.OpResponse
}

// FutureEvent is one decoded linear frame.
type FutureEvent struct {
	Kind        Kind
	Orderbook   *Message[Orderbook]
	Trade       *Message[[]Trade]
	Ticker      *TickerMessage[FutureTicker]
	Kline       *Message[[]Kline]
	Liquidation *Message[Liquidation]
	Op          *stream.OpResponse
}

// OptionEvent is one decoded option frame.
type OptionEvent struct {
	Kind         Kind
	Orderbook    *OptionMessage[Orderbook]
	Trade        *OptionMessage[[]Trade]
	Ticker       *OptionMessage[OptionTicker]
	Pong         *OptionPong
	Subscription *OptionSubscription
}

var spotShapes = shape.NewUnion(
	shape.Case[Message[Orderbook]](string(KindOrderbook), func(m *Message[Orderbook]) SpotEvent {
		return SpotEvent{Kind: KindOrderbook, Orderbook: m}
	}),
	shape.Case[Message[[]Trade]](string(KindTrade), func(m *Message[[]Trade]) SpotEvent {
		return SpotEvent{Kind: KindTrade, Trade: m}
	}),
	shape.Case[TickerMessage[SpotTicker]](string(KindTicker), func(m *TickerMessage[SpotTicker]) SpotEvent {
		return SpotEvent{Kind: KindTicker, Ticker: m}
	}),
	shape.Case[Message[[]Kline]](string(KindKline), func(m *Message[[]Kline]) SpotEvent {
		return SpotEvent{Kind: KindKline, Kline: m}
	}),
	shape.Case[Message[LtTicker]](string(KindLtTicker), func(m *Message[LtTicker]) SpotEvent {
		return SpotEvent{Kind: KindLtTicker, LtTicker: m}
	}),
	shape.Case[Message[LtNav]](string(KindLtNav), func(m *Message[LtNav]) SpotEvent {
		return SpotEvent{Kind: KindLtNav, LtNav: m}
	}),
	shape.Case[stream.OpResponse](string(KindOp), func(m *stream.OpResponse) SpotEvent {
		return SpotEvent{Kind: KindOp, Op: m}
	}),
)

var futureShapes = shape.NewUnion(
	shape.Case[Message[Orderbook]](string(KindOrderbook), func(m *Message[Orderbook]) FutureEvent {
		return FutureEvent{Kind: KindOrderbook, Orderbook: m}
	}),
	shape.Case[Message[[]Trade]](string(KindTrade), func(m *Message[[]Trade]) FutureEvent {
		return FutureEvent{Kind: KindTrade, Trade: m}
	}),
	shape.Case[TickerMessage[FutureTicker]](string(KindTicker), func(m *TickerMessage[FutureTicker]) FutureEvent {
		return FutureEvent{Kind: KindTicker, Ticker: m}
	}),
	shape.Case[Message[[]Kline]](string(KindKline), func(m *Message[[]Kline]) FutureEvent {
		return FutureEvent{Kind: KindKline, Kline: m}
	}),
	shape.Case[Message[Liquidation]](string(KindLiquidation), func(m *Message[Liquidation]) FutureEvent {
		return FutureEvent{Kind: KindLiquidation, Liquidation: m}
	}),
	shape.Case[stream.OpResponse](string(KindOp), func(m *stream.OpResponse) FutureEvent {
		return FutureEvent{Kind: KindOp, Op: m}
	}),
)

var optionShapes = shape.NewUnion(
	shape.Case[OptionMessage[Orderbook]](string(KindOrderbook), func(m *OptionMessage[Orderbook]) OptionEvent {
		return OptionEvent{Kind: KindOrderbook, Orderbook: m}
	}),
	shape.Case[OptionMessage[[]Trade]](string(KindTrade), func(m *OptionMessage[[]Trade]) OptionEvent {
		return OptionEvent{Kind: KindTrade, Trade: m}
	}),
	shape.Case[OptionMessage[OptionTicker]](string(KindTicker), func(m *OptionMessage[OptionTicker]) OptionEvent {
		return OptionEvent{Kind: KindTicker, Ticker: m}
	}),
	shape.Case[OptionPong](string(KindPong), func(m *OptionPong) OptionEvent {
		return OptionEvent{Kind: KindPong, Pong: m}
	}),
	shape.Case[OptionSubscription](string(KindSubscription), func(m *OptionSubscription) OptionEvent {
		return OptionEvent{Kind: KindSubscription, Subscription: m}
	}),
)

// DecodeSpot parses one spot frame.
func DecodeSpot(raw []byte) (SpotEvent, error) { return spotShapes.Decode(raw) }

// DecodeFuture parses one linear frame.
func DecodeFuture(raw []byte) (FutureEvent, error) { return futureShapes.Decode(raw) }

// DecodeOption parses one option frame.
func DecodeOption(raw []byte) (OptionEvent, error) { return optionShapes.Decode(raw) }

// SpotURL returns the spot endpoint of network.
func SpotURL(network core.Network) string { return network.Pick(SpotMainnetURL, SpotTestnetURL) }

// FutureURL returns the linear endpoint of network.
func FutureURL(network core.Network) string { return network.Pick(FutureMainnetURL, FutureTestnetURL) }

// OptionURL returns the option endpoint of network.
func OptionURL(network core.Network) string { return network.Pick(OptionMainnetURL, OptionTestnetURL) }

type (
	SpotSession   = stream.Session[SpotEvent]
	FutureSession = stream.Session[FutureEvent]
	OptionSession = stream.Session[OptionEvent]
)

// NewSpotSession connects a spot session in the background.
func NewSpotSession(network core.Network, opts ...stream.Option) (*SpotSession, error) {
	return newSession[SpotEvent](SpotURL(network), spotShapes, opts)
}

// NewFutureSession connects a linear session in the background.
func NewFutureSession(network core.Network, opts ...stream.Option) (*FutureSession, error) {
	return newSession[FutureEvent](FutureURL(network), futureShapes, opts)
}

// NewOptionSession connects an option session in the background.
func NewOptionSession(network core.Network, opts ...stream.Option) (*OptionSession, error) {
	return newSession[OptionEvent](OptionURL(network), optionShapes, opts)
}

func newSession[E any](url string, decoder stream.Decoder[E], opts []stream.Option) (*stream.Session[E], error) {
	cfg := stream.DefaultConfig(url)
	cfg.Apply(opts...)
	// Public streams never authenticate.
	cfg.Credentials = nil
	return stream.NewSession[E](cfg, decoder)
}
