// Package private provides the authenticated Bybit v5 stream carrying
// position, execution, order, wallet and greek updates.
package private

import (
	"bybitasync/internal/shape"
	"bybitasync/pkg/core"
	"bybitasync/pkg/stream"
)

// Stream endpoints.
const (
	MainnetURL = "wss://stream.bybit.com/v5/private"
	TestnetURL = "wss://stream-testnet.bybit.com/v5/private"
)

// Topics.
const (
	TopicPosition  = "position"
	TopicExecution = "execution"
	TopicOrder     = "order"
	TopicWallet    = "wallet"
	TopicGreeks    = "greeks"
)

// Kind names the variant held by an Event.
type Kind string

const (
	KindPosition  Kind = "position"
	KindExecution Kind = "execution"
	KindOrder     Kind = "order"
	KindWallet    Kind = "wallet"
	KindGreek     Kind = "greek"
	KindPong      Kind = "pong"
	KindOp        Kind = "op"
)

// Event is one decoded private frame. Exactly the field matching Kind is set.
type Event struct {
	Kind      Kind
	Position  *Message[[]Position]
	Execution *Message[[]Execution]
	Order     *Message[[]Order]
	Wallet    *Message[[]Wallet]
	Greek     *Message[[]Greek]
	Pong      *Pong
	Op        *stream.OpResponse
}

// An empty data list conforms to every list shape and so decodes as a
// position update.
var shapes = shape.NewUnion(
	shape.Case[Message[[]Position]](string(KindPosition), func(m *Message[[]Position]) Event {
		return Event{Kind: KindPosition, Position: m}
	}),
	shape.Case[Message[[]Execution]](string(KindExecution), func(m *Message[[]Execution]) Event {
		return Event{Kind: KindExecution, Execution: m}
	}),
	shape.Case[Message[[]Order]](string(KindOrder), func(m *Message[[]Order]) Event {
		return Event{Kind: KindOrder, Order: m}
	}),
	shape.Case[Message[[]Wallet]](string(KindWallet), func(m *Message[[]Wallet]) Event {
		return Event{Kind: KindWallet, Wallet: m}
	}),
	shape.Case[Message[[]Greek]](string(KindGreek), func(m *Message[[]Greek]) Event {
		return Event{Kind: KindGreek, Greek: m}
	}),
	shape.Case[Pong](string(KindPong), func(m *Pong) Event {
		return Event{Kind: KindPong, Pong: m}
	}),
	shape.Case[stream.OpResponse](string(KindOp), func(m *stream.OpResponse) Event {
		return Event{Kind: KindOp, Op: m}
	}),
)

// Decode parses one private frame.
func Decode(raw []byte) (Event, error) { return shapes.Decode(raw) }

// URL returns the private endpoint of network.
func URL(network core.Network) string { return network.Pick(MainnetURL, TestnetURL) }

// Session is an authenticated stream session.
type Session = stream.Session[Event]

// NewSession connects an authenticated session in the background. Every
// connection, including reconnects, authenticates before any queued command
// is written.
func NewSession(network core.Network, creds *core.Credentials, opts ...stream.Option) (*Session, error) {
	if creds == nil {
		return nil, core.ErrNoCredentials
	}
	cfg := stream.DefaultConfig(URL(network))
	cfg.Apply(opts...)
	cfg.Credentials = creds
	return stream.NewSession[Event](cfg, shapes)
}
