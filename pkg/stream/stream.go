// Package stream runs always-available streaming sessions against the Bybit
// v5 websocket API and fans decoded events out to registered subscribers.
package stream

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"bybitasync/internal/ws"
	"bybitasync/pkg/core"
)

type ConnState = ws.ConnState

const (
	StateDisconnected   = ws.StateDisconnected
	StateConnecting     = ws.StateConnecting
	StateAuthenticating = ws.StateAuthenticating
	StateLive           = ws.StateLive
	StateClosed         = ws.StateClosed
)

// Transport types, re-exported so callers can plug in their own dialer.
type (
	Dialer      = ws.Dialer
	DialerFunc  = ws.DialerFunc
	Conn        = ws.Conn
	Message     = ws.Message
	MessageType = ws.MessageType
)

const (
	TextMessage   = ws.TextMessage
	BinaryMessage = ws.BinaryMessage
)

// Default timings.
const (
	DefaultReconnectInterval = 1 * time.Second
	DefaultPingInterval      = 20 * time.Second
)

// Decoder turns one text frame into an event.
type Decoder[E any] interface {
	Decode(raw []byte) (E, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc[E any] func(raw []byte) (E, error)

// Decode calls f.
func (f DecoderFunc[E]) Decode(raw []byte) (E, error) {
	return f(raw)
}

// Config describes one session.
type Config struct {
	// URL is the websocket endpoint.
	URL string `validate:"required,url"`
	// Credentials makes the session private. Nil means public.
	Credentials *core.Credentials
	// ReconnectInterval is the fixed wait between connection attempts.
	ReconnectInterval time.Duration `validate:"min=0"`
	// PingInterval is the heartbeat period.
	PingInterval time.Duration `validate:"min=0"`
	// Dialer opens transport connections. Nil uses gws.
	Dialer Dialer
	Logger zerolog.Logger
	// BeforeConnect runs before every connection attempt.
	BeforeConnect func(generation uint64)
}

// DefaultConfig returns a public session config for url.
func DefaultConfig(url string) Config {
	return Config{
		URL:               url,
		ReconnectInterval: DefaultReconnectInterval,
		PingInterval:      DefaultPingInterval,
		Logger:            zerolog.Nop(),
	}
}

// Option configures a session preset.
type Option func(*Config)

// Apply runs opts against c in order.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// WithTimings copies the reconnect and ping intervals from cfg.
func WithTimings(cfg *core.Config) Option {
	return func(c *Config) {
		c.ReconnectInterval = cfg.ReconnectInterval
		c.PingInterval = cfg.PingInterval
	}
}

func WithURL(url string) Option {
	return func(c *Config) { c.URL = url }
}

func WithCredentials(creds *core.Credentials) Option {
	return func(c *Config) { c.Credentials = creds }
}

func WithReconnectInterval(d time.Duration) Option {
	return func(c *Config) { c.ReconnectInterval = d }
}

func WithPingInterval(d time.Duration) Option {
	return func(c *Config) { c.PingInterval = d }
}

func WithDialer(d Dialer) Option {
	return func(c *Config) { c.Dialer = d }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Config) { c.Logger = logger }
}

// WithBeforeConnect sets a hook run before every connection attempt.
func WithBeforeConnect(fn func(generation uint64)) Option {
	return func(c *Config) { c.BeforeConnect = fn }
}

var validate = validator.New()

func (c *Config) validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", core.ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.ReconnectInterval == 0 {
		c.ReconnectInterval = DefaultReconnectInterval
	}
	if c.PingInterval == 0 {
		c.PingInterval = DefaultPingInterval
	}
	if c.Dialer == nil {
		d := ws.NewGWSDialer()
		d.SetLogger(c.Logger)
		c.Dialer = d
	}
}
