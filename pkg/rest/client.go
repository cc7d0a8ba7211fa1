// Package rest is the signed and unsigned request path of the Bybit v5 API.
//
// Every call returns the venue envelope as data. Transport failures come back
// as *core.TransportError and unreadable bodies as *core.DecodeError; a
// non-zero RetCode is not an error at this layer.
package rest

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"bybitasync/internal/auth"
	"bybitasync/internal/circuitbreaker"
	"bybitasync/internal/transport"
	"bybitasync/pkg/core"
)

// REST hosts.
const (
	MainnetURL = "https://api.bybit.com"
	TestnetURL = "https://api-testnet.bybit.com"
)

// UserAgent is sent with every request.
const UserAgent = "bybitasync"

// Signed request headers.
const (
	HeaderAPIKey     = "X-BAPI-API-KEY"
	HeaderTimestamp  = "X-BAPI-TIMESTAMP"
	HeaderRecvWindow = "X-BAPI-RECV-WINDOW"
	HeaderSign       = "X-BAPI-SIGN"
)

// Client issues REST calls. It is safe for concurrent use.
type Client struct {
	http       *transport.Client
	creds      *core.Credentials
	recvWindow int64
	breaker    *circuitbreaker.Breaker
	logger     zerolog.Logger
	now        func() time.Time
}

// Option is a functional option for configuring the Client.
type Option func(*Options)

// Options holds configuration options for the Client.
type Options struct {
	BaseURL string
	Logger  zerolog.Logger
}

// WithBaseURL overrides the host picked from the config's network.
func WithBaseURL(url string) Option {
	return func(o *Options) {
		o.BaseURL = url
	}
}

// WithLogger returns an option that sets the logger for the client.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// NewClient creates a client for cfg.Network. creds may be nil, in which case
// only unsigned calls succeed.
func NewClient(cfg *core.Config, creds *core.Credentials, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	options := &Options{
		BaseURL: cfg.Network.Pick(MainnetURL, TestnetURL),
		Logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(options)
	}

	httpClient, err := transport.NewClient(&transport.Config{
		BaseURL:      options.BaseURL,
		Timeout:      cfg.Timeout,
		MaxRetries:   cfg.MaxRetries,
		RetryWaitMin: cfg.RetryWaitMin,
		RetryWaitMax: cfg.RetryWaitMax,
		Headers:      map[string]string{"User-Agent": UserAgent},
	}, options.Logger)
	if err != nil {
		return nil, fmt.Errorf("create http client: %w", err)
	}

	c := &Client{
		http:       httpClient,
		creds:      creds,
		recvWindow: cfg.RecvWindow,
		logger:     options.Logger,
		now:        time.Now,
	}

	if cfg.CircuitBreakerEnabled {
		c.breaker = circuitbreaker.New(circuitbreaker.Config{
			FailThreshold:    cfg.CircuitBreakerFailThreshold,
			SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
			Timeout:          cfg.CircuitBreakerTimeout,
		})
		c.breaker.SetLogger(options.Logger)
	}

	c.logger.Debug().
		Str("base_url", options.BaseURL).
		Str("network", cfg.Network.String()).
		Bool("signed", creds != nil).
		Msg("rest client created")

	return c, nil
}

// Close releases idle HTTP connections.
func (c *Client) Close() error {
	return c.http.Close()
}

// Execute issues an unsigned call and decodes the envelope. params may be nil.
func Execute[T any](ctx context.Context, c *Client, endpoint, method string, params Params) (*Response[T], error) {
	req, err := c.buildRequest(endpoint, method, params)
	if err != nil {
		return nil, err
	}
	return do[T](ctx, c, req)
}

// ExecuteSigned issues a call authenticated with the client's credentials.
// recvWindow is the validity tolerance in milliseconds; zero or less uses the
// configured default.
func ExecuteSigned[T any](ctx context.Context, c *Client, endpoint, method string, recvWindow int64, params Params) (*Response[T], error) {
	if c.creds == nil {
		return nil, core.ErrNoCredentials
	}
	if recvWindow <= 0 {
		recvWindow = c.recvWindow
	}

	req, err := c.buildRequest(endpoint, method, params)
	if err != nil {
		return nil, err
	}

	ts := auth.Millis(c.now())
	signed := req.RawQuery
	if req.Body != nil {
		signed = string(req.Body)
	}
	signature := auth.Sign(c.creds.Secret(), auth.RESTPayload(ts, c.creds.APIKey(), recvWindow, signed))

	req.Headers = map[string]string{
		HeaderAPIKey:     c.creds.APIKey(),
		HeaderTimestamp:  strconv.FormatInt(ts, 10),
		HeaderRecvWindow: strconv.FormatInt(recvWindow, 10),
		HeaderSign:       signature,
	}
	return do[T](ctx, c, req)
}

func (c *Client) buildRequest(endpoint, method string, params Params) (*transport.Request, error) {
	req := &transport.Request{
		Method: method,
		Path:   endpoint,
	}
	if params == nil {
		return req, nil
	}

	query, body, err := params.encode()
	if err != nil {
		return nil, fmt.Errorf("encode params for %s: %w", endpoint, err)
	}
	req.RawQuery = query
	req.Body = body
	return req, nil
}

func do[T any](ctx context.Context, c *Client, req *transport.Request) (*Response[T], error) {
	resp, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}

	var out Response[T]
	if err := resp.Unmarshal(&out); err != nil {
		if resp.IsError() {
			err = fmt.Errorf("http status %d: %w", resp.StatusCode, err)
		}
		c.logger.Warn().Err(err).
			Str("path", req.Path).
			Int("status", resp.StatusCode).
			Msg("undecodable response")
		return nil, &core.DecodeError{Payload: resp.Body, Err: err}
	}

	c.logger.Debug().
		Str("path", req.Path).
		Uint64("ret_code", out.RetCode).
		Str("ret_msg", out.RetMsg).
		Msg("rest call")
	return &out, nil
}

func (c *Client) send(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	if c.breaker == nil {
		resp, err := c.http.Do(ctx, req)
		if err != nil {
			return nil, &core.TransportError{Op: "http", Err: err}
		}
		return resp, nil
	}

	var resp *transport.Response
	err := c.breaker.Do(func() error {
		var err error
		resp, err = c.http.Do(ctx, req)
		return err
	}, func(err error) bool {
		return !errors.Is(err, context.Canceled)
	})
	if errors.Is(err, circuitbreaker.ErrOpen) {
		return nil, &core.TransportError{Op: "http", Err: core.ErrCircuitBreakerOpen}
	}
	if err != nil {
		return nil, &core.TransportError{Op: "http", Err: err}
	}
	return resp, nil
}
