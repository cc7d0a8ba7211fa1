package core

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config contains the options shared by the REST client and streaming sessions.
// Credentials are deliberately not part of it so a config file never carries
// key material.
type Config struct {
	Network Network `json:"network" yaml:"network"`

	// Timeout is the maximum duration for HTTP requests.
	Timeout      time.Duration `json:"timeout" yaml:"timeout" validate:"min=1ms"`
	MaxRetries   int           `json:"max_retries" yaml:"max_retries" validate:"min=0"`
	RetryWaitMin time.Duration `json:"retry_wait_min" yaml:"retry_wait_min" validate:"min=0"`
	RetryWaitMax time.Duration `json:"retry_wait_max" yaml:"retry_wait_max" validate:"min=0"`

	// RecvWindow is the default validity tolerance of signed requests, in milliseconds.
	RecvWindow int64 `json:"recv_window" yaml:"recv_window" validate:"min=1"`

	ReconnectInterval time.Duration `json:"reconnect_interval" yaml:"reconnect_interval" validate:"min=1ms"`
	PingInterval      time.Duration `json:"ping_interval" yaml:"ping_interval" validate:"min=1ms"`

	CircuitBreakerEnabled          bool          `json:"circuit_breaker_enabled" yaml:"circuit_breaker_enabled"`
	CircuitBreakerFailThreshold    int           `json:"circuit_breaker_fail_threshold" yaml:"circuit_breaker_fail_threshold"`
	CircuitBreakerSuccessThreshold int           `json:"circuit_breaker_success_threshold" yaml:"circuit_breaker_success_threshold"`
	CircuitBreakerTimeout          time.Duration `json:"circuit_breaker_timeout" yaml:"circuit_breaker_timeout"`

	LogLevel string `json:"log_level" yaml:"log_level" validate:"omitempty,oneof=trace debug info warn error disabled"`
}

// DefaultConfig returns a Config initialized with sensible defaults.
// Default values: mainnet, 10s timeout, no retries, 5000ms recv window,
// 1s reconnect interval, 20s ping interval, circuit breaker disabled.
func DefaultConfig() *Config {
	return &Config{
		Network:      Mainnet,
		Timeout:      10 * time.Second,
		MaxRetries:   0,
		RetryWaitMin: 100 * time.Millisecond,
		RetryWaitMax: 1 * time.Second,

		RecvWindow: 5000,

		ReconnectInterval: 1 * time.Second,
		PingInterval:      20 * time.Second,

		CircuitBreakerEnabled:          false,
		CircuitBreakerFailThreshold:    5,
		CircuitBreakerSuccessThreshold: 2,
		CircuitBreakerTimeout:          30 * time.Second,

		LogLevel: "info",
	}
}

var validate = validator.New()

// Validate checks the struct tags and the circuit breaker settings. The
// returned error wraps ErrInvalidConfig.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Network != Mainnet && c.Network != Testnet {
		return fmt.Errorf("%w: unknown network %d", ErrInvalidConfig, int(c.Network))
	}
	if c.CircuitBreakerEnabled {
		if c.CircuitBreakerFailThreshold <= 0 {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.New("CircuitBreakerFailThreshold must be positive when enabled"))
		}
		if c.CircuitBreakerSuccessThreshold <= 0 {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.New("CircuitBreakerSuccessThreshold must be positive when enabled"))
		}
		if c.CircuitBreakerTimeout <= 0 {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.New("CircuitBreakerTimeout must be positive when enabled"))
		}
	}
	return nil
}

// LoadConfig reads a YAML document over DefaultConfig and validates the result.
// Keys missing from the document keep their default values.
func LoadConfig(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.NewDecoder(r).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WithNetwork sets the network and returns the config for chaining.
func (c *Config) WithNetwork(network Network) *Config {
	c.Network = network
	return c
}

// WithTimeout sets the request timeout and returns the config for chaining.
func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.Timeout = timeout
	return c
}

// WithRecvWindow sets the default recv window in milliseconds and returns the config for chaining.
func (c *Config) WithRecvWindow(ms int64) *Config {
	c.RecvWindow = ms
	return c
}

// WithCircuitBreaker enables or disables the REST circuit breaker and returns the config for chaining.
func (c *Config) WithCircuitBreaker(enabled bool) *Config {
	c.CircuitBreakerEnabled = enabled
	return c
}
