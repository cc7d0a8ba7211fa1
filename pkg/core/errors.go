package core

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of a venue return code.
type ErrorType int

// Error type constants categorize venue return codes for callers that want
// to branch on them. The executor itself never interprets return codes.
const (
	// ErrorTypeUnknown indicates an unclassified error.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeTimeout indicates the request timestamp fell outside the recv window.
	ErrorTypeTimeout
	// ErrorTypeRateLimit indicates rate limit was exceeded.
	ErrorTypeRateLimit
	// ErrorTypeAuthentication indicates invalid or expired credentials or signature.
	ErrorTypeAuthentication
	// ErrorTypeBadRequest indicates invalid request parameters.
	ErrorTypeBadRequest
	// ErrorTypeNotFound indicates the requested resource does not exist.
	ErrorTypeNotFound
	// ErrorTypeServerError indicates a server-side error.
	ErrorTypeServerError
	// ErrorTypeInsufficientFunds indicates account lacks required balance.
	ErrorTypeInsufficientFunds
	// ErrorTypeInvalidOrder indicates the order violates exchange rules.
	ErrorTypeInvalidOrder
)

// String returns the string representation of the error type.
func (t ErrorType) String() string {
	names := [...]string{
		"UNKNOWN",
		"TIMEOUT",
		"RATE_LIMIT",
		"AUTHENTICATION",
		"BAD_REQUEST",
		"NOT_FOUND",
		"SERVER_ERROR",
		"INSUFFICIENT_FUNDS",
		"INVALID_ORDER",
	}
	if t < 0 || int(t) >= len(names) {
		return "UNKNOWN"
	}
	return names[t]
}

// Sentinel errors for common error conditions.
var (
	// ErrSessionClosed is returned when sending on a session whose senders
	// have all been released. The session must be recreated.
	ErrSessionClosed = errors.New("stream session is closed")
	// ErrNoCredentials is returned by signed calls on a client built without credentials.
	ErrNoCredentials = errors.New("no credentials configured")
	// ErrInvalidCredentials is returned when the api key or secret is malformed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidConfig is returned when a configuration fails validation.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrCircuitBreakerOpen is returned when the REST circuit breaker rejects a call.
	ErrCircuitBreakerOpen = errors.New("circuit breaker is open")
)

// TransportError is a connect, read, write or HTTP failure.
type TransportError struct {
	// Op names the failed step, e.g. "dial", "read", "write" or "http".
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError is a payload that did not parse against any known shape.
type DecodeError struct {
	// Payload is the raw frame or body that failed to decode.
	Payload []byte
	Err     error
}

func (e *DecodeError) Error() string {
	const maxPayload = 256
	p := e.Payload
	if len(p) > maxPayload {
		p = p[:maxPayload]
	}
	return fmt.Sprintf("decode %q: %v", p, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// APIError is a well-formed envelope carrying a non-zero return code.
// It is never produced by the executor; callers build it with
// Response.Err when they prefer error values over data.
type APIError struct {
	Code    uint64            `json:"code"`
	Message string            `json:"message"`
	ExtInfo map[string]string `json:"ext_info,omitempty"`
}

// Error implements the error interface for APIError.
func (e *APIError) Error() string {
	return fmt.Sprintf("bybit %s (%d): %s", e.Type(), e.Code, e.Message)
}

// Type classifies the return code.
func (e *APIError) Type() ErrorType {
	return ClassifyRetCode(e.Code)
}

// IsRateLimitError returns true if the error is a rate limit violation.
// Rate limit errors should be retried after a delay.
func IsRateLimitError(err error) bool {
	return isType(err, ErrorTypeRateLimit)
}

// IsAuthenticationError returns true if the error is an authentication failure.
// Authentication errors require credential validation and are not retryable.
func IsAuthenticationError(err error) bool {
	return isType(err, ErrorTypeAuthentication)
}

// IsTimeoutError returns true if the request fell outside its recv window.
func IsTimeoutError(err error) bool {
	return isType(err, ErrorTypeTimeout)
}

// IsTerminalError returns true if the error indicates a terminal condition.
// Terminal errors should not be retried as they will not succeed.
func IsTerminalError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Type() {
	case ErrorTypeInsufficientFunds, ErrorTypeInvalidOrder, ErrorTypeNotFound:
		return true
	}
	return false
}

// IsTransportError reports whether err is a transport failure.
func IsTransportError(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr)
}

// IsDecodeError reports whether err is a decode failure.
func IsDecodeError(err error) bool {
	var dErr *DecodeError
	return errors.As(err, &dErr)
}

func isType(err error, t ErrorType) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Type() == t
	}
	return false
}
