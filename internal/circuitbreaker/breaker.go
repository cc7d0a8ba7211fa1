// Package circuitbreaker stops issuing REST calls after repeated transport
// failures and probes the venue again once a cool-down has elapsed.
package circuitbreaker

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrOpen is returned by Do while the breaker rejects calls.
var ErrOpen = errors.New("circuit breaker is open")

type State int32

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// Config holds the breaker thresholds. Values are validated by the owning
// client's configuration.
type Config struct {
	FailThreshold    int
	SuccessThreshold int
	Timeout          time.Duration
}

// Breaker counts consecutive failures. FailThreshold failures open it; after
// Timeout calls are let through again (half-open) and SuccessThreshold
// consecutive successes close it again. Any half-open failure reopens it.
type Breaker struct {
	cfg    Config
	now    func() time.Time
	logger zerolog.Logger

	mu        sync.Mutex
	state     State
	failures  int
	successes int
	openedAt  time.Time
	metrics   counters
}

func New(config Config) *Breaker {
	return &Breaker{
		cfg:    config,
		now:    time.Now,
		logger: zerolog.Nop(),
	}
}

func (b *Breaker) SetLogger(logger zerolog.Logger) {
	b.logger = logger
}

// Allow reports whether a call may proceed. An open breaker whose timeout
// has elapsed moves to half-open and allows the call.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.metrics.TotalRequests++
	switch b.state {
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.cfg.Timeout {
			b.metrics.RejectedRequests++
			return false
		}
		b.transitionLocked(StateHalfOpen)
		return true
	default:
		return true
	}
}

// Record reports the outcome of an allowed call.
func (b *Breaker) Record(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if success {
		b.metrics.SuccessRequests++
	} else {
		b.metrics.FailedRequests++
	}

	switch b.state {
	case StateClosed:
		if success {
			b.failures = 0
			return
		}
		b.failures++
		if b.failures >= b.cfg.FailThreshold {
			b.openLocked()
		}
	case StateHalfOpen:
		if !success {
			b.openLocked()
			return
		}
		b.successes++
		if b.successes >= b.cfg.SuccessThreshold {
			b.transitionLocked(StateClosed)
		}
	case StateOpen:
		// A call allowed before the breaker opened finished late.
		if !success {
			b.openedAt = b.now()
		}
	}
}

// Do runs fn if the breaker allows it. failed decides which errors count
// against the breaker; errors it rejects are returned but recorded as success.
func (b *Breaker) Do(fn func() error, failed func(error) bool) error {
	if !b.Allow() {
		return ErrOpen
	}
	err := fn()
	b.Record(err == nil || !failed(err))
	return err
}

func (b *Breaker) openLocked() {
	b.openedAt = b.now()
	b.transitionLocked(StateOpen)
}

func (b *Breaker) transitionLocked(state State) {
	if b.state == state {
		return
	}
	b.metrics.StateChanges++
	b.logger.Warn().
		Str("from", b.state.String()).
		Str("to", state.String()).
		Object("metrics", b.metrics).
		Msg("circuit breaker state change")

	b.state = state
	b.failures = 0
	b.successes = 0
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// counters are the lifetime totals reported with every state change.
type counters struct {
	TotalRequests    int64
	SuccessRequests  int64
	FailedRequests   int64
	RejectedRequests int64
	StateChanges     int32
}

func (c counters) MarshalZerologObject(e *zerolog.Event) {
	e.Int64("total", c.TotalRequests).
		Int64("success", c.SuccessRequests).
		Int64("failed", c.FailedRequests).
		Int64("rejected", c.RejectedRequests).
		Int32("state_changes", c.StateChanges)
}
