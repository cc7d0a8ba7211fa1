package stream

import (
	"context"
	"sync"

	"bybitasync/internal/queue"
)

// Endpoint receives events from a session. Deliver must not block; returning
// false unregisters the endpoint.
type Endpoint[E any] interface {
	Deliver(event E) bool
}

// finisher is implemented by endpoints that want to know the session ended.
type finisher interface {
	finish()
}

// Registry is an ordered set of endpoints receiving every broadcast event.
type Registry[E any] struct {
	mu        sync.Mutex
	endpoints []Endpoint[E]
	closed    bool
}

// NewRegistry creates an empty registry.
func NewRegistry[E any]() *Registry[E] {
	return &Registry[E]{}
}

// Register adds ep. Registering on a closed registry finishes ep at once.
func (r *Registry[E]) Register(ep Endpoint[E]) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		finish(ep)
		return
	}
	r.endpoints = append(r.endpoints, ep)
	r.mu.Unlock()
}

// Broadcast delivers event to every endpoint in registration order and drops
// the ones that refuse it. It returns the number of endpoints kept.
func (r *Registry[E]) Broadcast(event E) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.endpoints[:0]
	for _, ep := range r.endpoints {
		if ep.Deliver(event) {
			kept = append(kept, ep)
		}
	}
	clear(r.endpoints[len(kept):])
	r.endpoints = kept
	return len(kept)
}

// Len returns the number of registered endpoints, including ones that will
// be dropped on the next broadcast.
func (r *Registry[E]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.endpoints)
}

// Close finishes every endpoint and rejects later registrations.
func (r *Registry[E]) Close() {
	r.mu.Lock()
	endpoints := r.endpoints
	r.endpoints = nil
	r.closed = true
	r.mu.Unlock()

	for _, ep := range endpoints {
		finish(ep)
	}
}

func finish[E any](ep Endpoint[E]) {
	if f, ok := ep.(finisher); ok {
		f.finish()
	}
}

// Mailbox is an unbounded endpoint read through a channel. A mailbox the
// reader abandons must be closed; its pump goroutine otherwise waits forever
// to hand over the next pending event.
type Mailbox[E any] struct {
	q      *queue.Unbounded[E]
	c      chan E
	ctx    context.Context
	cancel context.CancelFunc
}

// NewMailbox creates a mailbox and starts its pump.
func NewMailbox[E any]() *Mailbox[E] {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Mailbox[E]{
		q:      queue.New[E](),
		c:      make(chan E),
		ctx:    ctx,
		cancel: cancel,
	}
	go m.pump()
	return m
}

// C returns the channel events arrive on. It is closed after Close, or once
// the session has stopped and the backlog was read.
func (m *Mailbox[E]) C() <-chan E {
	return m.c
}

// Deliver queues event without blocking.
func (m *Mailbox[E]) Deliver(event E) bool {
	if m.ctx.Err() != nil {
		return false
	}
	return m.q.Push(event)
}

// Len returns the number of events not yet read from C.
func (m *Mailbox[E]) Len() int {
	return m.q.Len()
}

// Close detaches the reader. Pending events are discarded and the session
// drops the mailbox on its next broadcast.
func (m *Mailbox[E]) Close() {
	m.cancel()
	m.q.Close()
}

func (m *Mailbox[E]) finish() {
	m.q.Close()
}

func (m *Mailbox[E]) pump() {
	defer close(m.c)
	for {
		event, err := m.q.Pop(m.ctx)
		if err != nil {
			return
		}
		select {
		case m.c <- event:
		case <-m.ctx.Done():
			return
		}
	}
}
