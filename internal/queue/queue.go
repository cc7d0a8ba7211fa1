// Package queue provides an unbounded, closable FIFO used for outbound
// commands and subscriber mailboxes.
package queue

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Pop once the queue is closed and drained.
var ErrClosed = errors.New("queue closed")

// Unbounded is a many-producer, single-consumer FIFO. Push never blocks;
// memory grows with the backlog.
type Unbounded[T any] struct {
	mu     sync.Mutex
	items  []T
	closed bool

	notify chan struct{}
	done   chan struct{}

	totalPushed int64
	totalPopped int64
}

// New creates an empty queue.
func New[T any]() *Unbounded[T] {
	return &Unbounded[T]{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Push appends an item. It returns false if the queue is closed.
func (q *Unbounded[T]) Push(item T) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, item)
	q.totalPushed++
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
	return true
}

// Pop removes the oldest item, blocking until one is available, the queue is
// closed and drained, or ctx is done.
func (q *Unbounded[T]) Pop(ctx context.Context) (T, error) {
	var zero T
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			item := q.items[0]
			q.items[0] = zero
			q.items = q.items[1:]
			if len(q.items) == 0 {
				q.items = nil
			}
			q.totalPopped++
			q.mu.Unlock()
			return item, nil
		}
		closed := q.closed
		q.mu.Unlock()

		if closed {
			return zero, ErrClosed
		}

		select {
		case <-q.notify:
		case <-q.done:
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
}

// Close marks the queue closed. Items already queued can still be popped.
// Close is idempotent.
func (q *Unbounded[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.done)
}

// Done is closed when the queue is closed.
func (q *Unbounded[T]) Done() <-chan struct{} {
	return q.done
}

// Closed reports whether Close has been called.
func (q *Unbounded[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Len returns the number of queued items.
func (q *Unbounded[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Stats returns the total number of pushed and popped items.
func (q *Unbounded[T]) Stats() (pushed, popped int64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.totalPushed, q.totalPopped
}
