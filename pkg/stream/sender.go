package stream

import (
	"sync"
	"sync/atomic"

	"bybitasync/internal/queue"
	"bybitasync/pkg/core"
)

// commands is the outbound queue shared by every Sender of a session. The
// queue closes when the last handle is released.
type commands struct {
	q    *queue.Unbounded[Op]
	mu   sync.Mutex
	refs int
}

func newCommands() *commands {
	return &commands{q: queue.New[Op](), refs: 1}
}

func (c *commands) acquire() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.refs == 0 {
		return false
	}
	c.refs++
	return true
}

func (c *commands) release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refs--
	if c.refs == 0 {
		c.q.Close()
	}
}

// Sender is a handle for queueing commands on a session. The session keeps
// running while at least one handle is open.
type Sender struct {
	cmds   *commands
	closed atomic.Bool
}

// Send queues op behind every command sent before it.
func (s *Sender) Send(op Op) error {
	if s.closed.Load() || !s.cmds.q.Push(op) {
		return core.ErrSessionClosed
	}
	return nil
}

// Close releases the handle. Closing twice is a no-op.
func (s *Sender) Close() {
	if s.closed.CompareAndSwap(false, true) {
		s.cmds.release()
	}
}
