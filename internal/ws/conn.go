// Package ws defines the text-frame transport used by streaming sessions and
// its gws implementation.
package ws

import (
	"context"
	"errors"
)

// ErrConnClosed is returned by a Conn after it was closed locally.
var ErrConnClosed = errors.New("websocket connection closed")

// MessageType is the kind of a received frame.
type MessageType int

const (
	TextMessage MessageType = iota + 1
	BinaryMessage
)

// Message is one received data frame. Data is owned by the caller.
type Message struct {
	Type MessageType
	Data []byte
}

// Dialer opens transport connections.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// Conn is a single bidirectional connection. ReadMessage is called from one
// goroutine and WriteText from another; Close may be called from any.
type Conn interface {
	ReadMessage(ctx context.Context) (Message, error)
	WriteText(ctx context.Context, data []byte) error
	Close() error
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(ctx context.Context, url string) (Conn, error)

// Dial calls f.
func (f DialerFunc) Dial(ctx context.Context, url string) (Conn, error) {
	return f(ctx, url)
}
