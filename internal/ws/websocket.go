package ws

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lxzan/gws"
	"github.com/rs/zerolog"
)

const defaultHandshakeTimeout = 10 * time.Second

// GWSDialer dials connections with github.com/lxzan/gws.
type GWSDialer struct {
	// HandshakeTimeout bounds the opening handshake when ctx has no deadline.
	HandshakeTimeout time.Duration
	// IdleTimeout closes the connection when nothing is received for this long.
	// Zero disables it.
	IdleTimeout time.Duration
	// FrameBuffer is the number of received frames held before the read
	// loop blocks.
	FrameBuffer int

	logger zerolog.Logger
}

// NewGWSDialer creates a dialer with default options.
func NewGWSDialer() *GWSDialer {
	return &GWSDialer{
		HandshakeTimeout: defaultHandshakeTimeout,
		FrameBuffer:      64,
		logger:           zerolog.Nop(),
	}
}

// SetLogger configures the logger for connections opened by this dialer.
func (d *GWSDialer) SetLogger(logger zerolog.Logger) {
	d.logger = logger
}

// Dial opens a connection to url and starts its read loop.
func (d *GWSDialer) Dial(ctx context.Context, url string) (Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timeout := d.HandshakeTimeout
	if timeout <= 0 {
		timeout = defaultHandshakeTimeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}

	c := &gwsConn{
		url:    url,
		idle:   d.IdleTimeout,
		frames: make(chan Message, max(d.FrameBuffer, 0)),
		done:   make(chan struct{}),
		logger: d.logger,
	}

	socket, _, err := gws.NewClient(c, &gws.ClientOption{
		Addr:             url,
		HandshakeTimeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("connect websocket: %w", err)
	}
	c.socket = socket

	go socket.ReadLoop()
	return c, nil
}

// gwsConn is both the gws event handler and the Conn handed to the session.
type gwsConn struct {
	url    string
	idle   time.Duration
	socket *gws.Conn
	logger zerolog.Logger

	frames chan Message

	once sync.Once
	done chan struct{}
	mu   sync.Mutex
	err  error
}

func (c *gwsConn) shutdown(err error) {
	c.once.Do(func() {
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()
		close(c.done)
	})
}

func (c *gwsConn) closeErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *gwsConn) touch(socket *gws.Conn) {
	if c.idle > 0 {
		_ = socket.SetDeadline(time.Now().Add(c.idle))
	}
}

func (c *gwsConn) OnOpen(socket *gws.Conn) {
	c.logger.Debug().Str("url", c.url).Msg("websocket opened")
	c.touch(socket)
}

func (c *gwsConn) OnClose(socket *gws.Conn, err error) {
	if err == nil {
		err = ErrConnClosed
	}
	c.logger.Debug().Err(err).Str("url", c.url).Msg("websocket closed")
	c.shutdown(err)
}

func (c *gwsConn) OnPing(socket *gws.Conn, payload []byte) {
	c.touch(socket)
	_ = socket.WritePong(payload)
}

func (c *gwsConn) OnPong(socket *gws.Conn, payload []byte) {
	c.touch(socket)
}

func (c *gwsConn) OnMessage(socket *gws.Conn, message *gws.Message) {
	defer message.Close()
	c.touch(socket)

	kind := BinaryMessage
	if message.Opcode == gws.OpcodeText {
		kind = TextMessage
	}
	// The gws buffer is recycled on Close, so the payload is copied out.
	data := append([]byte(nil), message.Bytes()...)

	select {
	case c.frames <- Message{Type: kind, Data: data}:
	case <-c.done:
	}
}

// ReadMessage returns the next frame. Frames received before the connection
// dropped are returned before the close error, and a frame already buffered
// is returned even when ctx is done, so a caller may see up to FrameBuffer
// frames after cancelling.
func (c *gwsConn) ReadMessage(ctx context.Context) (Message, error) {
	select {
	case m := <-c.frames:
		return m, nil
	default:
	}

	select {
	case m := <-c.frames:
		return m, nil
	case <-c.done:
		select {
		case m := <-c.frames:
			return m, nil
		default:
		}
		return Message{}, c.closeErr()
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

func (c *gwsConn) WriteText(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-c.done:
		return c.closeErr()
	default:
	}
	if err := c.socket.WriteMessage(gws.OpcodeText, data); err != nil {
		return fmt.Errorf("write websocket: %w", err)
	}
	return nil
}

// Close is safe to call more than once.
func (c *gwsConn) Close() error {
	c.shutdown(ErrConnClosed)
	_ = c.socket.NetConn().Close()
	return nil
}
