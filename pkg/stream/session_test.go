package stream

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bybitasync/internal/auth"
	"bybitasync/pkg/core"
)

const testURL = "wss://stream.test/v5/public/linear"

var errRefused = errors.New("connection refused")

type fakeConn struct {
	frames chan Message
	writes chan []byte
	failed chan struct{}
	closed chan struct{}

	failOnce  sync.Once
	closeOnce sync.Once
	writeErr  atomic.Pointer[error]
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		frames: make(chan Message, 64),
		writes: make(chan []byte, 1024),
		failed: make(chan struct{}),
		closed: make(chan struct{}),
	}
}

func (c *fakeConn) push(data string) {
	c.frames <- Message{Type: TextMessage, Data: []byte(data)}
}

// fail makes the next read return an error, as a dropped connection would.
func (c *fakeConn) fail() {
	c.failOnce.Do(func() { close(c.failed) })
}

func (c *fakeConn) failWrites(err error) {
	c.writeErr.Store(&err)
}

func (c *fakeConn) ReadMessage(ctx context.Context) (Message, error) {
	select {
	case <-c.failed:
		return Message{}, errors.New("connection reset")
	case <-c.closed:
		return Message{}, errFakeClosed
	default:
	}
	select {
	case msg := <-c.frames:
		return msg, nil
	case <-c.failed:
		return Message{}, errors.New("connection reset")
	case <-c.closed:
		return Message{}, errFakeClosed
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

func (c *fakeConn) WriteText(_ context.Context, data []byte) error {
	select {
	case <-c.closed:
		return errFakeClosed
	default:
	}
	if err := c.writeErr.Load(); err != nil {
		return *err
	}
	c.writes <- append([]byte(nil), data...)
	return nil
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

var errFakeClosed = errors.New("fake connection closed")

type dialResult struct {
	conn *fakeConn
	err  error
}

// fakeDialer hands out results in order and then blocks until shutdown.
type fakeDialer struct {
	mu      sync.Mutex
	results []dialResult
	calls   atomic.Int32
}

func newFakeDialer(results ...dialResult) *fakeDialer {
	return &fakeDialer{results: results}
}

func (d *fakeDialer) Dial(ctx context.Context, url string) (Conn, error) {
	d.calls.Add(1)
	d.mu.Lock()
	if len(d.results) == 0 {
		d.mu.Unlock()
		<-ctx.Done()
		return nil, ctx.Err()
	}
	r := d.results[0]
	d.results = d.results[1:]
	d.mu.Unlock()

	if r.err != nil {
		return nil, r.err
	}
	return r.conn, nil
}

var stringDecoder = DecoderFunc[string](func(raw []byte) (string, error) {
	if strings.HasPrefix(string(raw), "bad") {
		return "", errors.New("unknown shape")
	}
	return string(raw), nil
})

func newTestSession(t *testing.T, dialer Dialer, mutate ...func(*Config)) *Session[string] {
	t.Helper()
	cfg := DefaultConfig(testURL)
	cfg.ReconnectInterval = 10 * time.Millisecond
	cfg.PingInterval = time.Hour
	cfg.Dialer = dialer
	for _, m := range mutate {
		m(&cfg)
	}

	s, err := NewSession[string](cfg, stringDecoder)
	require.NoError(t, err)
	t.Cleanup(func() {
		s.Close()
		select {
		case <-s.Done():
		case <-time.After(2 * time.Second):
			t.Error("session did not stop")
		}
	})
	return s
}

func nextWrite(t *testing.T, conn *fakeConn) map[string]any {
	t.Helper()
	select {
	case data := <-conn.writes:
		var got map[string]any
		require.NoError(t, json.Unmarshal(data, &got))
		return got
	case <-time.After(2 * time.Second):
		t.Fatal("no command written")
		return nil
	}
}

func nextEvent[E any](t *testing.T, m *Mailbox[E]) E {
	t.Helper()
	select {
	case e, ok := <-m.C():
		require.True(t, ok, "mailbox closed")
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
		var zero E
		return zero
	}
}

func waitState(t *testing.T, s *Session[string], want ConnState) {
	t.Helper()
	require.Eventually(t, func() bool { return s.State() == want }, 2*time.Second, time.Millisecond,
		"state %s, want %s", s.State(), want)
}

func TestNewSession_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		decoder Decoder[string]
	}{
		{name: "missing_url", cfg: DefaultConfig(""), decoder: stringDecoder},
		{name: "bad_url", cfg: DefaultConfig("not a url"), decoder: stringDecoder},
		{name: "negative_interval", cfg: Config{URL: testURL, ReconnectInterval: -time.Second}, decoder: stringDecoder},
		{name: "nil_decoder", cfg: DefaultConfig(testURL)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSession(tt.cfg, tt.decoder)
			assert.ErrorIs(t, err, core.ErrInvalidConfig)
		})
	}
}

func TestSession_AuthBeforeQueuedCommands(t *testing.T) {
	creds, err := core.NewCredentials("ykd3WyNknCn1mqTjD1", "5UjnYErTJycxv9ZL4pg5v4Mqv7HS2tlA7CC8")
	require.NoError(t, err)

	conn := newFakeConn()
	dialer := newFakeDialer(dialResult{conn: conn})
	s := newTestSession(t, dialer, func(c *Config) {
		c.Credentials = creds
		c.PingInterval = 30 * time.Millisecond
	})
	require.NoError(t, s.Send(Subscribe("order")))

	authOp := nextWrite(t, conn)
	assert.Equal(t, OpAuth, authOp["op"])
	args, ok := authOp["args"].([]any)
	require.True(t, ok)
	require.Len(t, args, 3)
	assert.Equal(t, "ykd3WyNknCn1mqTjD1", args[0])

	expires, err := strconv.ParseInt(args[1].(string), 10, 64)
	require.NoError(t, err)
	assert.Greater(t, expires, time.Now().UnixMilli())
	assert.Equal(t, auth.Sign("5UjnYErTJycxv9ZL4pg5v4Mqv7HS2tlA7CC8", auth.RealtimePayload(expires)), args[2])

	sub := nextWrite(t, conn)
	assert.Equal(t, OpSubscribe, sub["op"])
	assert.Equal(t, []any{"order"}, sub["args"])

	ping := nextWrite(t, conn)
	assert.Equal(t, OpPing, ping["op"])
	assert.Equal(t, []any{}, ping["args"])

	assert.Equal(t, StateLive, s.State())
}

func TestSession_PublicSkipsAuth(t *testing.T) {
	conn := newFakeConn()
	s := newTestSession(t, newFakeDialer(dialResult{conn: conn}))
	require.NoError(t, s.Send(Subscribe("publicTrade.BTCUSDT")))

	first := nextWrite(t, conn)
	assert.Equal(t, OpSubscribe, first["op"])
}

func TestSession_CommandsAreFIFO(t *testing.T) {
	conn := newFakeConn()
	s := newTestSession(t, newFakeDialer(dialResult{conn: conn}))
	other := s.Sender()
	defer other.Close()

	const n = 200
	for i := range n {
		sender := s.own
		if i%2 == 1 {
			sender = other
		}
		require.NoError(t, sender.Send(Subscribe("t").WithReqID(strconv.Itoa(i))))
	}

	for i := range n {
		got := nextWrite(t, conn)
		assert.Equal(t, strconv.Itoa(i), got["req_id"])
	}
}

func TestSession_ReconnectAfterDialFailure(t *testing.T) {
	conn := newFakeConn()
	dialer := newFakeDialer(dialResult{err: errRefused}, dialResult{conn: conn})

	var mu sync.Mutex
	var hooks []uint64
	s := newTestSession(t, dialer, func(c *Config) {
		c.BeforeConnect = func(gen uint64) {
			mu.Lock()
			hooks = append(hooks, gen)
			mu.Unlock()
		}
	})

	waitState(t, s, StateLive)
	assert.Equal(t, uint64(2), s.Generation())
	assert.Equal(t, int32(2), dialer.calls.Load())

	mu.Lock()
	assert.Equal(t, []uint64{1, 2}, hooks)
	mu.Unlock()

	require.NoError(t, s.Send(Ping()))
	assert.Equal(t, OpPing, nextWrite(t, conn)["op"])
}

func TestSession_ReconnectAfterDropNoStaleEvents(t *testing.T) {
	first, second := newFakeConn(), newFakeConn()
	s := newTestSession(t, newFakeDialer(dialResult{conn: first}, dialResult{conn: second}))
	m := s.Subscribe()

	first.push("a")
	assert.Equal(t, "a", nextEvent(t, m))

	first.fail()
	first.push("stale")
	require.Eventually(t, func() bool { return s.Generation() == 2 && s.State() == StateLive },
		2*time.Second, time.Millisecond)
	assert.True(t, first.isClosed())

	second.push("b")
	assert.Equal(t, "b", nextEvent(t, m))
	assert.Equal(t, 0, m.Len())
}

func TestSession_QueuedCommandsSurviveReconnect(t *testing.T) {
	first, second := newFakeConn(), newFakeConn()
	s := newTestSession(t, newFakeDialer(dialResult{conn: first}, dialResult{conn: second}), func(c *Config) {
		c.ReconnectInterval = 50 * time.Millisecond
	})

	waitState(t, s, StateLive)
	first.fail()
	waitState(t, s, StateDisconnected)

	require.NoError(t, s.Send(Subscribe("tickers.BTCUSDT")))
	got := nextWrite(t, second)
	assert.Equal(t, []any{"tickers.BTCUSDT"}, got["args"])
}

func TestSession_WriteFailureDropsCommandAndReconnects(t *testing.T) {
	first, second := newFakeConn(), newFakeConn()
	s := newTestSession(t, newFakeDialer(dialResult{conn: first}, dialResult{conn: second}))
	waitState(t, s, StateLive)

	first.failWrites(errors.New("broken pipe"))
	require.NoError(t, s.Send(Subscribe("lost")))

	require.Eventually(t, func() bool { return s.Generation() == 2 && s.State() == StateLive },
		2*time.Second, time.Millisecond)

	require.NoError(t, s.Send(Subscribe("kept")))
	assert.Equal(t, []any{"kept"}, nextWrite(t, second)["args"])
}

func TestSession_DecodeFailureIsNotFatal(t *testing.T) {
	conn := newFakeConn()
	s := newTestSession(t, newFakeDialer(dialResult{conn: conn}))
	m := s.Subscribe()

	conn.push("bad frame")
	conn.frames <- Message{Type: BinaryMessage, Data: []byte("binary")}
	conn.push("good")

	assert.Equal(t, "good", nextEvent(t, m))
	assert.Equal(t, uint64(1), s.Generation())
	assert.Equal(t, StateLive, s.State())
}

func TestSession_FanOut(t *testing.T) {
	conn := newFakeConn()
	s := newTestSession(t, newFakeDialer(dialResult{conn: conn}))

	const k = 4
	boxes := make([]*Mailbox[string], k)
	for i := range boxes {
		boxes[i] = s.Subscribe()
	}
	assert.Equal(t, k, s.Subscribers())

	conn.push("e1")
	for _, m := range boxes {
		assert.Equal(t, "e1", nextEvent(t, m))
	}

	boxes[1].Close()
	assert.Equal(t, k, s.Subscribers())

	conn.push("e2")
	for i, m := range boxes {
		if i == 1 {
			continue
		}
		assert.Equal(t, "e2", nextEvent(t, m))
	}
	assert.Eventually(t, func() bool { return s.Subscribers() == k-1 }, time.Second, time.Millisecond)
}

func TestSession_CloseIsRefCounted(t *testing.T) {
	conn := newFakeConn()
	s := newTestSession(t, newFakeDialer(dialResult{conn: conn}))
	m := s.Subscribe()
	waitState(t, s, StateLive)

	sender := s.Sender()
	s.Close()
	s.Close()
	assert.ErrorIs(t, s.Send(Ping()), core.ErrSessionClosed)

	require.NoError(t, sender.Send(Subscribe("still-open")))
	assert.Equal(t, []any{"still-open"}, nextWrite(t, conn)["args"])
	assert.NotEqual(t, StateClosed, s.State())

	sender.Close()
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not stop after last sender closed")
	}

	assert.Equal(t, StateClosed, s.State())
	assert.ErrorIs(t, sender.Send(Ping()), core.ErrSessionClosed)
	assert.ErrorIs(t, s.Sender().Send(Ping()), core.ErrSessionClosed)
	assert.True(t, conn.isClosed())

	_, ok := <-m.C()
	assert.False(t, ok)
}

func TestSession_ShutdownInterruptsBackoff(t *testing.T) {
	dialer := newFakeDialer(dialResult{err: errRefused})
	s := newTestSession(t, dialer, func(c *Config) {
		c.ReconnectInterval = time.Hour
	})

	require.Eventually(t, func() bool { return dialer.calls.Load() == 1 }, time.Second, time.Millisecond)
	waitState(t, s, StateDisconnected)

	s.Close()
	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("backoff was not interrupted")
	}
	assert.Equal(t, int32(1), dialer.calls.Load())
}

func TestSession_ShutdownInterruptsDial(t *testing.T) {
	dialer := newFakeDialer()
	s := newTestSession(t, dialer)

	waitState(t, s, StateConnecting)
	s.Close()
	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("dial was not interrupted")
	}
	assert.Equal(t, StateClosed, s.State())
}
