package stream

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"bybitasync/internal/queue"
	"bybitasync/internal/ws"
	"bybitasync/pkg/core"
)

// Session keeps one connection to a stream endpoint alive, reconnecting at a
// fixed interval, and broadcasts every decoded event to its subscribers.
//
// A session runs until every Sender, including the session's own handle,
// has been closed.
type Session[E any] struct {
	cfg      Config
	decoder  Decoder[E]
	logger   zerolog.Logger
	cmds     *commands
	own      *Sender
	registry *Registry[E]

	state      ws.State
	generation atomic.Uint64
	done       chan struct{}

	now func() time.Time
}

// NewSession validates cfg and starts the session in the background.
func NewSession[E any](cfg Config, decoder Decoder[E]) (*Session[E], error) {
	if decoder == nil {
		return nil, fmt.Errorf("%w: nil decoder", core.ErrInvalidConfig)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	cmds := newCommands()
	s := &Session[E]{
		cfg:      cfg,
		decoder:  decoder,
		logger:   cfg.Logger.With().Str("url", cfg.URL).Logger(),
		cmds:     cmds,
		own:      &Sender{cmds: cmds},
		registry: NewRegistry[E](),
		done:     make(chan struct{}),
		now:      time.Now,
	}
	s.state.Store(StateDisconnected)

	go s.run()
	return s, nil
}

// Send queues op on the session's own handle.
func (s *Session[E]) Send(op Op) error {
	return s.own.Send(op)
}

// Sender returns a new handle onto the command queue. The handle keeps the
// session alive until it is closed. Once the session has stopped the handle
// is born closed.
func (s *Session[E]) Sender() *Sender {
	sender := &Sender{cmds: s.cmds}
	if !s.cmds.acquire() {
		sender.closed.Store(true)
	}
	return sender
}

// Close releases the session's own handle.
func (s *Session[E]) Close() {
	s.own.Close()
}

// Subscribe registers and returns a new mailbox. The caller must Close the
// mailbox when it stops reading, otherwise its pump goroutine stays blocked
// on the first undelivered event.
func (s *Session[E]) Subscribe() *Mailbox[E] {
	m := NewMailbox[E]()
	s.registry.Register(m)
	return m
}

// Register adds a caller-provided endpoint.
func (s *Session[E]) Register(ep Endpoint[E]) {
	s.registry.Register(ep)
}

// Subscribers returns the number of registered endpoints.
func (s *Session[E]) Subscribers() int {
	return s.registry.Len()
}

// State returns the current lifecycle state.
func (s *Session[E]) State() ConnState {
	return s.state.Load()
}

// Generation returns the number of connection attempts made so far.
func (s *Session[E]) Generation() uint64 {
	return s.generation.Load()
}

// Done is closed once the session has stopped.
func (s *Session[E]) Done() <-chan struct{} {
	return s.done
}

func (s *Session[E]) run() {
	defer close(s.done)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-s.cmds.q.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	for !s.cmds.q.Closed() {
		gen := s.generation.Add(1)
		if s.cfg.BeforeConnect != nil {
			s.cfg.BeforeConnect(gen)
		}

		s.state.Store(StateConnecting)
		conn, err := s.cfg.Dialer.Dial(ctx, s.cfg.URL)
		if err != nil {
			if ctx.Err() == nil {
				s.logger.Warn().
					Err(&core.TransportError{Op: "dial", Err: err}).
					Uint64("generation", gen).
					Dur("retry_in", s.cfg.ReconnectInterval).
					Msg("connect failed")
			}
			s.state.Store(StateDisconnected)
			s.pause(ctx)
			continue
		}

		s.logger.Info().Uint64("generation", gen).Msg("connected")
		s.serve(gen, conn)
		s.state.Store(StateDisconnected)
		s.pause(ctx)
	}

	s.registry.Close()
	s.state.Store(StateClosed)
	queued, written := s.cmds.q.Stats()
	s.logger.Info().
		Uint64("generations", s.generation.Load()).
		Int64("commands_queued", queued).
		Int64("commands_taken", written).
		Msg("session closed")
}

// pause waits one reconnect interval or until shutdown.
func (s *Session[E]) pause(ctx context.Context) {
	if s.cmds.q.Closed() {
		return
	}
	timer := time.NewTimer(s.cfg.ReconnectInterval)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// serve runs one generation on conn and returns after the connection is
// closed and every duty has exited.
func (s *Session[E]) serve(gen uint64, conn Conn) {
	logger := s.logger.With().Uint64("generation", gen).Logger()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if creds := s.cfg.Credentials; creds != nil {
		s.state.Store(StateAuthenticating)
		if err := write(ctx, conn, Auth(creds, s.now())); err != nil {
			logger.Warn().Err(err).Msg("auth write failed")
			_ = conn.Close()
			return
		}
	}
	s.state.Store(StateLive)

	var wg sync.WaitGroup
	wg.Go(func() {
		defer cancel()
		s.inbound(ctx, conn, logger)
	})
	wg.Go(func() {
		defer cancel()
		s.outbound(ctx, conn, logger)
	})
	wg.Go(func() {
		s.heartbeat(ctx)
	})

	<-ctx.Done()
	if err := conn.Close(); err != nil {
		logger.Debug().Err(err).Msg("close connection")
	}
	wg.Wait()
	logger.Info().Msg("disconnected")
}

// inbound broadcasts every decoded frame of conn. Frames the transport had
// already buffered may still be delivered after ctx is cancelled; they are
// genuine events of this connection.
func (s *Session[E]) inbound(ctx context.Context, conn Conn, logger zerolog.Logger) {
	for {
		msg, err := conn.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() == nil {
				logger.Warn().Err(&core.TransportError{Op: "read", Err: err}).Msg("read failed")
			}
			return
		}
		if msg.Type != TextMessage {
			continue
		}

		event, err := s.decoder.Decode(msg.Data)
		if err != nil {
			logger.Warn().Err(&core.DecodeError{Payload: msg.Data, Err: err}).Msg("discarding frame")
			continue
		}
		s.registry.Broadcast(event)
	}
}

func (s *Session[E]) outbound(ctx context.Context, conn Conn, logger zerolog.Logger) {
	for ctx.Err() == nil {
		op, err := s.cmds.q.Pop(ctx)
		if err != nil {
			if errors.Is(err, queue.ErrClosed) {
				logger.Debug().Msg("all senders closed")
			}
			return
		}
		if err := write(ctx, conn, op); err != nil {
			if core.IsTransportError(err) {
				logger.Warn().Err(err).Str("op", op.Op).Msg("command dropped")
				return
			}
			logger.Error().Err(err).Str("op", op.Op).Msg("command dropped")
		}
	}
}

func (s *Session[E]) heartbeat(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.cmds.q.Push(Ping()) {
				return
			}
		}
	}
}

func write(ctx context.Context, conn Conn, op Op) error {
	data, err := op.Encode()
	if err != nil {
		return fmt.Errorf("encode %s: %w", op.Op, err)
	}
	if err := conn.WriteText(ctx, data); err != nil {
		return &core.TransportError{Op: "write", Err: err}
	}
	return nil
}
