package ws

import "sync/atomic"

// ConnState represents the lifecycle state of a streaming session.
type ConnState int32

// Session lifecycle states.
const (
	// StateDisconnected indicates no transport connection is open.
	StateDisconnected ConnState = iota
	// StateConnecting indicates a dial is in progress.
	StateConnecting
	// StateAuthenticating indicates the auth operation is being written on a
	// fresh private connection.
	StateAuthenticating
	// StateLive indicates the inbound, outbound and heartbeat duties are running.
	StateLive
	// StateClosed indicates every sender was released and the session stopped.
	StateClosed
)

// String returns the string representation of the connection state.
func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateAuthenticating:
		return "authenticating"
	case StateLive:
		return "live"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// State provides thread-safe atomic access to a ConnState value.
type State struct {
	state atomic.Int32
}

// Load returns the current connection state.
func (s *State) Load() ConnState {
	return ConnState(s.state.Load())
}

// Store sets the connection state to the given value.
func (s *State) Store(state ConnState) {
	s.state.Store(int32(state))
}
