package stream

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"bybitasync/internal/auth"
	"bybitasync/pkg/core"
)

// Operation names understood by the exchange.
const (
	OpSubscribe   = "subscribe"
	OpUnsubscribe = "unsubscribe"
	OpPing        = "ping"
	OpAuth        = "auth"
)

// Op is a command sent to the exchange over a session.
type Op struct {
	ReqID string   `json:"req_id,omitempty"`
	Op    string   `json:"op"`
	Args  []string `json:"args"`
}

// Subscribe returns a subscribe command for topics.
func Subscribe(topics ...string) Op {
	return Custom(OpSubscribe, topics...)
}

// Unsubscribe returns an unsubscribe command for topics.
func Unsubscribe(topics ...string) Op {
	return Custom(OpUnsubscribe, topics...)
}

// Ping returns a heartbeat command.
func Ping() Op {
	return Custom(OpPing)
}

// Auth returns the authentication command for creds, valid for
// auth.RealtimeExpiry from now.
func Auth(creds *core.Credentials, now time.Time) Op {
	return Op{Op: OpAuth, Args: auth.AuthArgs(creds.APIKey(), creds.Secret(), now)}
}

// Custom returns a command with an arbitrary operation name.
func Custom(op string, args ...string) Op {
	if args == nil {
		args = []string{}
	}
	return Op{Op: op, Args: args}
}

// WithReqID returns a copy of o tagged with id.
func (o Op) WithReqID(id string) Op {
	o.ReqID = id
	return o
}

// NewReqID returns a fresh random request id.
func NewReqID() string {
	return uuid.NewString()
}

// Encode returns the wire form of o.
func (o Op) Encode() ([]byte, error) {
	if o.Args == nil {
		o.Args = []string{}
	}
	return sonic.Marshal(o)
}

// OpResponse acknowledges a command. Ping replies on spot and linear
// streams arrive in this form too.
type OpResponse struct {
	Success bool    `json:"success"`
	RetMsg  string  `json:"ret_msg"`
	ConnID  string  `json:"conn_id"`
	ReqID   *string `json:"req_id"`
	Op      string  `json:"op"`
}
