package rest

import (
	"encoding/json"

	"github.com/bytedance/sonic"

	"bybitasync/pkg/core"
)

// Response is the envelope wrapping every REST reply. RetCode is the venue's
// status and is independent of the HTTP status.
type Response[T any] struct {
	RetCode    uint64            `json:"retCode"`
	RetMsg     string            `json:"retMsg"`
	Result     *T                `json:"result"`
	RetExtInfo map[string]string `json:"retExtInfo"`
	Time       uint64            `json:"time"`
}

// UnmarshalJSON decodes the envelope. A result that is null, absent or an
// empty object leaves Result nil; anything else must decode into T.
func (r *Response[T]) UnmarshalJSON(data []byte) error {
	var raw struct {
		RetCode    uint64            `json:"retCode"`
		RetMsg     string            `json:"retMsg"`
		Result     json.RawMessage   `json:"result"`
		RetExtInfo map[string]string `json:"retExtInfo"`
		Time       uint64            `json:"time"`
	}
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return err
	}

	result, err := decodeResult[T](raw.Result)
	if err != nil {
		return err
	}

	*r = Response[T]{
		RetCode:    raw.RetCode,
		RetMsg:     raw.RetMsg,
		Result:     result,
		RetExtInfo: raw.RetExtInfo,
		Time:       raw.Time,
	}
	return nil
}

func decodeResult[T any](raw json.RawMessage) (*T, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	if raw[0] == '{' {
		var obj map[string]json.RawMessage
		if err := sonic.Unmarshal(raw, &obj); err == nil && len(obj) == 0 {
			return nil, nil
		}
	}
	v := new(T)
	if err := sonic.Unmarshal(raw, v); err != nil {
		return nil, err
	}
	return v, nil
}

// OK reports whether the venue accepted the call.
func (r *Response[T]) OK() bool {
	return r.RetCode == core.RetCodeOK
}

// Err converts a non-zero return code into a *core.APIError. It returns nil
// when the call succeeded.
func (r *Response[T]) Err() error {
	if r.OK() {
		return nil
	}
	return &core.APIError{
		Code:    r.RetCode,
		Message: r.RetMsg,
		ExtInfo: r.RetExtInfo,
	}
}
