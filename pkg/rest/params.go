package rest

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/google/go-querystring/query"
)

// Params carries the request parameters of one call, either as a query string
// or as a JSON body. The encoded form is exactly what is signed and sent.
type Params interface {
	encode() (query string, body []byte, err error)
}

type queryParams struct{ v any }

type bodyParams struct{ v any }

// Query sends v as a URL query string. Fields are read from `url` struct tags
// and fields tagged omitempty holding a zero value, nil pointers included,
// are skipped.
func Query(v any) Params {
	return queryParams{v: v}
}

// Body sends v as a JSON request body.
func Body(v any) Params {
	return bodyParams{v: v}
}

func (p queryParams) encode() (string, []byte, error) {
	q, err := EncodeQuery(p.v)
	return q, nil, err
}

func (p bodyParams) encode() (string, []byte, error) {
	body, err := sonic.Marshal(p.v)
	if err != nil {
		return "", nil, fmt.Errorf("encode body: %w", err)
	}
	return "", body, nil
}

// EncodeQuery renders a struct as key=value pairs sorted by key. Fields are
// read from `url` struct tags; a nil v encodes to "".
func EncodeQuery(v any) (string, error) {
	values, err := query.Values(v)
	if err != nil {
		return "", fmt.Errorf("encode query: %w", err)
	}
	return values.Encode(), nil
}
