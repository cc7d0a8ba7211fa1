// Package shape decodes untagged JSON unions. Candidates are tried in a fixed
// order and the first one whose shape the payload conforms to wins.
//
// A struct field is required unless it is a pointer or tagged omitempty.
// Required fields must be present with a compatible JSON kind; unknown keys are
// ignored. Slices and arrays are checked element by element, fixed-size arrays
// must match in length.
package shape

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
)

// ErrNoMatch is returned when a payload conforms to none of the candidates.
var ErrNoMatch = errors.New("payload matches no known shape")

// ErrInvalidJSON is returned when a payload is not well-formed JSON.
var ErrInvalidJSON = errors.New("invalid json")

// Variant is one candidate of a Union.
type Variant[E any] struct {
	Name   string
	typ    reflect.Type
	decode func([]byte) (E, error)
}

// Case builds a candidate that decodes into T and wraps the result into the
// union type E.
func Case[T, E any](name string, wrap func(*T) E) Variant[E] {
	return Variant[E]{
		Name: name,
		typ:  reflect.TypeFor[T](),
		decode: func(raw []byte) (E, error) {
			v := new(T)
			if err := sonic.Unmarshal(raw, v); err != nil {
				var zero E
				return zero, err
			}
			return wrap(v), nil
		},
	}
}

// Union is an ordered list of candidate shapes.
type Union[E any] struct {
	variants []Variant[E]
}

// NewUnion creates a union that tries variants in the given order.
func NewUnion[E any](variants ...Variant[E]) *Union[E] {
	return &Union[E]{variants: variants}
}

// Decode returns the first candidate raw conforms to and decodes cleanly into.
func (u *Union[E]) Decode(raw []byte) (E, error) {
	var zero E
	if !sonic.Valid(raw) {
		return zero, ErrInvalidJSON
	}
	for _, v := range u.variants {
		if !Conforms(raw, v.typ) {
			continue
		}
		e, err := v.decode(raw)
		if err != nil {
			continue
		}
		return e, nil
	}
	return zero, ErrNoMatch
}

// Match returns the name of the first candidate raw conforms to.
func (u *Union[E]) Match(raw []byte) (string, bool) {
	for _, v := range u.variants {
		if Conforms(raw, v.typ) {
			return v.Name, true
		}
	}
	return "", false
}

// Names lists the candidates in priority order.
func (u *Union[E]) Names() []string {
	names := make([]string, len(u.variants))
	for i, v := range u.variants {
		names[i] = v.Name
	}
	return names
}

type field struct {
	name     string
	typ      reflect.Type
	optional bool
}

var schemas sync.Map

// Conforms reports whether raw has the shape of t.
func Conforms(raw []byte, t reflect.Type) bool {
	raw = trim(raw)
	if len(raw) == 0 {
		return false
	}

	switch t.Kind() {
	case reflect.Pointer:
		if isNull(raw) {
			return true
		}
		return Conforms(raw, t.Elem())

	case reflect.Interface:
		return true

	case reflect.Struct:
		if raw[0] != '{' {
			return false
		}
		var obj map[string]json.RawMessage
		if err := sonic.Unmarshal(raw, &obj); err != nil {
			return false
		}
		for _, f := range fieldsOf(t) {
			v, ok := obj[f.name]
			if !ok {
				if f.optional {
					continue
				}
				return false
			}
			if f.optional && isNull(v) {
				continue
			}
			if !Conforms(v, f.typ) {
				return false
			}
		}
		return true

	case reflect.Map:
		if raw[0] != '{' {
			return false
		}
		var obj map[string]json.RawMessage
		if err := sonic.Unmarshal(raw, &obj); err != nil {
			return false
		}
		for _, v := range obj {
			if !Conforms(v, t.Elem()) {
				return false
			}
		}
		return true

	case reflect.Slice, reflect.Array:
		if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 && raw[0] == '"' {
			return true
		}
		if raw[0] != '[' {
			return false
		}
		var items []json.RawMessage
		if err := sonic.Unmarshal(raw, &items); err != nil {
			return false
		}
		if t.Kind() == reflect.Array && len(items) != t.Len() {
			return false
		}
		for _, item := range items {
			if !Conforms(item, t.Elem()) {
				return false
			}
		}
		return true

	case reflect.String:
		return raw[0] == '"'

	case reflect.Bool:
		return string(raw) == "true" || string(raw) == "false"

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return isNumber(raw) && !strings.ContainsAny(string(raw), ".eE")

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return isNumber(raw) && raw[0] != '-' && !strings.ContainsAny(string(raw), ".eE")

	case reflect.Float32, reflect.Float64:
		return isNumber(raw)

	default:
		return true
	}
}

func fieldsOf(t reflect.Type) []field {
	if cached, ok := schemas.Load(t); ok {
		return cached.([]field)
	}

	var fields []field
	for i := range t.NumField() {
		sf := t.Field(i)
		tag := sf.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")

		if sf.Anonymous && name == "" && sf.Type.Kind() == reflect.Struct {
			fields = append(fields, fieldsOf(sf.Type)...)
			continue
		}
		if !sf.IsExported() {
			continue
		}
		if name == "" {
			name = sf.Name
		}

		fields = append(fields, field{
			name:     name,
			typ:      sf.Type,
			optional: sf.Type.Kind() == reflect.Pointer || strings.Contains(opts, "omitempty"),
		})
	}

	actual, _ := schemas.LoadOrStore(t, fields)
	return actual.([]field)
}

func trim(raw []byte) []byte {
	start, end := 0, len(raw)
	for start < end && isSpace(raw[start]) {
		start++
	}
	for end > start && isSpace(raw[end-1]) {
		end--
	}
	return raw[start:end]
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isNull(raw []byte) bool {
	return string(trim(raw)) == "null"
}

func isNumber(raw []byte) bool {
	return raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9')
}
