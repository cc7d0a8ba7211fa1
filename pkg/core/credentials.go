package core

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
)

// Credentials holds the API key and signing secret. The fields are unexported
// so a value cannot change after NewCredentials; it is safe to share between
// goroutines. Formatting, logging and JSON encoding expose only a masked key.
type Credentials struct {
	apiKey string
	secret string
}

// NewCredentials validates and wraps an API key and secret.
func NewCredentials(apiKey, secret string) (*Credentials, error) {
	if err := validate.Var(apiKey, "required,printascii,excludesall= "); err != nil {
		return nil, fmt.Errorf("%w: api key: %v", ErrInvalidCredentials, err)
	}
	if err := validate.Var(secret, "required,printascii"); err != nil {
		return nil, fmt.Errorf("%w: secret: %v", ErrInvalidCredentials, err)
	}
	return &Credentials{apiKey: apiKey, secret: secret}, nil
}

// APIKey returns the public key identifier.
func (c *Credentials) APIKey() string {
	return c.apiKey
}

// Secret returns the signing key material.
func (c *Credentials) Secret() string {
	return c.secret
}

func (c *Credentials) String() string {
	if c == nil {
		return "Credentials{}"
	}
	return fmt.Sprintf("Credentials{APIKey:%s}", maskKey(c.apiKey))
}

// GoString keeps %#v from printing the secret.
func (c *Credentials) GoString() string {
	return c.String()
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler.
func (c *Credentials) MarshalZerologObject(e *zerolog.Event) {
	e.Str("api_key", maskKey(c.apiKey))
}

// MarshalJSON never emits the secret.
func (c *Credentials) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(map[string]string{"api_key": maskKey(c.apiKey)})
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}
