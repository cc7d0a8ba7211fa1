package auth

import (
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexDigest = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestSign_KnownVector(t *testing.T) {
	assert.Equal(t,
		"8b5f48702995c1598c573db1e21866a9b825d4a794d169d7060a03605796360b",
		Sign("secret", "message"),
	)
}

func TestSign_Deterministic(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		message string
	}{
		{"empty message", "secret", ""},
		{"empty secret", "", "payload"},
		{"rest payload", "5UjnYErTJycxv9ZL", "1700000000000key5000category=linear"},
		{"unicode", "sëcret", "GET/realtime1700000010000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := Sign(tt.secret, tt.message)
			second := Sign(tt.secret, tt.message)

			assert.Equal(t, first, second)
			assert.Regexp(t, hexDigest, first)
		})
	}
}

func TestSign_DifferentSecrets(t *testing.T) {
	assert.NotEqual(t, Sign("a", "message"), Sign("b", "message"))
}

func TestRESTPayload(t *testing.T) {
	tests := []struct {
		name       string
		timestamp  int64
		apiKey     string
		recvWindow int64
		params     string
		want       string
	}{
		{
			name:       "body",
			timestamp:  1658384314791,
			apiKey:     "XXXXXXXXXX",
			recvWindow: 5000,
			params:     `{"category":"option","symbol":"BTC-29JUL22-25000-C"}`,
			want:       `1658384314791XXXXXXXXXX5000{"category":"option","symbol":"BTC-29JUL22-25000-C"}`,
		},
		{
			name:       "query",
			timestamp:  1,
			apiKey:     "key",
			recvWindow: 20000,
			params:     "category=linear&symbol=BTCUSDT",
			want:       "1key20000category=linear&symbol=BTCUSDT",
		},
		{
			name:       "no params",
			timestamp:  42,
			apiKey:     "key",
			recvWindow: 1,
			want:       "42key1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RESTPayload(tt.timestamp, tt.apiKey, tt.recvWindow, tt.params))
		})
	}
}

func TestRealtimePayload(t *testing.T) {
	assert.Equal(t, "GET/realtime1700000010000", RealtimePayload(1700000010000))
}

func TestAuthArgs(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	args := AuthArgs("api-key", "secret", now)
	require.Len(t, args, 3)

	assert.Equal(t, "api-key", args[0])
	assert.Equal(t, "1700000010000", args[1])

	expires, err := strconv.ParseInt(args[1], 10, 64)
	require.NoError(t, err)
	assert.Equal(t, Sign("secret", RealtimePayload(expires)), args[2])
}

func TestMillis(t *testing.T) {
	assert.Equal(t, int64(1500), Millis(time.Unix(1, 500*int64(time.Millisecond))))
	assert.Positive(t, Millis(time.Now()))
}
