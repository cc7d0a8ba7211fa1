package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() zerolog.Logger {
	return zerolog.Nop()
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(&Config{
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
		Headers: map[string]string{"User-Agent": "bybitasync-test"},
	}, newTestLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewClient_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{"missing url", Config{Timeout: time.Second}},
		{"bad url", Config{BaseURL: "not a url", Timeout: time.Second}},
		{"zero timeout", Config{BaseURL: "https://api.bybit.com"}},
		{"negative retries", Config{BaseURL: "https://api.bybit.com", Timeout: time.Second, MaxRetries: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(&tt.config, newTestLogger())
			assert.Error(t, err)
		})
	}
}

func TestClient_GetKeepsRawQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v5/market/instruments-info", r.URL.Path)
		assert.Equal(t, "symbol=BTCUSDT&category=linear", r.URL.RawQuery)
		assert.Equal(t, "bybitasync-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"retCode":0}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	resp, err := client.Do(context.Background(), &Request{
		Method:   http.MethodGet,
		Path:     "/v5/market/instruments-info",
		RawQuery: "symbol=BTCUSDT&category=linear",
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, resp.IsError())
	assert.JSONEq(t, `{"retCode":0}`, string(resp.Body))
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
}

func TestClient_PostSendsExactBody(t *testing.T) {
	body := []byte(`{"symbol":"BTCUSDT","category":"linear"}`)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "signature", r.Header.Get("X-Test-Sign"))

		got, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.Equal(t, body, got)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	resp, err := client.Do(context.Background(), &Request{
		Method:  http.MethodPost,
		Path:    "/v5/order/create",
		Body:    body,
		Headers: map[string]string{"X-Test-Sign": "signature"},
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestClient_UnsupportedMethod(t *testing.T) {
	client := newTestClient(t, "https://api.bybit.com")

	_, err := client.Do(context.Background(), &Request{Method: "TRACE", Path: "/"})
	assert.ErrorContains(t, err, "unsupported http method")
}

func TestClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := newTestClient(t, url)
	_, err := client.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/"})
	assert.Error(t, err)
}

func TestClient_Close(t *testing.T) {
	client := newTestClient(t, "https://api.bybit.com")

	require.NoError(t, client.Close())
	require.NoError(t, client.Close())

	_, err := client.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/"})
	assert.ErrorIs(t, err, ErrClientClosed)
}

func TestResponse_Unmarshal(t *testing.T) {
	resp := &Response{
		StatusCode: 200,
		Body:       []byte(`{"name":"test","value":123}`),
	}

	var result struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	}

	err := resp.Unmarshal(&result)

	assert.NoError(t, err)
	assert.Equal(t, "test", result.Name)
	assert.Equal(t, 123, result.Value)
}

func TestResponse_IsError(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		expected   bool
	}{
		{"200 OK", 200, false},
		{"400 Bad Request", 400, true},
		{"404 Not Found", 404, true},
		{"500 Server Error", 500, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &Response{StatusCode: tt.statusCode}
			assert.Equal(t, tt.expected, resp.IsError())
		})
	}
}
