package olsapi

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) *Config {
	return &Config{
		BaseURL:    baseURL,
		Timeout:    2 * time.Second,
		MaxRetries: 3,
		PageSize:   20,
	}
}

func TestGetRetriesOn5xxThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	body, err := c.get(context.Background(), "test", "/api/search", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGetExhaustedRetriesOn5xxFailsUpstream(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	_, err := c.get(context.Background(), "test", "/api/search", nil)
	require.ErrorIs(t, err, ErrUpstream)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGetDoesNotRetry404(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	_, err := c.get(context.Background(), "test", "/api/v2/ontologies/unknown", nil)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetDoesNotRetry4xx(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	_, err := c.get(context.Background(), "test", "/api/search", nil)
	require.ErrorIs(t, err, ErrUpstream)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetTransportFailureFailsNetwork(t *testing.T) {
	// Grab a port, then close the listener so every dial is refused.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	baseURL := "http://" + l.Addr().String()
	require.NoError(t, l.Close())

	c := NewClient(testConfig(baseURL))
	_, err = c.get(context.Background(), "test", "/api/search", nil)
	require.ErrorIs(t, err, ErrNetwork)
}

func TestGetRejectsEndpointOutsideAllowList(t *testing.T) {
	c := NewClient(testConfig("http://127.0.0.1:1"))
	_, err := c.get(context.Background(), "test", "/internal/admin", nil)
	require.ErrorIs(t, err, ErrValidation)
}

func TestEncodeIRIDoubleEncodes(t *testing.T) {
	got := encodeIRI("http://purl.obolibrary.org/obo/HP_0000118")
	// single-encoded form percent-escapes, double-encoding escapes the '%'
	assert.Equal(t, "http%253A%252F%252Fpurl.obolibrary.org%252Fobo%252FHP_0000118", got)
	assert.NotContains(t, got, "/")
}
