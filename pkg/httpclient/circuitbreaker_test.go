package httpclient

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCBConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:         name,
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      50 * time.Millisecond,
		FailureRatio: 0.5,
		MinRequests:  3,
	}
}

func post(t *testing.T, d Doer, url string) (*http.Response, error) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(`{}`))
	require.NoError(t, err)
	return d.Do(context.Background(), req)
}

func TestCircuitBreaker_PassesThroughSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cb := NewCircuitBreakerClient(New(fastConfig(0)), testCBConfig("cb-ok"), discardLogger())

	resp, err := post(t, cb, server.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCircuitBreaker_ClientErrorsDoNotTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	cb := NewCircuitBreakerClient(New(fastConfig(0)), testCBConfig("cb-4xx"), discardLogger())
	for i := 0; i < 5; i++ {
		resp, err := post(t, cb, server.URL)
		require.NoError(t, err)
		resp.Body.Close()
	}
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCircuitBreaker_TripsAndRecovers(t *testing.T) {
	var healthy atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if healthy.Load() {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cb := NewCircuitBreakerClient(New(fastConfig(0)), testCBConfig("cb-trip"), discardLogger())
	for i := 0; i < 3; i++ {
		_, err := post(t, cb, server.URL)
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, cb.State())

	_, err := post(t, cb, server.URL)
	assert.ErrorIs(t, err, ErrCircuitOpen)

	healthy.Store(true)
	time.Sleep(80 * time.Millisecond)

	resp, err := post(t, cb, server.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCircuitBreaker_Fallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	called := false
	cb := NewCircuitBreakerClient(New(fastConfig(0)), testCBConfig("cb-fallback"), discardLogger()).
		WithFallback(func(ctx context.Context, err error) (*http.Response, error) {
			called = true
			assert.ErrorIs(t, err, ErrCircuitOpen)
			return nil, err
		})

	for i := 0; i < 4; i++ {
		_, _ = post(t, cb, server.URL)
	}
	assert.True(t, called)
}
