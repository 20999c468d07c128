package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClientCircuitBreaker(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := DefaultHTTPClientConfig()
	cfg.RateLimit = 1000
	cfg.CircuitBreakerMax = 2
	cfg.CircuitBreakerReset = time.Hour
	client := NewHTTPClient(cfg, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, server.URL, nil)
		require.NoError(t, err)
		resp, err := client.Do(ctx, req)
		require.NoError(t, err)
		resp.Body.Close()
	}
	assert.True(t, client.IsOpen())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, server.URL, nil)
	require.NoError(t, err)
	_, err = client.Do(ctx, req)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestHTTPClientHalfOpen(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := DefaultHTTPClientConfig()
	cfg.RateLimit = 1000
	cfg.CircuitBreakerMax = 1
	cfg.CircuitBreakerReset = 10 * time.Millisecond
	client := NewHTTPClient(cfg, nil)
	ctx := context.Background()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	resp, err := client.Do(ctx, req)
	require.NoError(t, err)
	resp.Body.Close()
	require.True(t, client.IsOpen())

	time.Sleep(20 * time.Millisecond)
	fail.Store(false)

	req, _ = http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	resp, err = client.Do(ctx, req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.False(t, client.IsOpen())
}

func TestRetryPolicy(t *testing.T) {
	policy := retryPolicy()
	ctx := context.Background()

	tests := []struct {
		name   string
		ctx    context.Context
		status int
		want   bool
	}{
		{name: "query on 503", ctx: ctx, status: http.StatusServiceUnavailable, want: true},
		{name: "query on 429", ctx: ctx, status: http.StatusTooManyRequests, want: true},
		{name: "query on 400", ctx: ctx, status: http.StatusBadRequest, want: false},
		{name: "query on 200", ctx: ctx, status: http.StatusOK, want: false},
		{name: "mutation on 503", ctx: WithMutation(ctx), status: http.StatusServiceUnavailable, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			retry, err := policy(tt.ctx, &http.Response{StatusCode: tt.status}, nil)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, retry)
		})
	}

	retry, _ := policy(WithMutation(ctx), nil, assert.AnError)
	assert.False(t, retry, "mutations are not retried on network errors")
	retry, _ = policy(ctx, nil, assert.AnError)
	assert.True(t, retry)
}
