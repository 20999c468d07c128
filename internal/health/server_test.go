package health

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthAndLive(t *testing.T) {
	s := NewServer(Config{ServiceName: "p10-watch", Version: "1.2.3"})
	h := s.Handler()

	rec := get(t, h, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "p10-watch", resp.Service)
	assert.Equal(t, "1.2.3", resp.Version)

	assert.Equal(t, http.StatusOK, get(t, h, "/live").Code)
}

func TestReadyChecks(t *testing.T) {
	apiErr := errors.New("circuit open")
	apiHealthy := true
	s := NewServer(Config{
		ServiceName: "p10-watch",
		Checks: map[string]Checker{
			"api": CheckFunc(func(context.Context) error {
				if apiHealthy {
					return nil
				}
				return apiErr
			}),
		},
	})
	h := s.Handler()

	rec := get(t, h, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code, "not ready until marked")

	s.SetReady(true)
	rec = get(t, h, "/ready")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ReadyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, map[string]string{"service": "ok", "api": "ok"}, resp.Checks)

	apiHealthy = false
	rec = get(t, h, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "not_ready", resp.Status)
	assert.Equal(t, "error: circuit open", resp.Checks["api"])
}

func TestMetricsEndpoint(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "p10_up 1\n")
	})
	h := NewServer(Config{Metrics: metrics, MetricsPath: "/prom"}).Handler()

	rec := get(t, h, "/prom")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "p10_up 1\n", rec.Body.String())

	assert.Equal(t, http.StatusNotFound, get(t, NewServer(Config{}).Handler(), "/metrics").Code)
}

func TestStartAndShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewServer(Config{ServiceName: "p10-watch", Address: "127.0.0.1:0", ShutdownTimeout: time.Second})
	assert.Empty(t, s.Addr())
	require.NoError(t, s.Start(ctx))

	resp, err := http.Get("http://" + s.Addr() + "/live")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, s.Shutdown())
	_, err = http.Get("http://" + s.Addr() + "/live")
	assert.Error(t, err)
}

func TestStartAddressInUse(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := NewServer(Config{Address: "127.0.0.1:0"})
	require.NoError(t, first.Start(ctx))
	defer first.Shutdown()

	second := NewServer(Config{Address: first.Addr()})
	assert.Error(t, second.Start(ctx))
}

func TestShutdownBeforeStart(t *testing.T) {
	assert.NoError(t, NewServer(Config{}).Shutdown())
}
