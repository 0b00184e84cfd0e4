package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/optrack/internal/logger"
)

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestServer_HealthAllPassing(t *testing.T) {
	s := NewServer(0, "v1", logger.Nop())
	s.RegisterCheck("opnet", func(context.Context) (bool, string) { return true, "height 812" })

	rec := get(t, s.Handler(), "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var status Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "v1", status.Version)
	assert.Equal(t, Check{Healthy: true, Message: "height 812"}, status.Checks["opnet"])
}

func TestServer_Degraded(t *testing.T) {
	s := NewServer(0, "", logger.Nop())
	s.RegisterCheck("opnet", func(context.Context) (bool, string) { return true, "" })
	s.RegisterCheck("alerts", func(context.Context) (bool, string) { return false, "no check for 20m" })

	rec := get(t, s.Handler(), "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var status Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "degraded", status.Status)
	assert.False(t, status.Checks["alerts"].Healthy)

	rec = get(t, s.Handler(), "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not ready", rec.Body.String())
}

func TestServer_LiveAndMount(t *testing.T) {
	s := NewServer(0, "", logger.Nop())
	s.Mount("/events", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	assert.Equal(t, "alive", get(t, s.Handler(), "/live").Body.String())
	assert.Equal(t, "ready", get(t, s.Handler(), "/ready").Body.String())
	assert.Equal(t, http.StatusTeapot, get(t, s.Handler(), "/events").Code)
	assert.Equal(t, http.StatusNotFound, get(t, s.Handler(), "/missing").Code)
}

func TestServer_StopWithoutStart(t *testing.T) {
	s := NewServer(0, "", logger.Nop())
	assert.NoError(t, s.Stop(context.Background()))
}
