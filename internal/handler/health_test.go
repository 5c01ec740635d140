package handler_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/farm-logbook/backend/internal/handler"
)

// TestGetHealth verifies that GET /healthz returns 200 with {"status":"ok"}.
// It runs through the real chi router, the same wiring main.go uses.
func TestGetHealth(t *testing.T) {
	deps := newDeps(t)
	deps.Store = &mockPinger{}

	rec := get(deps, "/healthz")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetHealth_withoutStore(t *testing.T) {
	rec := get(newDeps(t), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetHealth_storeDown(t *testing.T) {
	deps := newDeps(t)
	deps.Store = &mockPinger{err: errors.New("connection refused")}

	rec := get(deps, "/healthz")

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "store_unavailable", decode[handler.ErrorResponse](t, rec).Error.Code)
}

func TestGetOpenAPI(t *testing.T) {
	rec := get(newDeps(t), "/openapi.yaml")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "openapi: 3.0.3")
	assert.Contains(t, rec.Body.String(), "/search:")
}

func TestMetrics_mountedWhenProvided(t *testing.T) {
	deps := newDeps(t)
	assert.Equal(t, http.StatusNotFound, get(deps, "/metrics").Code)

	deps.Metrics = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("farmlog_searches_total 0\n"))
	})
	rec := get(deps, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "farmlog_searches_total")
}
