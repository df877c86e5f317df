package http

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eventhandler "slated/internal/event/handler"
	"slated/internal/event/schedule"
	eventservice "slated/internal/event/service"
	eventstore "slated/internal/event/store"
	"slated/internal/eventlog"
	loghandler "slated/internal/eventlog/handler"
	logstore "slated/internal/eventlog/store"
	"slated/internal/platform/clock"
	"slated/internal/platform/metrics"
	profilehandler "slated/internal/profile/handler"
	profileservice "slated/internal/profile/service"
	profilestore "slated/internal/profile/store"
	"slated/internal/transport/http/shared"
)

func newTestRouter(t *testing.T, health HealthChecker) http.Handler {
	t.Helper()
	log := slog.New(slog.DiscardHandler)
	clk := clock.NewFixed(time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC))
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	respond := shared.NewResponder(false)

	profiles := profilestore.NewInMemoryStore()
	profileSvc := profileservice.New(profiles, clk, log)
	logSvc := eventlog.New(logstore.NewInMemoryStore(), clk, log)
	eventSvc := eventservice.New(eventstore.NewInMemoryStore(profiles), profileSvc, logSvc,
		schedule.New(clk), clk, log)

	return New(Deps{
		Logger:   log,
		Metrics:  m,
		Respond:  respond,
		Profiles: profilehandler.New(profileSvc, log, respond),
		Events:   eventhandler.New(eventSvc, log, respond),
		Logs:     loghandler.New(logSvc, log, respond),
		Health:   health,
	})
}

func TestHealthEndpoint(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		router := newTestRouter(t, func() error { return nil })
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})

	t.Run("degraded", func(t *testing.T) {
		router := newTestRouter(t, func() error { return errors.New("db down") })
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t, `{"status":"degraded"}`, rec.Body.String())
	})
}

func TestUnknownRouteEnvelope(t *testing.T) {
	router := newTestRouter(t, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Route not found"}`, rec.Body.String())
}

func TestAPIRoutesMounted(t *testing.T) {
	router := newTestRouter(t, nil)

	for _, path := range []string{"/api/profiles", "/api/events"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	}
}

func TestRequestIDPropagated(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/profiles", nil)
	req.Header.Set("X-Request-ID", "req-123")
	router.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	// Generate one observed request first.
	warm := httptest.NewRecorder()
	router.ServeHTTP(warm, httptest.NewRequest(http.MethodGet, "/api/profiles", nil))
	require.Equal(t, http.StatusOK, warm.Code)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "go_") ||
		strings.Contains(rec.Body.String(), "promhttp_"))
}
