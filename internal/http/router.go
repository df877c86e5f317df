// Package http assembles the full route tree: API routes, health and
// metrics endpoints, and the shared middleware chain.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	eventhandler "slated/internal/event/handler"
	loghandler "slated/internal/eventlog/handler"
	"slated/internal/platform/metrics"
	"slated/internal/platform/middleware"
	profilehandler "slated/internal/profile/handler"
	"slated/internal/transport/http/shared"
)

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker func() error

// Deps carries everything the router needs.
type Deps struct {
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Respond  *shared.Responder
	Profiles *profilehandler.Handler
	Events   *eventhandler.Handler
	Logs     *loghandler.Handler
	Health   HealthChecker
}

// New wires all routes.
func New(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.Latency(d.Metrics))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if d.Health != nil {
			if err := d.Health(); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"degraded"}`))
				return
			}
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.ContentTypeJSON)
		api.Route("/profiles", d.Profiles.Register)
		api.Route("/events", d.Events.Register)
		api.Route("/logs", d.Logs.Register)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"Route not found"}`))
	})

	return r
}
