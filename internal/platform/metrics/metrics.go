package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	ProfilesCreated prometheus.Counter
	EventsCreated   prometheus.Counter
	EventsUpdated   prometheus.Counter
	AuditEntries    prometheus.Counter
	RequestDuration *prometheus.HistogramVec
	RequestsTotal   *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return NewWithRegistry(nil)
}

// NewWithRegistry registers metrics against a specific registry. Tests pass
// their own registry to avoid duplicate-registration panics across suites.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	if reg == nil {
		factory = promauto.With(prometheus.DefaultRegisterer)
	}
	return &Metrics{
		ProfilesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "slated_profiles_created_total",
			Help: "Total number of profiles created.",
		}),
		EventsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "slated_events_created_total",
			Help: "Total number of events created.",
		}),
		EventsUpdated: factory.NewCounter(prometheus.CounterOpts{
			Name: "slated_events_updated_total",
			Help: "Total number of event updates persisted.",
		}),
		AuditEntries: factory.NewCounter(prometheus.CounterOpts{
			Name: "slated_audit_entries_total",
			Help: "Total number of audit log entries written.",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "slated_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "slated_http_requests_total",
			Help: "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
	}
}
