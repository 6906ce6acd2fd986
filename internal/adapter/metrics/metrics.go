package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/V4T54L/event-admin/internal/domain"
)

// AdminMetrics holds all Prometheus metrics for the event admin service.
type AdminMetrics struct {
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	IngestSubmissions *prometheus.CounterVec
	BackendOperations *prometheus.CounterVec
}

// NewAdminMetrics creates the metrics and registers them with reg.
func NewAdminMetrics(reg prometheus.Registerer) *AdminMetrics {
	factory := promauto.With(reg)
	return &AdminMetrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "event_admin",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route and status code.",
		}, []string{"route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "event_admin",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		IngestSubmissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "event_admin",
			Subsystem: "ingest",
			Name:      "submissions_total",
			Help:      "Event submissions by outcome.",
		}, []string{"outcome"}), // outcome: accepted, rejected, invalid
		BackendOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "event_admin",
			Subsystem: "backend",
			Name:      "operations_total",
			Help:      "Search index operations by operation and result.",
		}, []string{"op", "result"}), // result: ok, not_found, error
	}
}

// ObserveBackend counts one index operation.
func (m *AdminMetrics) ObserveBackend(op string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		result = "not_found"
	default:
		result = "error"
	}
	m.BackendOperations.WithLabelValues(op, result).Inc()
}
