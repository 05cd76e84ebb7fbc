// Package metrics records client-side request and ingestion metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics groups the collectors registered for one client.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal      *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
	UploadedFiles      *prometheus.CounterVec
	EventsProcessed    prometheus.Counter
	ValidationFailures *prometheus.CounterVec
	StaleResponses     *prometheus.CounterVec
}

// New registers the flowsearch collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowsearch_backend_requests_total",
				Help: "Total number of backend requests by operation and outcome",
			},
			[]string{"op", "outcome"},
		),

		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flowsearch_backend_request_duration_seconds",
				Help:    "Duration of backend requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),

		UploadedFiles: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowsearch_uploaded_files_total",
				Help: "Total number of files submitted by per-file status",
			},
			[]string{"status"},
		),

		EventsProcessed: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "flowsearch_events_processed_total",
				Help: "Total number of events the backend reported ingesting",
			},
		),

		ValidationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowsearch_query_validation_failures_total",
				Help: "Total number of searches rejected locally by reason",
			},
			[]string{"reason"},
		),

		StaleResponses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowsearch_stale_responses_total",
				Help: "Total number of responses dropped because a newer request superseded them",
			},
			[]string{"op"},
		),
	}
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest records one backend call.
func (m *Metrics) ObserveRequest(op string, started time.Time, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.RequestsTotal.WithLabelValues(op, outcome).Inc()
	m.RequestDuration.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

// WriteTextfile dumps all metrics in the Prometheus text format, for the
// node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
