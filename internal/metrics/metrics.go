// Package metrics exposes Prometheus instrumentation for the API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the API.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	ledgerWrites    *prometheus.CounterVec
}

// New creates a dedicated Prometheus registry and registers all application
// metrics in it. Using a private registry avoids "duplicate collector"
// panics when New is called more than once (e.g. in tests).
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "qp_request_duration_seconds",
				Help:    "Duration of HTTP requests by route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qp_requests_total",
				Help: "Total HTTP requests processed.",
			},
			[]string{"route", "status"},
		),
		ledgerWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qp_ledger_writes_total",
				Help: "Total balance/profit mutations by operation.",
			},
			[]string{"operation"},
		),
	}
}

// ObserveRequest records one handled HTTP request.
func (m *Metrics) ObserveRequest(route, status string, seconds float64) {
	m.requestDuration.WithLabelValues(route).Observe(seconds)
	m.requestsTotal.WithLabelValues(route, status).Inc()
}

// CountLedgerWrite records one balance or profit mutation. Safe to call on
// a nil receiver so service tests can run without a registry.
func (m *Metrics) CountLedgerWrite(operation string) {
	if m == nil {
		return
	}
	m.ledgerWrites.WithLabelValues(operation).Inc()
}
