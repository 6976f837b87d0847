// Package metrics exposes Prometheus collectors for roster operations.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records roster activity. The zero value is not usable; build
// one with New.
type Metrics struct {
	ops      *prometheus.CounterVec
	duration *prometheus.HistogramVec
	size     prometheus.Gauge
	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roster",
			Name:      "operations_total",
			Help:      "Roster mutations by operation and outcome.",
		}, []string{"op", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "roster",
			Name:      "operation_duration_seconds",
			Help:      "Time spent in roster mutations, including simulated latency.",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2, 5},
		}, []string{"op"}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "roster",
			Name:      "students",
			Help:      "Number of students currently on the roster.",
		}),
		gatherer: reg,
	}

	reg.MustRegister(m.ops, m.duration, m.size)
	return m
}

// Observe records one finished operation.
func (m *Metrics) Observe(op, outcome string, d time.Duration) {
	m.ops.WithLabelValues(op, outcome).Inc()
	m.duration.WithLabelValues(op).Observe(d.Seconds())
}

// SetSize records the current roster size.
func (m *Metrics) SetSize(n int) {
	m.size.Set(float64(n))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
