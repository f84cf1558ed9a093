// Package metrics exposes Prometheus counters for the dual-path repositories.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pantau"

// Recorder counts primary-store failures and fallback-path operations.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry        *prometheus.Registry
	fallbackOps     *prometheus.CounterVec
	primaryFailures *prometheus.CounterVec
}

// New creates a Recorder with its own registry, including Go runtime
// and process collectors.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Recorder{
		registry: reg,
		fallbackOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_operations_total",
			Help:      "Repository operations served by the in-process fallback dataset.",
		}, []string{"entity", "op"}),
		primaryFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "primary_failures_total",
			Help:      "Primary store attempts that failed with an infrastructure error or panic.",
		}, []string{"entity", "op"}),
	}
	reg.MustRegister(r.fallbackOps, r.primaryFailures)
	return r
}

// Fallback records one operation served by the fallback path.
func (r *Recorder) Fallback(entity, op string) {
	if r == nil {
		return
	}
	r.fallbackOps.WithLabelValues(entity, op).Inc()
}

// PrimaryFailure records one failed primary attempt.
func (r *Recorder) PrimaryFailure(entity, op string) {
	if r == nil {
		return
	}
	r.primaryFailures.WithLabelValues(entity, op).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
