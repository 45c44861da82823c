// Package metrics exposes prometheus collectors for the assessment lifecycle.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Service call outcomes
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeStale   = "stale"
)

// Recorder owns its own registry so several orchestrators (and tests) never
// collide on global registration.
type Recorder struct {
	registry *prometheus.Registry

	transitions     *prometheus.CounterVec
	serviceDuration *prometheus.HistogramVec
	failures        *prometheus.CounterVec
	staleResponses  prometheus.Counter
	httpRequests    *prometheus.CounterVec
}

// NewRecorder creates and registers every collector.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assessor_transitions_total",
				Help: "Total number of assessment state transitions",
			},
			[]string{"from", "to"},
		),
		serviceDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "assessor_service_call_duration_seconds",
				Help:    "Duration of question and report generation calls",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"service", "outcome"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assessor_failures_total",
				Help: "Total number of failures by kind",
			},
			[]string{"kind"},
		),
		staleResponses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "assessor_stale_responses_total",
				Help: "Service responses discarded because the attempt changed",
			},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assessor_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
	}

	r.registry.MustRegister(
		r.transitions,
		r.serviceDuration,
		r.failures,
		r.staleResponses,
		r.httpRequests,
		collectors.NewGoCollector(),
	)
	return r
}

// Transition counts a state change. Safe on a nil Recorder.
func (r *Recorder) Transition(from, to string) {
	if r == nil {
		return
	}
	r.transitions.WithLabelValues(from, to).Inc()
}

// ServiceCall records how long a generation call took.
func (r *Recorder) ServiceCall(service, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.serviceDuration.WithLabelValues(service, outcome).Observe(elapsed.Seconds())
}

// Failure counts a failure of the given kind (validation, generation, cache).
func (r *Recorder) Failure(kind string) {
	if r == nil {
		return
	}
	r.failures.WithLabelValues(kind).Inc()
}

// StaleResponse counts a discarded late response.
func (r *Recorder) StaleResponse() {
	if r == nil {
		return
	}
	r.staleResponses.Inc()
}

// HTTPRequest counts a served request.
func (r *Recorder) HTTPRequest(method, route, status string) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(method, route, status).Inc()
}

// Registry exposes the underlying registry for tests and custom exporters.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
