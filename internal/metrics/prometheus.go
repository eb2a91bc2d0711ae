// Package metrics exposes pipeline and run health as Prometheus metrics and
// point-in-time snapshots.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "resure"
	subsystem = "engine"
)

// Recorder records pipeline progress and HTTP traffic. It satisfies
// pipeline.Observer.
type Recorder struct {
	registry *prometheus.Registry

	phaseDuration *prometheus.HistogramVec
	phaseRows     *prometheus.CounterVec
	phaseErrors   *prometheus.CounterVec
	degraded      *prometheus.CounterVec

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewRecorder registers all metrics on a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	auto := promauto.With(reg)

	return &Recorder{
		registry: reg,
		phaseDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "phase_duration_seconds",
			Help:      "Duration of each pipeline phase.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"phase"}),
		phaseRows: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "phase_rows_total",
			Help:      "Rows processed per pipeline phase.",
		}, []string{"phase"}),
		phaseErrors: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "phase_errors_total",
			Help:      "Pipeline phases that returned an error.",
		}, []string{"phase"}),
		degraded: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "degraded_fields_total",
			Help:      "Fields that fell back to a default value, by column.",
		}, []string{"column"}),
		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		httpRequestDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// PhaseDone records one completed (or failed) pipeline phase.
func (r *Recorder) PhaseDone(phase string, rows int, d time.Duration, err error) {
	r.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
	r.phaseRows.WithLabelValues(phase).Add(float64(rows))
	if err != nil {
		r.phaseErrors.WithLabelValues(phase).Inc()
	}
}

// Degraded adds n defaulted fields for column.
func (r *Recorder) Degraded(column string, n int) {
	if n <= 0 {
		return
	}
	r.degraded.WithLabelValues(column).Add(float64(n))
}

// ObserveRequest records one HTTP request.
func (r *Recorder) ObserveRequest(route string, code int, d time.Duration) {
	r.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	r.httpRequestDuration.WithLabelValues(route).Observe(d.Seconds())
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
