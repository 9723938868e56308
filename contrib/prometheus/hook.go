// Package prometheus records Synthesia client requests as Prometheus metrics.
//
//	hook := prometheus.NewHook(prom.DefaultRegisterer)
//	client := synthesia.New(apiKey, synthesia.WithTelemetry(hook))
//
// Exported series, all labelled by operation:
//
//	synthesia_requests_total{operation,method,status}
//	synthesia_request_errors_total{operation,code}
//	synthesia_request_duration_seconds{operation}
//	synthesia_requests_in_flight{operation}
package prometheus

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/petal-labs/reel/core"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "synthesia"

// Option configures a Hook.
type Option func(*options)

type options struct {
	namespace string
	buckets   []float64
}

// WithNamespace replaces the "synthesia" metric prefix.
func WithNamespace(ns string) Option {
	return func(o *options) { o.namespace = ns }
}

// WithBuckets sets the duration histogram buckets, in seconds.
func WithBuckets(b []float64) Option {
	return func(o *options) {
		if len(b) > 0 {
			o.buckets = b
		}
	}
}

// Hook implements core.TelemetryHook.
type Hook struct {
	requests *prometheus.CounterVec
	errors   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight *prometheus.GaugeVec
}

// NewHook registers the request metrics on reg. A nil reg yields a hook
// that records nothing.
func NewHook(reg prometheus.Registerer, opts ...Option) *Hook {
	if reg == nil {
		return &Hook{}
	}
	o := options{
		namespace: DefaultNamespace,
		// Renders and uploads are slow; extend the default buckets upward.
		buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	}
	for _, opt := range opts {
		opt(&o)
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: o.namespace,
		Name:      "requests_total",
		Help:      "Synthesia API requests by operation, method and HTTP status.",
	}, []string{"operation", "method", "status"})
	errors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: o.namespace,
		Name:      "request_errors_total",
		Help:      "Failed Synthesia API requests by operation and error code.",
	}, []string{"operation", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: o.namespace,
		Name:      "request_duration_seconds",
		Help:      "Duration of Synthesia API requests in seconds, retries included.",
		Buckets:   o.buckets,
	}, []string{"operation"})
	inFlight := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: o.namespace,
		Name:      "requests_in_flight",
		Help:      "Synthesia API requests currently in progress.",
	}, []string{"operation"})
	reg.MustRegister(requests, errors, duration, inFlight)

	return &Hook{
		requests: requests,
		errors:   errors,
		duration: duration,
		inFlight: inFlight,
	}
}

// OnRequestStart counts the request as in flight.
func (h *Hook) OnRequestStart(e core.RequestStartEvent) {
	if h == nil || h.inFlight == nil {
		return
	}
	h.inFlight.WithLabelValues(normalizeLabel(e.Operation)).Inc()
}

// OnRequestEnd records the outcome of a request.
func (h *Hook) OnRequestEnd(e core.RequestEndEvent) {
	if h == nil || h.requests == nil {
		return
	}
	op := normalizeLabel(e.Operation)

	h.inFlight.WithLabelValues(op).Dec()
	h.requests.WithLabelValues(op, normalizeLabel(e.Method), strconv.Itoa(e.StatusCode)).Inc()
	h.duration.WithLabelValues(op).Observe(e.Duration().Seconds())

	if e.Err != nil {
		code := e.Err.Code
		if code == "" {
			code = strconv.Itoa(e.StatusCode)
		}
		h.errors.WithLabelValues(op, code).Inc()
	}
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

var _ core.TelemetryHook = (*Hook)(nil)
