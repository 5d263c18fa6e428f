// Package metrics exposes Prometheus counters for the account operations.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	domainerrors "account/internal/domain/errors"
	"account/internal/errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "account"

var histogramBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}

// Result label values besides the lower-cased error code.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Recorder owns a private registry so several instances can coexist in one process.
type Recorder struct {
	registry        *prometheus.Registry
	registrations   *prometheus.CounterVec
	logins          *prometheus.CounterVec
	authentications *prometheus.CounterVec
	requestTotal    *prometheus.CounterVec
	requestLatency  *prometheus.HistogramVec
}

// NewRecorder creates a Recorder with Go runtime and process collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Count of registration attempts by result",
		}, []string{"result"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Count of login attempts by result",
		}, []string{"result"}),
		authentications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "authentications_total",
			Help:      "Count of token authentications by result",
		}, []string{"result"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Count of processed HTTP requests",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency distribution of HTTP handlers",
			Buckets:   histogramBuckets,
		}, []string{"method", "route", "status"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.registrations,
		r.logins,
		r.authentications,
		r.requestTotal,
		r.requestLatency,
	)

	return r
}

// ObserveRegistration counts one registration outcome.
func (r *Recorder) ObserveRegistration(err error) {
	r.registrations.WithLabelValues(ResultLabel(err)).Inc()
}

// ObserveLogin counts one login outcome.
func (r *Recorder) ObserveLogin(err error) {
	r.logins.WithLabelValues(ResultLabel(err)).Inc()
}

// ObserveAuthentication counts one authentication outcome.
func (r *Recorder) ObserveAuthentication(err error) {
	r.authentications.WithLabelValues(ResultLabel(err)).Inc()
}

// ObserveRequest records count and latency of one HTTP request.
func (r *Recorder) ObserveRequest(method, route string, status int, duration time.Duration) {
	labels := prometheus.Labels{
		"method": method,
		"route":  route,
		"status": strconv.Itoa(status),
	}
	r.requestTotal.With(labels).Inc()
	r.requestLatency.With(labels).Observe(duration.Seconds())
}

// Registry returns the registry backing this recorder.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// ResultLabel maps an outcome to a bounded label value.
func ResultLabel(err error) string {
	if err == nil {
		return ResultSuccess
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) && appErr.HTTPCode() < http.StatusInternalServerError {
		return strings.ToLower(appErr.ErrorCode())
	}

	return ResultError
}
