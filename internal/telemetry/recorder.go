package telemetry

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder counts HTTP requests in the exposition format Parse reads.
// Each Recorder owns its registry, so tests and multiple servers in one
// process do not share counters.
type Recorder struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	errors   *prometheus.CounterVec
}

// NewRecorder creates a Recorder with fresh request and error counters.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	labels := []string{"method", "endpoint", "status"}

	return &Recorder{
		registry: reg,
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: RequestsMetric,
				Help: "Total number of HTTP requests",
			},
			labels,
		),
		errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: ErrorsMetric,
				Help: "Total number of HTTP requests that failed with a 5xx status",
			},
			labels,
		),
	}
}

// Observe counts one request. Statuses of 500 and above also count as errors.
func (r *Recorder) Observe(method, endpoint string, status int) {
	code := strconv.Itoa(status)
	r.requests.WithLabelValues(method, endpoint, code).Inc()
	if status >= 500 {
		r.errors.WithLabelValues(method, endpoint, code).Inc()
	}
}

// Handler serves the recorded counters as Prometheus text exposition.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for additional collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
