package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records per-request Prometheus counters and latency histograms.
// Each service constructs its own instance with its own registry, so the two
// binaries (and tests) never fight over global collector registration.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics(service string) *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: service + "_requests_total",
		Help: "Total requests",
	}, []string{"method", "endpoint", "status"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: service + "_request_duration_seconds",
		Help: "Request duration",
	}, []string{"method", "endpoint"})

	registry.MustRegister(requests, duration)
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &Metrics{registry: registry, requests: requests, duration: duration}
}

func (m *Metrics) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		m.requests.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(wrapped.status)).Inc()
		m.duration.WithLabelValues(r.Method, r.URL.Path).Observe(time.Since(started).Seconds())
	})
}

// Expose returns the handler serving this registry's metrics.
func (m *Metrics) Expose() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
