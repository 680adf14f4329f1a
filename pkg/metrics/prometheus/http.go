package prometheus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marmos91/graphd/pkg/metrics"
)

// httpMetrics is the Prometheus implementation of metrics.HTTPMetrics.
type httpMetrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
}

// NewHTTPMetrics creates a new Prometheus-backed HTTPMetrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewHTTPMetrics() metrics.HTTPMetrics {
	if !metrics.IsEnabled() {
		return nil
	}

	reg := metrics.GetRegistry()

	return &httpMetrics{
		requests: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "graphd_http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status code",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "graphd_http_request_duration_seconds",
				Help: "Duration of HTTP request handling",
				Buckets: []float64{
					0.001, // health checks
					0.005,
					0.01,
					0.05,
					0.1,
					0.5,
					1,
					5, // slow graph operations
					10,
				},
			},
			[]string{"method", "path"},
		),
		inFlight: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "graphd_http_requests_in_flight",
				Help: "Current number of in-flight HTTP requests",
			},
		),
	}
}

func (m *httpMetrics) RecordRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}

	m.requests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *httpMetrics) RecordRequestStart(method, path string) {
	if m == nil {
		return
	}

	m.inFlight.Inc()
}

func (m *httpMetrics) RecordRequestEnd(method, path string) {
	if m == nil {
		return
	}

	m.inFlight.Dec()
}
