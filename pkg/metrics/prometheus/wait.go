// Package prometheus provides Prometheus-backed implementations of the
// metrics interfaces in pkg/metrics.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marmos91/graphd/pkg/metrics"
)

// waitMetrics is the Prometheus implementation of metrics.WaitMetrics.
type waitMetrics struct {
	attempts     *prometheus.CounterVec
	waitDuration *prometheus.HistogramVec
}

// NewWaitMetrics creates a new Prometheus-backed WaitMetrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewWaitMetrics() metrics.WaitMetrics {
	if !metrics.IsEnabled() {
		return nil
	}

	reg := metrics.GetRegistry()

	return &waitMetrics{
		attempts: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "graphd_dependency_probe_attempts_total",
				Help: "Total number of dependency probe attempts by target and outcome",
			},
			[]string{"target", "outcome"}, // outcome: "success", "failure"
		),
		waitDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "graphd_dependency_wait_duration_seconds",
				Help: "Total time spent waiting for a dependency, including backoff delays",
				Buckets: []float64{
					0.5, // sub-second: dependency already up
					1,
					2,   // first retry delay
					5,   // a few retries
					10,  // max single delay
					30,  // several capped delays
					60,  // half the default budget
					120, // around attempt exhaustion
					300,
				},
			},
			[]string{"target", "outcome"}, // outcome: "ready", "exhausted", "cancelled"
		),
	}
}

func (m *waitMetrics) RecordAttempt(target string, success bool) {
	if m == nil {
		return
	}

	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.attempts.WithLabelValues(target, outcome).Inc()
}

func (m *waitMetrics) RecordWait(target string, duration time.Duration, outcome string) {
	if m == nil {
		return
	}

	m.waitDuration.WithLabelValues(target, outcome).Observe(duration.Seconds())
}
