package prometheus

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marmos91/graphd/pkg/metrics"
)

// startupMetrics is the Prometheus implementation of metrics.StartupMetrics.
type startupMetrics struct {
	mu            sync.Mutex
	lastState     string
	state         *prometheus.GaugeVec
	phaseDuration *prometheus.HistogramVec
}

// NewStartupMetrics creates a new Prometheus-backed StartupMetrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewStartupMetrics() metrics.StartupMetrics {
	if !metrics.IsEnabled() {
		return nil
	}

	reg := metrics.GetRegistry()

	return &startupMetrics{
		state: promauto.With(reg).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "graphd_startup_state",
				Help: "Current sequencer state (1 for the active state, 0 otherwise)",
			},
			[]string{"state"},
		),
		phaseDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "graphd_startup_phase_duration_seconds",
				Help: "Duration of startup phases by phase and outcome",
				Buckets: []float64{
					0.01, // instant phases
					0.1,
					0.5,
					1,
					5,
					10,
					30,
					60,
					120, // wait phase exhausting its budget
				},
			},
			[]string{"phase", "outcome"}, // outcome: "ok", "error"
		),
	}
}

func (m *startupMetrics) SetState(state string) {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.lastState != "" && m.lastState != state {
		m.state.WithLabelValues(m.lastState).Set(0)
	}
	m.state.WithLabelValues(state).Set(1)
	m.lastState = state
}

func (m *startupMetrics) RecordPhase(phase string, duration time.Duration, success bool) {
	if m == nil {
		return
	}

	outcome := "error"
	if success {
		outcome = "ok"
	}
	m.phaseDuration.WithLabelValues(phase, outcome).Observe(duration.Seconds())
}
