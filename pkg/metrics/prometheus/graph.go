package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marmos91/graphd/pkg/metrics"
)

// graphMetrics is the Prometheus implementation of metrics.GraphMetrics.
type graphMetrics struct {
	episodes         *prometheus.CounterVec
	episodeDuration  prometheus.Histogram
	retrievals       *prometheus.CounterVec
	retrieveDuration prometheus.Histogram
	retrieveResults  prometheus.Histogram
	ready            prometheus.Gauge
}

// NewGraphMetrics creates a new Prometheus-backed GraphMetrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewGraphMetrics() metrics.GraphMetrics {
	if !metrics.IsEnabled() {
		return nil
	}

	reg := metrics.GetRegistry()

	return &graphMetrics{
		episodes: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "graphd_graph_episodes_total",
				Help: "Total number of episode ingestions by status",
			},
			[]string{"status"}, // "ok", "error", "not_ready"
		),
		episodeDuration: promauto.With(reg).NewHistogram(
			prometheus.HistogramOpts{
				Name: "graphd_graph_episode_duration_seconds",
				Help: "Duration of episode ingestion",
				Buckets: []float64{
					0.001,
					0.01,
					0.1,
					0.5,
					1,
					5,
					10,
					30, // slow LLM-backed extraction
				},
			},
		),
		retrievals: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "graphd_graph_retrievals_total",
				Help: "Total number of retrieval queries by status",
			},
			[]string{"status"},
		),
		retrieveDuration: promauto.With(reg).NewHistogram(
			prometheus.HistogramOpts{
				Name: "graphd_graph_retrieve_duration_seconds",
				Help: "Duration of retrieval queries",
				Buckets: []float64{
					0.001,
					0.01,
					0.1,
					0.5,
					1,
					5,
					10,
				},
			},
		),
		retrieveResults: promauto.With(reg).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "graphd_graph_retrieve_results",
				Help:    "Distribution of result counts returned by retrieval queries",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
			},
		),
		ready: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "graphd_graph_ready",
				Help: "Whether the graph dependency is currently reachable (1) or not (0)",
			},
		),
	}
}

func (m *graphMetrics) RecordEpisode(duration time.Duration, status string) {
	if m == nil {
		return
	}

	m.episodes.WithLabelValues(status).Inc()
	m.episodeDuration.Observe(duration.Seconds())
}

func (m *graphMetrics) RecordRetrieval(duration time.Duration, status string, results int) {
	if m == nil {
		return
	}

	m.retrievals.WithLabelValues(status).Inc()
	m.retrieveDuration.Observe(duration.Seconds())
	m.retrieveResults.Observe(float64(results))
}

func (m *graphMetrics) SetReady(ready bool) {
	if m == nil {
		return
	}

	if ready {
		m.ready.Set(1)
	} else {
		m.ready.Set(0)
	}
}
