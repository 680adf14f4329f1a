package config

import (
	"github.com/marmos91/graphd/internal/logger"
	"github.com/marmos91/graphd/pkg/metrics"
	"github.com/marmos91/graphd/pkg/metrics/prometheus"
)

// MetricsResult bundles the metric recorders and server created from
// configuration. When metrics are disabled every field is nil; the recorder
// interfaces are nil-safe so callers pass them through unconditionally.
type MetricsResult struct {
	// Server is the /metrics HTTP server, nil when metrics are disabled.
	Server *metrics.Server

	// Wait records dependency wait attempts and outcomes.
	Wait metrics.WaitMetrics

	// Startup records state transitions and phase durations.
	Startup metrics.StartupMetrics

	// HTTP records request counts and latencies.
	HTTP metrics.HTTPMetrics

	// Graph records episode and retrieval operations.
	Graph metrics.GraphMetrics
}

// InitializeMetrics creates the metrics registry, recorders, and server from
// the provided configuration.
//
// When cfg.Metrics.Enabled is false this returns an empty result: nil
// recorders collect nothing and cost nothing.
//
// Example:
//
//	cfg, _ := config.Load("config.yaml")
//	m := config.InitializeMetrics(cfg)
//	waiter := waitfor.New(prober, policy, waitfor.WithMetrics(m.Wait))
func InitializeMetrics(cfg *Config) *MetricsResult {
	if !cfg.Metrics.Enabled {
		logger.Debug("Metrics collection disabled")
		return &MetricsResult{}
	}

	metrics.InitRegistry()

	result := &MetricsResult{
		Server:  metrics.NewServer(cfg.Metrics.Host, cfg.Metrics.Port),
		Wait:    prometheus.NewWaitMetrics(),
		Startup: prometheus.NewStartupMetrics(),
		HTTP:    prometheus.NewHTTPMetrics(),
		Graph:   prometheus.NewGraphMetrics(),
	}

	logger.Info("Metrics collection enabled", "addr", result.Server.Addr())
	return result
}
