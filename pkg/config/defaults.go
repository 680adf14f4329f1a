package config

import (
	"strings"
	"time"

	"github.com/marmos91/graphd/internal/bytesize"
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// This function is called after loading configuration from file and environment
// variables to fill in any missing values with sensible defaults.
//
// Default Strategy:
//   - Zero values (0, "", false, nil) are replaced with defaults
//   - Explicit values are preserved
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyServerDefaults(&cfg.Server)
	applyNeo4jDefaults(&cfg.Neo4j)
	applyStartupDefaults(&cfg.Startup)
	applyGraphDefaults(&cfg.Graph)
	applyMetricsDefaults(&cfg.Metrics)
	applyShutdownTimeoutDefaults(cfg)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	// Normalize log level to uppercase for consistent internal representation
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

// applyTelemetryDefaults sets OpenTelemetry defaults.
func applyTelemetryDefaults(cfg *TelemetryConfig) {
	// Enabled defaults to false (opt-in for telemetry)

	// Default endpoint is localhost:4317 (standard OTLP gRPC port)
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317"
	}

	// Default sample rate is 1.0 (sample all traces)
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 1.0
	}

	applyProfilingDefaults(&cfg.Profiling)
}

// applyProfilingDefaults sets Pyroscope profiling defaults.
func applyProfilingDefaults(cfg *ProfilingConfig) {
	// Default endpoint is localhost:4040 (standard Pyroscope port)
	if cfg.Endpoint == "" {
		cfg.Endpoint = "http://localhost:4040"
	}

	// Default profile types include CPU, memory allocation, and goroutines
	if len(cfg.ProfileTypes) == 0 {
		cfg.ProfileTypes = []string{
			"cpu",
			"alloc_objects",
			"alloc_space",
			"inuse_objects",
			"inuse_space",
			"goroutines",
		}
	}
}

// applyServerDefaults sets HTTP server defaults.
func applyServerDefaults(cfg *ServerConfig) {
	if cfg.Host == "" {
		cfg.Host = "0.0.0.0"
	}
	if cfg.Port == 0 {
		cfg.Port = 8000
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 60 * time.Second
	}
	if cfg.MaxBodySize == 0 {
		cfg.MaxBodySize = bytesize.MiB
	}
}

// applyNeo4jDefaults sets Neo4j dependency defaults.
// User and Password have no defaults - they come from the environment.
func applyNeo4jDefaults(cfg *Neo4jConfig) {
	if cfg.URI == "" {
		cfg.URI = "bolt://neo4j:7687"
	}
}

// applyStartupDefaults sets boot sequence defaults.
// Both policies default to fail-fast: an unreachable dependency should stop
// the deployment rollout, not produce a silently degraded server.
func applyStartupDefaults(cfg *StartupConfig) {
	if cfg.DependencyPolicy == "" {
		cfg.DependencyPolicy = "fail-fast"
	}
	if cfg.InitPolicy == "" {
		cfg.InitPolicy = "fail-fast"
	}
	applyWaitDefaults(&cfg.Wait)
}

// applyWaitDefaults sets the dependency retry schedule defaults.
func applyWaitDefaults(cfg *WaitConfig) {
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 30
	}
	if cfg.InitialDelay == 0 {
		cfg.InitialDelay = 2 * time.Second
	}
	if cfg.Multiplier == 0 {
		cfg.Multiplier = 1.2
	}
	if cfg.MaxDelay == 0 {
		cfg.MaxDelay = 10 * time.Second
	}
	if cfg.ProbeTimeout == 0 {
		cfg.ProbeTimeout = 5 * time.Second
	}
}

// applyGraphDefaults sets graph service defaults.
// OpenAIAPIKey has no default - it comes from the environment.
func applyGraphDefaults(cfg *GraphConfig) {
	if cfg.ModelName == "" {
		cfg.ModelName = "gpt-4.1-mini"
	}
	if cfg.EmbeddingModelName == "" {
		cfg.EmbeddingModelName = "text-embedding-3-small"
	}
	if cfg.SemaphoreLimit == 0 {
		cfg.SemaphoreLimit = 20
	}
	if cfg.HistoryLimit == 0 {
		cfg.HistoryLimit = 1000
	}
}

// applyMetricsDefaults sets metrics defaults.
func applyMetricsDefaults(cfg *MetricsConfig) {
	// Enabled defaults to false (opt-in for metrics)
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Enabled && cfg.Port == 0 {
		cfg.Port = 9090
	}
}

// applyShutdownTimeoutDefaults sets shutdown timeout defaults.
func applyShutdownTimeoutDefaults(cfg *Config) {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
}

// GetDefaultConfig returns a Config struct with all default values applied.
//
// This is useful for:
//   - Generating sample configuration files
//   - Testing
//   - Documentation
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
