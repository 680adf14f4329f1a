package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/marmos91/graphd/internal/bytesize"
)

// Config represents the graphd configuration.
//
// This structure captures every static aspect of the graphd server:
//   - Logging configuration
//   - Telemetry/tracing configuration
//   - HTTP server settings
//   - Neo4j dependency connection
//   - Startup sequencing (policies and retry schedule)
//   - Graph service settings (models, concurrency, history)
//   - Prometheus metrics server
//
// Configuration sources (in order of precedence):
//  1. Environment variables (GRAPHD_* plus the canonical container names)
//  2. Configuration file (YAML or TOML)
//  3. Default values (lowest priority)
//
// A configuration file is optional: container deployments typically configure
// graphd entirely through the environment.
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Telemetry controls OpenTelemetry distributed tracing
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`

	// Server configures the HTTP surface
	Server ServerConfig `mapstructure:"server" yaml:"server"`

	// Neo4j configures the graph database dependency
	Neo4j Neo4jConfig `mapstructure:"neo4j" yaml:"neo4j"`

	// Startup configures the boot sequence: dependency wait schedule and
	// the failure policies applied when the dependency or the application
	// initialization is unavailable
	Startup StartupConfig `mapstructure:"startup" yaml:"startup"`

	// Graph configures the knowledge graph service
	Graph GraphConfig `mapstructure:"graph" yaml:"graph"`

	// Metrics contains Prometheus metrics server configuration
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`

	// ShutdownTimeout is the maximum time to wait for graceful shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0" yaml:"shutdown_timeout"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive, normalized to uppercase)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`

	// Format specifies the log output format
	// Valid values: text, json
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`

	// Output specifies where logs are written
	// Valid values: stdout, stderr, or a file path
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// TelemetryConfig controls OpenTelemetry distributed tracing.
// When enabled, trace data is exported to an OTLP-compatible collector
// (e.g., Jaeger, Tempo, or any OTLP receiver).
type TelemetryConfig struct {
	// Enabled controls whether distributed tracing is enabled
	// Default: false (opt-in for telemetry)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Endpoint is the OTLP collector endpoint (host:port)
	// Default: "localhost:4317" (standard OTLP gRPC port)
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// Insecure controls whether to use insecure (non-TLS) connection
	// Default: true (for local development)
	Insecure bool `mapstructure:"insecure" yaml:"insecure"`

	// SampleRate controls the trace sampling rate (0.0 to 1.0)
	// Default: 1.0 (sample all)
	SampleRate float64 `mapstructure:"sample_rate" validate:"omitempty,gte=0,lte=1" yaml:"sample_rate"`

	// Profiling contains Pyroscope continuous profiling configuration
	Profiling ProfilingConfig `mapstructure:"profiling" yaml:"profiling"`
}

// ProfilingConfig controls Pyroscope continuous profiling.
type ProfilingConfig struct {
	// Enabled controls whether continuous profiling is enabled
	// Default: false (opt-in for profiling)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Endpoint is the Pyroscope server endpoint (URL)
	// Default: "http://localhost:4040" (standard Pyroscope port)
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// ProfileTypes specifies which profile types to collect
	// Valid values: cpu, alloc_objects, alloc_space, inuse_objects, inuse_space,
	//               goroutines, mutex_count, mutex_duration, block_count, block_duration
	ProfileTypes []string `mapstructure:"profile_types" yaml:"profile_types"`
}

// ServerConfig configures the HTTP server that exposes the health and graph
// endpoints.
type ServerConfig struct {
	// Host is the bind address
	// Default: "0.0.0.0" (containers need to accept traffic from outside)
	Host string `mapstructure:"host" validate:"required" yaml:"host"`

	// Port is the HTTP listen port
	// Default: 8000
	Port int `mapstructure:"port" validate:"required,min=1,max=65535" yaml:"port"`

	// ReadTimeout bounds request header and body reads
	// Default: 10s
	ReadTimeout time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`

	// WriteTimeout bounds response writes. Ingest requests can take a while
	// because episode extraction is LLM-backed.
	// Default: 30s
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`

	// IdleTimeout bounds keep-alive connections
	// Default: 60s
	IdleTimeout time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`

	// MaxBodySize caps accepted request bodies
	// Supports human-readable formats: "1Mi", "512Ki", "2MB"
	// Default: 1MiB
	MaxBodySize bytesize.ByteSize `mapstructure:"max_body_size" yaml:"max_body_size"`
}

// Neo4jConfig configures the Neo4j dependency graphd waits for at startup.
//
// Environment variable overrides:
//
//	NEO4J_URI overrides URI (GRAPHD_NEO4J_URI also accepted)
//	NEO4J_USER overrides User
//	NEO4J_PASSWORD overrides Password
type Neo4jConfig struct {
	// URI is the Bolt endpoint
	// Default: "bolt://neo4j:7687"
	URI string `mapstructure:"uri" validate:"required" yaml:"uri"`

	// User is the database username. No default; containers provide it
	// through NEO4J_USER.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the database password. No default; containers provide it
	// through NEO4J_PASSWORD.
	Password string `mapstructure:"password" yaml:"password,omitempty"`
}

// StartupConfig configures the boot sequence.
type StartupConfig struct {
	// DependencyPolicy decides what happens when the dependency wait
	// exhausts its attempt budget.
	// Valid values: fail-fast, continue-degraded
	// Default: fail-fast
	DependencyPolicy string `mapstructure:"dependency_policy" validate:"required,oneof=fail-fast continue-degraded" yaml:"dependency_policy"`

	// InitPolicy decides what happens when application initialization fails.
	// Valid values: fail-fast, continue-degraded
	// Default: fail-fast
	InitPolicy string `mapstructure:"init_policy" validate:"required,oneof=fail-fast continue-degraded" yaml:"init_policy"`

	// Wait configures the dependency retry schedule
	Wait WaitConfig `mapstructure:"wait" yaml:"wait"`
}

// WaitConfig configures the capped exponential retry schedule used while
// waiting for the dependency to accept connections.
type WaitConfig struct {
	// MaxAttempts is the total probe attempt budget
	// Default: 30
	MaxAttempts int `mapstructure:"max_attempts" validate:"required,min=1" yaml:"max_attempts"`

	// InitialDelay is the pause after the first failed attempt
	// Default: 2s
	InitialDelay time.Duration `mapstructure:"initial_delay" validate:"required,gt=0" yaml:"initial_delay"`

	// Multiplier grows the delay between attempts
	// Default: 1.2
	Multiplier float64 `mapstructure:"multiplier" validate:"required,gte=1" yaml:"multiplier"`

	// MaxDelay caps the grown delay
	// Default: 10s
	MaxDelay time.Duration `mapstructure:"max_delay" validate:"required,gt=0" yaml:"max_delay"`

	// ProbeTimeout bounds a single TCP connection attempt
	// Default: 5s
	ProbeTimeout time.Duration `mapstructure:"probe_timeout" validate:"required,gt=0" yaml:"probe_timeout"`
}

// GraphConfig configures the knowledge graph service.
//
// Environment variable overrides:
//
//	OPENAI_API_KEY overrides OpenAIAPIKey
//	MODEL_NAME overrides ModelName
//	EMBEDDING_MODEL_NAME overrides EmbeddingModelName
//	SEMAPHORE_LIMIT overrides SemaphoreLimit
type GraphConfig struct {
	// OpenAIAPIKey authenticates LLM-backed episode extraction.
	// No default; containers provide it through OPENAI_API_KEY.
	OpenAIAPIKey string `mapstructure:"openai_api_key" yaml:"openai_api_key,omitempty"`

	// ModelName selects the extraction model
	// Default: "gpt-4.1-mini"
	ModelName string `mapstructure:"model_name" yaml:"model_name"`

	// EmbeddingModelName selects the embedding model
	// Default: "text-embedding-3-small"
	EmbeddingModelName string `mapstructure:"embedding_model_name" yaml:"embedding_model_name"`

	// SemaphoreLimit caps concurrent graph operations
	// Default: 20
	SemaphoreLimit int `mapstructure:"semaphore_limit" validate:"required,min=1" yaml:"semaphore_limit"`

	// HistoryLimit bounds the in-memory episode history
	// Default: 1000
	HistoryLimit int `mapstructure:"history_limit" validate:"required,min=1" yaml:"history_limit"`
}

// MetricsConfig configures the Prometheus metrics HTTP server.
// When Enabled is false, no metrics are collected (zero overhead).
type MetricsConfig struct {
	// Enabled controls whether metrics collection and HTTP server are enabled
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Host is the bind address for the metrics endpoint
	// Default: "127.0.0.1"
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the HTTP port for the metrics endpoint
	// Default: 9090
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`
}

// Load loads configuration from file, environment, and defaults.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (GRAPHD_* and canonical names)
//  2. Configuration file
//  3. Default values
//
// The config file is optional. When it is absent the environment alone is
// consulted, which is how container deployments run graphd.
//
// Parameters:
//   - configPath: Path to config file (empty string uses default location)
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: Configuration loading or validation error
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Configure viper
	setupViper(v, configPath)

	// Read configuration file if it exists
	if _, err := readConfigFile(v); err != nil {
		return nil, err
	}

	// Unmarshal into config struct with custom decode hooks. Environment
	// bindings apply here too, so this works with no config file at all.
	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(configDecodeHooks())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Apply defaults for any missing values
	ApplyDefaults(&cfg)

	// Validate configuration
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration with helpful error messages.
//
// An explicitly requested config file must exist; the default location is
// allowed to be absent because graphd also runs on environment variables and
// defaults alone.
func MustLoad(configPath string) (*Config, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s\n\n"+
				"Please create the configuration file:\n"+
				"  graphd init --config %s",
				configPath, configPath)
		}
	}

	cfg, err := Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to the specified file path.
// The configuration is saved in YAML format using proper yaml tags.
func SaveConfig(cfg *Config, path string) error {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Restricted permissions: the config may hold credentials.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setupViper configures viper with environment variables and config file settings.
func setupViper(v *viper.Viper, configPath string) {
	// Set up environment variable support
	// Environment variables use GRAPHD_ prefix and underscores
	// Example: GRAPHD_LOGGING_LEVEL=DEBUG
	v.SetEnvPrefix("GRAPHD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Every key is bound explicitly so environment-only deployments work:
	// viper only surfaces env values during Unmarshal for keys it knows about.
	bindEnvKeys(v)

	// Configure config file search
	if configPath != "" {
		// Use explicitly specified config file
		v.SetConfigFile(configPath)
	} else {
		// Use default location: $XDG_CONFIG_HOME/graphd/config.{yaml,toml}
		configDir := getConfigDir()
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml") // Primary format
	}
}

// bindEnvKeys registers every configuration key with viper.
//
// Keys with extra arguments also accept the canonical container variable
// names the deployment stack uses (OPENAI_API_KEY, NEO4J_USER, and friends).
// The GRAPHD_-prefixed form wins when both are set.
func bindEnvKeys(v *viper.Viper) {
	keys := []string{
		"logging.level",
		"logging.format",
		"logging.output",
		"telemetry.enabled",
		"telemetry.endpoint",
		"telemetry.insecure",
		"telemetry.sample_rate",
		"telemetry.profiling.enabled",
		"telemetry.profiling.endpoint",
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.max_body_size",
		"startup.dependency_policy",
		"startup.init_policy",
		"startup.wait.max_attempts",
		"startup.wait.initial_delay",
		"startup.wait.multiplier",
		"startup.wait.max_delay",
		"startup.wait.probe_timeout",
		"graph.history_limit",
		"metrics.enabled",
		"metrics.host",
		"metrics.port",
		"shutdown_timeout",
	}
	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	aliased := map[string]string{
		"neo4j.uri":                  "NEO4J_URI",
		"neo4j.user":                 "NEO4J_USER",
		"neo4j.password":             "NEO4J_PASSWORD",
		"graph.openai_api_key":       "OPENAI_API_KEY",
		"graph.model_name":           "MODEL_NAME",
		"graph.embedding_model_name": "EMBEDDING_MODEL_NAME",
		"graph.semaphore_limit":      "SEMAPHORE_LIMIT",
	}
	for key, canonical := range aliased {
		prefixed := "GRAPHD_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, prefixed, canonical)
	}
}

// readConfigFile reads the configuration file if it exists.
// Returns (fileFound, error) where fileFound indicates if a config file was found.
func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		// Check if error is "config file not found"
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found is acceptable - env and defaults apply
			return false, nil
		}
		// Also check for os.PathError when explicit config file doesn't exist
		if os.IsNotExist(err) {
			return false, nil
		}
		// Other errors are problems
		return false, fmt.Errorf("failed to read config file: %w", err)
	}

	return true, nil
}

// configDecodeHooks returns a combined decode hook for all custom types.
// This includes ByteSize, time.Duration, and env string coercion.
func configDecodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		byteSizeDecodeHook(),
		durationDecodeHook(),
		envStringDecodeHook(),
	)
}

// byteSizeDecodeHook returns a mapstructure decode hook that converts strings
// and integers to bytesize.ByteSize. This enables config files to use
// human-readable sizes like "1Mi", "500Ki", "100MB", or plain numbers.
func byteSizeDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		// Only handle conversion to ByteSize
		if to != reflect.TypeOf(bytesize.ByteSize(0)) {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return bytesize.ParseByteSize(v)
		case int:
			return bytesize.ByteSize(v), nil
		case int64:
			return bytesize.ByteSize(v), nil
		case uint64:
			return bytesize.ByteSize(v), nil
		case float64:
			// YAML often deserializes numbers as float64
			return bytesize.ByteSize(v), nil
		default:
			return data, nil
		}
	}
}

// durationDecodeHook returns a mapstructure decode hook that converts strings
// to time.Duration. This enables config files to use human-readable durations
// like "30s", "5m", "1h".
func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		// Only handle conversion to time.Duration
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			// Parse duration string like "30s", "5m", "1h"
			return time.ParseDuration(v)
		case int:
			// Assume nanoseconds for raw integers
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			// YAML often deserializes numbers as float64
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}

// envStringDecodeHook returns a mapstructure decode hook that converts string
// values into ints, floats, and bools. Environment variables always arrive as
// strings, so numeric settings like SEMAPHORE_LIMIT need this coercion.
func envStringDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if from.Kind() != reflect.String {
			return data, nil
		}
		s := strings.TrimSpace(data.(string))

		switch to.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return strconv.Atoi(s)
		case reflect.Float32, reflect.Float64:
			return strconv.ParseFloat(s, 64)
		case reflect.Bool:
			return strconv.ParseBool(s)
		default:
			return data, nil
		}
	}
}

// getConfigDir returns the configuration directory path.
//
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config, or falls back to current
// directory (.) if home directory cannot be determined.
func getConfigDir() string {
	// Check XDG_CONFIG_HOME
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "graphd")
	}

	// Fall back to ~/.config
	home, err := os.UserHomeDir()
	if err != nil {
		// If we can't get home dir, use current directory as last resort
		return "."
	}

	return filepath.Join(home, ".config", "graphd")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// DefaultConfigExists checks if a config file exists at the default location.
func DefaultConfigExists() bool {
	path := GetDefaultConfigPath()
	_, err := os.Stat(path)
	return err == nil
}

// GetConfigDir returns the configuration directory path (exposed for init command).
func GetConfigDir() string {
	return getConfigDir()
}
