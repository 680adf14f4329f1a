package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// configTemplate is the commented starter configuration written by
// 'graphd init'. It mirrors GetDefaultConfig; keep the two in sync.
const configTemplate = `# Graphd Configuration File
#
# Every setting below can also be supplied through GRAPHD_* environment
# variables (GRAPHD_LOGGING_LEVEL, GRAPHD_SERVER_PORT, ...). The canonical
# container names OPENAI_API_KEY, NEO4J_URI, NEO4J_USER, NEO4J_PASSWORD,
# MODEL_NAME, EMBEDDING_MODEL_NAME and SEMAPHORE_LIMIT are accepted as well.
# Environment variables override file values.

logging:
  # Minimum level to output: DEBUG, INFO, WARN or ERROR
  level: "INFO"
  # Output format: text or json
  format: "text"
  # Destination: stdout, stderr or a file path
  output: "stdout"

server:
  host: "0.0.0.0"
  port: 8000
  read_timeout: "10s"
  # Ingest responses can be slow because episode extraction is LLM-backed
  write_timeout: "30s"
  idle_timeout: "60s"
  # Maximum accepted request body
  max_body_size: "1Mi"

neo4j:
  # Bolt endpoint of the Neo4j dependency graphd waits for at startup
  uri: "bolt://neo4j:7687"
  user: "neo4j"
  # Usually provided via NEO4J_PASSWORD instead of this file
  password: ""

startup:
  # What to do when the dependency wait exhausts its budget:
  # fail-fast exits non-zero, continue-degraded serves health endpoints only
  dependency_policy: "fail-fast"
  # Same choice for application initialization failures
  init_policy: "fail-fast"
  wait:
    max_attempts: 30
    initial_delay: "2s"
    multiplier: 1.2
    max_delay: "10s"
    probe_timeout: "5s"

graph:
  # Usually provided via OPENAI_API_KEY instead of this file
  openai_api_key: ""
  model_name: "gpt-4.1-mini"
  embedding_model_name: "text-embedding-3-small"
  # Maximum concurrent graph operations
  semaphore_limit: 20
  # Bounded in-memory episode history
  history_limit: 1000

metrics:
  enabled: false
  host: "127.0.0.1"
  port: 9090

telemetry:
  enabled: false
  # OTLP gRPC collector endpoint
  endpoint: "localhost:4317"
  insecure: true
  sample_rate: 1.0
  profiling:
    enabled: false
    endpoint: "http://localhost:4040"

shutdown_timeout: "30s"
`

// InitConfig creates a starter configuration file at the default location.
//
// Parameters:
//   - force: Overwrite an existing config file
//
// Returns:
//   - string: Path of the created config file
//   - error: If the file exists (without force) or cannot be written
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()
	if err := InitConfigToPath(path, force); err != nil {
		return "", err
	}
	return path, nil
}

// InitConfigToPath creates a starter configuration file at an explicit path.
func InitConfigToPath(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Restricted permissions: users will put credentials in here.
	if err := os.WriteFile(path, []byte(configTemplate), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
