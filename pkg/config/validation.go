package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/marmos91/graphd/pkg/probe"
)

// Validate checks the configuration for errors.
//
// Field-level constraints live in struct tags; rules that tags cannot express
// are checked explicitly afterwards. Validation never mutates the config.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// The dependency target must be parseable into host and port.
	if _, err := probe.ParseTarget(cfg.Neo4j.URI); err != nil {
		return fmt.Errorf("invalid neo4j.uri: %w", err)
	}

	// A cap below the starting delay would make the schedule meaningless.
	if cfg.Startup.Wait.MaxDelay < cfg.Startup.Wait.InitialDelay {
		return fmt.Errorf("startup.wait.max_delay (%s) must not be below startup.wait.initial_delay (%s)",
			cfg.Startup.Wait.MaxDelay, cfg.Startup.Wait.InitialDelay)
	}

	// Telemetry needs somewhere to send spans.
	if cfg.Telemetry.Enabled && cfg.Telemetry.Endpoint == "" {
		return fmt.Errorf("telemetry enabled but no endpoint configured")
	}

	// The metrics server needs a port when enabled.
	if cfg.Metrics.Enabled && cfg.Metrics.Port == 0 {
		return fmt.Errorf("metrics enabled but no port configured")
	}

	return nil
}
