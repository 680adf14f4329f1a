package config

import (
	"fmt"

	"github.com/marmos91/graphd/pkg/metrics"
	"github.com/marmos91/graphd/pkg/probe"
	"github.com/marmos91/graphd/pkg/sequencer"
	"github.com/marmos91/graphd/pkg/waitfor"
)

// WaitPolicy converts the startup.wait section into a retry policy.
func (c *Config) WaitPolicy() waitfor.Policy {
	return waitfor.Policy{
		MaxAttempts:  c.Startup.Wait.MaxAttempts,
		InitialDelay: c.Startup.Wait.InitialDelay,
		Multiplier:   c.Startup.Wait.Multiplier,
		MaxDelay:     c.Startup.Wait.MaxDelay,
	}
}

// DependencyEndpoint parses the configured Neo4j URI into a probe endpoint.
func (c *Config) DependencyEndpoint() (probe.Endpoint, error) {
	endpoint, err := probe.ParseTarget(c.Neo4j.URI)
	if err != nil {
		return probe.Endpoint{}, fmt.Errorf("invalid neo4j.uri: %w", err)
	}
	return endpoint, nil
}

// StartupPolicies parses the configured dependency and init policies.
func (c *Config) StartupPolicies() (dependency, init sequencer.Policy, err error) {
	dependency, err = sequencer.ParsePolicy(c.Startup.DependencyPolicy)
	if err != nil {
		return dependency, init, fmt.Errorf("invalid startup.dependency_policy: %w", err)
	}

	init, err = sequencer.ParsePolicy(c.Startup.InitPolicy)
	if err != nil {
		return dependency, init, fmt.Errorf("invalid startup.init_policy: %w", err)
	}
	return dependency, init, nil
}

// NewDependencyWaiter builds the startup waiter from configuration: a TCP
// prober against the parsed Neo4j endpoint, driven by the configured retry
// policy. The metrics recorder may be nil.
func NewDependencyWaiter(cfg *Config, m metrics.WaitMetrics) (*waitfor.Waiter, error) {
	endpoint, err := cfg.DependencyEndpoint()
	if err != nil {
		return nil, err
	}

	prober := probe.NewTCP(endpoint, cfg.Startup.Wait.ProbeTimeout)
	return waitfor.New(prober, cfg.WaitPolicy(), waitfor.WithMetrics(m)), nil
}
