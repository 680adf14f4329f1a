package config

import (
	"github.com/marmos91/graphd/pkg/graph"
	"github.com/marmos91/graphd/pkg/metrics"
)

// GraphOptions converts the neo4j and graph sections into graph service
// options. The probe timeout is shared with the startup wait so the
// initialization handshake and the readiness probes behave the same.
func (c *Config) GraphOptions() graph.Options {
	return graph.Options{
		URI:                c.Neo4j.URI,
		User:               c.Neo4j.User,
		Password:           c.Neo4j.Password,
		OpenAIAPIKey:       c.Graph.OpenAIAPIKey,
		ModelName:          c.Graph.ModelName,
		EmbeddingModelName: c.Graph.EmbeddingModelName,
		SemaphoreLimit:     c.Graph.SemaphoreLimit,
		HistoryLimit:       c.Graph.HistoryLimit,
		ProbeTimeout:       c.Startup.Wait.ProbeTimeout,
	}
}

// NewGraphService builds the graph service facade from configuration.
// The metrics recorder may be nil.
func NewGraphService(cfg *Config, m metrics.GraphMetrics) *graph.Service {
	return graph.New(cfg.GraphOptions(), graph.WithMetrics(m))
}
