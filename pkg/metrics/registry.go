// Package metrics provides optional Prometheus instrumentation for graphd.
//
// Metrics collection is opt-in: call InitRegistry before constructing any
// collectors, then expose the registry with a Server. All metrics interfaces
// accept nil implementations, so components can skip collection with zero
// overhead when metrics are disabled.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	mu       sync.Mutex
	registry *prometheus.Registry
	enabled  bool
)

// InitRegistry creates a fresh registry and enables metrics collection.
// Must be called before constructing Prometheus-backed collectors.
func InitRegistry() {
	mu.Lock()
	defer mu.Unlock()

	registry = prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	enabled = true
}

// IsEnabled returns whether metrics collection is enabled.
func IsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// GetRegistry returns the active registry, or nil when metrics are disabled.
func GetRegistry() *prometheus.Registry {
	mu.Lock()
	defer mu.Unlock()
	return registry
}
