// Package health provides shared types for health check responses.
package health

// Response represents the healthcheck endpoint response body.
type Response struct {
	Status string `json:"status"`
}

// RootResponse represents the service banner returned by the root endpoint.
type RootResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// ReadyResponse represents the readiness endpoint response body.
// Unlike the liveness endpoint, readiness reports the startup state and
// whether the graph dependency is currently reachable.
type ReadyResponse struct {
	Status    string `json:"status"`
	State     string `json:"state"`
	StartedAt string `json:"started_at,omitempty"`
	Uptime    string `json:"uptime,omitempty"`
	Reason    string `json:"reason,omitempty"`
}
