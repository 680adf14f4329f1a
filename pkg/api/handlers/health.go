package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/marmos91/graphd/internal/cli/health"
	"github.com/marmos91/graphd/pkg/sequencer"
)

// HealthHandler serves the liveness and readiness endpoints.
//
// Liveness only proves the HTTP server is up and able to respond.
// Readiness additionally requires the startup sequence to have reached
// the serving state and the graph backend to be reachable, so rollout
// orchestration can distinguish "process alive" from "safe to route
// traffic to".
type HealthHandler struct {
	graph     GraphService
	startup   StartupStatus
	startedAt time.Time
}

// NewHealthHandler creates a health handler. Both collaborators may be
// nil, in which case the corresponding readiness checks are skipped.
func NewHealthHandler(graph GraphService, startup StartupStatus) *HealthHandler {
	return &HealthHandler{
		graph:     graph,
		startup:   startup,
		startedAt: time.Now().UTC(),
	}
}

// Liveness handles GET /healthcheck requests.
//
// It always returns 200 with {"status":"healthy"} while the server can
// respond at all. Container orchestrators use this to decide whether to
// restart the process, so it must not depend on downstream services.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	WriteJSONOK(w, health.Response{Status: "healthy"})
}

// Readiness handles GET /healthcheck/ready requests.
//
// It returns 200 only when the startup sequence has reached the serving
// state, the service is not running in degraded mode, and the graph
// backend answers a probe. Otherwise it returns 503 with the reason.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	state := sequencer.StateServing
	degraded := false
	reason := ""
	if h.startup != nil {
		state = h.startup.State()
		degraded, reason = h.startup.Degraded()
	}

	resp := health.ReadyResponse{
		State:     state.String(),
		StartedAt: h.startedAt.Format(time.RFC3339),
		Uptime:    time.Since(h.startedAt).Round(time.Second).String(),
	}

	switch {
	case state != sequencer.StateServing:
		resp.Status = "not_ready"
		resp.Reason = fmt.Sprintf("startup sequence in state %s", state)
		WriteJSON(w, http.StatusServiceUnavailable, resp)

	case degraded:
		resp.Status = "degraded"
		resp.Reason = reason
		WriteJSON(w, http.StatusServiceUnavailable, resp)

	default:
		if h.graph != nil {
			if err := h.graph.Healthcheck(r.Context()); err != nil {
				resp.Status = "not_ready"
				resp.Reason = err.Error()
				WriteJSON(w, http.StatusServiceUnavailable, resp)
				return
			}
		}
		resp.Status = "ready"
		WriteJSONOK(w, resp)
	}
}
