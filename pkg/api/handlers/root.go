package handlers

import (
	"net/http"

	"github.com/marmos91/graphd/internal/cli/health"
)

// ServiceName is the banner message returned by the root endpoint.
const ServiceName = "Graphd Knowledge Server"

// RootHandler serves the service banner.
type RootHandler struct {
	version string
}

// NewRootHandler creates a root handler reporting the given version.
func NewRootHandler(version string) *RootHandler {
	return &RootHandler{version: version}
}

// Root handles GET / requests.
//
// It returns the service banner with the version and a map of the
// available endpoints, so a client can discover the API surface with a
// single unauthenticated request.
func (h *RootHandler) Root(w http.ResponseWriter, r *http.Request) {
	WriteJSONOK(w, health.RootResponse{
		Message: ServiceName,
		Version: h.version,
		Endpoints: map[string]string{
			"healthcheck": "/healthcheck",
			"ingest":      "/ingest",
			"retrieve":    "/retrieve",
			"readiness":   "/healthcheck/ready",
		},
	})
}
