package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/marmos91/graphd/internal/logger"
	"github.com/marmos91/graphd/pkg/graph"
)

// EpisodeHandler serves the ingest and retrieve endpoints.
type EpisodeHandler struct {
	graph GraphService
}

// NewEpisodeHandler creates an episode handler backed by the given graph
// service.
func NewEpisodeHandler(graph GraphService) *EpisodeHandler {
	return &EpisodeHandler{graph: graph}
}

// RetrieveResponse is the body returned by the retrieve endpoint.
type RetrieveResponse struct {
	Episodes []graph.Episode `json:"episodes"`
	Count    int             `json:"count"`
}

// Ingest handles POST /ingest requests.
//
// It decodes an episode request, stores it in the graph, and returns the
// stored episode with its assigned ID. Malformed bodies get 400, bodies
// over the configured size limit get 413, and requests arriving before
// the graph connection is up get 503.
func (h *EpisodeHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req graph.EpisodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			RequestEntityTooLarge(w, fmt.Sprintf("request body exceeds %d bytes", maxBytesErr.Limit))
			return
		}
		BadRequest(w, "invalid JSON body: "+err.Error())
		return
	}

	episode, err := h.graph.AddEpisode(r.Context(), req)
	if err != nil {
		h.writeGraphError(w, "ingest", err)
		return
	}

	WriteJSONCreated(w, episode)
}

// Retrieve handles POST /retrieve requests.
//
// It decodes a search request and returns the matching episodes, newest
// first. The episodes slice in the response is never null, so clients
// can iterate it without a nil check.
func (h *EpisodeHandler) Retrieve(w http.ResponseWriter, r *http.Request) {
	var req graph.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body: "+err.Error())
		return
	}

	episodes, err := h.graph.Search(r.Context(), req)
	if err != nil {
		h.writeGraphError(w, "retrieve", err)
		return
	}

	if episodes == nil {
		episodes = []graph.Episode{}
	}

	WriteJSONOK(w, RetrieveResponse{
		Episodes: episodes,
		Count:    len(episodes),
	})
}

// writeGraphError maps graph service errors to problem responses.
func (h *EpisodeHandler) writeGraphError(w http.ResponseWriter, operation string, err error) {
	switch {
	case errors.Is(err, graph.ErrInvalidRequest):
		BadRequest(w, err.Error())
	case errors.Is(err, graph.ErrNotReady):
		ServiceUnavailable(w, err.Error())
	default:
		logger.Error("Graph operation failed",
			logger.Component("api"),
			"operation", operation,
			logger.Err(err),
		)
		InternalServerError(w, err.Error())
	}
}
