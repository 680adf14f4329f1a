package handlers

import (
	"context"

	"github.com/marmos91/graphd/pkg/graph"
	"github.com/marmos91/graphd/pkg/sequencer"
)

// GraphService is the graph facade the handlers operate on.
// *graph.Service satisfies this interface.
type GraphService interface {
	// Ready reports whether the graph backend connection is established.
	Ready() bool

	// Healthcheck verifies the graph backend is still reachable.
	Healthcheck(ctx context.Context) error

	// AddEpisode ingests a new episode into the graph.
	AddEpisode(ctx context.Context, req graph.EpisodeRequest) (*graph.Episode, error)

	// Search retrieves episodes matching the query.
	Search(ctx context.Context, req graph.SearchRequest) ([]graph.Episode, error)
}

// StartupStatus exposes the startup sequencer's current position so the
// readiness endpoint can report it. *sequencer.Sequencer satisfies this
// interface.
type StartupStatus interface {
	// State returns the current startup state.
	State() sequencer.State

	// Degraded reports whether the service came up without its dependency
	// and, if so, why.
	Degraded() (bool, string)
}
