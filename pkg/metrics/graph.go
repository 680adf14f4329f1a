package metrics

import (
	"time"
)

// GraphMetrics provides observability for graph facade operations.
//
// Implementations collect metrics about episode ingestion, retrieval queries,
// and dependency readiness. This interface is optional - pass nil to disable
// metrics collection with zero overhead.
type GraphMetrics interface {
	// RecordEpisode records an episode ingestion.
	//
	// Parameters:
	//   - duration: Time taken to ingest the episode
	//   - status: "ok", "error", or "not_ready"
	RecordEpisode(duration time.Duration, status string)

	// RecordRetrieval records a retrieval query.
	//
	// Parameters:
	//   - duration: Time taken to run the query
	//   - status: "ok", "error", or "not_ready"
	//   - results: Number of results returned
	RecordRetrieval(duration time.Duration, status string, results int)

	// SetReady publishes whether the graph dependency is currently reachable.
	SetReady(ready bool)
}
