package graph

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/marmos91/graphd/internal/logger"
	"github.com/marmos91/graphd/internal/telemetry"
)

// EpisodeRequest carries the payload for an episode ingestion.
type EpisodeRequest struct {
	Name              string `json:"name,omitempty"`
	Content           string `json:"content"`
	Source            string `json:"source,omitempty"`
	SourceDescription string `json:"source_description,omitempty"`
	GroupID           string `json:"group_id,omitempty"`
}

func (r *EpisodeRequest) validate() error {
	if strings.TrimSpace(r.Content) == "" {
		return fmt.Errorf("%w: episode content is required", ErrInvalidRequest)
	}
	return nil
}

// Episode is an ingested unit of knowledge.
type Episode struct {
	ID                string    `json:"id"`
	Name              string    `json:"name,omitempty"`
	Content           string    `json:"content"`
	Source            string    `json:"source,omitempty"`
	SourceDescription string    `json:"source_description,omitempty"`
	GroupID           string    `json:"group_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// SearchRequest carries the payload for a retrieval query.
type SearchRequest struct {
	Query   string `json:"query"`
	GroupID string `json:"group_id,omitempty"`
	Limit   int    `json:"limit,omitempty"`
}

// AddEpisode ingests an episode into the graph. The episode is assigned a
// fresh ID and appended to the bounded history; when the history exceeds
// its limit the oldest episodes are dropped.
func (s *Service) AddEpisode(ctx context.Context, req EpisodeRequest) (*Episode, error) {
	start := time.Now()
	ctx, span := telemetry.StartGraphSpan(ctx, "add_episode")
	defer span.End()

	if !s.Ready() {
		s.recordEpisode(start, "not_ready")
		return nil, ErrNotReady
	}
	if err := req.validate(); err != nil {
		s.recordEpisode(start, "error")
		telemetry.RecordError(ctx, err)
		return nil, err
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		s.recordEpisode(start, "error")
		return nil, fmt.Errorf("acquire ingest slot: %w", err)
	}
	defer s.sem.Release(1)

	ep := Episode{
		ID:                uuid.NewString(),
		Name:              req.Name,
		Content:           req.Content,
		Source:            req.Source,
		SourceDescription: req.SourceDescription,
		GroupID:           req.GroupID,
		CreatedAt:         time.Now().UTC(),
	}

	s.mu.Lock()
	s.episodes = append(s.episodes, ep)
	if overflow := len(s.episodes) - s.opts.HistoryLimit; overflow > 0 {
		// Copy into a fresh slice so the dropped entries can be collected.
		trimmed := make([]Episode, len(s.episodes)-overflow)
		copy(trimmed, s.episodes[overflow:])
		s.episodes = trimmed
	}
	total := len(s.episodes)
	s.mu.Unlock()

	s.recordEpisode(start, "ok")
	telemetry.SetAttributes(ctx, telemetry.EpisodeID(ep.ID))

	logger.DebugCtx(ctx, "Episode ingested",
		logger.EpisodeID(ep.ID),
		logger.Count(total),
	)
	return &ep, nil
}

// Search returns episodes whose content or name contains the query,
// newest first, capped by the request limit. Matching is case-insensitive;
// a group ID restricts the search to that group.
func (s *Service) Search(ctx context.Context, req SearchRequest) ([]Episode, error) {
	start := time.Now()
	ctx, span := telemetry.StartGraphSpan(ctx, "search", telemetry.Query(req.Query))
	defer span.End()

	if !s.Ready() {
		s.recordRetrieval(start, "not_ready", 0)
		return nil, ErrNotReady
	}
	if strings.TrimSpace(req.Query) == "" {
		err := fmt.Errorf("%w: search query is required", ErrInvalidRequest)
		s.recordRetrieval(start, "error", 0)
		telemetry.RecordError(ctx, err)
		return nil, err
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		s.recordRetrieval(start, "error", 0)
		return nil, fmt.Errorf("acquire retrieval slot: %w", err)
	}
	defer s.sem.Release(1)

	limit := req.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	query := strings.ToLower(req.Query)

	s.mu.RLock()
	matches := make([]Episode, 0, limit)
	for i := len(s.episodes) - 1; i >= 0 && len(matches) < limit; i-- {
		ep := s.episodes[i]
		if req.GroupID != "" && ep.GroupID != req.GroupID {
			continue
		}
		if strings.Contains(strings.ToLower(ep.Content), query) ||
			strings.Contains(strings.ToLower(ep.Name), query) {
			matches = append(matches, ep)
		}
	}
	s.mu.RUnlock()

	s.recordRetrieval(start, "ok", len(matches))
	telemetry.SetAttributes(ctx, telemetry.ResultCount(len(matches)))

	logger.DebugCtx(ctx, "Retrieval completed",
		logger.Query(req.Query),
		logger.Count(len(matches)),
	)
	return matches, nil
}

// EpisodeCount returns the number of episodes currently held in the history.
func (s *Service) EpisodeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.episodes)
}
