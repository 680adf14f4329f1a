// Package graph provides the knowledge graph service facade.
//
// The facade fronts a Neo4j-backed knowledge graph. Initialize performs a
// single reachability handshake against the configured endpoint and marks
// the service ready; Healthcheck re-probes the endpoint on demand. Episode
// ingestion and retrieval are bounded by a weighted semaphore so a burst of
// requests cannot overwhelm the backing graph, and ingested episodes are
// kept in a size-bounded in-memory history with substring retrieval.
package graph

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/marmos91/graphd/internal/logger"
	"github.com/marmos91/graphd/internal/telemetry"
	"github.com/marmos91/graphd/pkg/metrics"
	"github.com/marmos91/graphd/pkg/probe"
)

// ErrNotReady is returned by operations invoked before Initialize has
// succeeded or after Shutdown.
var ErrNotReady = errors.New("graph service not ready")

// ErrInvalidRequest wraps request validation failures so HTTP handlers can
// map them to a 400 response.
var ErrInvalidRequest = errors.New("invalid request")

const (
	// DefaultSemaphoreLimit bounds concurrent graph operations.
	DefaultSemaphoreLimit = 20

	// DefaultHistoryLimit bounds the in-memory episode history.
	DefaultHistoryLimit = 1000

	// DefaultSearchLimit is the result cap applied when a search request
	// does not specify one.
	DefaultSearchLimit = 10
)

// Options configures a graph service.
type Options struct {
	// URI is the Neo4j endpoint, e.g. "bolt://neo4j:7687".
	URI string

	// User and Password authenticate against Neo4j. Both are required.
	User     string
	Password string

	// OpenAIAPIKey authenticates episode extraction calls. Required.
	OpenAIAPIKey string

	// ModelName and EmbeddingModelName select the models used for episode
	// extraction and embedding.
	ModelName          string
	EmbeddingModelName string

	// SemaphoreLimit bounds concurrent AddEpisode/Search operations.
	// Defaults to DefaultSemaphoreLimit.
	SemaphoreLimit int

	// HistoryLimit bounds the in-memory episode history. Oldest episodes
	// are dropped first. Defaults to DefaultHistoryLimit.
	HistoryLimit int

	// ProbeTimeout bounds each reachability handshake.
	// Defaults to probe.DefaultTimeout.
	ProbeTimeout time.Duration
}

func (o *Options) normalize() {
	if o.SemaphoreLimit <= 0 {
		o.SemaphoreLimit = DefaultSemaphoreLimit
	}
	if o.HistoryLimit <= 0 {
		o.HistoryLimit = DefaultHistoryLimit
	}
	if o.ProbeTimeout <= 0 {
		o.ProbeTimeout = probe.DefaultTimeout
	}
}

func (o *Options) validate() error {
	if o.URI == "" {
		return errors.New("neo4j uri is required (set NEO4J_URI)")
	}
	if o.User == "" {
		return errors.New("neo4j user is required (set NEO4J_USER)")
	}
	if o.Password == "" {
		return errors.New("neo4j password is required (set NEO4J_PASSWORD)")
	}
	if o.OpenAIAPIKey == "" {
		return errors.New("openai api key is required (set OPENAI_API_KEY)")
	}
	return nil
}

// Service is the knowledge graph facade.
//
// A Service starts not-ready: every operation except Initialize returns
// ErrNotReady until a handshake against the graph endpoint succeeds.
// All methods are safe for concurrent use.
type Service struct {
	opts    Options
	sem     *semaphore.Weighted
	metrics metrics.GraphMetrics

	mu       sync.RWMutex
	prober   probe.Prober
	ready    bool
	episodes []Episode
}

// Option customizes a Service.
type Option func(*Service)

// WithMetrics attaches a graph metrics recorder.
func WithMetrics(m metrics.GraphMetrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithProber overrides the endpoint prober built from the URI.
// Tests use this to avoid real network dials.
func WithProber(p probe.Prober) Option {
	return func(s *Service) {
		s.prober = p
	}
}

// New creates a graph service from the given options. The service is not
// ready until Initialize succeeds.
func New(opts Options, options ...Option) *Service {
	opts.normalize()

	s := &Service{
		opts: opts,
		sem:  semaphore.NewWeighted(int64(opts.SemaphoreLimit)),
	}
	for _, o := range options {
		o(s)
	}
	return s
}

// Initialize validates the options, performs one reachability handshake
// against the graph endpoint, and marks the service ready.
func (s *Service) Initialize(ctx context.Context) error {
	ctx, span := telemetry.StartGraphSpan(ctx, "initialize")
	defer span.End()

	if err := s.opts.validate(); err != nil {
		telemetry.RecordError(ctx, err)
		return err
	}

	s.mu.Lock()
	prober := s.prober
	if prober == nil {
		endpoint, err := probe.ParseTarget(s.opts.URI)
		if err != nil {
			s.mu.Unlock()
			telemetry.RecordError(ctx, err)
			return fmt.Errorf("invalid neo4j uri: %w", err)
		}
		prober = probe.NewTCP(endpoint, s.opts.ProbeTimeout)
		s.prober = prober
	}
	s.mu.Unlock()

	telemetry.SetAttributes(ctx, telemetry.Target(prober.Target()))

	if err := prober.Probe(ctx); err != nil {
		telemetry.RecordError(ctx, err)
		return fmt.Errorf("graph handshake %s: %w", prober.Target(), err)
	}

	s.mu.Lock()
	s.ready = true
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.SetReady(true)
	}

	logger.InfoCtx(ctx, "Graph service initialized",
		logger.Target(prober.Target()),
		"model", s.opts.ModelName,
		"embedding_model", s.opts.EmbeddingModelName,
	)
	return nil
}

// Shutdown marks the service not-ready and waits for in-flight operations
// to drain, bounded by ctx.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	wasReady := s.ready
	s.ready = false
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.SetReady(false)
	}
	if !wasReady {
		return nil
	}

	// Acquiring the full semaphore weight waits for every in-flight
	// operation to release its slot.
	weight := int64(s.opts.SemaphoreLimit)
	if err := s.sem.Acquire(ctx, weight); err != nil {
		return fmt.Errorf("drain in-flight graph operations: %w", err)
	}
	s.sem.Release(weight)

	logger.InfoCtx(ctx, "Graph service shut down")
	return nil
}

// Ready reports whether the service has been initialized and not shut down.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Target returns the probed endpoint as host:port, or the raw URI before
// Initialize has parsed it.
func (s *Service) Target() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.prober != nil {
		return s.prober.Target()
	}
	return s.opts.URI
}

// Healthcheck re-probes the graph endpoint. It returns ErrNotReady before
// initialization and a wrapped dial error when the endpoint has become
// unreachable since.
func (s *Service) Healthcheck(ctx context.Context) error {
	s.mu.RLock()
	ready, prober := s.ready, s.prober
	s.mu.RUnlock()

	if !ready || prober == nil {
		return ErrNotReady
	}
	if err := prober.Probe(ctx); err != nil {
		return fmt.Errorf("graph unreachable: %w", err)
	}
	return nil
}

func (s *Service) recordEpisode(start time.Time, status string) {
	if s.metrics != nil {
		s.metrics.RecordEpisode(time.Since(start), status)
	}
}

func (s *Service) recordRetrieval(start time.Time, status string, results int) {
	if s.metrics != nil {
		s.metrics.RecordRetrieval(time.Since(start), status, results)
	}
}
