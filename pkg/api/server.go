package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/marmos91/graphd/internal/logger"
	"github.com/marmos91/graphd/pkg/api/handlers"
	"github.com/marmos91/graphd/pkg/metrics"
)

// Server provides the graphd HTTP surface.
//
// Endpoints:
//   - GET /: Service banner with version and endpoint map
//   - GET /healthcheck: Liveness probe
//   - GET /healthcheck/ready: Readiness probe (startup state + graph reachability)
//   - POST /ingest: Episode ingestion
//   - POST /retrieve: Episode retrieval
//
// The server supports graceful shutdown with configurable timeout.
type Server struct {
	server       *http.Server
	config       Config
	shutdownOnce sync.Once
}

// NewServer creates a new HTTP server.
//
// The server is created in a stopped state. Call Start() to begin serving
// requests.
//
// Parameters:
//   - config: Server configuration (listen address, timeouts, body limit)
//   - graph: Graph service facade (may be nil; business endpoints then
//     report unavailable)
//   - startup: Startup status source for the readiness probe (may be nil)
//   - httpMetrics: Request metrics recorder (may be nil)
//
// Returns a configured but not yet started Server.
func NewServer(config Config, graph handlers.GraphService, startup handlers.StartupStatus, httpMetrics metrics.HTTPMetrics) *Server {
	config.applyDefaults()

	router := NewRouter(config, graph, startup, httpMetrics)

	server := &http.Server{
		Addr:         config.Addr(),
		Handler:      router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return &Server{
		server: server,
		config: config,
	}
}

// Start starts the HTTP server and blocks until the context is cancelled
// or an error occurs.
//
// When the context is cancelled, Start initiates graceful shutdown and
// returns.
//
// Returns:
//   - nil on graceful shutdown
//   - error if the server fails to start or shutdown encounters an error
func (s *Server) Start(ctx context.Context) error {
	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", s.config.Addr())
		logger.Debug("Endpoints available",
			"root", s.config.BaseURL()+"/",
			"healthcheck", s.config.BaseURL()+"/healthcheck",
			"ready", s.config.BaseURL()+"/healthcheck/ready",
		)

		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			select {
			case errChan <- err:
			default:
				// Context was cancelled, error is not needed
			}
		}
	}()

	// Wait for context cancellation or server error
	select {
	case <-ctx.Done():
		logger.Info("HTTP server shutdown signal received")
		// Create new context with timeout for graceful shutdown
		// Don't use the cancelled ctx as it would cause immediate shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Stop(shutdownCtx)
	case err := <-errChan:
		return fmt.Errorf("HTTP server failed: %w", err)
	}
}

// Stop initiates graceful shutdown of the HTTP server.
//
// Stop is safe to call multiple times and safe to call concurrently with
// Start().
func (s *Server) Stop(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		logger.Debug("HTTP server shutdown initiated")

		if err := s.server.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("HTTP server shutdown error: %w", err)
			logger.Error("HTTP server shutdown error", logger.Err(err))
		} else {
			logger.Info("HTTP server stopped gracefully")
		}
	})
	return shutdownErr
}

// Port returns the TCP port the server is listening on.
func (s *Server) Port() int {
	return s.config.Port
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.config.Addr()
}
