package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/marmos91/graphd/internal/logger"
	"github.com/marmos91/graphd/pkg/api/handlers"
	"github.com/marmos91/graphd/pkg/metrics"
)

// NewRouter creates and configures the chi router with all middleware and
// routes.
//
// The router is configured with:
//   - Request ID middleware for request tracking
//   - Real IP extraction for proper client identification
//   - Custom request logging using the internal logger
//   - Panic recovery to prevent server crashes
//   - Request timeout to prevent hung requests
//   - Request body size limiting
//   - HTTP metrics collection when a recorder is provided
//
// Routes:
//   - GET / - Service banner
//   - GET /healthcheck - Liveness probe
//   - GET /healthcheck/ready - Readiness probe
//   - POST /ingest - Episode ingestion
//   - POST /retrieve - Episode retrieval
func NewRouter(config Config, graph handlers.GraphService, startup handlers.StartupStatus, httpMetrics metrics.HTTPMetrics) http.Handler {
	config.applyDefaults()

	r := chi.NewRouter()

	// Middleware stack - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(config.RequestTimeout))
	r.Use(limitBody(config.MaxBodySize))
	if httpMetrics != nil {
		r.Use(metricsMiddleware(httpMetrics))
	}

	// Unknown routes and wrong methods get problem+json like everything else
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		handlers.NotFound(w, "no route for "+req.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		handlers.MethodNotAllowed(w, req.Method+" is not allowed on "+req.URL.Path)
	})

	rootHandler := handlers.NewRootHandler(config.Version)
	healthHandler := handlers.NewHealthHandler(graph, startup)
	episodeHandler := handlers.NewEpisodeHandler(graph)

	r.Get("/", rootHandler.Root)

	// Health routes
	r.Route("/healthcheck", func(r chi.Router) {
		r.Get("/", healthHandler.Liveness)
		r.Get("/ready", healthHandler.Readiness)
	})

	// Business surface
	r.Post("/ingest", episodeHandler.Ingest)
	r.Post("/retrieve", episodeHandler.Retrieve)

	return r
}

// isHealthPath returns true if the request path is a healthcheck endpoint.
func isHealthPath(path string) bool {
	return path == "/healthcheck" || strings.HasPrefix(path, "/healthcheck/")
}

// requestLogger is a custom middleware that logs requests using the
// internal logger.
//
// It logs:
//   - Request start (DEBUG level): method, path, remote addr
//   - Request completion (INFO level): method, path, status, duration
//   - Healthcheck requests are logged at DEBUG level to reduce noise
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		logger.Debug("Request started",
			logger.RequestIDStr(requestID),
			logger.Method(r.Method),
			logger.Path(r.URL.Path),
			logger.RemoteAddr(r.RemoteAddr),
		)

		// Wrap response writer to capture status code
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		logArgs := []any{
			logger.RequestIDStr(requestID),
			logger.Method(r.Method),
			logger.Path(r.URL.Path),
			logger.StatusCode(ww.Status()),
			logger.DurationMs(logger.Duration(start)),
		}

		// Log healthcheck requests at DEBUG to avoid polluting logs in k8s
		if isHealthPath(r.URL.Path) {
			logger.Debug("Request completed", logArgs...)
		} else {
			logger.Info("Request completed", logArgs...)
		}
	})
}

// limitBody caps the request body size. Oversized bodies surface as
// *http.MaxBytesError during decoding, which handlers map to 413.
func limitBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// metricsMiddleware records request counts, latency, and in-flight gauge.
func metricsMiddleware(m metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			m.RecordRequestStart(r.Method, r.URL.Path)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			m.RecordRequestEnd(r.Method, r.URL.Path)
			m.RecordRequest(r.Method, r.URL.Path, ww.Status(), time.Since(start))
		})
	}
}
