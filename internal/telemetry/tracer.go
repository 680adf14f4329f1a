package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Common attribute keys for startup and verification operations.
// These follow OpenTelemetry semantic conventions where applicable.
// Startup-specific keys use "startup." prefix, dependency probing uses
// "dependency.", verification uses "verify.".
const (
	// ========================================================================
	// Startup attributes
	// ========================================================================
	AttrPolicy   = "startup.policy"   // fail-fast, continue-degraded
	AttrState    = "startup.state"    // Sequencer state name
	AttrPhase    = "startup.phase"    // wait, init, serve, shutdown
	AttrDegraded = "startup.degraded" // Whether serving in degraded mode

	// ========================================================================
	// Dependency probe attributes
	// ========================================================================
	AttrTarget      = "dependency.target"       // host:port probed
	AttrHost        = "dependency.host"         // Target host
	AttrPort        = "dependency.port"         // Target port
	AttrAttempt     = "dependency.attempt"      // 1-based attempt number
	AttrMaxAttempts = "dependency.max_attempts" // Attempt budget
	AttrDelayMs     = "dependency.delay_ms"     // Backoff delay before next attempt
	AttrElapsedMs   = "dependency.elapsed_ms"   // Total wait time so far

	// ========================================================================
	// Verification attributes
	// ========================================================================
	AttrCheck    = "verify.check"    // Check name (env:OPENAI_API_KEY, health:liveness, ...)
	AttrCategory = "verify.category" // env, config, health, endpoints
	AttrRunID    = "verify.run_id"   // Verification run identifier
	AttrPassed   = "verify.passed"   // Check outcome

	// ========================================================================
	// HTTP attributes
	// ========================================================================
	AttrHTTPMethod = "http.method"      // Request method
	AttrHTTPPath   = "http.path"        // Request path
	AttrHTTPStatus = "http.status_code" // Response status code
	AttrURL        = "url.full"         // Full URL for outbound probes

	// ========================================================================
	// Graph attributes
	// ========================================================================
	AttrEpisodeID   = "graph.episode_id"   // Episode identifier
	AttrQuery       = "graph.query"        // Retrieval query string
	AttrResultCount = "graph.result_count" // Number of results returned
)

// Span names for operations.
// Format: <component>.<operation>
const (
	// ========================================================================
	// Startup sequence spans
	// ========================================================================

	// Root span for the whole startup sequence
	SpanStartupSequence = "startup.sequence"

	// Startup phases
	SpanStartupWait     = "startup.wait_dependency"
	SpanStartupInit     = "startup.initialize"
	SpanStartupServe    = "startup.serve"
	SpanStartupShutdown = "startup.shutdown"

	// Single TCP reachability probe
	SpanProbe = "dependency.probe"

	// ========================================================================
	// Verification spans
	// ========================================================================
	SpanVerifyRun      = "verify.run"
	SpanVerifyEnv      = "verify.env"
	SpanVerifyURI      = "verify.uri"
	SpanVerifyHealth   = "verify.health"
	SpanVerifyEndpoint = "verify.endpoint"

	// ========================================================================
	// API spans
	// ========================================================================
	SpanHTTPRequest = "http.request"

	// ========================================================================
	// Graph facade spans
	// ========================================================================
	SpanGraphInit        = "graph.initialize"
	SpanGraphIngest      = "graph.ingest"
	SpanGraphRetrieve    = "graph.retrieve"
	SpanGraphHealthcheck = "graph.healthcheck"
)

// Policy returns an attribute for the startup policy name
func Policy(name string) attribute.KeyValue {
	return attribute.String(AttrPolicy, name)
}

// State returns an attribute for the sequencer state name
func State(name string) attribute.KeyValue {
	return attribute.String(AttrState, name)
}

// Phase returns an attribute for the startup phase
func Phase(name string) attribute.KeyValue {
	return attribute.String(AttrPhase, name)
}

// Degraded returns an attribute for degraded-mode serving
func Degraded(degraded bool) attribute.KeyValue {
	return attribute.Bool(AttrDegraded, degraded)
}

// Target returns an attribute for a dependency target address
func Target(addr string) attribute.KeyValue {
	return attribute.String(AttrTarget, addr)
}

// Host returns an attribute for a dependency host
func Host(host string) attribute.KeyValue {
	return attribute.String(AttrHost, host)
}

// Port returns an attribute for a dependency port
func Port(port int) attribute.KeyValue {
	return attribute.Int(AttrPort, port)
}

// Attempt returns an attribute for a probe attempt number
func Attempt(n int) attribute.KeyValue {
	return attribute.Int(AttrAttempt, n)
}

// MaxAttempts returns an attribute for the attempt budget
func MaxAttempts(n int) attribute.KeyValue {
	return attribute.Int(AttrMaxAttempts, n)
}

// Delay returns an attribute for a backoff delay in milliseconds
func Delay(d time.Duration) attribute.KeyValue {
	return attribute.Int64(AttrDelayMs, d.Milliseconds())
}

// Elapsed returns an attribute for total elapsed wait time in milliseconds
func Elapsed(d time.Duration) attribute.KeyValue {
	return attribute.Int64(AttrElapsedMs, d.Milliseconds())
}

// Check returns an attribute for a verification check name
func Check(name string) attribute.KeyValue {
	return attribute.String(AttrCheck, name)
}

// Category returns an attribute for a verification category
func Category(name string) attribute.KeyValue {
	return attribute.String(AttrCategory, name)
}

// RunID returns an attribute for a verification run identifier
func RunID(id string) attribute.KeyValue {
	return attribute.String(AttrRunID, id)
}

// Passed returns an attribute for a check outcome
func Passed(passed bool) attribute.KeyValue {
	return attribute.Bool(AttrPassed, passed)
}

// HTTPMethod returns an attribute for an HTTP request method
func HTTPMethod(method string) attribute.KeyValue {
	return attribute.String(AttrHTTPMethod, method)
}

// HTTPPath returns an attribute for an HTTP request path
func HTTPPath(path string) attribute.KeyValue {
	return attribute.String(AttrHTTPPath, path)
}

// HTTPStatus returns an attribute for an HTTP status code
func HTTPStatus(code int) attribute.KeyValue {
	return attribute.Int(AttrHTTPStatus, code)
}

// URLFull returns an attribute for a full probed URL
func URLFull(url string) attribute.KeyValue {
	return attribute.String(AttrURL, url)
}

// EpisodeID returns an attribute for an episode identifier
func EpisodeID(id string) attribute.KeyValue {
	return attribute.String(AttrEpisodeID, id)
}

// Query returns an attribute for a retrieval query
func Query(q string) attribute.KeyValue {
	return attribute.String(AttrQuery, q)
}

// ResultCount returns an attribute for the number of results
func ResultCount(n int) attribute.KeyValue {
	return attribute.Int(AttrResultCount, n)
}

// StartPhaseSpan starts a span for a startup phase.
// This is a convenience function that sets the phase attribute.
func StartPhaseSpan(ctx context.Context, name, phase string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{
		Phase(phase),
	}
	allAttrs = append(allAttrs, attrs...)

	return StartSpan(ctx, name, trace.WithAttributes(allAttrs...))
}

// StartProbeSpan starts a span for a single dependency probe attempt.
func StartProbeSpan(ctx context.Context, target string, attempt int, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{
		Target(target),
		Attempt(attempt),
	}
	allAttrs = append(allAttrs, attrs...)

	return StartSpan(ctx, SpanProbe, trace.WithAttributes(allAttrs...))
}

// StartCheckSpan starts a span for a verification check.
func StartCheckSpan(ctx context.Context, category, check string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{
		Category(category),
		Check(check),
	}
	allAttrs = append(allAttrs, attrs...)

	return StartSpan(ctx, "verify."+category, trace.WithAttributes(allAttrs...))
}

// StartGraphSpan starts a span for a graph facade operation.
func StartGraphSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, "graph."+operation, trace.WithAttributes(attrs...))
}
