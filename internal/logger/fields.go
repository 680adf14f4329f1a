package logger

import (
	"log/slog"
	"time"
)

// Standard field keys for structured logging.
// Use these keys consistently across all log statements so that startup,
// verification, and request logs can be aggregated and queried together.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id" // OpenTelemetry trace ID for request correlation
	KeySpanID  = "span_id"  // OpenTelemetry span ID for operation tracking

	// ========================================================================
	// Startup & Dependency Wait
	// ========================================================================
	KeyTarget      = "target"       // Dependency target as host:port
	KeyAttempt     = "attempt"      // Probe attempt number (1-based)
	KeyMaxAttempts = "max_attempts" // Attempt budget for the wait
	KeyDelay       = "delay"        // Backoff delay before the next attempt
	KeyState       = "state"        // Sequencer state name
	KeyPolicy      = "policy"       // Startup policy: fail-fast, continue-degraded
	KeyPhase       = "phase"        // Startup phase: wait, init, serve, shutdown

	// ========================================================================
	// Verification
	// ========================================================================
	KeyCheck    = "check"    // Verification check name
	KeyCategory = "category" // Verification category: env, config, health, endpoints
	KeyRunID    = "run_id"   // Verification run identifier

	// ========================================================================
	// HTTP Surface
	// ========================================================================
	KeyMethod     = "method"      // HTTP method
	KeyPath       = "path"        // HTTP request path
	KeyURL        = "url"         // Full URL for outbound probes
	KeyStatusCode = "status_code" // HTTP status code
	KeyRemoteAddr = "remote_addr" // Client remote address
	KeyRequestID  = "request_id"  // Middleware-assigned request ID

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyComponent  = "component"   // Subsystem emitting the log line
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
	KeyCount      = "count"       // Generic element count
	KeyEpisodeID  = "episode_id"  // Graph episode identifier
	KeyQuery      = "query"       // Retrieval query string
	KeyPort       = "port"        // Listening or target port
	KeyVersion    = "version"     // Build version string
)

// ============================================================================
// Field constructors for type safety
// ============================================================================

// TraceID returns a slog.Attr for OpenTelemetry trace ID
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// SpanID returns a slog.Attr for OpenTelemetry span ID
func SpanID(id string) slog.Attr {
	return slog.String(KeySpanID, id)
}

// Target returns a slog.Attr for a dependency target address
func Target(addr string) slog.Attr {
	return slog.String(KeyTarget, addr)
}

// Attempt returns a slog.Attr for a probe attempt number
func Attempt(n int) slog.Attr {
	return slog.Int(KeyAttempt, n)
}

// MaxAttempts returns a slog.Attr for the attempt budget
func MaxAttempts(n int) slog.Attr {
	return slog.Int(KeyMaxAttempts, n)
}

// Delay returns a slog.Attr for a backoff delay
func Delay(d time.Duration) slog.Attr {
	return slog.Duration(KeyDelay, d)
}

// State returns a slog.Attr for a sequencer state name
func State(s string) slog.Attr {
	return slog.String(KeyState, s)
}

// Policy returns a slog.Attr for a startup policy name
func Policy(p string) slog.Attr {
	return slog.String(KeyPolicy, p)
}

// Phase returns a slog.Attr for a startup phase
func Phase(p string) slog.Attr {
	return slog.String(KeyPhase, p)
}

// Check returns a slog.Attr for a verification check name
func Check(name string) slog.Attr {
	return slog.String(KeyCheck, name)
}

// Category returns a slog.Attr for a verification category
func Category(name string) slog.Attr {
	return slog.String(KeyCategory, name)
}

// RunID returns a slog.Attr for a verification run identifier
func RunID(id string) slog.Attr {
	return slog.String(KeyRunID, id)
}

// Method returns a slog.Attr for an HTTP method
func Method(m string) slog.Attr {
	return slog.String(KeyMethod, m)
}

// Path returns a slog.Attr for an HTTP request path
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// URL returns a slog.Attr for a probed URL
func URL(u string) slog.Attr {
	return slog.String(KeyURL, u)
}

// StatusCode returns a slog.Attr for an HTTP status code
func StatusCode(code int) slog.Attr {
	return slog.Int(KeyStatusCode, code)
}

// RemoteAddr returns a slog.Attr for a client remote address
func RemoteAddr(addr string) slog.Attr {
	return slog.String(KeyRemoteAddr, addr)
}

// RequestIDStr returns a slog.Attr for a request ID
func RequestIDStr(id string) slog.Attr {
	return slog.String(KeyRequestID, id)
}

// Component returns a slog.Attr for the emitting subsystem
func Component(name string) slog.Attr {
	return slog.String(KeyComponent, name)
}

// DurationMs returns a slog.Attr for duration in milliseconds
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Count returns a slog.Attr for a generic element count
func Count(n int) slog.Attr {
	return slog.Int(KeyCount, n)
}

// EpisodeID returns a slog.Attr for a graph episode identifier
func EpisodeID(id string) slog.Attr {
	return slog.String(KeyEpisodeID, id)
}

// Query returns a slog.Attr for a retrieval query
func Query(q string) slog.Attr {
	return slog.String(KeyQuery, q)
}

// Port returns a slog.Attr for a port number
func Port(p int) slog.Attr {
	return slog.Int(KeyPort, p)
}

// Version returns a slog.Attr for a build version string
func Version(v string) slog.Attr {
	return slog.String(KeyVersion, v)
}
