package metrics

import (
	"time"
)

// HTTPMetrics provides observability for API request handling.
//
// This interface is optional - pass nil to disable metrics collection with
// zero overhead.
type HTTPMetrics interface {
	// RecordRequest records a completed HTTP request.
	//
	// Parameters:
	//   - method: HTTP method (e.g., "GET", "POST")
	//   - path: Route pattern (e.g., "/healthcheck")
	//   - status: Response status code
	//   - duration: Time taken to serve the request
	RecordRequest(method, path string, status int, duration time.Duration)

	// RecordRequestStart increments the in-flight request counter.
	RecordRequestStart(method, path string)

	// RecordRequestEnd decrements the in-flight request counter.
	RecordRequestEnd(method, path string)
}
