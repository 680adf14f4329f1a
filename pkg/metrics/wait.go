package metrics

import (
	"time"
)

// WaitMetrics provides observability for dependency wait attempts.
//
// Implementations collect metrics about individual probe attempts and overall
// wait outcomes. This interface is optional - pass nil to disable metrics
// collection with zero overhead.
//
// Example usage:
//
//	// With metrics enabled
//	metrics.InitRegistry()
//	waiter := waitfor.New(prober, policy, waitfor.WithMetrics(prometheus.NewWaitMetrics()))
//
//	// Without metrics (zero overhead)
//	waiter := waitfor.New(prober, policy)
type WaitMetrics interface {
	// RecordAttempt records a single reachability probe against a target.
	//
	// Parameters:
	//   - target: Probed address as host:port
	//   - success: Whether the TCP handshake succeeded
	RecordAttempt(target string, success bool)

	// RecordWait records a completed wait with its total duration and outcome.
	//
	// Parameters:
	//   - target: Probed address as host:port
	//   - duration: Total time spent waiting, including backoff delays
	//   - outcome: "ready", "exhausted", or "cancelled"
	RecordWait(target string, duration time.Duration, outcome string)
}
