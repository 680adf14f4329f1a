package metrics

import (
	"time"
)

// StartupMetrics provides observability for the startup sequencer.
//
// This interface is optional - pass nil to disable metrics collection with
// zero overhead.
type StartupMetrics interface {
	// SetState publishes the current sequencer state. Only one state is
	// active at a time.
	//
	// Parameters:
	//   - state: Sequencer state name (e.g., "waiting_for_dependency", "serving")
	SetState(state string)

	// RecordPhase records a completed startup phase.
	//
	// Parameters:
	//   - phase: Phase name ("wait", "init", "serve", "shutdown")
	//   - duration: Time spent in the phase
	//   - success: Whether the phase completed without error
	RecordPhase(phase string, duration time.Duration, success bool)
}
