package sequencer

import "fmt"

// State is a phase of the startup sequence.
type State int32

const (
	// StateIdle is the initial state before Run is called.
	StateIdle State = iota

	// StateWaitingForDependency covers the dependency reachability wait.
	StateWaitingForDependency

	// StateInitializingApplication covers application initialization.
	StateInitializingApplication

	// StateServing means the application is serving requests.
	StateServing

	// StateShuttingDown covers graceful teardown.
	StateShuttingDown

	// StateStopped is the terminal state. Run always lands here.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWaitingForDependency:
		return "waiting_for_dependency"
	case StateInitializingApplication:
		return "initializing_application"
	case StateServing:
		return "serving"
	case StateShuttingDown:
		return "shutting_down"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Policy decides how the sequencer reacts to a failed startup phase.
type Policy int

const (
	// FailFast aborts the startup sequence on failure. This is the default:
	// an unreachable dependency should stop a deployment rollout rather
	// than produce a silently broken server.
	FailFast Policy = iota

	// ContinueDegraded logs the failure and keeps going. The server comes
	// up, reports unready on its readiness endpoint, and serves whatever
	// it can.
	ContinueDegraded
)

func (p Policy) String() string {
	switch p {
	case FailFast:
		return "fail-fast"
	case ContinueDegraded:
		return "continue-degraded"
	default:
		return "unknown"
	}
}

// ParsePolicy parses a policy name. The empty string parses to FailFast so
// unset configuration falls through to the default.
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "", "fail-fast":
		return FailFast, nil
	case "continue-degraded":
		return ContinueDegraded, nil
	default:
		return FailFast, fmt.Errorf("unknown policy %q (valid: fail-fast, continue-degraded)", name)
	}
}
