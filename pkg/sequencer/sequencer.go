// Package sequencer drives the ordered startup of a server with an
// external dependency: wait for the dependency, initialize the
// application, serve, shut down.
//
// Phase failures are resolved by policy. FailFast surfaces the failure as
// an error from Run so the caller can exit non-zero; ContinueDegraded logs
// it, records a degraded reason, and keeps going. The sequencer itself
// never terminates the process.
package sequencer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/marmos91/graphd/internal/logger"
	"github.com/marmos91/graphd/internal/telemetry"
	"github.com/marmos91/graphd/pkg/metrics"
)

// ErrDependencyUnavailable is returned by Run when the dependency wait
// exhausts its budget under a fail-fast policy.
var ErrDependencyUnavailable = errors.New("dependency unavailable")

// ErrInitFailed is returned by Run when application initialization fails
// under a fail-fast policy.
var ErrInitFailed = errors.New("application initialization failed")

// DefaultShutdownTimeout bounds the graceful teardown phase.
const DefaultShutdownTimeout = 30 * time.Second

// Waiter blocks until a dependency is reachable or the attempt budget is
// exhausted.
type Waiter interface {
	Wait(ctx context.Context) error
}

// Initializer is the application brought up and torn down by the sequencer.
type Initializer interface {
	Initialize(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// ServeFunc blocks serving requests until ctx is cancelled or the server
// fails.
type ServeFunc func(ctx context.Context) error

// Sequencer runs the startup state machine.
//
// Construct one with New, then call Run exactly once. State is readable
// concurrently while Run executes.
type Sequencer struct {
	waiter      Waiter
	initializer Initializer
	serve       ServeFunc

	dependencyPolicy Policy
	initPolicy       Policy
	shutdownTimeout  time.Duration
	metrics          metrics.StartupMetrics

	state atomic.Int32

	mu             sync.RWMutex
	degradedReason string
}

// Option customizes a Sequencer.
type Option func(*Sequencer)

// WithDependencyPolicy sets the policy applied when the dependency wait
// fails. Defaults to FailFast.
func WithDependencyPolicy(p Policy) Option {
	return func(s *Sequencer) {
		s.dependencyPolicy = p
	}
}

// WithInitPolicy sets the policy applied when application initialization
// fails. Defaults to FailFast.
func WithInitPolicy(p Policy) Option {
	return func(s *Sequencer) {
		s.initPolicy = p
	}
}

// WithShutdownTimeout bounds the graceful teardown phase.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Sequencer) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// WithMetrics attaches a startup metrics recorder.
func WithMetrics(m metrics.StartupMetrics) Option {
	return func(s *Sequencer) {
		s.metrics = m
	}
}

// New creates a sequencer over the given collaborators.
//
// A nil waiter or initializer makes the corresponding phase a no-op; a nil
// serve function blocks until ctx is cancelled.
func New(waiter Waiter, initializer Initializer, serve ServeFunc, opts ...Option) *Sequencer {
	s := &Sequencer{
		waiter:           waiter,
		initializer:      initializer,
		serve:            serve,
		dependencyPolicy: FailFast,
		initPolicy:       FailFast,
		shutdownTimeout:  DefaultShutdownTimeout,
	}
	s.state.Store(int32(StateIdle))

	for _, o := range opts {
		o(s)
	}
	return s
}

// State returns the current sequencer state.
func (s *Sequencer) State() State {
	return State(s.state.Load())
}

// Degraded reports whether a startup phase failed under a
// continue-degraded policy, and why.
func (s *Sequencer) Degraded() (bool, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.degradedReason != "", s.degradedReason
}

// Run drives the state machine to completion. It returns nil after a clean
// shutdown, ctx.Err() when cancelled before serving, a wrapped
// ErrDependencyUnavailable or ErrInitFailed under fail-fast policies, or
// the serve function's error. The sequencer always lands in StateStopped.
func (s *Sequencer) Run(ctx context.Context) error {
	defer s.enterState(StateStopped)

	logger.Info("Startup sequence beginning",
		logger.Policy(s.dependencyPolicy.String()),
		"init_policy", s.initPolicy.String(),
	)

	s.enterState(StateWaitingForDependency)
	if err := s.waitForDependency(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if s.dependencyPolicy == FailFast {
			return fmt.Errorf("%w: %w", ErrDependencyUnavailable, err)
		}
		s.markDegraded(fmt.Sprintf("dependency unavailable: %v", err))
		logger.Error("Dependency unavailable, continuing degraded",
			logger.Policy(s.dependencyPolicy.String()),
			logger.Err(err),
		)
	}

	s.enterState(StateInitializingApplication)
	if err := s.initializeApplication(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if s.initPolicy == FailFast {
			return fmt.Errorf("%w: %w", ErrInitFailed, err)
		}
		s.markDegraded(fmt.Sprintf("initialization failed: %v", err))
		logger.Error("Application initialization failed, continuing degraded",
			logger.Policy(s.initPolicy.String()),
			logger.Err(err),
		)
	}

	s.enterState(StateServing)
	serveErr := s.serveApplication(ctx)

	s.enterState(StateShuttingDown)
	s.shutdownApplication()

	return serveErr
}

func (s *Sequencer) enterState(st State) {
	s.state.Store(int32(st))
	if s.metrics != nil {
		s.metrics.SetState(st.String())
	}
	logger.Debug("Sequencer state changed", logger.State(st.String()))
}

func (s *Sequencer) markDegraded(reason string) {
	s.mu.Lock()
	s.degradedReason = reason
	s.mu.Unlock()
}

func (s *Sequencer) recordPhase(phase string, start time.Time, success bool) {
	if s.metrics != nil {
		s.metrics.RecordPhase(phase, time.Since(start), success)
	}
}

func (s *Sequencer) waitForDependency(ctx context.Context) error {
	if s.waiter == nil {
		return nil
	}

	start := time.Now()
	ctx, span := telemetry.StartPhaseSpan(ctx, "sequencer.wait", "wait")
	defer span.End()

	err := s.waiter.Wait(ctx)
	if err != nil {
		telemetry.RecordError(ctx, err)
	}
	s.recordPhase("wait", start, err == nil)
	return err
}

func (s *Sequencer) initializeApplication(ctx context.Context) error {
	if s.initializer == nil {
		return nil
	}

	start := time.Now()
	ctx, span := telemetry.StartPhaseSpan(ctx, "sequencer.init", "init")
	defer span.End()

	err := s.initializer.Initialize(ctx)
	if err != nil {
		telemetry.RecordError(ctx, err)
	}
	s.recordPhase("init", start, err == nil)
	return err
}

func (s *Sequencer) serveApplication(ctx context.Context) error {
	start := time.Now()
	degraded, reason := s.Degraded()

	ctx, span := telemetry.StartPhaseSpan(ctx, "sequencer.serve", "serve",
		telemetry.Degraded(degraded))
	defer span.End()

	if degraded {
		logger.Warn("Serving in degraded mode", "reason", reason)
	} else {
		logger.Info("Serving")
	}

	var err error
	if s.serve != nil {
		err = s.serve(ctx)
	} else {
		<-ctx.Done()
	}
	if err != nil {
		telemetry.RecordError(ctx, err)
	}
	s.recordPhase("serve", start, err == nil)
	return err
}

func (s *Sequencer) shutdownApplication() {
	start := time.Now()

	// The run context is typically already cancelled by the time we get
	// here, so teardown gets its own bounded context.
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	ctx, span := telemetry.StartPhaseSpan(ctx, "sequencer.shutdown", "shutdown")
	defer span.End()

	logger.Info("Shutting down", "timeout", s.shutdownTimeout)

	var err error
	if s.initializer != nil {
		err = s.initializer.Shutdown(ctx)
	}
	if err != nil {
		telemetry.RecordError(ctx, err)
		logger.Error("Application shutdown failed", logger.Err(err))
	}
	s.recordPhase("shutdown", start, err == nil)
}
