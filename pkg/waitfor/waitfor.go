// Package waitfor drives capped exponential retries of a readiness probe.
//
// The waiter decouples retry policy from the probe itself: pkg/probe answers
// "is the dependency up right now", waitfor decides how often and for how long
// to keep asking. Delays follow min(initial*multiplier^i, max) with no jitter,
// so a given policy always produces the same schedule.
package waitfor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/marmos91/graphd/internal/logger"
	"github.com/marmos91/graphd/pkg/metrics"
	"github.com/marmos91/graphd/pkg/probe"
)

// ErrNotReady reports that the dependency stayed unreachable for the whole
// attempt budget. Callers match it with errors.Is.
var ErrNotReady = errors.New("dependency not ready")

// Policy controls the retry schedule for a dependency wait.
//
// Zero fields fall back to the matching DefaultPolicy values, so a partially
// populated Policy is still usable.
type Policy struct {
	// MaxAttempts is the total number of probe attempts, first one included.
	MaxAttempts int

	// InitialDelay is the pause after the first failed attempt.
	InitialDelay time.Duration

	// Multiplier grows the delay after each failed attempt.
	Multiplier float64

	// MaxDelay caps the grown delay.
	MaxDelay time.Duration
}

// DefaultPolicy returns the standard schedule: 30 attempts starting at 2s,
// growing by 1.2x per attempt and capped at 10s.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:  30,
		InitialDelay: 2 * time.Second,
		Multiplier:   1.2,
		MaxDelay:     10 * time.Second,
	}
}

func (p Policy) normalized() Policy {
	def := DefaultPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = def.MaxAttempts
	}
	if p.InitialDelay <= 0 {
		p.InitialDelay = def.InitialDelay
	}
	if p.Multiplier <= 0 {
		p.Multiplier = def.Multiplier
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = def.MaxDelay
	}
	return p
}

// Waiter retries a prober until it succeeds, the attempt budget runs out, or
// the context is cancelled.
type Waiter struct {
	prober  probe.Prober
	policy  Policy
	metrics metrics.WaitMetrics

	// timer overrides the backoff sleep source in tests.
	timer backoff.Timer
}

// Option configures optional Waiter collaborators.
type Option func(*Waiter)

// WithMetrics attaches wait metrics. A nil value disables collection.
func WithMetrics(m metrics.WaitMetrics) Option {
	return func(w *Waiter) {
		w.metrics = m
	}
}

// New creates a Waiter for the given prober and policy.
func New(prober probe.Prober, policy Policy, opts ...Option) *Waiter {
	w := &Waiter{
		prober: prober,
		policy: policy.normalized(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Wait probes the dependency until it is ready.
//
// It returns nil as soon as one probe succeeds. After MaxAttempts failures it
// returns an error wrapping ErrNotReady. Context cancellation interrupts a
// pending delay immediately and returns ctx.Err().
func (w *Waiter) Wait(ctx context.Context) error {
	target := w.prober.Target()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = w.policy.InitialDelay
	b.RandomizationFactor = 0
	b.Multiplier = w.policy.Multiplier
	b.MaxInterval = w.policy.MaxDelay
	b.MaxElapsedTime = 0

	// MaxAttempts total attempts means MaxAttempts-1 retries after the first.
	schedule := backoff.WithContext(backoff.WithMaxRetries(b, uint64(w.policy.MaxAttempts-1)), ctx)

	logger.Info("Waiting for dependency",
		logger.Target(target),
		logger.MaxAttempts(w.policy.MaxAttempts),
		logger.Delay(w.policy.InitialDelay))

	start := time.Now()
	attempt := 0
	operation := func() error {
		attempt++
		if err := w.prober.Probe(ctx); err != nil {
			if w.metrics != nil {
				w.metrics.RecordAttempt(target, false)
			}
			logger.Warn("Dependency not ready",
				logger.Target(target),
				logger.Attempt(attempt),
				logger.MaxAttempts(w.policy.MaxAttempts),
				logger.Err(err))
			return err
		}
		if w.metrics != nil {
			w.metrics.RecordAttempt(target, true)
		}
		return nil
	}

	err := backoff.RetryNotifyWithTimer(operation, schedule, nil, w.timer)
	elapsed := time.Since(start)

	switch {
	case err == nil:
		if w.metrics != nil {
			w.metrics.RecordWait(target, elapsed, "ready")
		}
		logger.Info("Dependency ready",
			logger.Target(target),
			logger.Attempt(attempt),
			logger.DurationMs(float64(elapsed.Microseconds())/1000))
		return nil

	case ctx.Err() != nil:
		if w.metrics != nil {
			w.metrics.RecordWait(target, elapsed, "cancelled")
		}
		logger.Info("Dependency wait cancelled",
			logger.Target(target),
			logger.Attempt(attempt))
		return err

	default:
		if w.metrics != nil {
			w.metrics.RecordWait(target, elapsed, "exhausted")
		}
		logger.Error("Dependency unavailable, retry budget exhausted",
			logger.Target(target),
			logger.Attempt(attempt),
			logger.MaxAttempts(w.policy.MaxAttempts),
			logger.Err(err))
		return fmt.Errorf("%w: %s after %d attempts (last error: %v)", ErrNotReady, target, attempt, err)
	}
}
