// Package probe provides reachability checks for startup dependencies.
//
// A probe answers one question: is the endpoint accepting TCP connections
// right now? Probes are single-shot and carry their own timeout; retry
// scheduling belongs to the waitfor package.
package probe

import (
	"context"
	"fmt"
	"net"
	"time"
)

// DefaultTimeout bounds a single connection attempt when the caller does not
// specify one. The retry driver applies its own schedule on top.
const DefaultTimeout = 5 * time.Second

// Prober checks whether a dependency endpoint is ready.
type Prober interface {
	// Probe performs one readiness check. It honors ctx for cancellation
	// and returns nil only when the dependency accepted a connection.
	Probe(ctx context.Context) error

	// Target returns a human-readable description of the probed endpoint.
	Target() string
}

// TCP probes an endpoint with a plain TCP connect. A successful handshake is
// the readiness signal; the connection is closed immediately without sending
// any payload, so the dependency sees nothing but an accept and a close.
type TCP struct {
	Endpoint Endpoint
	Timeout  time.Duration
}

// NewTCP creates a TCP prober for the given endpoint.
// A zero timeout selects DefaultTimeout.
func NewTCP(endpoint Endpoint, timeout time.Duration) *TCP {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &TCP{Endpoint: endpoint, Timeout: timeout}
}

// Probe dials the endpoint once. The per-attempt timeout applies on top of
// any deadline already present on ctx.
func (p *TCP) Probe(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, p.timeout())
	defer cancel()

	var dialer net.Dialer
	conn, err := dialer.DialContext(probeCtx, "tcp", p.Endpoint.Addr())
	if err != nil {
		return fmt.Errorf("dial %s: %w", p.Endpoint.Addr(), err)
	}

	// Reachability established; the connection itself is of no further use.
	_ = conn.Close()
	return nil
}

// Target returns the probed address in host:port form.
func (p *TCP) Target() string {
	return p.Endpoint.Addr()
}

func (p *TCP) timeout() time.Duration {
	if p.Timeout <= 0 {
		return DefaultTimeout
	}
	return p.Timeout
}
