package api

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Config configures the HTTP server.
type Config struct {
	// Host is the listen address.
	// Default: 0.0.0.0
	Host string

	// Port is the HTTP port.
	// Default: 8000
	Port int

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body.
	// Default: 10s
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. Ingest requests can take a while, so this is generous.
	// Default: 30s
	WriteTimeout time.Duration

	// IdleTimeout is the maximum amount of time to wait for the next
	// request when keep-alives are enabled.
	// Default: 60s
	IdleTimeout time.Duration

	// RequestTimeout bounds each request through the timeout middleware.
	// Default: 60s
	RequestTimeout time.Duration

	// MaxBodySize caps request body size in bytes.
	// Default: 1 MiB
	MaxBodySize int64

	// Version is the build version reported by the root endpoint.
	// Default: "dev"
	Version string
}

// applyDefaults fills in zero values with sensible defaults.
//
// Defaults are applied here to ensure the server works correctly even when
// created directly (e.g., in tests). This is idempotent with the defaults
// applied during config loading.
func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port <= 0 {
		c.Port = 8000
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 10 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 30 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60 * time.Second
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 60 * time.Second
	}
	if c.MaxBodySize <= 0 {
		c.MaxBodySize = 1 << 20
	}
	if c.Version == "" {
		c.Version = "dev"
	}
}

// Addr returns the listen address as host:port.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// BaseURL returns a loopback URL for reaching the server locally,
// regardless of the bind address.
func (c *Config) BaseURL() string {
	return fmt.Sprintf("http://localhost:%d", c.Port)
}
