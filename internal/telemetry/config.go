package telemetry

// Config selects the tracing backend.
type Config struct {
	// Enabled turns on span export. Off by default so deployments opt in.
	Enabled bool

	// ServiceName identifies this process in the trace backend.
	ServiceName string

	// ServiceVersion is reported alongside the service name.
	ServiceVersion string

	// Endpoint is the OTLP gRPC collector address, host:port.
	Endpoint string

	// Insecure disables TLS on the collector connection.
	Insecure bool

	// SampleRate is the fraction of traces to keep, 0.0 through 1.0.
	SampleRate float64
}

// DefaultConfig points at a local collector with tracing off.
func DefaultConfig() Config {
	return Config{
		Enabled:        false,
		ServiceName:    "graphd",
		ServiceVersion: "dev",
		Endpoint:       "localhost:4317",
		Insecure:       true,
		SampleRate:     1.0,
	}
}
