package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   Endpoint
	}{
		{
			name:   "bolt URI with port",
			target: "bolt://neo4j:7687",
			want:   Endpoint{Host: "neo4j", Port: 7687},
		},
		{
			name:   "bolt URI without port",
			target: "bolt://db",
			want:   Endpoint{Host: "db", Port: 7687},
		},
		{
			name:   "host and port without scheme",
			target: "db:9999",
			want:   Endpoint{Host: "db", Port: 9999},
		},
		{
			name:   "bare host",
			target: "localhost",
			want:   Endpoint{Host: "localhost", Port: 7687},
		},
		{
			name:   "encrypted bolt scheme",
			target: "neo4j+s://graph.example.com:7687",
			want:   Endpoint{Host: "graph.example.com", Port: 7687},
		},
		{
			name:   "neo4j scheme without port",
			target: "neo4j://graph.internal",
			want:   Endpoint{Host: "graph.internal", Port: 7687},
		},
		{
			name:   "IPv4 address",
			target: "10.0.0.5:7688",
			want:   Endpoint{Host: "10.0.0.5", Port: 7688},
		},
		{
			name:   "IPv6 address with port",
			target: "[::1]:7687",
			want:   Endpoint{Host: "::1", Port: 7687},
		},
		{
			name:   "bare IPv6 address",
			target: "[::1]",
			want:   Endpoint{Host: "::1", Port: 7687},
		},
		{
			name:   "surrounding whitespace",
			target: "  bolt://neo4j:7687  ",
			want:   Endpoint{Host: "neo4j", Port: 7687},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTarget(tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTargetErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{name: "empty string", target: ""},
		{name: "scheme only", target: "bolt://"},
		{name: "whitespace only", target: "   "},
		{name: "missing host", target: ":7687"},
		{name: "non-numeric port", target: "db:bolt"},
		{name: "port zero", target: "db:0"},
		{name: "port too large", target: "db:70000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTarget(tt.target)
			assert.Error(t, err)
		})
	}
}

func TestEndpointAddr(t *testing.T) {
	assert.Equal(t, "neo4j:7687", Endpoint{Host: "neo4j", Port: 7687}.Addr())
	assert.Equal(t, "[::1]:7687", Endpoint{Host: "::1", Port: 7687}.Addr())
	assert.Equal(t, "db:9999", Endpoint{Host: "db", Port: 9999}.String())
}
