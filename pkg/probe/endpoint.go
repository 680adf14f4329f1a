package probe

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// DefaultPort is the standard Neo4j Bolt listener port, used when a target
// string carries no explicit port.
const DefaultPort = 7687

// Endpoint identifies a single TCP endpoint to probe.
type Endpoint struct {
	Host string
	Port int
}

// Addr returns the endpoint in host:port form suitable for net.Dial.
// IPv6 hosts are bracketed.
func (e Endpoint) Addr() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// String returns the same representation as Addr.
func (e Endpoint) String() string {
	return e.Addr()
}

// ParseTarget extracts the host and port from a dependency target string.
//
// Accepted forms:
//   - scheme://host:port (e.g. bolt://neo4j:7687, neo4j+s://db:7687)
//   - scheme://host (port defaults to 7687)
//   - host:port
//   - host (port defaults to 7687)
//
// Any scheme prefix is stripped; only the authority matters for a TCP
// reachability check.
func ParseTarget(uri string) (Endpoint, error) {
	target := strings.TrimSpace(uri)
	if idx := strings.Index(target, "://"); idx >= 0 {
		target = target[idx+3:]
	}
	if target == "" {
		return Endpoint{}, fmt.Errorf("empty target %q", uri)
	}

	host, portStr, err := net.SplitHostPort(target)
	if err != nil {
		// No port in the target. Bare IPv6 literals confuse SplitHostPort
		// as well, so strip any brackets before using the default port.
		host = strings.TrimSuffix(strings.TrimPrefix(target, "["), "]")
		if host == "" {
			return Endpoint{}, fmt.Errorf("empty host in target %q", uri)
		}
		return Endpoint{Host: host, Port: DefaultPort}, nil
	}

	if host == "" {
		return Endpoint{}, fmt.Errorf("empty host in target %q", uri)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return Endpoint{}, fmt.Errorf("invalid port %q in target %q", portStr, uri)
	}
	if port < 1 || port > 65535 {
		return Endpoint{}, fmt.Errorf("port %d out of range in target %q", port, uri)
	}

	return Endpoint{Host: host, Port: port}, nil
}
