package config

import (
	"github.com/marmos91/graphd/pkg/api"
)

// APIConfig builds the HTTP server configuration from the loaded config.
// The version string comes from build information rather than the config
// file, so callers pass it in.
func (c *Config) APIConfig(version string) api.Config {
	return api.Config{
		Host:         c.Server.Host,
		Port:         c.Server.Port,
		ReadTimeout:  c.Server.ReadTimeout,
		WriteTimeout: c.Server.WriteTimeout,
		IdleTimeout:  c.Server.IdleTimeout,
		MaxBodySize:  int64(c.Server.MaxBodySize),
		Version:      version,
	}
}
