package config

import (
	"os"
	"time"
)

// Default values for configuration.
const (
	DefaultServerAddr     = ":5050"
	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable names.
const (
	EnvLogFile    = "ASCENDLOG_LOG_FILE"
	EnvServerAddr = "ASCENDLOG_ADDR"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: DefaultServerAddr,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides.
func (c *Config) applyEnvironmentOverrides() {
	if logFile := os.Getenv(EnvLogFile); logFile != "" {
		c.LogFile = logFile
	}
	if addr := os.Getenv(EnvServerAddr); addr != "" {
		c.Server.Addr = addr
	}
}
