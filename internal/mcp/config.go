package mcp

import (
	"time"

	"github.com/kfreiman/interviewprep/internal/config"
	"github.com/kfreiman/interviewprep/internal/session"
)

// Config holds the configuration for the MCP server
type Config struct {
	Port            int
	ExportTTL       time.Duration
	CleanupInterval time.Duration
	// Defaults fills fields a start_interview call leaves empty
	Defaults session.Config
}

// FromEnv builds the server configuration from the process configuration
func FromEnv(cfg config.Config) Config {
	defaults := session.DefaultConfig()
	if cfg.Model != "" {
		defaults.ModelID = cfg.Model
	}
	return Config{
		Port:            cfg.Port,
		ExportTTL:       cfg.ExportTTL,
		CleanupInterval: time.Hour,
		Defaults:        defaults,
	}
}

// WithPort sets the server port
func (c Config) WithPort(port int) Config {
	c.Port = port
	return c
}

// WithExportTTL sets the age after which exports are cleaned up
func (c Config) WithExportTTL(ttl time.Duration) Config {
	c.ExportTTL = ttl
	return c
}

// WithCleanupInterval sets how often expired exports are removed; zero disables it
func (c Config) WithCleanupInterval(interval time.Duration) Config {
	c.CleanupInterval = interval
	return c
}

// WithDefaults sets the interview configuration new sessions start from
func (c Config) WithDefaults(defaults session.Config) Config {
	c.Defaults = defaults
	return c
}
