package mcp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kfreiman/interviewprep/internal/config"
	"github.com/kfreiman/interviewprep/internal/session"
)

func TestFromEnv(t *testing.T) {
	cfg := FromEnv(config.Config{Port: 9000, ExportTTL: 48 * time.Hour, Model: "gpt-4o"})

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 48*time.Hour, cfg.ExportTTL)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
	assert.Equal(t, "gpt-4o", cfg.Defaults.ModelID)
	assert.Equal(t, session.ToneProfessional, cfg.Defaults.Tone)
}

func TestConfigBuilders(t *testing.T) {
	defaults := session.DefaultConfig()
	defaults.Role = session.RoleDataAnalyst

	cfg := Config{}.
		WithPort(8081).
		WithExportTTL(time.Hour).
		WithCleanupInterval(0).
		WithDefaults(defaults)

	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, time.Hour, cfg.ExportTTL)
	assert.Zero(t, cfg.CleanupInterval)
	assert.Equal(t, session.RoleDataAnalyst, cfg.Defaults.Role)
}
