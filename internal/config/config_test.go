package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ENVIRONMENT", "PORT", "MELODY_MODEL", "AUTH_MODE", "INGEST_CONCURRENCY", "LANGFUSE_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "gpt-5-mini", cfg.MelodyModel)
	assert.Equal(t, "none", cfg.AuthMode)
	assert.Equal(t, 4, cfg.IngestConcurrency)
	assert.False(t, cfg.LangfuseEnabled)
	assert.False(t, cfg.IsGatewayMode())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DATABASE_URL", "postgres://localhost/melody")
	t.Setenv("AUTH_MODE", "gateway")
	t.Setenv("INGEST_CONCURRENCY", "8")
	t.Setenv("LANGFUSE_ENABLED", "true")
	t.Setenv("MELODY_MODEL", "gemini-2.5-flash")

	cfg := Load()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.IsGatewayMode())
	assert.Equal(t, 8, cfg.IngestConcurrency)
	assert.True(t, cfg.LangfuseEnabled)
	assert.Equal(t, "gemini-2.5-flash", cfg.MelodyModel)
}

func TestLoad_BadConcurrencyFallsBack(t *testing.T) {
	t.Setenv("INGEST_CONCURRENCY", "lots")
	assert.Equal(t, 4, Load().IngestConcurrency)
}

func TestValidate(t *testing.T) {
	valid := Config{DatabaseURL: "postgres://x", AuthMode: "none", IngestConcurrency: 4}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing database", func(c *Config) { c.DatabaseURL = "" }},
		{"unknown auth mode", func(c *Config) { c.AuthMode = "jwt" }},
		{"zero concurrency", func(c *Config) { c.IngestConcurrency = 0 }},
		{"too much concurrency", func(c *Config) { c.IngestConcurrency = 100 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
