package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":5001", cfg.HTTP.Addr)
	assert.Equal(t, "db.json", cfg.Store.Path)
	assert.Equal(t, "firmware", cfg.Firmware.Dir)
	assert.Equal(t, "gemini-2.0-flash", cfg.Oracle.Model)
	assert.Equal(t, 10, cfg.Agent.MaxRounds)
	assert.Equal(t, 300, cfg.Agent.RunTimeoutSeconds)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestValidate_Failures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"empty addr", func(c *Config) { c.HTTP.Addr = "" }, "http.addr"},
		{"empty store path", func(c *Config) { c.Store.Path = "" }, "store.path"},
		{"empty firmware dir", func(c *Config) { c.Firmware.Dir = "" }, "firmware.dir"},
		{"empty model", func(c *Config) { c.Oracle.Model = "" }, "oracle.model"},
		{"temperature too high", func(c *Config) { c.Oracle.Temperature = 2.5 }, "oracle.temperature"},
		{"temperature negative", func(c *Config) { c.Oracle.Temperature = -0.1 }, "oracle.temperature"},
		{"zero rounds", func(c *Config) { c.Agent.MaxRounds = 0 }, "agent.max_rounds"},
		{"negative timeout", func(c *Config) { c.Agent.RunTimeoutSeconds = -1 }, "agent.run_timeout_seconds"},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }, "log.level"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	yaml := `
http:
  addr: ":8080"
agent:
  max_rounds: 5
oracle:
  temperature: 0.7
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "otagent.yaml"), []byte(yaml), 0o644))
	t.Chdir(dir)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 5, cfg.Agent.MaxRounds)
	assert.InDelta(t, 0.7, cfg.Oracle.Temperature, 0.001)
	// Untouched keys keep their defaults
	assert.Equal(t, "db.json", cfg.Store.Path)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "otagent.yaml"), []byte("log:\n  level: debug\n"), 0o644))
	t.Chdir(dir)
	t.Setenv("OTAGENT_LOG_LEVEL", "warn")
	t.Setenv("OTAGENT_AGENT_MAX_ROUNDS", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 3, cfg.Agent.MaxRounds)
}

func TestLoad_InvalidValuesRejected(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("OTAGENT_AGENT_MAX_ROUNDS", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "agent.max_rounds")
}
