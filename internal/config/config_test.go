package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validYAML = `
server:
  port: "9090"
  mode: release
  shutdown_timeout: 5s

database:
  enabled: true
  type: sqlite
  path: /tmp/portfolio.db

fixtures:
  path: seed.yaml

renewal:
  enabled: true
  check_interval: "*/15 * * * *"
  window_days: 14

search:
  delay: 250ms
  extensions: [".com", ".dev"]

auth:
  initial_password: admin123

log:
  level: debug
  format: text
`

func TestLoadConfig_File(t *testing.T) {
	cfg, err := LoadConfig(writeYAML(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, "/tmp/portfolio.db", cfg.Database.Path)
	assert.Equal(t, "seed.yaml", cfg.Fixtures.Path)
	assert.True(t, cfg.Renewal.Enabled)
	assert.Equal(t, "*/15 * * * *", cfg.Renewal.CheckInterval)
	assert.Equal(t, 14, cfg.Renewal.WindowDays)
	assert.Equal(t, 250*time.Millisecond, cfg.Search.Delay)
	assert.Equal(t, []string{".com", ".dev"}, cfg.Search.Extensions)
	assert.Equal(t, "admin123", cfg.Auth.InitialPassword)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.False(t, cfg.Renewal.Enabled)
	assert.Equal(t, "0 3 * * *", cfg.Renewal.CheckInterval)
	assert.Equal(t, 30, cfg.Renewal.WindowDays)
	assert.Equal(t, 1500*time.Millisecond, cfg.Search.Delay)
	assert.Empty(t, cfg.Auth.InitialPassword)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfig_MissingFileFallsBackToEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("SEARCH_EXTENSIONS", ".io,.app")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, []string{".io", ".app"}, cfg.Search.Extensions)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadConfig(writeYAML(t, validYAML))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"mode":     "server:\n  mode: turbo\n",
		"cron":     "renewal:\n  check_interval: \"every now and then\"\n",
		"window":   "renewal:\n  window_days: -1\n",
		"db type":  "database:\n  enabled: true\n  type: mysql\n",
		"level":    "log:\n  level: chatty\n",
		"format":   "log:\n  format: xml\n",
		"bad yaml": "server: [",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeYAML(t, content))
			require.Error(t, err)
		})
	}
}
