package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/cmsadmin-go/internal/session"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultServer, cfg.API.Server)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, 30*time.Second, cfg.API.UploadTimeout)
	assert.Equal(t, session.DefaultTTL, cfg.Session.TTL)
	assert.Equal(t, DefaultLanguage, cfg.Language)
	assert.Equal(t, OutputTable, cfg.Output)
	assert.False(t, cfg.Metrics.Enabled)
	require.NoError(t, Verify(cfg))
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	assert.True(t, filepath.IsAbs(path), "path should be absolute: %s", path)
	assert.Equal(t, filepath.Join(".cmsadmin", "config.yaml"),
		filepath.Join(filepath.Base(filepath.Dir(path)), filepath.Base(path)))
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*CLIConfig)
	}{
		{"empty server", func(c *CLIConfig) { c.API.Server = " " }},
		{"zero timeout", func(c *CLIConfig) { c.API.Timeout = 0 }},
		{"negative upload timeout", func(c *CLIConfig) { c.API.UploadTimeout = -time.Second }},
		{"negative rate", func(c *CLIConfig) { c.API.RateLimit = -1 }},
		{"rate without burst", func(c *CLIConfig) { c.API.RateLimit = 2; c.API.RateBurst = 0 }},
		{"cert without key", func(c *CLIConfig) { c.API.CertFile = "client.crt" }},
		{"ttl too short", func(c *CLIConfig) { c.Session.TTL = 24 * time.Hour }},
		{"ttl too long", func(c *CLIConfig) { c.Session.TTL = 30 * 24 * time.Hour }},
		{"no session dir", func(c *CLIConfig) { c.Session.Dir = "" }},
		{"unknown language", func(c *CLIConfig) { c.Language = "fr" }},
		{"unknown output", func(c *CLIConfig) { c.Output = "xml" }},
		{"unknown log level", func(c *CLIConfig) { c.Log.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.Error(t, Verify(cfg))
		})
	}

	t.Run("in-memory session needs no dir", func(t *testing.T) {
		cfg := Default()
		cfg.Session.InMemory = true
		cfg.Session.Dir = ""
		assert.NoError(t, Verify(cfg))
	})
}

func TestLoad_NonExistentFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultServer, cfg.API.Server)
}

func TestLoad_Priority(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
api:
  server: "https://file.example.com"
  upload_timeout: 1m
language: zh
output: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CMSADMIN_OUTPUT", "yaml")
	t.Setenv("CMSADMIN_API_TIMEOUT", "10s")

	cfg, err := Load(path, map[string]any{"api.server": "cms.local:9000"})
	require.NoError(t, err)

	assert.Equal(t, "cms.local:9000", cfg.API.Server, "flag overrides file")
	assert.Equal(t, time.Minute, cfg.API.UploadTimeout, "file overrides default")
	assert.Equal(t, 10*time.Second, cfg.API.Timeout, "env overrides default")
	assert.Equal(t, "yaml", cfg.Output, "env overrides file")
	assert.Equal(t, "zh", cfg.Language)
	assert.Equal(t, session.DefaultTTL, cfg.Session.TTL, "untouched default survives")
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("language: fr\n"), 0o600))

	_, err := Load(path, nil)
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.API.Server = "https://cms.example.com"
	cfg.API.RateLimit = 2.5
	cfg.API.RateBurst = 3
	cfg.Session.TTL = 8 * 24 * time.Hour
	cfg.Output = OutputYAML
	require.NoError(t, Save(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSetValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  server: http://a\n"), 0o600))

	require.NoError(t, SetValue(path, "language", "zh"))
	require.NoError(t, SetValue(path, "api.timeout", "7s"))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://a", cfg.API.Server)
	assert.Equal(t, "zh", cfg.Language)
	assert.Equal(t, 7*time.Second, cfg.API.Timeout)
}

func TestSetValue_Rejects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	assert.Error(t, SetValue(path, "api.unknown", "x"))
	assert.Error(t, SetValue(path, "output", "xml"))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "rejected values must not create the file")
}

func TestFlatten_CoversEveryKey(t *testing.T) {
	flat := Flatten(Default())
	for _, key := range []string{"api.server", "session.ttl", "language", "output", "log.level", "metrics.enabled"} {
		assert.Contains(t, flat, key)
	}
	assert.Equal(t, "336h0m0s", flat["session.ttl"])
}
