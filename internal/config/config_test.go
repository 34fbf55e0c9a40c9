package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads; empty values do not override.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{
		"XITEM_CONFIG",
		"XITEM_FORMAT",
		"XITEM_OUTBOX",
		"XITEM_INBOX",
		"XITEM_PATTERN",
		"XITEM_ADDR",
		"XITEM_LOG_LEVEL",
		"XITEM_MAX_BODY",
	} {
		t.Setenv(v, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "xitem.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "json", cfg.Codec().Name())

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
format: yaml
outbox:
  dir: /tmp/out
inbox:
  dir: /tmp/in
  pattern: "**/*.json"
  debounce: 200ms
http:
  addr: ":9090"
  history: 8
log:
  level: debug
`)
	t.Setenv("XITEM_ADDR", "127.0.0.1:7000")
	t.Setenv("XITEM_MAX_BODY", "4096")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "yaml", cfg.Format)
	assert.Equal(t, "/tmp/out", cfg.Outbox.Dir)
	assert.Equal(t, "/tmp/in", cfg.Inbox.Dir)
	assert.Equal(t, "**/*.json", cfg.Inbox.Pattern)
	assert.Equal(t, 200*time.Millisecond, time.Duration(cfg.Inbox.Debounce))
	assert.Equal(t, "127.0.0.1:7000", cfg.HTTP.Addr, "env overrides file")
	assert.Equal(t, int64(4096), cfg.HTTP.MaxBodyBytes)
	assert.Equal(t, 8, cfg.HTTP.History)

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_ConfigEnvVar(t *testing.T) {
	clearEnv(t)
	t.Setenv("XITEM_CONFIG", writeConfig(t, "format: toml\n"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "toml", cfg.Codec().Name())
}

func TestLoad_Errors(t *testing.T) {
	t.Run("explicit path must exist", func(t *testing.T) {
		clearEnv(t)
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorContains(t, err, "reading config file")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		clearEnv(t)
		_, err := Load(writeConfig(t, "format: [json\n"))
		assert.ErrorContains(t, err, "parsing config file")
	})

	t.Run("bad duration", func(t *testing.T) {
		clearEnv(t)
		_, err := Load(writeConfig(t, "inbox:\n  debounce: soon\n"))
		assert.ErrorContains(t, err, "invalid duration")
	})

	t.Run("bad max body", func(t *testing.T) {
		clearEnv(t)
		t.Chdir(t.TempDir())
		t.Setenv("XITEM_MAX_BODY", "lots")
		_, err := Load("")
		assert.ErrorContains(t, err, "XITEM_MAX_BODY")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown format", func(c *Config) { c.Format = "xml" }, "format"},
		{"empty pattern", func(c *Config) { c.Inbox.Pattern = "" }, "inbox.pattern"},
		{"invalid pattern", func(c *Config) { c.Inbox.Pattern = "[a-" }, "inbox.pattern"},
		{"negative debounce", func(c *Config) { c.Inbox.Debounce = -1 }, "inbox.debounce"},
		{"zero body limit", func(c *Config) { c.HTTP.MaxBodyBytes = 0 }, "http.max_body_bytes"},
		{"zero history", func(c *Config) { c.HTTP.History = 0 }, "http.history"},
		{"unknown level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tc.want)
		})
	}

	t.Run("reports every problem", func(t *testing.T) {
		cfg := Default()
		cfg.Format = "xml"
		cfg.HTTP.History = -1
		err := cfg.Validate()
		assert.ErrorContains(t, err, "format")
		assert.ErrorContains(t, err, "http.history")
	})

	assert.NoError(t, Default().Validate())
}
