package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/sourcegen/internal/config"
	"github.com/jonesrussell/sourcegen/internal/models"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.False(t, cfg.Debug)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Contains(t, cfg.HTTP.UserAgent, "sourcegen")
	assert.Equal(t, 10*time.Second, cfg.HTTP.Timeout)
	assert.True(t, cfg.Browser.Enabled)
	assert.Equal(t, 10*time.Second, cfg.Browser.LoadTimeout)
	assert.Equal(t, 3*time.Second, cfg.Browser.SettleWait)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Empty(t, cfg.Database.Path)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, 4, cfg.Generation.Workers)
	assert.Equal(t, "generated", cfg.Generation.OutputDir)
}

func TestLoad_FromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
debug: true
logger:
  level: debug
http:
  timeout: 20s
browser:
  enabled: false
database:
  path: /tmp/records.db
generation:
  workers: 6
  max_articles: 12
  crawl_delay_seconds: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, 20*time.Second, cfg.HTTP.Timeout)
	assert.False(t, cfg.Browser.Enabled)
	assert.Equal(t, "/tmp/records.db", cfg.Database.Path)
	assert.Equal(t, 6, cfg.Generation.Workers)
	assert.Equal(t, 12, cfg.Generation.MaxArticles)
	assert.Equal(t, 5, cfg.Generation.CrawlDelaySeconds)

	// Untouched keys keep their defaults.
	assert.Equal(t, "en", cfg.Generation.Language)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SOURCEGEN_GENERATION_WORKERS", "2")
	t.Setenv("SOURCEGEN_LOGGER_LEVEL", "warn")
	t.Setenv("SOURCEGEN_REDIS_ADDRESS", "redis.internal:6379")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Generation.Workers)
	assert.Equal(t, "warn", cfg.Logger.Level)
	assert.Equal(t, "redis.internal:6379", cfg.Redis.Address)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bad log level", content: "logger:\n  level: verbose\n"},
		{name: "workers too high", content: "generation:\n  workers: 20\n"},
		{name: "workers zero", content: "generation:\n  workers: 0\n"},
		{name: "negative articles", content: "generation:\n  max_articles: -1\n"},
		{name: "redis enabled without address", content: "redis:\n  enabled: true\n  address: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := config.Load(path)
			require.Error(t, err)
		})
	}
}

func TestOptions_Derived(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	opts := cfg.Options()
	assert.Equal(t, models.Options{
		Language:          "en",
		Country:           "US",
		MaxArticles:       30,
		CrawlDelaySeconds: 2,
	}, opts)
}

func TestLoggerOptions_Derived(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("debug: true\nlogger:\n  level: debug\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	lo := cfg.LoggerOptions()
	assert.True(t, lo.Debug)
	assert.Equal(t, "debug", lo.Level)
}
