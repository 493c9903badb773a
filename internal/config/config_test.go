package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	var cfg Config
	cfg.App.Port = 38471
	cfg.Source.BaseURL = "https://remotive.com/api/remote-jobs"
	cfg.Source.RequestTimeoutSeconds = 20
	cfg.Polling.RefreshSpec = "@every 6h"
	cfg.Filters.Keywords = []string{"python", "ai", "data"}
	cfg.Filters.MaxDaysOld = 30
	cfg.Weights.Recency = 0.5
	cfg.Weights.Keyword = 0.4
	cfg.Weights.Compensation = 0.1
	cfg.Export.SummaryTop = 10
	return cfg
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  port: 38471
source:
  base_url: https://remotive.com/api/remote-jobs
  request_timeout_seconds: 20
polling:
  refresh_spec: "@every 6h"
filters:
  keywords: [python, ai, data]
  category: ""
  max_days_old: 30
weights:
  recency: 0.50
  keyword: 0.40
  compensation: 0.10
export:
  summary_top: 10
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 38471, cfg.App.Port)
	assert.Equal(t, []string{"python", "ai", "data"}, cfg.Filters.Keywords)
	assert.Equal(t, 30, cfg.Filters.MaxDaysOld)
	assert.InDelta(t, 0.4, cfg.Weights.Keyword, 1e-9)

	_, vr := NormalizeAndValidate(cfg)
	assert.True(t, vr.OK(), "errors: %v", vr.Errors)
	assert.Empty(t, vr.Warnings)
}

func TestNormalizeAndValidate(t *testing.T) {
	t.Run("keyword trim keeps duplicates but warns", func(t *testing.T) {
		cfg := validConfig()
		cfg.Filters.Keywords = []string{" python ", "", "python", "ai"}

		out, vr := NormalizeAndValidate(cfg)
		assert.True(t, vr.OK())
		assert.Equal(t, []string{"python", "python", "ai"}, out.Filters.Keywords)
		require.Len(t, vr.Warnings, 1)
		assert.Contains(t, vr.Warnings[0], "more than once")
	})

	t.Run("weight sum warning", func(t *testing.T) {
		cfg := validConfig()
		cfg.Weights.Recency = 0.9
		_, vr := NormalizeAndValidate(cfg)
		assert.True(t, vr.OK())
		require.Len(t, vr.Warnings, 1)
		assert.Contains(t, vr.Warnings[0], "sum to")
	})

	t.Run("negative weight is an error", func(t *testing.T) {
		cfg := validConfig()
		cfg.Weights.Compensation = -0.1
		_, vr := NormalizeAndValidate(cfg)
		assert.False(t, vr.OK())
	})

	t.Run("max_days_old must be positive", func(t *testing.T) {
		cfg := validConfig()
		cfg.Filters.MaxDaysOld = 0
		_, vr := NormalizeAndValidate(cfg)
		assert.False(t, vr.OK())
	})

	t.Run("notify fields required when enabled", func(t *testing.T) {
		cfg := validConfig()
		cfg.Notify.Enabled = true
		_, vr := NormalizeAndValidate(cfg)
		assert.False(t, vr.OK())

		cfg.Notify.ChatID = 12345
		cfg.Notify.MinScore = 0.6
		cfg.Notify.MaxPerRun = 5
		_, vr = NormalizeAndValidate(cfg)
		assert.True(t, vr.OK(), "errors: %v", vr.Errors)
	})

	t.Run("empty keywords is allowed with warning", func(t *testing.T) {
		cfg := validConfig()
		cfg.Filters.Keywords = nil
		_, vr := NormalizeAndValidate(cfg)
		assert.True(t, vr.OK())
		require.Len(t, vr.Warnings, 1)
		assert.Contains(t, vr.Warnings[0], "keyword filtering is off")
	})
}

func TestSaveAtomicRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")

	cfg := validConfig()
	require.NoError(t, SaveAtomic(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.App.Port, loaded.App.Port)
	assert.Equal(t, cfg.Filters, loaded.Filters)
	assert.Equal(t, cfg.Weights, loaded.Weights)

	// Second save keeps a .bak of the previous file.
	cfg.Filters.MaxDaysOld = 14
	require.NoError(t, SaveAtomic(path, cfg))
	_, err = os.Stat(path + ".bak")
	assert.NoError(t, err)
}

func TestSaveAtomicRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	cfg := validConfig()
	cfg.App.Port = 0
	err := SaveAtomic(filepath.Join(dir, "config.yml"), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "app.port")
}

func TestEnsureUserConfig(t *testing.T) {
	dir := t.TempDir()
	defaultPath := filepath.Join(dir, "default.yml")
	require.NoError(t, os.WriteFile(defaultPath, []byte("app:\n  port: 1234\n"), 0o644))

	dataDir := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))

	userPath, err := EnsureUserConfig(dataDir, defaultPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, "config.yml"), userPath)

	// Existing user config is not clobbered.
	require.NoError(t, os.WriteFile(userPath, []byte("app:\n  port: 9999\n"), 0o644))
	again, err := EnsureUserConfig(dataDir, defaultPath)
	require.NoError(t, err)
	cfg, err := Load(again)
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.App.Port)
}

func TestOverlayKeywords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keywords.yml")
	require.NoError(t, os.WriteFile(path, []byte("keywords: [golang, kubernetes]\n"), 0o644))

	cfg := validConfig()
	require.NoError(t, OverlayKeywords(&cfg, path))
	assert.Equal(t, []string{"golang", "kubernetes"}, cfg.Filters.Keywords)

	// Missing file keeps the configured keywords.
	cfg2 := validConfig()
	require.NoError(t, OverlayKeywords(&cfg2, filepath.Join(dir, "absent.yml")))
	assert.Equal(t, []string{"python", "ai", "data"}, cfg2.Filters.Keywords)
}
