package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v-zq/media-to-GIF/internal/library"
)

func TestNewFromEnv_Defaults(t *testing.T) {
	cfg, err := NewFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "input", cfg.InputDir)
	assert.Equal(t, "gifs", cfg.OutputDir)
	assert.Equal(t, library.ModeSameName, cfg.Mode)
	assert.Equal(t, 15, cfg.Render.FPS)
	assert.Equal(t, 800, cfg.Render.Width)
	assert.Equal(t, 24, cfg.Render.FontSize)
	assert.Equal(t, 2, cfg.Render.Outline)
	assert.True(t, cfg.SkipEnabled)
	assert.True(t, cfg.MetadataIncludeSkipped)
	assert.Positive(t, cfg.MaxWorkers)
	assert.Equal(t, filepath.Join("gifs", "history.db"), cfg.HistoryDB)
	assert.Empty(t, cfg.CronExpr)
}

func TestNewFromEnv_EnvOverrides(t *testing.T) {
	t.Setenv("INPUT_DIR", "/media/in")
	t.Setenv("OUTPUT_DIR", "/media/out")
	t.Setenv("PAIRING_MODE", "subfolder")
	t.Setenv("FPS", "24")
	t.Setenv("SKIP_ENABLED", "false")
	t.Setenv("MAX_WORKERS", "3")

	cfg, err := NewFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "/media/in", cfg.InputDir)
	assert.Equal(t, library.ModeSubfolder, cfg.Mode)
	assert.Equal(t, 24, cfg.Render.FPS)
	assert.False(t, cfg.SkipEnabled)
	assert.Equal(t, 3, cfg.MaxWorkers)
	assert.Equal(t, filepath.Join("/media/out", "history.db"), cfg.HistoryDB)
}

func TestNewFromEnv_OptionsOverrideEnv(t *testing.T) {
	t.Setenv("INPUT_DIR", "/from-env")

	cfg, err := NewFromEnv(
		WithInputDir("/from-flag"),
		WithOutputDir("/out"),
		WithMode("subfolder"),
		WithWorkers(7),
		WithSkipDisabled(true),
	)
	require.NoError(t, err)

	assert.Equal(t, "/from-flag", cfg.InputDir)
	assert.Equal(t, library.ModeSubfolder, cfg.Mode)
	assert.Equal(t, 7, cfg.MaxWorkers)
	assert.False(t, cfg.SkipEnabled)
	assert.Equal(t, filepath.Join("/out", "history.db"), cfg.HistoryDB)
}

func TestNewFromEnv_Validation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad mode", key: "PAIRING_MODE", value: "recursive"},
		{name: "zero fps", key: "FPS", value: "0"},
		{name: "negative width", key: "WIDTH", value: "-1"},
		{name: "bad cron", key: "CRON_EXPR", value: "not a cron"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := NewFromEnv()
			require.Error(t, err)
		})
	}
}

func TestNewFromEnv_ValidCron(t *testing.T) {
	t.Setenv("CRON_EXPR", "0 3 * * *")
	cfg, err := NewFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "0 3 * * *", cfg.CronExpr)
}
