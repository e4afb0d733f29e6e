package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.mapbox.com", cfg.Imagery.BaseURL)
	assert.Equal(t, "mapbox/satellite-v9", cfg.Imagery.Style)
	assert.Equal(t, 19, cfg.Imagery.Zoom)
	assert.Equal(t, 1280, cfg.Imagery.Size)
	assert.True(t, cfg.Imagery.HighDPI)
	assert.Equal(t, 5, cfg.Imagery.RatePerSec)
	assert.Equal(t, 30, cfg.Imagery.TimeoutSecs)
	assert.Equal(t, 3, cfg.Imagery.MaxRetries)

	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.Inference.Model)
	assert.Equal(t, int64(2048), cfg.Inference.MaxTokens)

	assert.InDelta(t, 1.7, cfg.Solar.PanelAreaSqm, 0.001)
	assert.InDelta(t, 0.8, cfg.Solar.UsableAreaRatio, 0.001)
	assert.InDelta(t, 0.4, cfg.Solar.PanelCapacityKW, 0.001)
	assert.InDelta(t, 4.5, cfg.Solar.DailyYieldPerKW, 0.001)
	assert.InDelta(t, 7.0, cfg.Solar.TariffPerKWh, 0.001)
	assert.InDelta(t, 0.2, cfg.Solar.CapacityKWPerSqm, 0.001)

	assert.InDelta(t, 8.0, cfg.Domain.MinLat, 0.001)
	assert.InDelta(t, 37.0, cfg.Domain.MaxLat, 0.001)
	assert.InDelta(t, 68.0, cfg.Domain.MinLon, 0.001)
	assert.InDelta(t, 97.0, cfg.Domain.MaxLon, 0.001)

	assert.Equal(t, ".", cfg.Export.Dir)
	assert.Empty(t, cfg.Export.Format)

	assert.Equal(t, "none", cfg.Store.Driver)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
imagery:
  zoom: 18
  high_dpi: false
store:
  driver: sqlite
log:
  level: debug
  format: console
server:
  port: 9090
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 18, cfg.Imagery.Zoom)
	assert.False(t, cfg.Imagery.HighDPI)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Defaults still apply for unset values
	assert.Equal(t, 1280, cfg.Imagery.Size)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("SURYA_STORE_DRIVER", "postgres")
	t.Setenv("SURYA_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("SURYA_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
