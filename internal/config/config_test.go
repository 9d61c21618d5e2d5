package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadClean(t *testing.T) (*Config, error) {
	t.Helper()
	// Point the file lookup at an empty directory so a developer's local
	// config.yaml cannot leak into the test.
	t.Setenv("F990_CONFIG_FILE", filepath.Join(t.TempDir(), "config.yaml"))
	return Load()
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadClean(t)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "https://projects.propublica.org/nonprofits", cfg.Provider.BaseURL)
	assert.Equal(t, 10, cfg.Pipeline.Workers)
	assert.Equal(t, 250, cfg.Pipeline.MaxRows)
	assert.Equal(t, 1, cfg.Pipeline.RetryAttempts)
	assert.Equal(t, 10*time.Minute, cfg.Pipeline.BatchTimeout)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("F990_PIPELINE_WORKERS", "4")
	t.Setenv("F990_PROVIDER_BASE_URL", "http://localhost:9999")

	cfg, err := loadClean(t)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Pipeline.Workers)
	assert.Equal(t, "http://localhost:9999", cfg.Provider.BaseURL)
}

func TestLoadFileOverrides(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	content := "pipeline:\n  workers: 3\n  max_rows: 50\n  retry_attempts: 2\n"
	require.NoError(t, os.WriteFile(file, []byte(content), 0644))
	t.Setenv("F990_CONFIG_FILE", file)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Pipeline.Workers)
	assert.Equal(t, 50, cfg.Pipeline.MaxRows)
	assert.Equal(t, 2, cfg.Pipeline.RetryAttempts)
	// Sections absent from the file keep their defaults.
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"F990_SERVER_PORT":             "70000",
		"F990_PIPELINE_WORKERS":        "0",
		"F990_PIPELINE_MAX_ROWS":       "-1",
		"F990_PIPELINE_RETRY_ATTEMPTS": "-2",
	}
	for env, value := range tests {
		t.Run(env, func(t *testing.T) {
			t.Setenv(env, value)
			_, err := loadClean(t)
			assert.Error(t, err)
		})
	}
}
