package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
		require.NoError(t, err)

		assert.Equal(t, "sapling", cfg.AppName)
		assert.Equal(t, 50, cfg.RoadmapMaxItems)
		assert.Equal(t, 80, cfg.DescriptionMaxLen)
		assert.Equal(t, 1, cfg.DatabaseMaxOpenConns)
		assert.Equal(t, time.Duration(0), cfg.DatabaseConnMaxLifetime)
		assert.True(t, cfg.DatabaseMigrationAutoRollback)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("ROADMAP_MAX_ITEMS", "10")
		t.Setenv("DB_PATH", "/tmp/roadmap.db")

		cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
		require.NoError(t, err)

		assert.Equal(t, 10, cfg.RoadmapMaxItems)
		assert.Equal(t, "/tmp/roadmap.db", cfg.DatabasePath)
	})

	t.Run("dotenv file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("LOG_LEVEL=debug\n"), 0o600))
		t.Cleanup(func() { os.Unsetenv("LOG_LEVEL") })

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.LogLevel)
	})
}
