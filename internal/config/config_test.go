package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jotbox/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := config.Load("")
		require.NoError(t, err)
		assert.Equal(t, "fs", cfg.Storage.Adapter)
		assert.Equal(t, ".jotbox", cfg.Storage.Path)
		assert.False(t, cfg.Storage.ReadOnly)
		assert.Equal(t, "text", cfg.Export.Format)
		assert.Equal(t, "timestamp", cfg.IDs.Strategy)
		assert.Equal(t, "info", cfg.Log.Level)
	})

	t.Run("File Values", func(t *testing.T) {
		path := writeConfig(t, `
storage:
  adapter: sqlite
  path: /tmp/notes.db
  read_only: true
export:
  format: markdown
  share_dir: /tmp/shared
ids:
  strategy: uuid
log:
  level: DEBUG
`)
		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "sqlite", cfg.Storage.Adapter)
		assert.Equal(t, "/tmp/notes.db", cfg.Storage.Path)
		assert.True(t, cfg.Storage.ReadOnly)
		assert.Equal(t, "markdown", cfg.Export.Format)
		assert.Equal(t, "/tmp/shared", cfg.Export.ShareDir)
		assert.Equal(t, "uuid", cfg.IDs.Strategy)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, ".", cfg.Backup.Dir)
	})

	t.Run("Environment Overrides File", func(t *testing.T) {
		t.Setenv("JOTBOX_STORAGE_ADAPTER", "memory")
		t.Setenv("JOTBOX_EXPORT_FORMAT", "json")
		path := writeConfig(t, "storage:\n  adapter: sqlite\n")

		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "memory", cfg.Storage.Adapter)
		assert.Equal(t, "json", cfg.Export.Format)
	})

	t.Run("Invalid Values", func(t *testing.T) {
		path := writeConfig(t, "storage:\n  adapter: s3\nids:\n  strategy: random\n")

		_, err := config.Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.adapter")
		assert.Contains(t, err.Error(), "ids.strategy")
	})

	t.Run("Missing File", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}
