package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trellis.sh/taskrun/internal/adapters/config"
)

func TestLoader_Load(t *testing.T) {
	t.Run("defaults apply without a config file", func(t *testing.T) {
		cfg, err := config.NewLoader().Load(t.TempDir())
		require.NoError(t, err)

		assert.Equal(t, "https://puppet:8140", cfg.ServerURL)
		assert.Equal(t, "production", cfg.Environment)
		assert.NotEmpty(t, cfg.CacheDir)
		assert.NotEmpty(t, cfg.SpoolDir)
	})

	t.Run("reads the config file", func(t *testing.T) {
		dir := t.TempDir()
		content := `server_url: https://puppet.example.net:8140
cache_dir: /tmp/cache
spool_dir: /tmp/spool
environment: staging
http_timeout: 30s
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(content), 0o644))

		cfg, err := config.NewLoader().Load(dir)
		require.NoError(t, err)

		assert.Equal(t, "https://puppet.example.net:8140", cfg.ServerURL)
		assert.Equal(t, "/tmp/cache", cfg.CacheDir)
		assert.Equal(t, "/tmp/spool", cfg.SpoolDir)
		assert.Equal(t, "staging", cfg.Environment)
		assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	})

	t.Run("walks up to find the config file", func(t *testing.T) {
		root := t.TempDir()
		nested := filepath.Join(root, "a", "b")
		require.NoError(t, os.MkdirAll(nested, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(root, config.FileName), []byte("environment: nested\n"), 0o644))

		cfg, err := config.NewLoader().Load(nested)
		require.NoError(t, err)

		assert.Equal(t, "nested", cfg.Environment)
	})

	t.Run("a malformed file is an error", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte("{not yaml"), 0o644))

		_, err := config.NewLoader().Load(dir)
		require.Error(t, err)
	})
}

func TestConfig_WrapperPath(t *testing.T) {
	t.Run("bin dir override", func(t *testing.T) {
		cfg := config.Default()
		cfg.BinDir = "/custom/bin"

		assert.Equal(t, filepath.Join("/custom/bin", filepath.Base(cfg.WrapperPath())), cfg.WrapperPath())
		assert.Equal(t, filepath.Join("/custom/bin", "PowershellShim.ps1"), cfg.ShimPath())
	})

	t.Run("shim lives beside the wrapper", func(t *testing.T) {
		cfg := config.Default()
		assert.Equal(t, filepath.Dir(cfg.WrapperPath()), filepath.Dir(cfg.ShimPath()))
	})
}
