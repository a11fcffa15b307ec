package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvOverrides(t *testing.T) {
	t.Run("RESTO_BASE_URL and RESTO_MEDIA_URL", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("RESTO_BASE_URL", "http://127.0.0.1:8080/")
		t.Setenv("RESTO_MEDIA_URL", "http://127.0.0.1:8080/images/")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "http://127.0.0.1:8080/", cfg.API.BaseURL)
		assert.Equal(t, "http://127.0.0.1:8080/images/", cfg.API.MediaURL)
	})

	t.Run("RESTO_CACHE_DB", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("RESTO_CACHE_DB", "/var/tmp/resto.db")

		cfg := &Config{}
		cfg.applyEnvOverrides()

		assert.Equal(t, "/var/tmp/resto.db", cfg.Cache.Path)
	})

	t.Run("RESTO_THEME and RESTO_LOG_LEVEL", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("RESTO_THEME", "light")
		t.Setenv("RESTO_LOG_LEVEL", "debug")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "light", cfg.UI.Theme)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("empty variables leave values alone", func(t *testing.T) {
		clearEnv(t)
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("environment beats the file", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("ui:\n  theme: dark\n"), 0644))
		t.Setenv("RESTO_THEME", "light")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "light", cfg.UI.Theme)
	})
}

func TestLoadDotEnv(t *testing.T) {
	const key = "RESTO_DOTENV_PROBE"
	t.Cleanup(func() { os.Unsetenv(key) })

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-file\n"), 0644))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv(key))

	t.Run("existing variables win", func(t *testing.T) {
		require.NoError(t, os.Setenv(key, "from-shell"))
		require.NoError(t, LoadDotEnv(path))
		assert.Equal(t, "from-shell", os.Getenv(key))
	})

	t.Run("missing file is fine", func(t *testing.T) {
		assert.NoError(t, LoadDotEnv(filepath.Join(dir, "absent.env")))
	})
}
