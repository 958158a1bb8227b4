package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// isolate keeps Load away from config files and variables of the machine
// running the tests. Empty variables are ignored by viper.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("HOME", dir)
	for _, k := range []string{
		"IMGFX_CACHE_ENTRIES", "IMGFX_CACHE_SIZE", "IMGFX_MEMORY_CEILING",
		"IMGFX_WORKERS", "IMGFX_LOG_LEVEL", "IMGFX_LOG_FORMAT", "IMGFX_FAVORITES_DIR",
	} {
		t.Setenv(k, "")
	}
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 256, cfg.CacheEntries)
	require.Equal(t, int64(256<<20), cfg.CacheBytes())
	require.Equal(t, int64(1<<30), cfg.CeilingBytes())
	require.Equal(t, slog.LevelWarn, cfg.SlogLevel())
	require.NotEmpty(t, cfg.FavoritesDir)
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("IMGFX_CACHE_ENTRIES", "8")
	t.Setenv("IMGFX_CACHE_SIZE", "16MB")
	t.Setenv("IMGFX_WORKERS", "3")
	t.Setenv("IMGFX_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 8, cfg.CacheEntries)
	require.Equal(t, int64(16_000_000), cfg.CacheBytes())
	require.Equal(t, 3, cfg.Workers)
	require.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "imgfx.yaml")
	data := []byte("cache_entries: 4\nmemory_ceiling: 2GiB\nfavorites_dir: /tmp/favs\n")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 4, cfg.CacheEntries)
	require.Equal(t, int64(2<<30), cfg.CeilingBytes())
	require.Equal(t, "/tmp/favs", cfg.FavoritesDir)
}

func TestLoadValidationErrors(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"bad size", "IMGFX_CACHE_SIZE", "lots"},
		{"bad level", "IMGFX_LOG_LEVEL", "verbose"},
		{"negative workers", "IMGFX_WORKERS", "-1"},
		{"bad format", "IMGFX_LOG_FORMAT", "xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.value)
			cfg, err := Load("")
			require.Error(t, err)
			require.Nil(t, cfg)
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestDefaultValidates(t *testing.T) {
	require.NoError(t, Validate(Default()))
}
