package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hubdeck/internal/kv"
	"hubdeck/internal/persist"
	"hubdeck/internal/viewport"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("HUBDECK_CONFIG", "")

	cfg, err := loadConfig("")
	require.NoError(t, err)

	assert.Equal(t, viewport.DefaultLimits(), cfg.Limits())
	assert.Equal(t, 400*time.Millisecond, cfg.AnimationDuration())
	assert.Equal(t, persist.DefaultSettleDelay, cfg.SettleDelay())
	assert.Equal(t, persist.DefaultKey, cfg.Persist.Key)
	assert.True(t, cfg.UI.Confirmations)
	assert.Equal(t, kv.BackendFile, cfg.Store.Backend)
	assert.Equal(t, "hubdeck:", cfg.Store.RedisPrefix)
	assert.Zero(t, cfg.Store.RedisTTL)
	assert.Equal(t, filepath.Join(home, ".local", "share", "hubdeck", "layout.json"), cfg.Store.Path)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeConfig(t, `
viewport:
  max_zoom: 5
  animation_ms: 250
store:
  backend: redis
  redis_addr: cache:6379
  redis_prefix: "desk:"
  redis_ttl: 72h
ui:
  save_directory: ~/exports
`)
	t.Setenv("HUBDECK_STORE_REDIS_DB", "3")

	cfg, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 5.0, cfg.Viewport.MaxZoom)
	assert.Equal(t, 250*time.Millisecond, cfg.AnimationDuration())
	opts := cfg.StoreOptions()
	assert.Equal(t, kv.BackendRedis, opts.Backend)
	assert.Equal(t, "cache:6379", opts.RedisAddr)
	assert.Equal(t, 3, opts.RedisDB)
	assert.Equal(t, "desk:", opts.Prefix)
	assert.Equal(t, 72*time.Hour, opts.TTL)
	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, "exports"), cfg.UI.SaveDirectory)
}

func TestLoadConfig_EnvSelectsConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("HUBDECK_CONFIG", writeConfig(t, "persist:\n  key: custom-key\n"))

	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "custom-key", cfg.Persist.Key)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	tests := map[string]string{
		"zoom range":      "viewport:\n  min_zoom: 2\n  max_zoom: 1\n",
		"unknown backend": "store:\n  backend: mongo\n",
		"negative settle": "persist:\n  settle_ms: -5\n",
		"malformed":       "viewport: [",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}

	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "an explicit path must exist")
}

func TestGetSavePath(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, "out.png", cfg.GetSavePath("out.png"))

	dir := filepath.Join(t.TempDir(), "exports")
	cfg.UI.SaveDirectory = dir
	assert.Equal(t, filepath.Join(dir, "out.png"), cfg.GetSavePath("out.png"))
	assert.DirExists(t, dir)
}
