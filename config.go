package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"hubdeck/internal/kv"
	"hubdeck/internal/persist"
	"hubdeck/internal/viewport"
)

type Config struct {
	UI        UIConfig       `mapstructure:"ui"`
	Viewport  ViewportConfig `mapstructure:"viewport"`
	Store     StoreConfig    `mapstructure:"store"`
	Persist   PersistConfig  `mapstructure:"persist"`
	Log       LogConfig      `mapstructure:"log"`
	Catalog   string         `mapstructure:"catalog"`
	Workspace string         `mapstructure:"workspace"`
}

type UIConfig struct {
	SaveDirectory string `mapstructure:"save_directory"`
	Confirmations bool   `mapstructure:"confirmations"`
}

type ViewportConfig struct {
	MinZoom     float64 `mapstructure:"min_zoom" validate:"gt=0"`
	MaxZoom     float64 `mapstructure:"max_zoom" validate:"gtefield=MinZoom"`
	ZoomSpeed   float64 `mapstructure:"zoom_speed" validate:"gt=0"`
	AnimationMs int     `mapstructure:"animation_ms" validate:"gte=0"`
}

type StoreConfig struct {
	Backend       string        `mapstructure:"backend" validate:"oneof=memory file redis sqlite"`
	Path          string        `mapstructure:"path" validate:"required_if=Backend file,required_if=Backend sqlite"`
	RedisAddr     string        `mapstructure:"redis_addr" validate:"required_if=Backend redis"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db" validate:"gte=0"`
	RedisPrefix   string        `mapstructure:"redis_prefix"`
	RedisTTL      time.Duration `mapstructure:"redis_ttl" validate:"gte=0"`
}

type PersistConfig struct {
	Key      string `mapstructure:"key" validate:"required"`
	SettleMs int    `mapstructure:"settle_ms" validate:"gte=0"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "hubdeck")
}

// loadConfig reads configuration from file and env. Env var overrides use
// prefix HUBDECK_. An explicit path wins over HUBDECK_CONFIG and the default
// search path.
func loadConfig(path string) (*Config, error) {
	v := viper.New()

	dir := dataDir()
	limits := viewport.DefaultLimits()
	v.SetDefault("ui.save_directory", "")
	v.SetDefault("ui.confirmations", true)
	v.SetDefault("viewport.min_zoom", limits.MinZoom)
	v.SetDefault("viewport.max_zoom", limits.MaxZoom)
	v.SetDefault("viewport.zoom_speed", limits.ZoomSpeed)
	v.SetDefault("viewport.animation_ms", 400)
	v.SetDefault("store.backend", kv.BackendFile)
	v.SetDefault("store.path", filepath.Join(dir, "layout.json"))
	v.SetDefault("store.redis_addr", "localhost:6379")
	v.SetDefault("store.redis_password", "")
	v.SetDefault("store.redis_db", 0)
	v.SetDefault("store.redis_prefix", "hubdeck:")
	v.SetDefault("store.redis_ttl", "0s")
	v.SetDefault("persist.key", persist.DefaultKey)
	v.SetDefault("persist.settle_ms", int(persist.DefaultSettleDelay/time.Millisecond))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(dir, "hubdeck.log"))
	v.SetDefault("catalog", "")
	v.SetDefault("workspace", "")

	if path == "" {
		path = os.Getenv("HUBDECK_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "hubdeck"))
		}
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("HUBDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, missing := err.(viper.ConfigFileNotFoundError); !missing || path != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.UI.SaveDirectory = expandHome(c.UI.SaveDirectory)
	c.Store.Path = expandHome(c.Store.Path)
	c.Log.File = expandHome(c.Log.File)

	if err := validator.New().Struct(c); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &c, nil
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

func (c *Config) Limits() viewport.Limits {
	return viewport.Limits{
		MinZoom:   c.Viewport.MinZoom,
		MaxZoom:   c.Viewport.MaxZoom,
		ZoomSpeed: c.Viewport.ZoomSpeed,
	}
}

func (c *Config) AnimationDuration() time.Duration {
	return time.Duration(c.Viewport.AnimationMs) * time.Millisecond
}

func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.Persist.SettleMs) * time.Millisecond
}

func (c *Config) StoreOptions() kv.Options {
	return kv.Options{
		Backend:       c.Store.Backend,
		Path:          c.Store.Path,
		RedisAddr:     c.Store.RedisAddr,
		RedisPassword: c.Store.RedisPassword,
		RedisDB:       c.Store.RedisDB,
		Prefix:        c.Store.RedisPrefix,
		TTL:           c.Store.RedisTTL,
	}
}

func (c *Config) GetSavePath(filename string) string {
	if c.UI.SaveDirectory == "" {
		return filename
	}
	os.MkdirAll(c.UI.SaveDirectory, 0755)
	return filepath.Join(c.UI.SaveDirectory, filename)
}
