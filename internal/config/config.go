// Package config provides Viper-based configuration for the imgfx command.
//
// Settings come from, in increasing priority: built-in defaults, an
// optional YAML file, and IMGFX_* environment variables. Byte sizes accept
// human-readable values such as "256MiB" or "1.5GB".
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "IMGFX"

// Config is the complete imgfx configuration.
type Config struct {
	// CacheEntries bounds the number of cached stage outputs. Zero leaves
	// only the byte bound.
	CacheEntries int `mapstructure:"cache_entries" validate:"gte=0"`

	// CacheSize bounds the bytes held by the stage cache. "0" disables
	// caching.
	CacheSize string `mapstructure:"cache_size" validate:"required,bytesize"`

	// MemoryCeiling is the pre-flight budget for intermediates of one
	// chain. "0" disables the check.
	MemoryCeiling string `mapstructure:"memory_ceiling" validate:"required,bytesize"`

	// Workers is the number of concurrent jobs and the per-stage row
	// parallelism. Zero means GOMAXPROCS.
	Workers int `mapstructure:"workers" validate:"gte=0,lte=1024"`

	LogLevel  string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" validate:"oneof=text json"`

	// FavoritesDir holds saved filter chains.
	FavoritesDir string `mapstructure:"favorites_dir" validate:"required"`
}

// CacheBytes returns CacheSize in bytes.
func (c *Config) CacheBytes() int64 { return mustBytes(c.CacheSize) }

// CeilingBytes returns MemoryCeiling in bytes.
func (c *Config) CeilingBytes() int64 { return mustBytes(c.MemoryCeiling) }

// SlogLevel returns LogLevel as a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// mustBytes parses a size already accepted by validation.
func mustBytes(s string) int64 {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0
	}
	return int64(min(n, 1<<62))
}

// Load reads configuration from cfgFile (or .imgfx.yaml in the working
// directory and the user config directory when cfgFile is empty) and from
// the environment. A missing config file is not an error.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".imgfx")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "imgfx"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		CacheEntries:  256,
		CacheSize:     "256MiB",
		MemoryCeiling: "1GiB",
		Workers:       0,
		LogLevel:      "warn",
		LogFormat:     "text",
		FavoritesDir:  defaultFavoritesDir(),
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("cache_entries", d.CacheEntries)
	v.SetDefault("cache_size", d.CacheSize)
	v.SetDefault("memory_ceiling", d.MemoryCeiling)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("favorites_dir", d.FavoritesDir)
}

func defaultFavoritesDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "imgfx", "favorites")
	}
	return ".imgfx-favorites"
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.RegisterValidation("bytesize", isByteSize); err != nil {
		return err
	}
	return validate.Struct(cfg)
}

func isByteSize(fl validator.FieldLevel) bool {
	_, err := humanize.ParseBytes(fl.Field().String())
	return err == nil
}
