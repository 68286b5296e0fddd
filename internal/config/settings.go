package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Settings holds application settings, as opposed to plan inputs
type Settings struct {
	Store   StoreSettings   `mapstructure:"store"   yaml:"store"`
	Cache   CacheSettings   `mapstructure:"cache"   yaml:"cache"`
	Logging LoggingSettings `mapstructure:"logging" yaml:"logging"`
	Output  OutputSettings  `mapstructure:"output"  yaml:"output"`
}

// StoreSettings picks the scenario store backend
type StoreSettings struct {
	Backend     string `mapstructure:"backend"      yaml:"backend"` // "memory", "file", "redis", "postgres"
	Dir         string `mapstructure:"dir"          yaml:"dir"`
	RedisAddr   string `mapstructure:"redis_addr"   yaml:"redis_addr"`
	PostgresDSN string `mapstructure:"postgres_dsn" yaml:"postgres_dsn"`
}

type CacheSettings struct {
	Enabled    bool   `mapstructure:"enabled"     yaml:"enabled"`
	RedisAddr  string `mapstructure:"redis_addr"  yaml:"redis_addr"` // empty keeps the cache in process
	TTLSeconds int    `mapstructure:"ttl_seconds" yaml:"ttl_seconds"`
}

type LoggingSettings struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

type OutputSettings struct {
	Format string `mapstructure:"format" yaml:"format"`
	Dir    string `mapstructure:"dir"    yaml:"dir"`
}

const envPrefix = "PLANNER"

// LoadSettings reads settings from path, or from ./planner.yaml when path is
// empty, with PLANNER_<SECTION>_<KEY> environment variables taking precedence.
// A missing default file is not an error; a missing explicit path is.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("planner")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("error unmarshaling settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// DefaultSettings returns the settings used when nothing is configured
func DefaultSettings() *Settings {
	v := viper.New()
	setDefaults(v)
	var s Settings
	_ = v.Unmarshal(&s)
	return &s
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.backend", "file")
	v.SetDefault("store.dir", ".planner/scenarios")
	v.SetDefault("store.redis_addr", "localhost:6379")
	v.SetDefault("store.postgres_dsn", "")

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.ttl_seconds", 3600)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("output.format", "console")
	v.SetDefault("output.dir", "")
}

// Validate checks the enumerated settings
func (s *Settings) Validate() error {
	switch s.Store.Backend {
	case "memory", "file", "redis":
	case "postgres":
		if s.Store.PostgresDSN == "" {
			return fmt.Errorf("store.postgres_dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown store.backend %q", s.Store.Backend)
	}
	switch strings.ToLower(s.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown logging.level %q", s.Logging.Level)
	}
	switch s.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown logging.format %q", s.Logging.Format)
	}
	if s.Cache.TTLSeconds < 0 {
		return fmt.Errorf("cache.ttl_seconds cannot be negative")
	}
	return nil
}
