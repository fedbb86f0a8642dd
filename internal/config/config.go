package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the analytics backend.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Log       LogConfig       `mapstructure:"log"`
}

// DatabaseConfig holds the SQLite store settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// AnalyticsConfig holds operational tunables for analysis runs. The
// statistical thresholds themselves are fixed constants in the service
// package and deliberately not configurable.
type AnalyticsConfig struct {
	WindowDays          int `mapstructure:"window_days"`
	RecommendationLimit int `mapstructure:"recommendation_limit"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables and an optional
// config file.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("database.path", "attune.db")
	v.SetDefault("analytics.window_days", 30)
	v.SetDefault("analytics.recommendation_limit", 5)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetEnvPrefix("ATTUNE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Missing config file is fine; env vars and defaults cover everything.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that configuration values are usable.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Analytics.WindowDays <= 0 {
		return fmt.Errorf("analytics.window_days must be positive, got %d", c.Analytics.WindowDays)
	}
	if c.Analytics.RecommendationLimit <= 0 {
		return fmt.Errorf("analytics.recommendation_limit must be positive, got %d", c.Analytics.RecommendationLimit)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text, got %q", c.Log.Format)
	}
	return nil
}
