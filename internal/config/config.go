// Package config loads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// Upstream survey platform.
	ReadingsFeedURL string        `envconfig:"READINGS_FEED_URL"`
	MetadataFeedURL string        `envconfig:"METADATA_FEED_URL"`
	APIToken        string        `envconfig:"SURVEY_API_TOKEN"`
	FetchTimeout    time.Duration `envconfig:"FETCH_TIMEOUT" default:"30s"`

	// Dataset cache.
	CacheTTL         time.Duration `envconfig:"CACHE_TTL" default:"30m"`
	RecentWindowDays int           `envconfig:"RECENT_WINDOW_DAYS" default:"90"`

	// HTTP API.
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	// Logging.
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	// Optional Kafka export of each rebuilt dataset.
	KafkaBrokers     []string `envconfig:"KAFKA_BROKERS"`
	KafkaExportTopic string   `envconfig:"KAFKA_EXPORT_TOPIC" default:"reconciled-readings"`
}

// KafkaExportEnabled reports whether the dataset exporter should run.
func (c *Config) KafkaExportEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from the environment, honoring a local .env file
// when present, and validates required settings.
func Load() (*Config, error) {
	// Best effort: absent .env files are the normal case in deployment.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if cfg.ReadingsFeedURL == "" {
		return nil, errors.New("READINGS_FEED_URL is required")
	}
	if cfg.MetadataFeedURL == "" {
		return nil, errors.New("METADATA_FEED_URL is required")
	}
	if cfg.FetchTimeout <= 0 {
		return nil, errors.New("FETCH_TIMEOUT must be positive")
	}
	if cfg.CacheTTL <= 0 {
		return nil, errors.New("CACHE_TTL must be positive")
	}
	if cfg.RecentWindowDays < 0 {
		return nil, errors.New("RECENT_WINDOW_DAYS must not be negative")
	}
	if cfg.KafkaExportEnabled() && cfg.KafkaExportTopic == "" {
		return nil, errors.New("KAFKA_EXPORT_TOPIC is required when KAFKA_BROKERS is set")
	}

	return &cfg, nil
}
