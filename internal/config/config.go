package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig
	Logging     LogConfig
	Interactive InteractiveConfig
	Refactor    RefactorConfig
	RateLimit   RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// InteractiveConfig holds interactive window configuration.
type InteractiveConfig struct {
	Language     string        `envconfig:"INTERACTIVE_LANGUAGE" default:"javascript"`
	Title        string        `envconfig:"INTERACTIVE_TITLE" default:"Interactive Window"`
	EvalTimeout  time.Duration `envconfig:"INTERACTIVE_EVAL_TIMEOUT" default:"30s"`
	ManifestPath string        `envconfig:"INTERACTIVE_COMMANDS" default:""`
	Shell        string        `envconfig:"INTERACTIVE_SHELL" default:""`
}

// RefactorConfig holds change-signature service configuration.
type RefactorConfig struct {
	Address string `envconfig:"REFACTOR_ADDR" default:"http://localhost:7010"`
	Enabled bool   `envconfig:"REFACTOR_ENABLED" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		Interactive: InteractiveConfig{
			Language:    "javascript",
			Title:       "Interactive Window",
			EvalTimeout: 30 * time.Second,
		},
		Refactor: RefactorConfig{
			Address: "http://localhost:7010",
			Enabled: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
