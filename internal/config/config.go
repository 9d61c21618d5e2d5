// Package config loads application configuration from environment
// variables (prefix F990) layered over an optional YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the complete application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Provider ProviderConfig `yaml:"provider" envconfig:"PROVIDER"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"10m"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"json"`
}

// ProviderConfig points at the public filing data provider.
type ProviderConfig struct {
	BaseURL           string        `yaml:"base_url" envconfig:"BASE_URL" default:"https://projects.propublica.org/nonprofits"`
	UserAgent         string        `yaml:"user_agent" envconfig:"USER_AGENT" default:"form990x/1.0"`
	Timeout           time.Duration `yaml:"timeout" envconfig:"TIMEOUT" default:"30s"`
	RequestsPerSecond float64       `yaml:"requests_per_second" envconfig:"REQUESTS_PER_SECOND" default:"10"`
	Burst             int           `yaml:"burst" envconfig:"BURST" default:"10"`
}

// PipelineConfig tunes the extraction batch pipeline.
type PipelineConfig struct {
	Workers       int           `yaml:"workers" envconfig:"WORKERS" default:"10"`
	MaxRows       int           `yaml:"max_rows" envconfig:"MAX_ROWS" default:"250"`
	BatchTimeout  time.Duration `yaml:"batch_timeout" envconfig:"BATCH_TIMEOUT" default:"10m"`
	RetryAttempts int           `yaml:"retry_attempts" envconfig:"RETRY_ATTEMPTS" default:"1"`
	RetryBackoff  time.Duration `yaml:"retry_backoff" envconfig:"RETRY_BACKOFF" default:"2s"`
}

// Load reads configuration: struct-tag defaults and environment variables
// first, then an optional YAML file (F990_CONFIG_FILE, falling back to
// config.yaml) whose values override both.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("F990", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := os.Getenv("F990_CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}
	if _, err := os.Stat(configFile); err == nil {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Provider.BaseURL == "" {
		return fmt.Errorf("provider base_url is required")
	}
	if c.Pipeline.Workers < 1 {
		return fmt.Errorf("pipeline workers must be positive, got %d", c.Pipeline.Workers)
	}
	if c.Pipeline.MaxRows < 1 {
		return fmt.Errorf("pipeline max_rows must be positive, got %d", c.Pipeline.MaxRows)
	}
	if c.Pipeline.RetryAttempts < 0 {
		return fmt.Errorf("pipeline retry_attempts must not be negative, got %d", c.Pipeline.RetryAttempts)
	}
	return nil
}
