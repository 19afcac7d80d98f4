package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Storage   StorageConfig
	Shell     ShellConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port        string   `envconfig:"PORT" default:"8000"`
	Host        string   `envconfig:"HOST" default:"0.0.0.0"`
	// CORSOrigins is a comma-separated allow list; "*" allows any origin
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// StorageConfig selects and configures the snapshot backend.
type StorageConfig struct {
	Backend string        `envconfig:"STORAGE_BACKEND" default:"file"`
	Dir     string        `envconfig:"STORAGE_DIR" default:"./data"`
	Key     string        `envconfig:"STORAGE_KEY" default:"webos.vfs"`
	Timeout time.Duration `envconfig:"STORAGE_TIMEOUT" default:"5s"`
	S3      S3Config
	Breaker BreakerConfig
	// DatabaseURL is a lib/pq connection string for the postgres backend
	DatabaseURL string `envconfig:"DATABASE_URL"`
}

// BreakerConfig guards remote backends (s3, postgres) with a circuit breaker.
type BreakerConfig struct {
	Enabled  bool          `envconfig:"STORAGE_BREAKER_ENABLED" default:"true"`
	Failures int           `envconfig:"STORAGE_BREAKER_FAILURES" default:"5"`
	Cooldown time.Duration `envconfig:"STORAGE_BREAKER_COOLDOWN" default:"30s"`
}

// S3Config holds settings for S3-compatible object stores such as MinIO.
type S3Config struct {
	Endpoint  string `envconfig:"S3_ENDPOINT"`
	Region    string `envconfig:"S3_REGION" default:"us-east-1"`
	Bucket    string `envconfig:"S3_BUCKET" default:"webos"`
	Prefix    string `envconfig:"S3_PREFIX"`
	AccessKey string `envconfig:"S3_ACCESS_KEY"`
	SecretKey string `envconfig:"S3_SECRET_KEY"`
}

// ShellConfig holds interpreter settings.
type ShellConfig struct {
	// ProfilePath points at an optional TOML or YAML system profile
	ProfilePath string `envconfig:"SHELL_PROFILE"`
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
			Port:        "8000",
			Host:        "0.0.0.0",
			CORSOrigins: []string{"*"},
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Storage: StorageConfig{
			Backend: "file",
			Dir:     "./data",
			Key:     "webos.vfs",
			Timeout: 5 * time.Second,
			S3: S3Config{
				Region: "us-east-1",
				Bucket: "webos",
			},
			Breaker: BreakerConfig{
				Enabled:  true,
				Failures: 5,
				Cooldown: 30 * time.Second,
			},
		},
	}
}
