package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv    string `env:"APP_ENV" default:"development"`
	Port      string `env:"PORT" default:"8080"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`
	// LogJournal additionally ships logs to systemd-journald.
	LogJournal bool `env:"LOG_JOURNAL" default:"false"`

	HostnameLookupTimeout   time.Duration `env:"HOSTNAME_LOOKUP_TIMEOUT" default:"2s"`
	HostnameLookupAttempts  int           `env:"HOSTNAME_LOOKUP_ATTEMPTS" default:"2"`
	HostnameRetryBackoff    time.Duration `env:"HOSTNAME_RETRY_BACKOFF" default:"100ms"`
	HostnameBreakerFailures int           `env:"HOSTNAME_BREAKER_FAILURES" default:"3"`
	HostnameBreakerDelay    time.Duration `env:"HOSTNAME_BREAKER_DELAY" default:"30s"`

	// RateLimitRPS is the per-IP limit for mutating routes; 0 disables limiting.
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" default:"0"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" default:"20"`

	MaxBodySize     string        `env:"MAX_BODY_SIZE" default:"64K"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" default:"10s"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

var (
	validLogLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validLogFormats = map[string]bool{"text": true, "json": true}
)

func validate(cfg *Config) error {
	port, err := strconv.Atoi(cfg.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a number between 1 and 65535, got %q", cfg.Port)
	}

	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", cfg.LogLevel)
	}
	if !validLogFormats[cfg.LogFormat] {
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	if cfg.HostnameLookupTimeout <= 0 {
		return errors.New("HOSTNAME_LOOKUP_TIMEOUT must be positive")
	}
	if cfg.HostnameLookupAttempts < 1 {
		return errors.New("HOSTNAME_LOOKUP_ATTEMPTS must be at least 1")
	}
	if cfg.HostnameRetryBackoff < 0 {
		return errors.New("HOSTNAME_RETRY_BACKOFF must not be negative")
	}
	if cfg.HostnameBreakerFailures < 1 {
		return errors.New("HOSTNAME_BREAKER_FAILURES must be at least 1")
	}
	if cfg.HostnameBreakerDelay <= 0 {
		return errors.New("HOSTNAME_BREAKER_DELAY must be positive")
	}

	if cfg.RateLimitRPS < 0 {
		return errors.New("RATE_LIMIT_RPS must not be negative")
	}
	if cfg.RateLimitRPS > 0 && cfg.RateLimitBurst < 1 {
		return errors.New("RATE_LIMIT_BURST must be at least 1 when rate limiting is enabled")
	}

	if cfg.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}

	return nil
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
