// Package config handles application configuration and environment loading.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Placeholder styles accepted in ANALYTICS_PLACEHOLDER.
const (
	PlaceholderDollar   = "dollar"   // $1, $2, ... (PostgreSQL)
	PlaceholderQuestion = "question" // ?, ?, ...
)

// Config holds the configuration for the analytics query compiler.
type Config struct {
	LogLevel string // log level: debug, info, warn, error (default "info")
	Env      string // environment: "development" (default) or "production"

	Placeholder      string // bind variable style (default "dollar")
	DefaultLimit     int    // limit applied when a request has none (default 100)
	MaxLimit         int    // upper bound for limite; 0 means unbounded
	BatchConcurrency int    // max concurrent compilations in a batch; 0 means GOMAXPROCS

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsProduction returns true when running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		LogLevel:    os.Getenv("LOG_LEVEL"),
		Env:         os.Getenv("ENV"),
		Placeholder: strings.ToLower(strings.TrimSpace(os.Getenv("ANALYTICS_PLACEHOLDER"))),
	}

	var err error
	if cfg.DefaultLimit, err = parseIntEnv("ANALYTICS_DEFAULT_LIMIT", 100); err != nil {
		return nil, err
	}
	if cfg.MaxLimit, err = parseIntEnv("ANALYTICS_MAX_LIMIT", 0); err != nil {
		return nil, err
	}
	if cfg.BatchConcurrency, err = parseIntEnv("ANALYTICS_BATCH_CONCURRENCY", 0); err != nil {
		return nil, err
	}

	// Defaults
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Placeholder == "" {
		cfg.Placeholder = PlaceholderDollar
	}

	switch cfg.Placeholder {
	case PlaceholderDollar, PlaceholderQuestion:
	default:
		return nil, fmt.Errorf("ANALYTICS_PLACEHOLDER must be %q or %q, got %q", PlaceholderDollar, PlaceholderQuestion, cfg.Placeholder)
	}
	if cfg.DefaultLimit <= 0 {
		return nil, fmt.Errorf("ANALYTICS_DEFAULT_LIMIT must be positive, got %d", cfg.DefaultLimit)
	}
	if cfg.MaxLimit < 0 {
		return nil, fmt.Errorf("ANALYTICS_MAX_LIMIT must not be negative, got %d", cfg.MaxLimit)
	}
	if cfg.MaxLimit > 0 && cfg.DefaultLimit > cfg.MaxLimit {
		return nil, fmt.Errorf("ANALYTICS_DEFAULT_LIMIT (%d) exceeds ANALYTICS_MAX_LIMIT (%d)", cfg.DefaultLimit, cfg.MaxLimit)
	}
	if cfg.BatchConcurrency < 0 {
		return nil, fmt.Errorf("ANALYTICS_BATCH_CONCURRENCY must not be negative, got %d", cfg.BatchConcurrency)
	}

	if cfg.MaxLimit == 0 && cfg.IsProduction() {
		cfg.Warnings = append(cfg.Warnings, "ANALYTICS_MAX_LIMIT not set: requests may ask for any number of rows")
	}

	return cfg, nil
}

func parseIntEnv(key string, defaultVal int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

// LoadDotEnv reads a .env file and sets any variables not already in the environment.
// Lines must be in KEY=VALUE format. Comments (#) and blank lines are skipped.
func LoadDotEnv(path string) error {
	f, err := os.Open(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return nil // .env not found is not an error
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(strings.TrimPrefix(line, "export "), "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = stripQuotes(strings.TrimSpace(value))
		// Env vars take precedence over the file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("setenv %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}

// stripQuotes removes surrounding double or single quotes from a value.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
