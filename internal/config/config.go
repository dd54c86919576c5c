// Package config provides application configuration for the clinic clients.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all client configuration shared by the three front ends.
type Config struct {
	// APIBaseURL is the clinic backend base URL.
	APIBaseURL string
	// DataDir holds the local storage file and its key material.
	DataDir string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
	// HTTPTimeout bounds every outbound request.
	HTTPTimeout time.Duration
	// RateRPS and RateBurst tune the outbound request limiter.
	RateRPS   float64
	RateBurst int
}

// Load reads configuration from the environment, honoring a .env file when
// one is present in the working directory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:  getEnv("CLINIC_API_URL", "http://localhost:8000"),
		DataDir:     getEnv("CLINIC_DATA_DIR", defaultDataDir()),
		LogLevel:    strings.ToLower(getEnv("CLINIC_LOG_LEVEL", "info")),
		HTTPTimeout: getEnvDuration("CLINIC_HTTP_TIMEOUT", 15*time.Second),
		RateRPS:     getEnvFloat("CLINIC_RATE_RPS", 5),
		RateBurst:   getEnvInt("CLINIC_RATE_BURST", 10),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required configuration fields are usable.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("CLINIC_API_URL cannot be empty")
	}
	if !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		return fmt.Errorf("CLINIC_API_URL must be an http(s) URL, got %q", c.APIBaseURL)
	}
	if c.DataDir == "" {
		return fmt.Errorf("CLINIC_DATA_DIR cannot be empty")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("CLINIC_HTTP_TIMEOUT must be > 0")
	}
	if c.RateRPS <= 0 {
		return fmt.Errorf("CLINIC_RATE_RPS must be > 0")
	}
	if c.RateBurst <= 0 {
		return fmt.Errorf("CLINIC_RATE_BURST must be > 0")
	}
	return nil
}

// NewLogger builds the process logger at the configured level.
func (c *Config) NewLogger() *slog.Logger {
	var level slog.Level
	switch c.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func defaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "./data"
	}
	return filepath.Join(base, "clinicdesk")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
