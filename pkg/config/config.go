package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Application
	LogLevel string
	HTTPPort string

	// Cache
	CacheTTL      time.Duration
	CacheBackend  string // "memory" or "ristretto"
	CacheMaxItems int64  // ristretto backend only
	SweepInterval time.Duration

	// Upstream resolver
	UpstreamURL        string
	UpstreamTimeout    time.Duration
	UpstreamRetries    int
	UpstreamRetryDelay time.Duration

	// Storage
	StorageMode  string // "postgres" or "console"
	PostgresHost string
	PostgresPort string
	PostgresUser string
	PostgresPass string
	PostgresDB   string
	PostgresSSL  string
}

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		// Application defaults
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		HTTPPort: getEnvOrDefault("HTTP_PORT", "8080"),

		// Cache defaults
		CacheTTL:      getDurationOrDefault("CACHE_TTL", 5*time.Minute),
		CacheBackend:  getEnvOrDefault("CACHE_BACKEND", "memory"),
		CacheMaxItems: int64(getIntOrDefault("CACHE_MAX_ITEMS", 10000)),
		SweepInterval: getDurationOrDefault("SWEEP_INTERVAL", time.Minute),

		// Upstream defaults
		UpstreamURL:        getEnvOrDefault("UPSTREAM_URL", "http://localhost:9090/resolve"),
		UpstreamTimeout:    getDurationOrDefault("UPSTREAM_TIMEOUT", 30*time.Second),
		UpstreamRetries:    getIntOrDefault("UPSTREAM_RETRIES", 3),
		UpstreamRetryDelay: getDurationOrDefault("UPSTREAM_RETRY_DELAY", 500*time.Millisecond),

		// Storage defaults
		StorageMode:  getEnvOrDefault("STORAGE_MODE", "console"),
		PostgresHost: getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresPort: getEnvOrDefault("POSTGRES_PORT", "5432"),
		PostgresUser: getEnvOrDefault("POSTGRES_USER", "querycache"),
		PostgresPass: getEnvOrDefault("POSTGRES_PASSWORD", "querycache123"),
		PostgresDB:   getEnvOrDefault("POSTGRES_DB", "querycache"),
		PostgresSSL:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
	}

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are valid.
func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT cannot be empty")
	}

	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %s", c.CacheTTL)
	}

	if c.CacheBackend != "memory" && c.CacheBackend != "ristretto" {
		return fmt.Errorf("CACHE_BACKEND must be 'memory' or 'ristretto', got %q", c.CacheBackend)
	}

	if c.SweepInterval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be positive, got %s", c.SweepInterval)
	}

	if c.UpstreamURL == "" {
		return fmt.Errorf("UPSTREAM_URL cannot be empty")
	}

	if c.StorageMode != "postgres" && c.StorageMode != "console" {
		return fmt.Errorf("STORAGE_MODE must be 'postgres' or 'console', got %q", c.StorageMode)
	}

	return nil
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}
