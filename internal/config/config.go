// Package config loads the screening engine's process configuration
// from environment variables, with an optional .env file for local
// development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds process-wide settings loaded once at startup. Unlike
// scoring.Config, nothing here is mutable at runtime.
type Config struct {
	ListenAddr string

	LogLevel  string
	LogFormat string

	BulkJobChunkSize        int
	BulkJobChunkParallelism int

	ObjectStoreRoot string
	// WatchlistDataPath, if set, is an NDJSON file of entity.Entity
	// records loaded into the index once at startup.
	WatchlistDataPath string

	RateLimitEnabled   bool
	RateLimitPerSecond float64
	RateLimitBurst     int

	MetricsEnabled bool
	MetricsAddr    string

	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, loading a
// local .env file first if present (missing files are not an error).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("warning: could not load .env: %v\n", err)
	}

	cfg := &Config{
		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		BulkJobChunkSize:        getIntEnv("BULK_JOB_CHUNK_SIZE", 1000),
		BulkJobChunkParallelism: getIntEnv("BULK_JOB_CHUNK_PARALLELISM", 8),

		ObjectStoreRoot:   getEnv("OBJECT_STORE_ROOT", "./data"),
		WatchlistDataPath: getEnv("WATCHLIST_DATA_PATH", ""),

		RateLimitEnabled:   getBoolEnv("RATE_LIMIT_ENABLED", true),
		RateLimitPerSecond: getFloatEnv("RATE_LIMIT_REQUESTS_PER_SECOND", 50),
		RateLimitBurst:     getIntEnv("RATE_LIMIT_BURST", 100),

		MetricsEnabled: getBoolEnv("METRICS_ENABLED", true),
		MetricsAddr:    getEnv("METRICS_ADDR", ":9090"),
	}

	shutdownTimeout := getEnv("SHUTDOWN_TIMEOUT", "15s")
	timeout, err := time.ParseDuration(shutdownTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}
	cfg.ShutdownTimeout = timeout

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configuration that would make the server
// unschedulable or functionally inert.
func (c *Config) Validate() error {
	if c.BulkJobChunkSize <= 0 {
		return fmt.Errorf("BULK_JOB_CHUNK_SIZE must be > 0, got %d", c.BulkJobChunkSize)
	}
	if c.BulkJobChunkParallelism <= 0 {
		return fmt.Errorf("BULK_JOB_CHUNK_PARALLELISM must be > 0, got %d", c.BulkJobChunkParallelism)
	}
	if c.RateLimitEnabled && c.RateLimitPerSecond <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS_PER_SECOND must be > 0 when rate limiting is enabled")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
