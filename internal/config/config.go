package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Source   SourceConfig
	Database DatabaseConfig
	Run      RunConfig
}

// SourceConfig holds settings for the upstream price page
type SourceConfig struct {
	URL          string
	UserAgent    string
	RequestDelay time.Duration
	SettleDelay  time.Duration
	DateWait     time.Duration
}

// DatabaseConfig holds SQLite configuration
type DatabaseConfig struct {
	Path           string
	MigrationsPath string
}

// RunConfig holds orchestration settings
type RunConfig struct {
	MaxRetries int
	WindowDays int
	LogPath    string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Source: SourceConfig{
			URL:          getEnv("SOURCE_URL", "https://www.fidelity.ca/fidca/en/priceandperformance"),
			UserAgent:    getEnv("SOURCE_USER_AGENT", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"),
			RequestDelay: getEnvDuration("SOURCE_REQUEST_DELAY", 3*time.Second),
			SettleDelay:  getEnvDuration("SOURCE_SETTLE_DELAY", 3*time.Second),
			DateWait:     getEnvDuration("SOURCE_DATE_WAIT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Path:           getEnv("DB_PATH", "funds.db"),
			MigrationsPath: getEnv("DB_MIGRATIONS_PATH", "db/migrations"),
		},
		Run: RunConfig{
			MaxRetries: getEnvInt("RUN_MAX_RETRIES", 3),
			WindowDays: getEnvInt("RUN_WINDOW_DAYS", 365),
			LogPath:    getEnv("RUN_LOG_PATH", "output.log"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
