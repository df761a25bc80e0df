package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/saiharshith312004/performance-dashboard/internal/domain"
)

// Config holds the application configuration
type Config struct {
	// Collector
	CollectorType string // "github" or "fixture"
	GitHubToken   string
	FixturePath   string

	// Aggregation
	WindowDays int

	// Storage
	StorageType string // "sqlite" or "postgres"
	SQLitePath  string
	PostgresURL string

	// API Server
	APIPort string
	APIHost string

	// CLI
	APIEndpoint string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	return &Config{
		CollectorType: getEnv("COLLECTOR_TYPE", "github"),
		GitHubToken:   getEnv("GITHUB_TOKEN", ""),
		FixturePath:   getEnv("FIXTURE_PATH", ""),
		WindowDays:    getEnvInt("WINDOW_DAYS", domain.DefaultWindowDays),
		StorageType:   getEnv("STORAGE_TYPE", "sqlite"),
		SQLitePath:    getEnv("SQLITE_PATH", "./metrics.db"),
		PostgresURL:   getEnv("POSTGRES_URL", ""),
		APIPort:       getEnv("API_PORT", "8080"),
		APIHost:       getEnv("API_HOST", "localhost"),
		APIEndpoint:   getEnv("API_ENDPOINT", "http://localhost:8080"),
	}, nil
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable parsed as an integer, or a
// default value when the variable is unset or not a number
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.CollectorType != "github" && c.CollectorType != "fixture" {
		return &ConfigError{Field: "COLLECTOR_TYPE", Message: "must be 'github' or 'fixture'"}
	}
	if c.CollectorType == "github" && c.GitHubToken == "" {
		return &ConfigError{Field: "GITHUB_TOKEN", Message: "GitHub token is required when COLLECTOR_TYPE is 'github'"}
	}
	if c.CollectorType == "fixture" && c.FixturePath == "" {
		return &ConfigError{Field: "FIXTURE_PATH", Message: "fixture path is required when COLLECTOR_TYPE is 'fixture'"}
	}
	if c.StorageType != "sqlite" && c.StorageType != "postgres" {
		return &ConfigError{Field: "STORAGE_TYPE", Message: "must be 'sqlite' or 'postgres'"}
	}
	if c.StorageType == "postgres" && c.PostgresURL == "" {
		return &ConfigError{Field: "POSTGRES_URL", Message: "PostgreSQL URL is required when STORAGE_TYPE is 'postgres'"}
	}
	if c.WindowDays < 1 {
		return &ConfigError{Field: "WINDOW_DAYS", Message: fmt.Sprintf("must be at least 1, got %d", c.WindowDays)}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
