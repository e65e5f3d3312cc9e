package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"luxcheck/internal"
	"luxcheck/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Standards StandardsConfig
	Database  DatabaseConfig
	Server    ServerConfig
	Batch     BatchConfig
	LogLevel  string
}

// StandardsConfig locates the standards catalog and the alias table
type StandardsConfig struct {
	Path        string // JSON, XLSX or CSV catalog
	AliasesPath string // optional JSON/YAML alias table, built-in table when empty
}

// DatabaseConfig holds database connection settings. An empty URL runs the
// service without run history.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Enabled reports whether a database is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port           string
	RequestTimeout time.Duration
	MaxReportBytes int64
}

// BatchConfig holds folder processing settings
type BatchConfig struct {
	Workers int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	standards, err := loadStandardsConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load standards configuration")
	}
	config.Standards = *standards

	config.Database = *loadDatabaseConfig()
	config.Server = *loadServerConfig()
	config.Batch = BatchConfig{Workers: getEnvIntOrDefault("BATCH_WORKERS", 4)}
	config.LogLevel = getEnvOrDefault("LOG_LEVEL", "INFO")

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadStandardsConfig() (*StandardsConfig, error) {
	path := strings.TrimSpace(os.Getenv("STANDARDS_PATH"))
	if path == "" {
		return nil, errors.ConfigInvalid("STANDARDS_PATH is required")
	}
	return &StandardsConfig{
		Path:        path,
		AliasesPath: strings.TrimSpace(os.Getenv("ALIASES_PATH")),
	}, nil
}

func loadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		URL:             os.Getenv("DATABASE_URL"),
		MaxOpenConns:    getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    getEnvIntOrDefault("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvDurationOrDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:           getEnvOrDefault("PORT", "8080"),
		RequestTimeout: getEnvDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		MaxReportBytes: int64(getEnvIntOrDefault("MAX_REPORT_BYTES", 10<<20)),
	}
}

func validateConfig(config *Config) error {
	if config.Batch.Workers < 1 {
		return errors.ConfigInvalid("BATCH_WORKERS must be at least 1")
	}
	if config.Server.MaxReportBytes <= 0 {
		return errors.ConfigInvalid("MAX_REPORT_BYTES must be positive")
	}
	if config.Server.RequestTimeout <= 0 {
		return errors.ConfigInvalid("REQUEST_TIMEOUT must be positive")
	}
	if _, ok := internal.ParseLogLevel(config.LogLevel); !ok {
		return errors.ConfigInvalid("LOG_LEVEL must be one of ERROR, WARN, INFO, DEBUG, TRACE")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
