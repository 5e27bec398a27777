package config

import (
	"os"
	"strconv"

	"carscope/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server ServerConfig
	API    APIConfig
	Data   DataConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// APIConfig holds settings for the read-only JSON API server
type APIConfig struct {
	Port string
}

// DataConfig holds data loading settings
type DataConfig struct {
	File        string
	MaxUploadMB int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
		API: APIConfig{
			Port: getEnvOrDefault("API_PORT", "8081"),
		},
		Data: DataConfig{
			File:        getEnvOrDefault("DATA_FILE", "vehicles_us.csv"),
			MaxUploadMB: getEnvIntOrDefault("MAX_UPLOAD_MB", 64),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Data.File == "" {
		return errors.ConfigInvalid("data file path is required")
	}
	if config.Data.MaxUploadMB <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
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
