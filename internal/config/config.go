// Package config provides configuration management for the PixelMux server.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values for the server.
type Config struct {
	// Server configuration
	Port string
	Env  string

	// Database configuration
	DatabaseURL string

	// Output configuration
	OutputEnabled bool
	// DefaultAddress is used when a fixture output declares no destination.
	DefaultAddress string

	// Color buffer configuration
	PixelCount int

	// Send loop configuration
	SendRefreshRate      int           // Hz (active)
	SendIdleRate         int           // Hz (idle)
	SendHighRateDuration time.Duration // Duration to stay in high rate after changes

	// CORS configuration
	CORSOrigin string
}

// Load loads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		// Server
		Port: getEnv("PORT", "4000"),
		Env:  getEnv("ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", "file:./dev.db"),

		// Output
		OutputEnabled:  getEnvBool("OUTPUT_ENABLED", true),
		DefaultAddress: getEnv("OUTPUT_DEFAULT_ADDRESS", "255.255.255.255"),

		// Color buffer
		PixelCount: getEnvInt("PIXEL_COUNT", 4096),

		// Send loop
		SendRefreshRate:      getEnvInt("SEND_REFRESH_RATE", 60),
		SendIdleRate:         getEnvInt("SEND_IDLE_RATE", 1),
		SendHighRateDuration: time.Duration(getEnvInt("SEND_HIGH_RATE_DURATION", 2000)) * time.Millisecond,

		// CORS
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default value.
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
