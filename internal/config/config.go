package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the application
type Config struct {
	Port           string
	Environment    string
	LogLevel       string
	AllowedOrigins []string

	// RedisURL selects the production store; when empty the portal
	// falls back to JSON files under DataDir.
	RedisURL  string
	DataDir   string
	KeyPrefix string

	// AdminPasscode gates the admin console. A single shared secret,
	// compared verbatim; there is no per-admin identity.
	AdminPasscode string

	// LockInPeriod is how long after creation a proposal accepts
	// votes.
	LockInPeriod time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    getEnv("ENVIRONMENT", "production"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		RedisURL:       getEnv("REDIS_URL", ""),
		DataDir:        getEnv("DATA_DIR", "data"),
		KeyPrefix:      getEnv("KEY_PREFIX", "oha"),
		AdminPasscode:  getEnv("ADMIN_PASSCODE", "6526"),
		LockInPeriod:   getDurationEnv("LOCK_IN_PERIOD", 7*24*time.Hour),
	}, nil
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getDurationEnv gets a duration environment variable with a fallback
// value
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// parseOrigins parses comma-separated origins into a slice
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
