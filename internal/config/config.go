package config

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/logger"
)

type Config struct {
	// Server
	ListenAddr string
	ServerURL  string

	// Storage
	DBPath string

	// Default company for single-tenant installs
	CompanyID string

	// Logging
	LogLevel  string
	LogFormat string
	LogOutput string
}

// Load reads configuration from the environment. A .env file in the
// working directory is merged in first; missing values fall back to
// defaults suitable for a single-shop install.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ListenAddr: getEnv("GURUKRUPA_ADDR", ":8090"),
		ServerURL:  getEnv("GURUKRUPA_SERVER", "http://localhost:8090"),
		DBPath:     getEnv("GURUKRUPA_DB", "gurukrupa.db"),
		CompanyID:  getEnv("GURUKRUPA_COMPANY", "default"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "console"),
		LogOutput:  getEnv("LOG_OUTPUT", "stderr"),
	}
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:  c.LogLevel,
		Format: c.LogFormat,
		Output: c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
