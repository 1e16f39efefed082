package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const devSessionSecret = "default-session-secret-change-in-production"

type Config struct {
	Env string

	DatabaseURL string

	ServerPort    string
	SessionSecret string
	SessionTTL    time.Duration

	CatalogBaseURL   string
	CatalogAPIKey    string
	CatalogTimeout   time.Duration
	CatalogRateLimit float64

	CORSOrigin string
	LogLevel   string
}

var GlobalConfig *Config

// IsProduction reports whether the process runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// LoadConfig reads the environment (seeded from .env when present) into GlobalConfig.
func LoadConfig() error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := FromEnv()
	if err != nil {
		return err
	}
	GlobalConfig = cfg
	return nil
}

// FromEnv builds a Config from the current environment without touching GlobalConfig.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Env:            getEnv("ENV", "development"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		ServerPort:     getEnv("PORT", getEnv("SERVER_PORT", "8080")),
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		CatalogBaseURL: getEnv("CATALOG_BASE_URL", "https://theaudiodb.com/api/v1/json"),
		CatalogAPIKey:  getEnv("CATALOG_API_KEY", "2"),
		CORSOrigin:     os.Getenv("CORS_ORIGIN"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	var err error
	if cfg.SessionTTL, err = time.ParseDuration(getEnv("SESSION_TTL", "168h")); err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	if cfg.CatalogTimeout, err = time.ParseDuration(getEnv("CATALOG_TIMEOUT", "10s")); err != nil {
		return nil, fmt.Errorf("invalid CATALOG_TIMEOUT: %w", err)
	}
	if cfg.CatalogRateLimit, err = strconv.ParseFloat(getEnv("CATALOG_RATE_LIMIT", "2"), 64); err != nil {
		return nil, fmt.Errorf("invalid CATALOG_RATE_LIMIT: %w", err)
	}
	if cfg.CatalogRateLimit <= 0 {
		return nil, fmt.Errorf("invalid CATALOG_RATE_LIMIT: must be positive, got %v", cfg.CatalogRateLimit)
	}

	if cfg.IsProduction() {
		if cfg.SessionSecret == "" {
			return nil, errors.New("SESSION_SECRET is required in production")
		}
		if cfg.CORSOrigin == "" {
			return nil, errors.New("CORS_ORIGIN is required in production")
		}
	} else if cfg.SessionSecret == "" {
		log.Println("⚠️ SESSION_SECRET not set, using development default")
		cfg.SessionSecret = devSessionSecret
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
