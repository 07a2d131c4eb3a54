package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	CMS         CMSConfig
	Cache       CacheConfig
	Redis       RedisConfig
	Email       EmailConfig
	OTEL        OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// CMSConfig holds the upstream content API configuration
type CMSConfig struct {
	BaseURL string
	APIKey  string
	SiteID  string
	Timeout time.Duration
}

// CacheConfig holds in-process cache configuration
type CacheConfig struct {
	TreatmentsTTL time.Duration
}

// RedisConfig holds Redis configuration for the optional response cache
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// EmailConfig holds the transactional email relay configuration
type EmailConfig struct {
	BaseURL   string
	APIKey    string
	FromEmail string
	ToEmail   string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables. A local .env file is
// loaded first if present so development setups need no exported variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		CMS: CMSConfig{
			BaseURL: getEnv("CMS_BASE_URL", "https://www.wixapis.com/wix-data/v2"),
			APIKey:  getEnv("CMS_API_KEY", ""),
			SiteID:  getEnv("CMS_SITE_ID", ""),
			Timeout: getEnvAsDuration("CMS_TIMEOUT", 10*time.Second),
		},
		Cache: CacheConfig{
			TreatmentsTTL: getEnvAsDuration("TREATMENTS_CACHE_TTL", 10*time.Minute),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Email: EmailConfig{
			BaseURL:   getEnv("EMAIL_API_URL", "https://api.sendgrid.com/v3"),
			APIKey:    getEnv("EMAIL_API_KEY", ""),
			FromEmail: getEnv("EMAIL_FROM", "no-reply@medatlas.example"),
			ToEmail:   getEnv("EMAIL_TO", "care@medatlas.example"),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "directory-api"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
