package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Apify    ApifyConfig
	Extract  ExtractConfig
	Sync     SyncConfig
	OTEL     OTELConfig
	Env      string
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host string
	Port int
	// CORS origins; empty means allow all.
	AllowedOrigins []string
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// ApifyConfig holds the places-scraper collaborator configuration.
type ApifyConfig struct {
	APIKey  string
	ActorID string
}

// ExtractConfig holds the web-content extraction collaborator configuration.
type ExtractConfig struct {
	APIKey  string
	BaseURL string
	// Sliding-window gate for outgoing calls.
	WindowLimit  int
	WindowLength time.Duration
}

// SyncConfig holds ingestion job configuration.
type SyncConfig struct {
	// Delay between scrape records and between location batches.
	ItemDelay  time.Duration
	BatchDelay time.Duration
	// Cron expression; empty disables the scheduled trigger.
	Schedule  string
	Locations []string
}

// OTELConfig holds OpenTelemetry configuration.
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "senior_living_directory"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Apify: ApifyConfig{
			APIKey:  getEnv("APIFY_API_KEY", ""),
			ActorID: getEnv("APIFY_ACTOR_ID", "compass~crawler-google-places"),
		},
		Extract: ExtractConfig{
			APIKey:       getEnv("EXTRACT_API_KEY", ""),
			BaseURL:      getEnv("EXTRACT_API_URL", "https://api.firecrawl.dev/v1"),
			WindowLimit:  getEnvAsInt("EXTRACT_WINDOW_LIMIT", 10),
			WindowLength: getEnvAsDuration("EXTRACT_WINDOW_LENGTH", time.Minute),
		},
		Sync: SyncConfig{
			ItemDelay:  getEnvAsDuration("SYNC_ITEM_DELAY", 2*time.Second),
			BatchDelay: getEnvAsDuration("SYNC_BATCH_DELAY", 30*time.Second),
			Schedule:   getEnv("SYNC_CRON", ""),
			Locations:  getEnvAsList("SYNC_LOCATIONS"),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "senior-living-directory"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Env: getEnv("APP_ENV", "development"),
	}, nil
}

// DatabaseDSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// DatabaseURL returns the URL form used by the migration runner.
func (c *DatabaseConfig) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address.
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

func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
