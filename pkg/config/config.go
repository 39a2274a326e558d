package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers
const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	Server      ServerConfig
	Storage     StorageConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Auth        AuthConfig
	Reservation ReservationConfig
	OTEL        OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host     string
	Port     int
	Env      string
	LogLevel string
}

// StorageConfig selects where users, facilities and reservations live
type StorageConfig struct {
	Driver       string
	SeedDemoData bool
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration. When disabled, sessions and events
// stay in process.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// AuthConfig holds session token configuration
type AuthConfig struct {
	JWTSecret  string
	Issuer     string
	SessionTTL time.Duration
}

// ReservationConfig holds reservation workflow policy
type ReservationConfig struct {
	RecheckOnApprove bool
	// PendingExpirySchedule is a cron expression; empty leaves stale Pending
	// reservations alone
	PendingExpirySchedule string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// LoadDotEnv exports variables from an optional .env file without
// overriding ones already set. A missing file is not an error.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// Load loads configuration from an optional .env file and environment variables
func Load() (*Config, error) {
	LoadDotEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host:     getEnv("SERVER_HOST", "0.0.0.0"),
			Port:     getEnvAsInt("SERVER_PORT", 8080),
			Env:      getEnv("APP_ENV", "development"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
		Storage: StorageConfig{
			Driver:       strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", StorageDriverMemory))),
			SeedDemoData: getEnvAsBool("SEED_DEMO_DATA", true),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "facility_reservation"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret:  getEnv("JWT_SECRET", "changeme"),
			Issuer:     getEnv("JWT_ISSUER", "facility-reservation"),
			SessionTTL: getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		},
		Reservation: ReservationConfig{
			RecheckOnApprove:      getEnvAsBool("RESERVATION_RECHECK_ON_APPROVE", false),
			PendingExpirySchedule: getEnv("PENDING_EXPIRY_SCHEDULE", ""),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "facility-reservation"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageDriverMemory, StorageDriverPostgres:
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER %q (must be %q or %q)", c.Storage.Driver, StorageDriverMemory, StorageDriverPostgres)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

// Addr returns the listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDevelopment reports whether the service runs in development mode
func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
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

// PendingExpiryEnabled reports whether the pending expiry job should run
func (c *ReservationConfig) PendingExpiryEnabled() bool {
	return strings.TrimSpace(c.PendingExpirySchedule) != ""
}
