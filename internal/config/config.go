package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
	StoreDriverBolt     = "bolt"
)

// DatabaseConfig holds relational store settings
type DatabaseConfig struct {
	Host          string
	Port          string
	User          string
	Password      string
	Name          string
	SSLMode       string
	SQLitePath    string
	MigrationsDir string
}

// DSN returns the PostgreSQL keyword/value connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// MigrateURL returns the postgres:// URL golang-migrate expects
func (c DatabaseConfig) MigrateURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

// AuthConfig holds the admin credential and token settings. The admin
// password is only ever held as a bcrypt hash.
type AuthConfig struct {
	JWTSecret         string
	JWTExpiration     time.Duration
	AdminEmail        string
	AdminPasswordHash string
	BookingAPIKey     string
}

// Config holds application configuration
type Config struct {
	Env  string
	Port string

	StoreDriver string
	Database    DatabaseConfig
	BoltPath    string

	Auth AuthConfig

	PricingFile   string
	ArchiveBucket string
}

// Load loads configuration from a .env file (if present) and environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg := &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		Database: DatabaseConfig{
			Host:          getEnv("DB_HOST", "localhost"),
			Port:          getEnv("DB_PORT", "5432"),
			User:          getEnv("DB_USER", "sparkletidy"),
			Password:      getEnv("DB_PASSWORD", "sparkletidy"),
			Name:          getEnv("DB_NAME", "sparkletidy"),
			SSLMode:       getEnv("DB_SSLMODE", "disable"),
			SQLitePath:    getEnv("SQLITE_PATH", "data/sparkletidy.db"),
			MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),
		},
		BoltPath: getEnv("BOLT_PATH", "data/transactions.bolt"),

		Auth: AuthConfig{
			JWTSecret:         getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
			AdminEmail:        strings.ToLower(getEnv("ADMIN_EMAIL", "admin@sparkletidy.local")),
			AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
			BookingAPIKey:     os.Getenv("BOOKING_API_KEY"),
		},

		PricingFile:   os.Getenv("PRICING_FILE"),
		ArchiveBucket: os.Getenv("REPORT_ARCHIVE_BUCKET"),
	}

	expStr := getEnv("JWT_EXPIRES_IN", "12h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 12h\n", expStr)
		expDur = 12 * time.Hour
	}
	cfg.Auth.JWTExpiration = expDur

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverPostgres, StoreDriverSQLite, StoreDriverBolt:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q (use postgres, sqlite or bolt)", c.StoreDriver)
	}
	if c.Env == "production" && c.Auth.JWTSecret == "fallback-secret-key-for-dev-only" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
