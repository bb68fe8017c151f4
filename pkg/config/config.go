package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	HTTPAddr string
	Env      string

	// Database configuration
	DatabaseURL        string
	DBMaxConns         int
	DBMinConns         int
	DBStatementTimeout time.Duration

	// Redis configuration (empty address disables the idempotency cache)
	RedisAddr     string
	RedisPassword string

	// Idempotency configuration
	IdempotencyTTL           time.Duration
	IdempotencySweepInterval time.Duration
	IdempotencySweepBatch    int

	// Transfer engine retry policy
	TransferMaxAttempts  int
	TransferRetryBackoff time.Duration

	// HTTP hardening
	RateLimitRPS   int
	RateLimitBurst int
	AllowedOrigins string

	// Bearer auth (empty secret disables auth)
	AuthSecret string
}

// Load loads configuration from the environment. A .env file in the working
// directory is merged in first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:                 getEnv("WALLETD_HTTP_ADDR", ":8080"),
		Env:                      getEnv("WALLETD_ENV", "development"),
		DatabaseURL:              getEnv("WALLETD_DATABASE_URL", ""),
		DBMaxConns:               getEnvAsInt("WALLETD_DB_MAX_CONNS", 10),
		DBMinConns:               getEnvAsInt("WALLETD_DB_MIN_CONNS", 2),
		DBStatementTimeout:       getEnvAsDuration("WALLETD_DB_STATEMENT_TIMEOUT", 10*time.Second),
		RedisAddr:                getEnv("WALLETD_REDIS_ADDR", ""),
		RedisPassword:            getEnv("WALLETD_REDIS_PASSWORD", ""),
		IdempotencyTTL:           getEnvAsDuration("WALLETD_IDEMPOTENCY_TTL", 24*time.Hour),
		IdempotencySweepInterval: getEnvAsDuration("WALLETD_IDEMPOTENCY_SWEEP_INTERVAL", 10*time.Minute),
		IdempotencySweepBatch:    getEnvAsInt("WALLETD_IDEMPOTENCY_SWEEP_BATCH", 1000),
		TransferMaxAttempts:      getEnvAsInt("WALLETD_TRANSFER_MAX_ATTEMPTS", 3),
		TransferRetryBackoff:     getEnvAsDuration("WALLETD_TRANSFER_RETRY_BACKOFF", 100*time.Millisecond),
		RateLimitRPS:             getEnvAsInt("WALLETD_RATE_LIMIT_RPS", 50),
		RateLimitBurst:           getEnvAsInt("WALLETD_RATE_LIMIT_BURST", 100),
		AllowedOrigins:           getEnv("WALLETD_ALLOWED_ORIGINS", "*"),
		AuthSecret:               getEnv("WALLETD_AUTH_SECRET", ""),
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present and sane
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("WALLETD_DATABASE_URL is required")
	}

	if c.DBMaxConns < 1 {
		return fmt.Errorf("WALLETD_DB_MAX_CONNS must be at least 1")
	}

	if c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("WALLETD_DB_MIN_CONNS must be between 0 and WALLETD_DB_MAX_CONNS")
	}

	if c.DBStatementTimeout <= 0 {
		return fmt.Errorf("WALLETD_DB_STATEMENT_TIMEOUT must be positive")
	}

	if c.IdempotencyTTL <= 0 {
		return fmt.Errorf("WALLETD_IDEMPOTENCY_TTL must be positive")
	}

	if c.TransferMaxAttempts < 1 {
		return fmt.Errorf("WALLETD_TRANSFER_MAX_ATTEMPTS must be at least 1")
	}

	if c.TransferRetryBackoff <= 0 {
		return fmt.Errorf("WALLETD_TRANSFER_RETRY_BACKOFF must be positive")
	}

	// Auth is optional, but a configured secret must be strong enough to sign with
	if c.AuthSecret != "" && len(c.AuthSecret) < 32 {
		return fmt.Errorf("WALLETD_AUTH_SECRET must be at least 32 characters long")
	}

	return nil
}

// AuthEnabled reports whether bearer authentication is configured
func (c *Config) AuthEnabled() bool {
	return c.AuthSecret != ""
}

// CacheEnabled reports whether the Redis idempotency cache is configured
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration gets an environment variable as a duration with a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
