package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service configuration
type Config struct {
	Service   ServiceConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Session   SessionConfig
	Pricing   PricingConfig
	Limits    LimitsConfig
	RateLimit RateLimitConfig
	Telemetry TelemetryConfig
}

// ServiceConfig holds service-specific settings
type ServiceConfig struct {
	Name        string
	Port        int
	Environment string
	LogLevel    string
	LogFormat   string
	CORSOrigins []string
}

// DatabaseConfig holds Postgres connection settings
type DatabaseConfig struct {
	// Quotes are kept in memory when disabled
	Enabled     bool
	Host        string
	Port        int
	Database    string
	User        string
	Password    string
	MaxConns    int
	MinConns    int
	MaxIdleTime time.Duration
	MaxLifetime time.Duration
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SessionConfig selects where quoting sessions live
type SessionConfig struct {
	Store string // "memory" or "redis"
	TTL   time.Duration
}

// PricingConfig holds the migration price constants
type PricingConfig struct {
	PricePerNode int
	MinimumPrice int
	Currency     string
	// Optional JSON merge patch applied to the built-in plan tables
	OverridesFile string
}

// LimitsConfig bounds upload processing
type LimitsConfig struct {
	MaxFileSizeBytes  int64
	MaxNodeCount      int
	MaxTraversalDepth int
	MaxFilesPerBatch  int
	IngestConcurrency int
}

// RateLimitConfig holds upload rate limits
type RateLimitConfig struct {
	Enabled       bool
	GlobalLimit   int64
	SessionLimit  int64
	WindowSeconds int
}

// TelemetryConfig holds observability settings
type TelemetryConfig struct {
	EnablePprof bool
	PprofPort   int
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present.
func Load(serviceName string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Service: ServiceConfig{
			Name:        serviceName,
			Port:        getEnvInt("PORT", 8080),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFormat:   getEnv("LOG_FORMAT", "text"),
			CORSOrigins: getEnvSlice("CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Enabled:     getEnvBool("DATABASE_ENABLED", true),
			Host:        getEnv("POSTGRES_HOST", "localhost"),
			Port:        getEnvInt("POSTGRES_PORT", 5432),
			Database:    getEnv("POSTGRES_DB", "quoter"),
			User:        getEnv("POSTGRES_USER", "quoter"),
			Password:    getEnv("POSTGRES_PASSWORD", "quoter"),
			MaxConns:    getEnvInt("POSTGRES_MAX_CONNS", 20),
			MinConns:    getEnvInt("POSTGRES_MIN_CONNS", 2),
			MaxIdleTime: getEnvDuration("POSTGRES_MAX_IDLE_TIME", 30*time.Minute),
			MaxLifetime: getEnvDuration("POSTGRES_MAX_LIFETIME", 1*time.Hour),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Session: SessionConfig{
			Store: getEnv("SESSION_STORE", "memory"),
			TTL:   getEnvDuration("SESSION_TTL", 2*time.Hour),
		},
		Pricing: PricingConfig{
			PricePerNode:  getEnvInt("PRICE_PER_NODE", 20),
			MinimumPrice:  getEnvInt("MINIMUM_PRICE", 200),
			Currency:      strings.ToLower(getEnv("CURRENCY", "usd")),
			OverridesFile: getEnv("PRICING_OVERRIDES_FILE", ""),
		},
		Limits: LimitsConfig{
			MaxFileSizeBytes:  getEnvInt64("MAX_FILE_SIZE_BYTES", 10<<20),
			MaxNodeCount:      getEnvInt("MAX_NODE_COUNT", 10000),
			MaxTraversalDepth: getEnvInt("MAX_TRAVERSAL_DEPTH", 20),
			MaxFilesPerBatch:  getEnvInt("MAX_FILES_PER_BATCH", 20),
			IngestConcurrency: getEnvInt("INGEST_CONCURRENCY", 4),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getEnvBool("RATE_LIMIT_ENABLED", false),
			GlobalLimit:   int64(getEnvInt("RATE_LIMIT_GLOBAL", 300)),
			SessionLimit:  int64(getEnvInt("RATE_LIMIT_SESSION", 30)),
			WindowSeconds: getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		},
		Telemetry: TelemetryConfig{
			EnablePprof: getEnvBool("ENABLE_PPROF", false),
			PprofPort:   getEnvInt("PPROF_PORT", 6060),
		},
	}

	return cfg, cfg.Validate()
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.Service.Port < 1 || c.Service.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Service.Port)
	}

	if c.Database.Enabled {
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.MaxConns < c.Database.MinConns {
			return fmt.Errorf("max_conns must be >= min_conns")
		}
	}

	switch c.Session.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown session store: %s", c.Session.Store)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}

	if c.Pricing.PricePerNode <= 0 {
		return fmt.Errorf("price per node must be positive: %d", c.Pricing.PricePerNode)
	}
	if c.Pricing.MinimumPrice < 0 {
		return fmt.Errorf("minimum price must not be negative: %d", c.Pricing.MinimumPrice)
	}
	if len(c.Pricing.Currency) != 3 {
		return fmt.Errorf("currency must be an ISO 4217 code: %q", c.Pricing.Currency)
	}

	if c.Limits.MaxFileSizeBytes <= 0 || c.Limits.MaxNodeCount <= 0 || c.Limits.MaxTraversalDepth <= 0 {
		return fmt.Errorf("upload limits must be positive")
	}
	if c.Limits.MaxFilesPerBatch <= 0 {
		return fmt.Errorf("max files per batch must be positive: %d", c.Limits.MaxFilesPerBatch)
	}
	if c.Limits.IngestConcurrency <= 0 {
		return fmt.Errorf("ingest concurrency must be positive: %d", c.Limits.IngestConcurrency)
	}

	if c.RateLimit.Enabled && (c.RateLimit.GlobalLimit <= 0 || c.RateLimit.SessionLimit <= 0 || c.RateLimit.WindowSeconds <= 0) {
		return fmt.Errorf("rate limits must be positive when enabled")
	}

	return nil
}

// UsesRedis reports whether any component needs a Redis connection
func (c *Config) UsesRedis() bool {
	return c.Session.Store == "redis" || c.RateLimit.Enabled
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
