package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Backend names accepted by STORE_BACKEND and LOCK_BACKEND
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Logger    LoggerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Telemetry TelemetryConfig
	App       AppConfig
}

// ServerConfig holds health server configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	ConnMaxLifetime time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
	AutoMigrate     bool
}

// RedisConfig holds the connection used by the distributed lock and event publisher
type RedisConfig struct {
	Addr          string
	Password      string
	EventsChannel string
	LockPrefix    string
	DB            int
}

// TelemetryConfig controls OTLP export of traces and metrics
type TelemetryConfig struct {
	ServiceName string
	Endpoint    string
	Enabled     bool
	Insecure    bool
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	StoreBackend        string
	LockBackend         string
	ConsentFile         string
	RiskBlockedClients  []string
	IdempotencyTTL      time.Duration
	LedgerSweepInterval time.Duration
	LockLease           time.Duration
	LockRetryInterval   time.Duration
	FailureRate         float64
	RiskMaxAmountCents  int64
	LedgerCapacity      int
	MinLatencyMS        int
	MaxLatencyMS        int
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level string // debug, info, warn, error
}

// Load loads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", "15s"),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", "15s"),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", "60s"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "paycore"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", "5m"),
			AutoMigrate:     getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Addr:          getEnv("REDIS_ADDR", "localhost:6379"),
			Password:      os.Getenv("REDIS_PASSWORD"),
			DB:            getEnvAsInt("REDIS_DB", 0),
			EventsChannel: os.Getenv("EVENTS_CHANNEL"),
			LockPrefix:    getEnv("REDIS_LOCK_PREFIX", "paycore:lock:"),
		},
		Telemetry: TelemetryConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getEnvAsBool("OTEL_INSECURE", false),
			ServiceName: getEnv("SERVICE_NAME", "paycore"),
		},
		App: AppConfig{
			StoreBackend:        strings.ToLower(getEnv("STORE_BACKEND", BackendMemory)),
			LockBackend:         strings.ToLower(getEnv("LOCK_BACKEND", BackendMemory)),
			IdempotencyTTL:      getEnvAsDuration("IDEMPOTENCY_TTL", "24h"),
			LedgerCapacity:      getEnvAsInt("LEDGER_CAPACITY", 100000),
			LedgerSweepInterval: getEnvAsDuration("LEDGER_SWEEP_INTERVAL", "5m"),
			LockLease:           getEnvAsDuration("LOCK_LEASE", "30s"),
			LockRetryInterval:   getEnvAsDuration("LOCK_RETRY_INTERVAL", "25ms"),
			ConsentFile:         os.Getenv("CONSENT_FILE"),
			RiskMaxAmountCents:  getEnvAsInt64("RISK_MAX_AMOUNT_CENTS", 0),
			RiskBlockedClients:  getEnvAsList("RISK_BLOCKED_CLIENTS"),
			FailureRate:         getEnvAsFloat("FAILURE_RATE", 0),
			MinLatencyMS:        getEnvAsInt("MIN_LATENCY_MS", 0),
			MaxLatencyMS:        getEnvAsInt("MAX_LATENCY_MS", 0),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port cannot be empty")
	}

	switch c.App.StoreBackend {
	case BackendMemory:
	case BackendPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host cannot be empty")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("database name cannot be empty")
		}
	default:
		return fmt.Errorf("invalid store backend: %s (must be memory or postgres)", c.App.StoreBackend)
	}

	switch c.App.LockBackend {
	case BackendMemory:
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis address cannot be empty when the redis lock is used")
		}
		if c.App.LockLease <= 0 {
			return fmt.Errorf("lock lease must be positive")
		}
	default:
		return fmt.Errorf("invalid lock backend: %s (must be memory or redis)", c.App.LockBackend)
	}

	if c.App.IdempotencyTTL <= 0 {
		return fmt.Errorf("idempotency TTL must be positive")
	}
	if c.App.LedgerCapacity < 0 {
		return fmt.Errorf("ledger capacity cannot be negative")
	}
	if c.App.LedgerSweepInterval <= 0 {
		return fmt.Errorf("ledger sweep interval must be positive")
	}
	if c.App.RiskMaxAmountCents < 0 {
		return fmt.Errorf("risk max amount cannot be negative")
	}

	if c.App.FailureRate < 0 || c.App.FailureRate > 1 {
		return fmt.Errorf("failure rate must be between 0 and 1, got %f", c.App.FailureRate)
	}

	if c.App.MinLatencyMS < 0 {
		return fmt.Errorf("min latency cannot be negative")
	}
	if c.App.MaxLatencyMS < c.App.MinLatencyMS {
		return fmt.Errorf("max latency (%d) must be >= min latency (%d)", c.App.MaxLatencyMS, c.App.MinLatencyMS)
	}

	if c.Telemetry.Enabled && c.Telemetry.Endpoint == "" {
		return fmt.Errorf("telemetry endpoint cannot be empty when telemetry is enabled")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	return nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsList(key string) []string {
	var values []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}

func getEnvAsDuration(key, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to parsing the default if provided value is invalid
		duration, err = time.ParseDuration(defaultValue)
		if err != nil {
			return 0
		}
	}
	return duration
}
