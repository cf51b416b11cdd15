package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, BackendMemory, cfg.App.StoreBackend)
	assert.Equal(t, BackendMemory, cfg.App.LockBackend)
	assert.Equal(t, 24*time.Hour, cfg.App.IdempotencyTTL)
	assert.Equal(t, 100000, cfg.App.LedgerCapacity)
	assert.Equal(t, 5*time.Minute, cfg.App.LedgerSweepInterval)
	assert.Equal(t, 30*time.Second, cfg.App.LockLease)
	assert.Equal(t, 25*time.Millisecond, cfg.App.LockRetryInterval)
	assert.Zero(t, cfg.App.FailureRate)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "paycore", cfg.Telemetry.ServiceName)
	assert.Empty(t, cfg.App.RiskBlockedClients)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Postgres")
	t.Setenv("LOCK_BACKEND", "redis")
	t.Setenv("IDEMPOTENCY_TTL", "2h")
	t.Setenv("LEDGER_CAPACITY", "10")
	t.Setenv("RISK_MAX_AMOUNT_CENTS", "500000")
	t.Setenv("RISK_BLOCKED_CLIENTS", " tpp-9, ,tpp-7 ")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("DB_AUTO_MIGRATE", "1")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendPostgres, cfg.App.StoreBackend)
	assert.Equal(t, BackendRedis, cfg.App.LockBackend)
	assert.Equal(t, 2*time.Hour, cfg.App.IdempotencyTTL)
	assert.Equal(t, 10, cfg.App.LedgerCapacity)
	assert.Equal(t, int64(500000), cfg.App.RiskMaxAmountCents)
	assert.Equal(t, []string{"tpp-9", "tpp-7"}, cfg.App.RiskBlockedClients)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("IDEMPOTENCY_TTL", "soon")
	t.Setenv("LEDGER_CAPACITY", "many")
	t.Setenv("OTEL_ENABLED", "maybe")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 24*time.Hour, cfg.App.IdempotencyTTL)
	assert.Equal(t, 100000, cfg.App.LedgerCapacity)
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load()
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "empty port", mutate: func(c *Config) { c.Server.Port = "" }},
		{name: "unknown store backend", mutate: func(c *Config) { c.App.StoreBackend = "sqlite" }},
		{name: "unknown lock backend", mutate: func(c *Config) { c.App.LockBackend = "etcd" }},
		{name: "postgres without host", mutate: func(c *Config) { c.App.StoreBackend = BackendPostgres; c.Database.Host = "" }},
		{name: "redis without address", mutate: func(c *Config) { c.App.LockBackend = BackendRedis; c.Redis.Addr = "" }},
		{name: "redis without lease", mutate: func(c *Config) { c.App.LockBackend = BackendRedis; c.App.LockLease = 0 }},
		{name: "zero ttl", mutate: func(c *Config) { c.App.IdempotencyTTL = 0 }},
		{name: "negative capacity", mutate: func(c *Config) { c.App.LedgerCapacity = -1 }},
		{name: "zero sweep interval", mutate: func(c *Config) { c.App.LedgerSweepInterval = 0 }},
		{name: "negative risk cap", mutate: func(c *Config) { c.App.RiskMaxAmountCents = -1 }},
		{name: "failure rate above one", mutate: func(c *Config) { c.App.FailureRate = 1.5 }},
		{name: "negative latency", mutate: func(c *Config) { c.App.MinLatencyMS = -1 }},
		{name: "max below min latency", mutate: func(c *Config) { c.App.MinLatencyMS = 10; c.App.MaxLatencyMS = 5 }},
		{name: "telemetry without endpoint", mutate: func(c *Config) { c.Telemetry.Enabled = true; c.Telemetry.Endpoint = "" }},
		{name: "bad log level", mutate: func(c *Config) { c.Logger.Level = "verbose" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: "5433", User: "u", Password: "p", DBName: "paycore", SSLMode: "require"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=paycore sslmode=require", c.DSN())
}

func TestLoggerConfig_NewLoggerTo(t *testing.T) {
	var buf bytes.Buffer
	logger := (&LoggerConfig{Level: "warn"}).NewLoggerTo(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "consent_id", "C1")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"consent_id":"C1"`)
	assert.Contains(t, out, `"level":"WARN"`)
}
