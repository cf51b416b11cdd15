// Package db provides the PostgreSQL connection pool and schema management for the payment store.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/benx421/payment-gateway/paycore/internal/config"

	// Import postgres driver for registration with database/sql
	_ "github.com/lib/pq"
)

const pingTimeout = 5 * time.Second

// DB wraps the database connection pool backing the payment store
type DB struct {
	*sql.DB
	logger *slog.Logger
}

// New wraps an open pool. A nil logger discards output.
func New(sqlDB *sql.DB, logger *slog.Logger) *DB {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &DB{DB: sqlDB, logger: logger}
}

// Connect opens the payment store pool, verifies it and applies the bundled
// schema when cfg.AutoMigrate is set
func Connect(ctx context.Context, cfg *config.DatabaseConfig, logger *slog.Logger) (*DB, error) {
	logger.Info("connecting to payment store",
		"backend", config.BackendPostgres,
		"host", cfg.Host,
		"port", cfg.Port,
		"database", cfg.DBName,
	)

	sqlDB, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		logger.Error("failed to open database connection", "error", err)
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	database, err := prepare(ctx, New(sqlDB, logger), cfg)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return database, nil
}

// prepare applies pool limits, pings and optionally migrates an open pool
func prepare(ctx context.Context, database *DB, cfg *config.DatabaseConfig) (*DB, error) {
	database.SetMaxOpenConns(cfg.MaxOpenConns)
	database.SetMaxIdleConns(cfg.MaxIdleConns)
	database.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := database.PingContext(pingCtx); err != nil {
		database.logger.Error("failed to ping database", "error", err)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.AutoMigrate {
		if err := database.Migrate(ctx); err != nil {
			return nil, err
		}
	}

	database.logger.Info("payment store ready",
		"max_open_conns", cfg.MaxOpenConns,
		"max_idle_conns", cfg.MaxIdleConns,
		"conn_max_lifetime", cfg.ConnMaxLifetime,
		"auto_migrate", cfg.AutoMigrate,
	)
	return database, nil
}

// Close closes the database connection and logs the closure.
func (db *DB) Close() error {
	db.logger.Info("closing payment store connection")
	return db.DB.Close()
}
