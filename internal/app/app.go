// Package app assembles the authorization service and its backends from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/benx421/payment-gateway/paycore/internal/config"
	"github.com/benx421/payment-gateway/paycore/internal/db"
	"github.com/benx421/payment-gateway/paycore/internal/directory"
	"github.com/benx421/payment-gateway/paycore/internal/events"
	"github.com/benx421/payment-gateway/paycore/internal/lock"
	"github.com/benx421/payment-gateway/paycore/internal/middleware"
	"github.com/benx421/payment-gateway/paycore/internal/repository"
	"github.com/benx421/payment-gateway/paycore/internal/repository/memory"
	"github.com/benx421/payment-gateway/paycore/internal/risk"
	"github.com/benx421/payment-gateway/paycore/internal/service"
	"github.com/redis/go-redis/v9"
)

// Sweeper purges expired idempotency records
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time) (int64, error)
}

// Store is the payment store used by the service plus its maintenance hooks
type Store interface {
	service.Store
	service.HealthChecker
	Sweeper
}

// App holds the wired service and the resources it owns
type App struct {
	Service *service.AuthorizationService
	Store   Store
	logger  *slog.Logger
	closers []func() error
}

// New builds the application. Close must be called on the result.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *App, err error) {
	a := &App{logger: logger}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	consents, err := loadDirectory(cfg.App.ConsentFile, logger)
	if err != nil {
		return nil, err
	}

	var funds service.FundsReserver
	switch cfg.App.StoreBackend {
	case config.BackendPostgres:
		database, err := db.Connect(ctx, &cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, database.Close)
		if err := seedAccounts(ctx, repository.NewAccountRepository(database), consents, logger); err != nil {
			return nil, err
		}

		a.Store = repository.NewStore(database)
		funds = repository.NewReserver(database)
	default:
		a.Store = memory.NewStore(cfg.App.LedgerCapacity)
		funds = memory.NewFunds(consents.Accounts()...)
	}

	var client redis.UniversalClient
	if cfg.App.LockBackend == config.BackendRedis || cfg.Redis.EventsChannel != "" {
		client, err = connectRedis(ctx, &cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
	}

	var locker lock.Locker = lock.NewKeyedMutex()
	if cfg.App.LockBackend == config.BackendRedis {
		locker = lock.NewRedisLocker(client, cfg.Redis.LockPrefix, cfg.App.LockLease, cfg.App.LockRetryInterval, logger)
	}

	var publisher service.EventPublisher = events.NewLogPublisher(logger)
	if cfg.Redis.EventsChannel != "" {
		publisher = events.NewRedisPublisher(client, cfg.Redis.EventsChannel)
	}

	var assessor service.RiskAssessor = risk.NewRuleAssessor(cfg.App.RiskMaxAmountCents, cfg.App.RiskBlockedClients)
	if injector := middleware.NewFaultInjector(&cfg.App, logger); injector.Enabled() {
		logger.Warn("fault injection enabled",
			"failure_rate", cfg.App.FailureRate,
			"min_latency_ms", cfg.App.MinLatencyMS,
			"max_latency_ms", cfg.App.MaxLatencyMS,
		)
		assessor = injector.Risk(assessor)
		funds = injector.Funds(funds)
	}

	a.Service, err = service.NewAuthorizationService(service.Dependencies{
		Store:          a.Store,
		Locker:         locker,
		Consents:       consents,
		Risk:           assessor,
		Funds:          funds,
		Events:         publisher,
		Logger:         logger,
		IdempotencyTTL: cfg.App.IdempotencyTTL,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("authorization service ready",
		"store_backend", cfg.App.StoreBackend,
		"lock_backend", cfg.App.LockBackend,
		"idempotency_ttl", cfg.App.IdempotencyTTL,
	)
	return a, nil
}

// RunSweeper purges expired idempotency records every interval until ctx is done
func (a *App) RunSweeper(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			a.sweep(ctx, now)
		}
	}
}

func (a *App) sweep(ctx context.Context, now time.Time) {
	n, err := a.Store.Sweep(ctx, now)
	if err != nil {
		a.logger.Error("failed to sweep idempotency records", "error", err)
		return
	}
	if n > 0 {
		a.logger.Debug("swept expired idempotency records", "count", n)
	}
}

// Close releases owned resources in reverse order of acquisition
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func loadDirectory(path string, logger *slog.Logger) (*directory.Directory, error) {
	if path == "" {
		logger.Warn("no consent file configured, every consent lookup will miss")
		return directory.NewDirectory(), nil
	}
	d, err := directory.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load consent file: %w", err)
	}
	return d, nil
}

func seedAccounts(ctx context.Context, accounts repository.AccountRepository, d *directory.Directory, logger *slog.Logger) error {
	for _, account := range d.Accounts() {
		if err := accounts.Upsert(ctx, &account); err != nil {
			return err
		}
		logger.Info("seeded account", "account_number", account.AccountNumber)
	}
	return nil
}

func connectRedis(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}
