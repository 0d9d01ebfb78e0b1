// Package bootstrap assembles stores, caches and domain services from configuration.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/AERESAL/VolunteerHub-Backend/internal/auth"
	"github.com/AERESAL/VolunteerHub-Backend/internal/cache"
	"github.com/AERESAL/VolunteerHub-Backend/internal/config"
	"github.com/AERESAL/VolunteerHub-Backend/internal/domain"
	"github.com/AERESAL/VolunteerHub-Backend/internal/notify"
	"github.com/AERESAL/VolunteerHub-Backend/internal/persistence/memory"
	"github.com/AERESAL/VolunteerHub-Backend/internal/persistence/postgres"
)

// Store is everything the domain services need from persistence.
type Store interface {
	domain.ActivityStore
	domain.UserStore
}

// App holds the wired services. Pool is nil when running on the in-memory store.
type App struct {
	Config      config.Config
	Pool        *pgxpool.Pool
	Store       Store
	Cache       domain.LeaderboardCache
	Ledger      *domain.Ledger
	Signatures  *domain.SignatureWorkflow
	Leaderboard *domain.LeaderboardAggregator
	Accounts    *domain.Accounts

	closers []func()
}

// New connects the configured backends and builds the domain services.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{Config: cfg}

	if err := app.openStore(ctx); err != nil {
		app.Close()
		return nil, err
	}
	if err := app.openCache(ctx); err != nil {
		app.Close()
		return nil, err
	}

	cacheOpt := domain.WithLeaderboardCache(app.Cache)
	mailer := notify.NewSignatureMailer(newSender(cfg), cfg.SignatureBaseURL())

	app.Ledger = domain.NewLedger(app.Store, cacheOpt)
	app.Signatures = domain.NewSignatureWorkflow(app.Store, app.Store, mailer, cacheOpt)
	app.Leaderboard = domain.NewLeaderboardAggregator(app.Store, app.Store, cacheOpt)
	app.Accounts = domain.NewAccounts(app.Store, auth.NewSigner(AuthConfig(cfg)), cfg.BcryptCost, cacheOpt)
	return app, nil
}

// AuthConfig maps configuration onto token settings.
func AuthConfig(cfg config.Config) auth.Config {
	return auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer, TTL: cfg.JWTTTL}
}

// Close releases every backend connection opened by New.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) openStore(ctx context.Context) error {
	if !a.Config.UsePostgres() {
		log.Warn().Msg("bootstrap: no postgres url configured, using in-memory store")
		a.Store = memory.NewStore()
		return nil
	}

	if a.Config.AutoMigrate {
		if err := postgres.Migrate(ctx, a.Config.PostgresURL); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	pool, err := pgxpool.New(ctx, a.Config.PostgresURL)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	a.closers = append(a.closers, pool.Close)
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}

	a.Pool = pool
	a.Store = postgres.NewStore(pool)
	return nil
}

func (a *App) openCache(ctx context.Context) error {
	if a.Config.RedisURL == "" {
		a.Cache = domain.NoopLeaderboardCache{}
		return nil
	}

	client, err := cache.Connect(ctx, a.Config.RedisURL)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	a.closers = append(a.closers, func() {
		if err := client.Close(); err != nil {
			log.Warn().Err(err).Msg("bootstrap: redis close failed")
		}
	})
	a.Cache = cache.NewRedisLeaderboard(client, a.Config.LeaderboardTTL)
	return nil
}

func newSender(cfg config.Config) notify.Sender {
	if cfg.SMTPHost == "" {
		log.Warn().Msg("bootstrap: no smtp host configured, signature emails are logged only")
		return notify.LogSender{}
	}
	return notify.NewSMTPSender(notify.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
}
