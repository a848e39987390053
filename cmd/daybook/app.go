package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/Spok95/daybook/internal/config"
	"github.com/Spok95/daybook/internal/domain/notifications"
	"github.com/Spok95/daybook/internal/domain/options"
	"github.com/Spok95/daybook/internal/domain/records"
	"github.com/Spok95/daybook/internal/infra/kv"
	"github.com/Spok95/daybook/internal/infra/logger"
)

// app wires the core together: one store, one record repository, one
// notification engine, five pick-list registries.
type app struct {
	cfg    config.Config
	log    *slog.Logger
	loc    *time.Location
	store  kv.Store
	closer func()

	repo       *records.Repo
	engine     *notifications.Engine
	registries []*options.Registry
}

func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.App.Env)

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Warn("bad timezone, using local", "tz", cfg.App.Timezone, "err", err)
		loc = time.Local
	}

	store, closer, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	repo := records.New(store, records.Options{
		SeedEnabled: cfg.Seed.Enabled,
		SeedTarget:  cfg.Seed.Target,
	})
	engine := notifications.NewEngine(store, repo, notifications.EngineOptions{Location: loc})

	return &app{
		cfg:    cfg,
		log:    log,
		loc:    loc,
		store:  store,
		closer: closer,
		repo:   repo,
		engine: engine,
		registries: []*options.Registry{
			options.NewProductionItems(store),
			options.NewExpenseItems(store),
			options.NewPurchaseItems(store),
			options.NewIncomeItems(store),
			options.NewWasteMaterialItems(store),
		},
	}, nil
}

func (a *app) close() {
	if a.closer != nil {
		a.closer()
	}
}

func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (kv.Store, func(), error) {
	switch cfg.Storage.Backend {
	case "postgres":
		if err := runMigrations(cfg.Storage.DSN); err != nil {
			return nil, nil, fmt.Errorf("migrations: %w", err)
		}
		log.Info("migrations applied")
		pg, err := kv.ConnectPostgres(ctx, cfg.Storage.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres connect: %w", err)
		}
		return pg, pg.Close, nil
	case "sqlite":
		s, err := kv.OpenSQLite(cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case "memory":
		return kv.NewMemory(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}
