// Package app wires configuration, the record store and the services into
// the components cmd/api and cmd/farmctl share. No business logic belongs here.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pkordes/farm-logbook/backend/internal/config"
	"github.com/pkordes/farm-logbook/backend/internal/domain"
	"github.com/pkordes/farm-logbook/backend/internal/handler"
	"github.com/pkordes/farm-logbook/backend/internal/metrics"
	"github.com/pkordes/farm-logbook/backend/internal/repo"
	"github.com/pkordes/farm-logbook/backend/internal/service"
	"github.com/pkordes/farm-logbook/backend/migrations"
)

// App holds the wired services over one record store.
type App struct {
	Store       repo.Store
	Equipment   *service.Resolver[domain.Equipment]
	Buildings   *service.Resolver[domain.Building]
	Locations   *service.Resolver[domain.Location]
	Maintenance *service.Resolver[domain.MaintenanceLog]
	History     *service.History
	Index       *service.Index
	Aggregator  *service.Aggregator

	cfg    config.Config
	log    *slog.Logger
	obs    *metrics.Observer
	sqlDB  *sql.DB
	closer func()
}

// New opens the store named by cfg and builds every service over it.
// A SQLite store is migrated on open; Postgres is migrated explicitly with
// Migrate. reg may be nil, in which case no metrics are recorded.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, reg prometheus.Registerer) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{cfg: cfg, log: logger}
	if reg != nil {
		a.obs = metrics.New(reg)
	}

	if err := a.openStore(ctx); err != nil {
		return nil, err
	}

	limits := service.Limits(cfg.Limits)
	opts := []service.Option{service.WithLogger(logger), service.WithObserver(a.obs)}
	readers := repo.NewReaders(a.Store)

	a.Equipment = service.NewResolver(service.NewFetcher(readers.Equipment, limits), opts...)
	a.Buildings = service.NewResolver(service.NewFetcher(readers.Buildings, limits), opts...)
	a.Locations = service.NewResolver(service.NewFetcher(readers.Locations, limits), opts...)
	a.Maintenance = service.NewResolver(service.NewFetcher(readers.Maintenance, limits), opts...)
	a.History = service.NewHistory(readers.Maintenance, limits, opts...)
	a.Index = service.NewIndex(readers, limits, opts...)
	a.Aggregator = service.NewAggregator(a.Index, limits, opts...)
	return a, nil
}

func (a *App) openStore(ctx context.Context) error {
	switch a.cfg.StoreDriver {
	case config.DriverPostgres:
		// pgxpool.New does not open connections immediately; the ping does.
		pool, err := pgxpool.New(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("app.New: create pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return fmt.Errorf("app.New: connect: %w: %w", domain.ErrStoreUnavailable, err)
		}
		a.Store = repo.NewPgStore(pool)
		a.sqlDB = stdlib.OpenDBFromPool(pool)
		a.closer = func() {
			a.sqlDB.Close()
			pool.Close()
		}
		a.log.Info("database connection established", "driver", a.cfg.StoreDriver)
		return nil

	case config.DriverSQLite:
		st, err := repo.OpenSQLite(a.cfg.SQLitePath)
		if err != nil {
			return fmt.Errorf("app.New: %w", err)
		}
		a.Store = st
		a.sqlDB = st.DB()
		a.closer = func() { st.Close() }

		n, err := migrations.Up(ctx, a.sqlDB, migrations.DriverSQLite)
		if err != nil {
			a.Close()
			return fmt.Errorf("app.New: %w", err)
		}
		a.log.Info("sqlite store ready", "path", a.cfg.SQLitePath, "migrations_applied", n)
		return nil
	}
	return fmt.Errorf("app.New: %w: unknown store driver %q", domain.ErrValidation, a.cfg.StoreDriver)
}

// Migrate applies pending migrations to the store and returns how many ran.
func (a *App) Migrate(ctx context.Context) (int, error) {
	n, err := migrations.Up(ctx, a.sqlDB, a.cfg.StoreDriver)
	if err != nil {
		return 0, fmt.Errorf("app.App.Migrate: %w", err)
	}
	return n, nil
}

// HandlerDeps returns the dependencies for handler.NewServer. metricsHandler
// is mounted at /metrics when non-nil.
func (a *App) HandlerDeps(metricsHandler http.Handler) handler.Deps {
	return handler.Deps{
		Equipment:   a.Equipment,
		Buildings:   a.Buildings,
		Locations:   a.Locations,
		Maintenance: a.Maintenance,
		History:     a.History,
		Suggest:     a.Index,
		Search:      a.Aggregator,
		Store:       a.Store,
		Metrics:     metricsHandler,
		Logger:      a.log,
	}
}

// LiveSearch starts a typeahead session over one collection, or over every
// collection when kind is empty. Call Close on the result when done.
func (a *App) LiveSearch(kind domain.Kind, onResult func(service.Result)) (*service.LiveSearch, error) {
	fetch := service.AggregateFetch(a.Aggregator)
	if kind != "" {
		fetch = service.IndexFetch(a.Index, kind)
	}
	return service.NewLiveSearch(fetch,
		service.WithLogger(a.log),
		service.WithObserver(a.obs),
		service.WithRateLimit(a.cfg.SearchRatePerSec),
		service.WithResultHandler(onResult),
	)
}

// Close releases the store.
func (a *App) Close() {
	if a.closer != nil {
		a.closer()
		a.closer = nil
	}
}
