package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Black-And-White-Club/chart-ladders/app/modules/ranking"
	"github.com/Black-And-White-Club/chart-ladders/app/observability"
	"github.com/Black-And-White-Club/chart-ladders/config"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const readyTimeout = 2 * time.Second

// App wires configuration, the database and the ranking module together.
type App struct {
	Config        *config.Config
	Observability observability.Observability
	DB            *bun.DB
	Registry      *prometheus.Registry
	RankingModule *ranking.Module

	router chi.Router
	wg     sync.WaitGroup
}

// NewApp opens the database and builds every module.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	obs := observability.New(config.ToObsConfig(cfg))

	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	db := bun.NewDB(pgdb, pgdialect.New())

	app, err := newApp(ctx, cfg, obs, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, cfg *config.Config, obs observability.Observability, db *bun.DB) (*App, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := chi.NewRouter()
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		pingCtx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if db == nil || db.PingContext(pingCtx) != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	rankingModule, err := ranking.NewRankingModule(ctx, cfg, obs, db, router, registry)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ranking module: %w", err)
	}

	return &App{
		Config:        cfg,
		Observability: obs,
		DB:            db,
		Registry:      registry,
		RankingModule: rankingModule,
		router:        router,
	}, nil
}

// Router returns the HTTP handler serving the read API.
func (app *App) Router() http.Handler {
	return app.router
}

// MetricsHandler serves the Prometheus registry.
func (app *App) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{})
}

// Close stops the modules and closes the database.
func (app *App) Close() error {
	logger := app.Observability.Logger

	if app.RankingModule != nil {
		if err := app.RankingModule.Close(); err != nil {
			logger.Error("Error closing ranking module", "error", err)
		}
	}
	app.wg.Wait()

	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	logger.Info("Application shut down gracefully")
	return nil
}
