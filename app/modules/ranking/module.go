package ranking

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	rankingservice "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/application"
	rankinghandlers "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/infrastructure/handlers"
	rankingmetrics "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/infrastructure/metrics"
	rankingdb "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/infrastructure/repositories"
	"github.com/Black-And-White-Club/chart-ladders/app/observability"
	"github.com/Black-And-White-Club/chart-ladders/config"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"
	"golang.org/x/time/rate"
)

const metricsNamespace = "chart_ladders"

// Module represents the ranking module.
type Module struct {
	Service  rankingservice.Service
	Handlers rankinghandlers.Handlers
	logger   *slog.Logger

	stop     chan struct{}
	stopOnce sync.Once
}

// NewRankingModule builds the repository, service and HTTP handlers and
// mounts the read API on httpRouter. A nil registerer disables metrics.
func NewRankingModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	db *bun.DB,
	httpRouter chi.Router,
	registerer prometheus.Registerer,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "ranking.NewRankingModule called")

	var metrics rankingmetrics.Metrics = rankingmetrics.NewNoop()
	if registerer != nil {
		promMetrics, err := rankingmetrics.NewPrometheusMetrics(registerer, metricsNamespace)
		if err != nil {
			return nil, fmt.Errorf("failed to register ranking metrics: %w", err)
		}
		metrics = promMetrics
	}

	repo := rankingdb.NewRepository(db)
	service := rankingservice.NewRankingService(repo, logger, metrics, obs.Tracer, db)
	handlers := rankinghandlers.NewRankingHandlers(service, logger, obs.Tracer)

	rankinghandlers.Mount(httpRouter, handlers, rankinghandlers.RouteConfig{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		RateLimit:      rate.Limit(cfg.HTTP.RateLimit),
		RateBurst:      cfg.HTTP.RateBurst,
	})

	return &Module{
		Service:  service,
		Handlers: handlers,
		logger:   logger,
		stop:     make(chan struct{}),
	}, nil
}

// Run blocks until ctx is canceled or Close is called. Close before Run
// makes Run return at once.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	if wg != nil {
		defer wg.Done()
	}
	m.logger.InfoContext(ctx, "Starting ranking module")

	select {
	case <-ctx.Done():
	case <-m.stop:
	}
	m.logger.InfoContext(ctx, "Ranking module goroutine stopped")
}

// Close stops the ranking module. It is safe to call more than once.
func (m *Module) Close() error {
	m.logger.Info("Stopping ranking module")
	m.stopOnce.Do(func() { close(m.stop) })
	m.logger.Info("Ranking module stopped")
	return nil
}
