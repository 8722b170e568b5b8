package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Start serves the API (and metrics, when configured) until ctx is canceled
// or a shutdown signal arrives.
func (app *App) Start(ctx context.Context) error {
	logger := app.Observability.Logger

	app.wg.Add(1)
	go app.RankingModule.Run(ctx, &app.wg)

	servers := []*http.Server{{
		Addr:              app.Config.HTTP.Address,
		Handler:           app.Router(),
		ReadHeaderTimeout: readHeaderTimeout,
	}}
	if addr := app.Config.Observability.MetricsAddress; addr != "" {
		servers = append(servers, &http.Server{
			Addr:              addr,
			Handler:           app.MetricsHandler(),
			ReadHeaderTimeout: readHeaderTimeout,
		})
	}

	errCh := make(chan error, len(servers))
	for _, srv := range servers {
		logger.InfoContext(ctx, "Starting HTTP server", "address", srv.Addr)
		go func(srv *http.Server) {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("listen on %s: %w", srv.Addr, err)
			}
		}(srv)
	}

	serveErr := app.WaitForShutdown(ctx, errCh)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server forced to shutdown", "address", srv.Addr, "error", err)
		}
	}
	return serveErr
}
