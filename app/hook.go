package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// WaitForShutdown blocks until a shutdown signal, ctx cancellation, or a
// server error. Only the server error is returned.
func (app *App) WaitForShutdown(ctx context.Context, errCh <-chan error) error {
	logger := app.Observability.Logger

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	logger.Info("Waiting for shutdown signal")
	select {
	case sig := <-interrupt:
		logger.Info("Shutting down application", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Application context canceled")
	case err := <-errCh:
		logger.Error("HTTP server failed", "error", err)
		return err
	}
	return nil
}
