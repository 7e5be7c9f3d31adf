package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// Run starts the modules, the message router and the HTTP server, and blocks
// until ctx is cancelled or a server fails.
func (app *App) Run(ctx context.Context) error {
	logger := app.Observability.Logger

	errCh := make(chan error, 3)

	go func() {
		if err := app.Observability.ServeMetrics(ctx, app.Config.Observability.MetricsAddress); err != nil {
			errCh <- fmt.Errorf("metrics server: %w", err)
		}
	}()

	app.wg.Add(1)
	go app.Modules.Match.Run(ctx, &app.wg)

	go func() {
		if err := app.Router.Run(ctx); err != nil {
			errCh <- fmt.Errorf("message router: %w", err)
		}
	}()

	go func() {
		logger.InfoContext(ctx, "Starting HTTP server", slog.String("address", app.httpServer.Addr))
		if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}
