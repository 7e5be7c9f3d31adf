package app

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Close shuts everything down in reverse start order. It is safe to call more than once.
func (app *App) Close() error {
	var errs []error
	app.closeOnce.Do(func() {
		logger := app.Observability.Logger
		logger.Info("Shutting down application...")

		if app.httpServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := app.httpServer.Shutdown(ctx); err != nil {
				errs = append(errs, fmt.Errorf("http server: %w", err))
			}
			cancel()
		}

		if app.Modules.Match != nil {
			if err := app.Modules.Match.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		app.wg.Wait()

		if app.Router != nil {
			if err := app.Router.Close(); err != nil {
				errs = append(errs, fmt.Errorf("message router: %w", err))
			}
		}
		if app.EventBus != nil {
			if err := app.EventBus.Close(); err != nil {
				errs = append(errs, fmt.Errorf("event bus: %w", err))
			}
		}
		if app.DB != nil {
			if err := app.DB.Close(); err != nil {
				errs = append(errs, fmt.Errorf("database: %w", err))
			}
		}

		logger.Info("Application shut down")
	})
	return errors.Join(errs...)
}
