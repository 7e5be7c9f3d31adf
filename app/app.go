package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/Black-And-White-Club/volley-analyst/app/eventbus"
	"github.com/Black-And-White-Club/volley-analyst/app/modules/auth"
	"github.com/Black-And-White-Club/volley-analyst/app/modules/match"
	"github.com/Black-And-White-Club/volley-analyst/app/modules/roster"
	"github.com/Black-And-White-Club/volley-analyst/app/observability"
	"github.com/Black-And-White-Club/volley-analyst/config"
)

// App holds the wiring shared by all modules.
type App struct {
	Config        *config.Config
	Observability observability.Observability
	DB            *bun.DB
	EventBus      eventbus.EventBus
	Router        *message.Router
	HTTPRouter    chi.Router
	Modules       Modules

	httpServer *http.Server
	wg         sync.WaitGroup
	closeOnce  sync.Once
}

// Modules are the application modules in start order.
type Modules struct {
	Auth   *auth.Module
	Roster *roster.Module
	Match  *match.Module
}

// NewApp creates an App. Call Initialize before Run.
func NewApp(cfg *config.Config, obs observability.Observability) *App {
	return &App{Config: cfg, Observability: obs}
}

// Initialize opens the database and event bus and builds every module.
func (app *App) Initialize(ctx context.Context) error {
	logger := app.Observability.Logger
	cfg := app.Config

	if cfg.Postgres.DSN != "" {
		app.DB = openDB(cfg.Postgres.DSN)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := app.DB.PingContext(pingCtx); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		logger.InfoContext(ctx, "Database connected")
	}

	if cfg.NATS.URL != "" {
		bus, err := eventbus.NewEventBus(ctx, cfg.NATS.URL, eventbus.Options{QueueGroup: cfg.Observability.ServiceName}, logger)
		if err != nil {
			return fmt.Errorf("failed to create event bus: %w", err)
		}
		app.EventBus = bus
	} else {
		logger.InfoContext(ctx, "NATS_URL not set, using in-memory event bus")
		app.EventBus = eventbus.NewInMemory(logger)
	}
	if err := eventbus.InitializeStreams(ctx, app.EventBus); err != nil {
		return fmt.Errorf("failed to initialize streams: %w", err)
	}

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 10 * time.Second}, watermill.NewSlogLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create message router: %w", err)
	}
	app.Router = router

	app.HTTPRouter = app.newHTTPRouter()

	if err := app.initializeModules(ctx); err != nil {
		return err
	}

	app.httpServer = &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           app.HTTPRouter,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return nil
}

func (app *App) initializeModules(ctx context.Context) error {
	cfg := app.Config
	obs := app.Observability

	authModule, err := auth.NewModule(ctx, cfg, obs, app.HTTPRouter)
	if err != nil {
		return fmt.Errorf("failed to initialize auth module: %w", err)
	}
	app.Modules.Auth = authModule

	rosterModule, err := roster.NewRosterModule(ctx, cfg, obs, app.DB, app.HTTPRouter, authModule.Guard, authModule.Middleware()...)
	if err != nil {
		return fmt.Errorf("failed to initialize roster module: %w", err)
	}
	app.Modules.Roster = rosterModule

	matchModule, err := match.NewMatchModule(ctx, ctx, match.Deps{
		Config:     cfg,
		Obs:        obs,
		EventBus:   app.EventBus,
		Router:     app.Router,
		DB:         app.DB,
		Roster:     rosterModule,
		HTTPRouter: app.HTTPRouter,
		Guard:      authModule.Guard,
		Middleware: authModule.Middleware(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize match module: %w", err)
	}
	app.Modules.Match = matchModule

	return nil
}

func openDB(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}
