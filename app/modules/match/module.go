package match

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"

	"github.com/Black-And-White-Club/volley-analyst/app/eventbus"
	matchservice "github.com/Black-And-White-Club/volley-analyst/app/modules/match/application"
	matchdomain "github.com/Black-And-White-Club/volley-analyst/app/modules/match/domain"
	matchexport "github.com/Black-And-White-Club/volley-analyst/app/modules/match/infrastructure/export"
	matchhandlers "github.com/Black-And-White-Club/volley-analyst/app/modules/match/infrastructure/handlers"
	matchmetrics "github.com/Black-And-White-Club/volley-analyst/app/modules/match/infrastructure/metrics"
	matchqueue "github.com/Black-And-White-Club/volley-analyst/app/modules/match/infrastructure/queue"
	matchdb "github.com/Black-And-White-Club/volley-analyst/app/modules/match/infrastructure/repositories"
	matchrouter "github.com/Black-And-White-Club/volley-analyst/app/modules/match/infrastructure/router"
	"github.com/Black-And-White-Club/volley-analyst/app/observability"
	"github.com/Black-And-White-Club/volley-analyst/config"
)

// Module represents the match module.
type Module struct {
	MatchService matchservice.Service
	MatchRouter  *matchrouter.MatchRouter
	queue        *matchqueue.Service
	cancelFunc   context.CancelFunc
	obs          observability.Observability
}

// Deps are the collaborators the match module needs from the application.
type Deps struct {
	Config     *config.Config
	Obs        observability.Observability
	EventBus   eventbus.EventBus
	Router     *message.Router
	DB         *bun.DB
	Roster     matchservice.RosterLookup
	HTTPRouter chi.Router
	Guard      matchhandlers.Guard
	Middleware []func(http.Handler) http.Handler
}

// NewMatchModule creates and initializes the match module.
func NewMatchModule(ctx context.Context, routerCtx context.Context, deps Deps) (*Module, error) {
	logger := deps.Obs.Logger
	tracer := deps.Obs.Tracer

	logger.InfoContext(ctx, "match.NewMatchModule initializing")

	// 1. Metrics
	var metrics matchservice.Metrics
	if deps.Obs.Registry != nil {
		metrics = matchmetrics.NewPrometheus(deps.Obs.Registry)
	}

	// 2. Persistence sink
	persister, history, err := newPersister(deps.Config, deps.DB)
	if err != nil {
		return nil, err
	}

	// 3. Retry queue
	var (
		queueSvc *matchqueue.Service
		queue    matchservice.BatchQueue
	)
	if deps.Config.Queue.Enabled && persister != nil {
		queueSvc, err = matchqueue.NewService(ctx, matchqueue.Options{
			DSN:         deps.Config.Postgres.DSN,
			MaxWorkers:  deps.Config.Queue.MaxWorkers,
			MaxAttempts: deps.Config.Queue.MaxAttempts,
		}, persister, logger, metrics)
		if err != nil {
			return nil, fmt.Errorf("failed to create match queue: %w", err)
		}
		queue = queueSvc
	}

	// 4. Service
	service := matchservice.NewMatchService(deps.Roster, persister, queue, logger, metrics, tracer)

	// 5. Event bus handlers and router
	handlers := matchhandlers.NewMatchHandlers(service, logger, tracer)
	matchRouter := matchrouter.NewMatchRouter(logger, deps.Router, deps.EventBus, deps.EventBus, tracer, deps.Obs.Registry)
	if err := matchRouter.Configure(routerCtx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure match router: %w", err)
	}

	// 6. Operator API
	if deps.HTTPRouter != nil {
		api := matchhandlers.NewHTTPHandlers(service, logger)
		if history != nil {
			api.WithHistory(history)
		}
		deps.HTTPRouter.Route("/api/matches", func(r chi.Router) {
			for _, mw := range deps.Middleware {
				r.Use(mw)
			}
			api.Routes(r, deps.Guard)
		})
	}

	return &Module{
		MatchService: service,
		MatchRouter:  matchRouter,
		queue:        queueSvc,
		obs:          deps.Obs,
	}, nil
}

func newPersister(cfg *config.Config, db *bun.DB) (matchservice.RallyPersister, matchhandlers.HistoryReader, error) {
	switch cfg.Persistence.Sink {
	case config.SinkPostgres:
		if db == nil {
			return nil, nil, fmt.Errorf("postgres sink requires a database")
		}
		store := matchdb.NewRallyStore(db, nil)
		return store, historyReader{store: store}, nil
	case config.SinkXLSX:
		return matchexport.NewXLSXSink(cfg.Persistence.XLSXPath), nil, nil
	default:
		return nil, nil, nil
	}
}

// historyReader maps repository misses to the handler's not-found error.
type historyReader struct {
	store *matchdb.RallyStore
}

func (h historyReader) History(ctx context.Context, matchID string) ([]matchdomain.RallyRecord, error) {
	recs, err := h.store.History(ctx, matchID)
	if errors.Is(err, matchdb.ErrNotFound) {
		return nil, matchhandlers.ErrHistoryNotFound
	}
	return recs, err
}

// Run starts the retry queue and blocks until ctx is done.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.obs.Logger
	logger.InfoContext(ctx, "Starting match module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if m.queue != nil {
		if err := m.queue.Start(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to start match queue", "error", err)
		}
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Match module goroutine stopped")
}

// Close shuts down the match module.
func (m *Module) Close() error {
	logger := m.obs.Logger
	logger.Info("Stopping match module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	var errs []error
	if m.queue != nil {
		if err := m.queue.Stop(context.Background()); err != nil {
			errs = append(errs, fmt.Errorf("error stopping match queue: %w", err))
		}
	}
	if m.MatchRouter != nil {
		if err := m.MatchRouter.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing MatchRouter: %w", err))
		}
	}

	logger.Info("Match module stopped")
	return errors.Join(errs...)
}

// HealthCheck reports whether the retry queue can reach its database.
func (m *Module) HealthCheck(ctx context.Context) error {
	if m.queue == nil {
		return nil
	}
	return m.queue.HealthCheck(ctx)
}
