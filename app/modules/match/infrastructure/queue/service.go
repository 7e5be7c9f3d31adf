package matchqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"

	matchservice "github.com/Black-And-White-Club/volley-analyst/app/modules/match/application"
	matchdomain "github.com/Black-And-White-Club/volley-analyst/app/modules/match/domain"
	"github.com/Black-And-White-Club/volley-analyst/app/observability"
	"github.com/Black-And-White-Club/volley-analyst/pkg/attr"
)

// QueueName is the River queue batch jobs run on.
const QueueName = "rally_batches"

// Metrics records queue operations.
type Metrics = observability.OperationMetrics

// Service retries rejected rally batches through River.
type Service struct {
	client      *river.Client[pgx.Tx]
	pool        *pgxpool.Pool
	logger      *slog.Logger
	metrics     Metrics
	maxAttempts int
}

var _ matchservice.BatchQueue = (*Service)(nil)

// Options configures NewService.
type Options struct {
	DSN         string
	MaxWorkers  int
	MaxAttempts int
}

// NewService connects a pgx pool and builds a River client whose worker
// drains batches into persister.
func NewService(ctx context.Context, opts Options, persister matchservice.RallyPersister, logger *slog.Logger, metrics Metrics) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopOperationMetrics{}
	}
	ctxLogger := logger.With(
		attr.String("operation", "new_match_queue_service"),
		attr.String("component", "river_queue"),
	)

	start := time.Now()
	metrics.RecordOperationAttempt(ctx, "initialize_service", "river")
	ctxLogger.Info("Initializing match queue service")

	config, err := pgxpool.ParseConfig(opts.DSN)
	if err != nil {
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		ctxLogger.Error("Failed to ping database for River", attr.Error(err))
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewPersistRallyBatchWorker(persister, ctxLogger, metrics))

	maxWorkers := opts.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			QueueName: {MaxWorkers: maxWorkers},
		},
		Workers: workers,
	})
	if err != nil {
		pool.Close()
		ctxLogger.Error("Failed to create River client", attr.Error(err))
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	metrics.RecordOperationSuccess(ctx, "initialize_service", "river")
	metrics.RecordOperationDuration(ctx, "initialize_service", "river", time.Since(start))
	ctxLogger.Info("Match queue service initialized")

	return &Service{
		client:      client,
		pool:        pool,
		logger:      ctxLogger,
		metrics:     metrics,
		maxAttempts: opts.MaxAttempts,
	}, nil
}

// Start starts the River client.
func (s *Service) Start(ctx context.Context) error {
	s.logger.Info("Starting match queue service")
	if err := s.client.Start(ctx); err != nil {
		s.logger.Error("Failed to start River client", attr.Error(err))
		return fmt.Errorf("failed to start River client: %w", err)
	}
	return nil
}

// Stop stops the River client and closes the pool.
func (s *Service) Stop(ctx context.Context) error {
	s.logger.Info("Stopping match queue service")
	defer s.pool.Close()
	if err := s.client.Stop(ctx); err != nil {
		s.logger.Error("Failed to stop River client", attr.Error(err))
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	return nil
}

// EnqueueRallyBatch inserts a retry job for the batch.
func (s *Service) EnqueueRallyBatch(ctx context.Context, matchID string, records []matchdomain.RallyRecord) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "enqueue_rally_batch", "river")

	res, err := s.client.Insert(ctx, PersistRallyBatchJob{MatchID: matchID, Records: records}, &river.InsertOpts{
		Queue:       QueueName,
		MaxAttempts: s.maxAttempts,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to enqueue rally batch", attr.MatchID(matchID), attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "enqueue_rally_batch", "river")
		return fmt.Errorf("failed to enqueue rally batch: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "enqueue_rally_batch", "river")
	s.metrics.RecordOperationDuration(ctx, "enqueue_rally_batch", "river", time.Since(start))
	s.logger.InfoContext(ctx, "Rally batch enqueued",
		attr.MatchID(matchID),
		attr.Int("records", len(records)),
		attr.Int64("job_id", res.Job.ID),
	)
	return nil
}

// HealthCheck pings the queue's pool.
func (s *Service) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("queue service health check failed: %w", err)
	}
	return nil
}
