package matchqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/riverqueue/river"

	matchservice "github.com/Black-And-White-Club/volley-analyst/app/modules/match/application"
	"github.com/Black-And-White-Club/volley-analyst/app/observability"
	"github.com/Black-And-White-Club/volley-analyst/pkg/attr"
)

// PersistRallyBatchWorker retries a batch against the persister until River
// runs out of attempts.
type PersistRallyBatchWorker struct {
	river.WorkerDefaults[PersistRallyBatchJob]
	persister matchservice.RallyPersister
	logger    *slog.Logger
	metrics   Metrics
}

// NewPersistRallyBatchWorker creates the worker.
func NewPersistRallyBatchWorker(persister matchservice.RallyPersister, logger *slog.Logger, metrics Metrics) *PersistRallyBatchWorker {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopOperationMetrics{}
	}
	return &PersistRallyBatchWorker{persister: persister, logger: logger, metrics: metrics}
}

// Work persists the job's batch.
func (w *PersistRallyBatchWorker) Work(ctx context.Context, job *river.Job[PersistRallyBatchJob]) error {
	start := time.Now()
	w.metrics.RecordOperationAttempt(ctx, "persist_rally_batch", "river")

	logger := w.logger.With(
		attr.MatchID(job.Args.MatchID),
		attr.Int64("job_id", job.ID),
		attr.Int("attempt", job.Attempt),
		attr.Int("records", len(job.Args.Records)),
	)

	if len(job.Args.Records) == 0 {
		logger.WarnContext(ctx, "Discarding empty rally batch job")
		w.metrics.RecordOperationSuccess(ctx, "persist_rally_batch", "river")
		return nil
	}

	if err := w.persister.PersistRallyBatch(ctx, job.Args.Records); err != nil {
		logger.ErrorContext(ctx, "Queued rally batch failed to persist", attr.Error(err))
		w.metrics.RecordOperationFailure(ctx, "persist_rally_batch", "river")
		return fmt.Errorf("persist queued batch for match %s: %w", job.Args.MatchID, err)
	}

	w.metrics.RecordOperationSuccess(ctx, "persist_rally_batch", "river")
	w.metrics.RecordOperationDuration(ctx, "persist_rally_batch", "river", time.Since(start))
	logger.InfoContext(ctx, "Queued rally batch persisted")
	return nil
}
