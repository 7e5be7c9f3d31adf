package matchservice

import (
	"context"

	matchdomain "github.com/Black-And-White-Club/volley-analyst/app/modules/match/domain"
	"github.com/Black-And-White-Club/volley-analyst/app/observability"
)

// RosterLookup returns a team's roster ordered by jersey number. An unknown
// team yields an empty roster and no error.
type RosterLookup interface {
	Lookup(ctx context.Context, team string) ([]matchdomain.RosterEntry, error)
}

// RallyPersister stores a flushed batch. It must be all-or-nothing; the
// service does not retry it.
type RallyPersister interface {
	PersistRallyBatch(ctx context.Context, records []matchdomain.RallyRecord) error
}

// BatchQueue takes batches the persister rejected for later delivery.
type BatchQueue interface {
	EnqueueRallyBatch(ctx context.Context, matchID string, records []matchdomain.RallyRecord) error
}

// Metrics extends operation metrics with match-specific counters.
type Metrics interface {
	observability.OperationMetrics
	RecordRally(ctx context.Context, side matchdomain.Side, result matchdomain.Result)
	RecordBatchPersisted(ctx context.Context, size int)
	RecordBatchRequeued(ctx context.Context, size int)
	SetActiveMatches(ctx context.Context, n int)
}
