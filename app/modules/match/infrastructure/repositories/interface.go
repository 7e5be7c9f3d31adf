package matchdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for rally history persistence.
type Repository interface {
	// InsertBatch writes rows, skipping ids already stored.
	InsertBatch(ctx context.Context, db bun.IDB, rows []RallyHistory) (int64, error)

	// ListByMatchID returns a match's rallies in capture order.
	ListByMatchID(ctx context.Context, db bun.IDB, matchID string) ([]RallyHistory, error)

	// ListByMatchLabel returns every rally stored under a label, in capture order.
	ListByMatchLabel(ctx context.Context, db bun.IDB, label string) ([]RallyHistory, error)

	// DeleteByMatchID removes a match's rallies.
	DeleteByMatchID(ctx context.Context, db bun.IDB, matchID string) error
}
