package matchdb

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new rally history repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// InsertBatch writes rows in one statement. Rows whose id already exists are
// skipped so a retried batch does not duplicate history.
func (r *Impl) InsertBatch(ctx context.Context, db bun.IDB, rows []RallyHistory) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	db = r.resolveDB(db)
	res, err := db.NewInsert().
		Model(&rows).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to insert rally batch: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// ListByMatchID returns a match's rallies in capture order.
func (r *Impl) ListByMatchID(ctx context.Context, db bun.IDB, matchID string) ([]RallyHistory, error) {
	return r.list(ctx, db, "match_id = ?", matchID)
}

// ListByMatchLabel returns every rally stored under a label.
func (r *Impl) ListByMatchLabel(ctx context.Context, db bun.IDB, label string) ([]RallyHistory, error) {
	return r.list(ctx, db, "match_label = ?", label)
}

func (r *Impl) list(ctx context.Context, db bun.IDB, where string, arg string) ([]RallyHistory, error) {
	db = r.resolveDB(db)
	var rows []RallyHistory
	err := db.NewSelect().
		Model(&rows).
		Where(where, arg).
		Order("recorded_at ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rally history: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows, nil
}

// DeleteByMatchID removes a match's rallies.
func (r *Impl) DeleteByMatchID(ctx context.Context, db bun.IDB, matchID string) error {
	db = r.resolveDB(db)
	res, err := db.NewDelete().
		Model((*RallyHistory)(nil)).
		Where("match_id = ?", matchID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete rally history: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
