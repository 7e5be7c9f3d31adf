package matchdb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"

	matchdomain "github.com/Black-And-White-Club/volley-analyst/app/modules/match/domain"
)

// RallyStore persists flushed batches to Postgres in a single transaction.
type RallyStore struct {
	db   *bun.DB
	repo Repository
}

// NewRallyStore creates a RallyStore. A nil repo uses the bun repository.
func NewRallyStore(db *bun.DB, repo Repository) *RallyStore {
	if repo == nil {
		repo = NewRepository(db)
	}
	return &RallyStore{db: db, repo: repo}
}

// PersistRallyBatch writes every record or none of them.
func (s *RallyStore) PersistRallyBatch(ctx context.Context, records []matchdomain.RallyRecord) error {
	rows := make([]RallyHistory, 0, len(records))
	for _, r := range records {
		rows = append(rows, FromRecord(r))
	}
	if s.db == nil {
		_, err := s.repo.InsertBatch(ctx, nil, rows)
		return err
	}
	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := s.repo.InsertBatch(ctx, tx, rows); err != nil {
			return fmt.Errorf("persist %d rallies: %w", len(rows), err)
		}
		return nil
	})
}

// History returns the stored rallies of a match.
func (s *RallyStore) History(ctx context.Context, matchID string) ([]matchdomain.RallyRecord, error) {
	rows, err := s.repo.ListByMatchID(ctx, nil, matchID)
	if err != nil {
		return nil, err
	}
	out := make([]matchdomain.RallyRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Record())
	}
	return out, nil
}
