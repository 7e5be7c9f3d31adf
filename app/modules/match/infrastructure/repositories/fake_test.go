package matchdb

import (
	"context"

	"github.com/uptrace/bun"
)

// FakeRepository is a programmable fake for Repository.
type FakeRepository struct {
	trace []string

	InsertBatchFunc      func(ctx context.Context, db bun.IDB, rows []RallyHistory) (int64, error)
	ListByMatchIDFunc    func(ctx context.Context, db bun.IDB, matchID string) ([]RallyHistory, error)
	ListByMatchLabelFunc func(ctx context.Context, db bun.IDB, label string) ([]RallyHistory, error)
	DeleteByMatchIDFunc  func(ctx context.Context, db bun.IDB, matchID string) error
}

func (f *FakeRepository) Trace() []string { return f.trace }

func (f *FakeRepository) InsertBatch(ctx context.Context, db bun.IDB, rows []RallyHistory) (int64, error) {
	f.trace = append(f.trace, "InsertBatch")
	if f.InsertBatchFunc != nil {
		return f.InsertBatchFunc(ctx, db, rows)
	}
	return int64(len(rows)), nil
}

func (f *FakeRepository) ListByMatchID(ctx context.Context, db bun.IDB, matchID string) ([]RallyHistory, error) {
	f.trace = append(f.trace, "ListByMatchID")
	if f.ListByMatchIDFunc != nil {
		return f.ListByMatchIDFunc(ctx, db, matchID)
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) ListByMatchLabel(ctx context.Context, db bun.IDB, label string) ([]RallyHistory, error) {
	f.trace = append(f.trace, "ListByMatchLabel")
	if f.ListByMatchLabelFunc != nil {
		return f.ListByMatchLabelFunc(ctx, db, label)
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) DeleteByMatchID(ctx context.Context, db bun.IDB, matchID string) error {
	f.trace = append(f.trace, "DeleteByMatchID")
	if f.DeleteByMatchIDFunc != nil {
		return f.DeleteByMatchIDFunc(ctx, db, matchID)
	}
	return nil
}

var _ Repository = (*FakeRepository)(nil)
