package matchservice

import (
	"context"
	"sync"

	matchdomain "github.com/Black-And-White-Club/volley-analyst/app/modules/match/domain"
)

// FakeRosterLookup is a programmable RosterLookup.
type FakeRosterLookup struct {
	mu         sync.Mutex
	trace      []string
	LookupFunc func(ctx context.Context, team string) ([]matchdomain.RosterEntry, error)
}

func (f *FakeRosterLookup) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

func (f *FakeRosterLookup) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeRosterLookup) Lookup(ctx context.Context, team string) ([]matchdomain.RosterEntry, error) {
	f.record("Lookup:" + team)
	if f.LookupFunc != nil {
		return f.LookupFunc(ctx, team)
	}
	return nil, nil
}

// FakeRallyPersister records every batch it is given.
type FakeRallyPersister struct {
	mu                    sync.Mutex
	Batches               [][]matchdomain.RallyRecord
	PersistRallyBatchFunc func(ctx context.Context, records []matchdomain.RallyRecord) error
}

func (f *FakeRallyPersister) PersistRallyBatch(ctx context.Context, records []matchdomain.RallyRecord) error {
	if f.PersistRallyBatchFunc != nil {
		if err := f.PersistRallyBatchFunc(ctx, records); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Batches = append(f.Batches, records)
	return nil
}

// FakeBatchQueue records enqueued batches.
type FakeBatchQueue struct {
	mu                    sync.Mutex
	Enqueued              map[string][]matchdomain.RallyRecord
	EnqueueRallyBatchFunc func(ctx context.Context, matchID string, records []matchdomain.RallyRecord) error
}

func (f *FakeBatchQueue) EnqueueRallyBatch(ctx context.Context, matchID string, records []matchdomain.RallyRecord) error {
	if f.EnqueueRallyBatchFunc != nil {
		if err := f.EnqueueRallyBatchFunc(ctx, matchID, records); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Enqueued == nil {
		f.Enqueued = map[string][]matchdomain.RallyRecord{}
	}
	f.Enqueued[matchID] = append(f.Enqueued[matchID], records...)
	return nil
}

var (
	_ RosterLookup   = (*FakeRosterLookup)(nil)
	_ RallyPersister = (*FakeRallyPersister)(nil)
	_ BatchQueue     = (*FakeBatchQueue)(nil)
)

// FakeMetrics records the active-match gauge and drops everything else.
type FakeMetrics struct {
	noopMetrics
	mu     sync.Mutex
	Active []int
}

func (f *FakeMetrics) SetActiveMatches(_ context.Context, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Active = append(f.Active, n)
}
