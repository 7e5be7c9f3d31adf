package rosterservice

import (
	"context"

	rosterdb "github.com/Black-And-White-Club/volley-analyst/app/modules/roster/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Roster Repo
// ------------------------

type FakeRosterRepo struct {
	trace []string

	ListTeamsFunc    func(ctx context.Context, db bun.IDB) ([]rosterdb.Team, error)
	GetTeamFunc      func(ctx context.Context, db bun.IDB, name string) (*rosterdb.Team, error)
	CreateTeamFunc   func(ctx context.Context, db bun.IDB, team *rosterdb.Team) error
	ListPlayersFunc  func(ctx context.Context, db bun.IDB, teamName string) ([]rosterdb.TeamPlayer, error)
	UpsertPlayerFunc func(ctx context.Context, db bun.IDB, player *rosterdb.TeamPlayer) error
	DeletePlayerFunc func(ctx context.Context, db bun.IDB, teamName, playerKey string) error
}

func NewFakeRosterRepo() *FakeRosterRepo {
	return &FakeRosterRepo{
		trace: []string{},
	}
}

func (f *FakeRosterRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeRosterRepo) ListTeams(ctx context.Context, db bun.IDB) ([]rosterdb.Team, error) {
	f.record("ListTeams")
	if f.ListTeamsFunc != nil {
		return f.ListTeamsFunc(ctx, db)
	}
	return nil, nil
}

func (f *FakeRosterRepo) GetTeam(ctx context.Context, db bun.IDB, name string) (*rosterdb.Team, error) {
	f.record("GetTeam")
	if f.GetTeamFunc != nil {
		return f.GetTeamFunc(ctx, db, name)
	}
	return nil, rosterdb.ErrNotFound
}

func (f *FakeRosterRepo) CreateTeam(ctx context.Context, db bun.IDB, team *rosterdb.Team) error {
	f.record("CreateTeam")
	if f.CreateTeamFunc != nil {
		return f.CreateTeamFunc(ctx, db, team)
	}
	return nil
}

func (f *FakeRosterRepo) ListPlayers(ctx context.Context, db bun.IDB, teamName string) ([]rosterdb.TeamPlayer, error) {
	f.record("ListPlayers")
	if f.ListPlayersFunc != nil {
		return f.ListPlayersFunc(ctx, db, teamName)
	}
	return nil, nil
}

func (f *FakeRosterRepo) UpsertPlayer(ctx context.Context, db bun.IDB, player *rosterdb.TeamPlayer) error {
	f.record("UpsertPlayer")
	if f.UpsertPlayerFunc != nil {
		return f.UpsertPlayerFunc(ctx, db, player)
	}
	return nil
}

func (f *FakeRosterRepo) DeletePlayer(ctx context.Context, db bun.IDB, teamName, playerKey string) error {
	f.record("DeletePlayer")
	if f.DeletePlayerFunc != nil {
		return f.DeletePlayerFunc(ctx, db, teamName, playerKey)
	}
	return nil
}

// --- Accessors for assertions ---

func (f *FakeRosterRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ rosterdb.Repository = (*FakeRosterRepo)(nil)
