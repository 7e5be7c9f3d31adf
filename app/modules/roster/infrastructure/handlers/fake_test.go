package rosterhandlers

import (
	"context"

	rosterservice "github.com/Black-And-White-Club/volley-analyst/app/modules/roster/application"
	rosterdomain "github.com/Black-And-White-Club/volley-analyst/app/modules/roster/domain"
)

// ------------------------
// Fake Roster Service
// ------------------------

type FakeRosterService struct {
	trace []string

	ListTeamsFunc     func(ctx context.Context) ([]string, error)
	GetRosterFunc     func(ctx context.Context, team string) (*rosterdomain.Team, error)
	AddTeamFunc       func(ctx context.Context, name string) (*rosterdomain.Team, error)
	AddPlayerFunc     func(ctx context.Context, team string, req rosterservice.AddPlayerRequest) (*rosterdomain.Player, error)
	RemovePlayerFunc  func(ctx context.Context, team, playerKey string) error
	ImportPlayersFunc func(ctx context.Context, rows []rosterservice.ImportRow) (*rosterservice.ImportResult, error)
}

func (f *FakeRosterService) Trace() []string {
	return f.trace
}

func (f *FakeRosterService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeRosterService) ListTeams(ctx context.Context) ([]string, error) {
	f.record("ListTeams")
	if f.ListTeamsFunc != nil {
		return f.ListTeamsFunc(ctx)
	}
	return nil, nil
}

func (f *FakeRosterService) GetRoster(ctx context.Context, team string) (*rosterdomain.Team, error) {
	f.record("GetRoster")
	if f.GetRosterFunc != nil {
		return f.GetRosterFunc(ctx, team)
	}
	return &rosterdomain.Team{Name: team}, nil
}

func (f *FakeRosterService) AddTeam(ctx context.Context, name string) (*rosterdomain.Team, error) {
	f.record("AddTeam")
	if f.AddTeamFunc != nil {
		return f.AddTeamFunc(ctx, name)
	}
	return &rosterdomain.Team{Name: name}, nil
}

func (f *FakeRosterService) AddPlayer(ctx context.Context, team string, req rosterservice.AddPlayerRequest) (*rosterdomain.Player, error) {
	f.record("AddPlayer")
	if f.AddPlayerFunc != nil {
		return f.AddPlayerFunc(ctx, team, req)
	}
	p, err := rosterdomain.NewPlayer(req.Name, req.Number, req.Position)
	return &p, err
}

func (f *FakeRosterService) RemovePlayer(ctx context.Context, team, playerKey string) error {
	f.record("RemovePlayer")
	if f.RemovePlayerFunc != nil {
		return f.RemovePlayerFunc(ctx, team, playerKey)
	}
	return nil
}

func (f *FakeRosterService) ImportPlayers(ctx context.Context, rows []rosterservice.ImportRow) (*rosterservice.ImportResult, error) {
	f.record("ImportPlayers")
	if f.ImportPlayersFunc != nil {
		return f.ImportPlayersFunc(ctx, rows)
	}
	return &rosterservice.ImportResult{Players: len(rows)}, nil
}

var _ rosterservice.Service = (*FakeRosterService)(nil)
