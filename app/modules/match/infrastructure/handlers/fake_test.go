package matchhandlers

import (
	"context"

	matchservice "github.com/Black-And-White-Club/volley-analyst/app/modules/match/application"
	matchdomain "github.com/Black-And-White-Club/volley-analyst/app/modules/match/domain"
)

// ------------------------
// Fake Match Service
// ------------------------

type FakeMatchService struct {
	trace               []string
	StartMatchFunc      func(ctx context.Context, req matchservice.StartMatchRequest) (*matchdomain.View, error)
	GetMatchFunc        func(ctx context.Context, matchID string) (*matchdomain.View, error)
	ListMatchesFunc     func(ctx context.Context) ([]string, error)
	AddPointFunc        func(ctx context.Context, matchID string, winner matchdomain.Side) (*matchdomain.View, error)
	AdjustScoreFunc     func(ctx context.Context, matchID string, side matchdomain.Side) (*matchdomain.View, error)
	RotateFunc          func(ctx context.Context, matchID string, side matchdomain.Side, dir matchdomain.Direction) (*matchdomain.View, error)
	ChangeSetFunc       func(ctx context.Context, matchID string, set int) (*matchdomain.View, error)
	SubstituteFunc      func(ctx context.Context, matchID string, side matchdomain.Side, slot int, incoming matchdomain.PlayerID) (*matchservice.SubstitutionResult, error)
	ResetLineupFunc     func(ctx context.Context, matchID string, side matchdomain.Side) (*matchdomain.View, error)
	SetLineupFunc       func(ctx context.Context, matchID string, side matchdomain.Side, players []matchdomain.PlayerID, libero matchdomain.PlayerID) (*matchdomain.View, error)
	RecordRallyFunc     func(ctx context.Context, matchID string, in matchdomain.RallyInput) (*matchservice.RallyResult, error)
	UndoLastFunc        func(ctx context.Context, matchID string) (*matchservice.RallyResult, error)
	RevertLastRallyFunc func(ctx context.Context, matchID string) (*matchservice.RallyResult, error)
	PositionsFunc       func(ctx context.Context, matchID string, side matchdomain.Side) (*matchdomain.SideView, error)
	FlushFunc           func(ctx context.Context, matchID string) (*matchservice.FlushResult, error)
	EndMatchFunc        func(ctx context.Context, matchID string) (*matchservice.FlushResult, error)
	CloseMatchFunc      func(ctx context.Context, matchID string) (*matchservice.FlushResult, error)
}

func NewFakeMatchService() *FakeMatchService {
	return &FakeMatchService{trace: []string{}}
}

func (f *FakeMatchService) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Service Interface Implementation ---

func (f *FakeMatchService) StartMatch(ctx context.Context, req matchservice.StartMatchRequest) (*matchdomain.View, error) {
	f.record("StartMatch")
	if f.StartMatchFunc != nil {
		return f.StartMatchFunc(ctx, req)
	}
	return nil, nil
}

func (f *FakeMatchService) GetMatch(ctx context.Context, matchID string) (*matchdomain.View, error) {
	f.record("GetMatch")
	if f.GetMatchFunc != nil {
		return f.GetMatchFunc(ctx, matchID)
	}
	return nil, nil
}

func (f *FakeMatchService) ListMatches(ctx context.Context) ([]string, error) {
	f.record("ListMatches")
	if f.ListMatchesFunc != nil {
		return f.ListMatchesFunc(ctx)
	}
	return nil, nil
}

func (f *FakeMatchService) AddPoint(ctx context.Context, matchID string, winner matchdomain.Side) (*matchdomain.View, error) {
	f.record("AddPoint")
	if f.AddPointFunc != nil {
		return f.AddPointFunc(ctx, matchID, winner)
	}
	return nil, nil
}

func (f *FakeMatchService) AdjustScore(ctx context.Context, matchID string, side matchdomain.Side) (*matchdomain.View, error) {
	f.record("AdjustScore")
	if f.AdjustScoreFunc != nil {
		return f.AdjustScoreFunc(ctx, matchID, side)
	}
	return nil, nil
}

func (f *FakeMatchService) Rotate(ctx context.Context, matchID string, side matchdomain.Side, dir matchdomain.Direction) (*matchdomain.View, error) {
	f.record("Rotate")
	if f.RotateFunc != nil {
		return f.RotateFunc(ctx, matchID, side, dir)
	}
	return nil, nil
}

func (f *FakeMatchService) ChangeSet(ctx context.Context, matchID string, set int) (*matchdomain.View, error) {
	f.record("ChangeSet")
	if f.ChangeSetFunc != nil {
		return f.ChangeSetFunc(ctx, matchID, set)
	}
	return nil, nil
}

func (f *FakeMatchService) Substitute(ctx context.Context, matchID string, side matchdomain.Side, slot int, incoming matchdomain.PlayerID) (*matchservice.SubstitutionResult, error) {
	f.record("Substitute")
	if f.SubstituteFunc != nil {
		return f.SubstituteFunc(ctx, matchID, side, slot, incoming)
	}
	return nil, nil
}

func (f *FakeMatchService) ResetLineup(ctx context.Context, matchID string, side matchdomain.Side) (*matchdomain.View, error) {
	f.record("ResetLineup")
	if f.ResetLineupFunc != nil {
		return f.ResetLineupFunc(ctx, matchID, side)
	}
	return nil, nil
}

func (f *FakeMatchService) SetLineup(ctx context.Context, matchID string, side matchdomain.Side, players []matchdomain.PlayerID, libero matchdomain.PlayerID) (*matchdomain.View, error) {
	f.record("SetLineup")
	if f.SetLineupFunc != nil {
		return f.SetLineupFunc(ctx, matchID, side, players, libero)
	}
	return nil, nil
}

func (f *FakeMatchService) RecordRally(ctx context.Context, matchID string, in matchdomain.RallyInput) (*matchservice.RallyResult, error) {
	f.record("RecordRally")
	if f.RecordRallyFunc != nil {
		return f.RecordRallyFunc(ctx, matchID, in)
	}
	return nil, nil
}

func (f *FakeMatchService) UndoLast(ctx context.Context, matchID string) (*matchservice.RallyResult, error) {
	f.record("UndoLast")
	if f.UndoLastFunc != nil {
		return f.UndoLastFunc(ctx, matchID)
	}
	return nil, nil
}

func (f *FakeMatchService) RevertLastRally(ctx context.Context, matchID string) (*matchservice.RallyResult, error) {
	f.record("RevertLastRally")
	if f.RevertLastRallyFunc != nil {
		return f.RevertLastRallyFunc(ctx, matchID)
	}
	return nil, nil
}

func (f *FakeMatchService) Positions(ctx context.Context, matchID string, side matchdomain.Side) (*matchdomain.SideView, error) {
	f.record("Positions")
	if f.PositionsFunc != nil {
		return f.PositionsFunc(ctx, matchID, side)
	}
	return nil, nil
}

func (f *FakeMatchService) Flush(ctx context.Context, matchID string) (*matchservice.FlushResult, error) {
	f.record("Flush")
	if f.FlushFunc != nil {
		return f.FlushFunc(ctx, matchID)
	}
	return nil, nil
}

func (f *FakeMatchService) EndMatch(ctx context.Context, matchID string) (*matchservice.FlushResult, error) {
	f.record("EndMatch")
	if f.EndMatchFunc != nil {
		return f.EndMatchFunc(ctx, matchID)
	}
	return nil, nil
}

func (f *FakeMatchService) CloseMatch(ctx context.Context, matchID string) (*matchservice.FlushResult, error) {
	f.record("CloseMatch")
	if f.CloseMatchFunc != nil {
		return f.CloseMatchFunc(ctx, matchID)
	}
	return nil, nil
}

// --- Accessors for assertions ---

func (f *FakeMatchService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ matchservice.Service = (*FakeMatchService)(nil)
