package matchservice

import (
	"context"
	"time"

	matchdomain "github.com/Black-And-White-Club/volley-analyst/app/modules/match/domain"
)

// Service is the command surface of the match engine. Every command runs
// under its match's lock; different matches never contend.
type Service interface {
	// StartMatch validates lineups against the rosters and opens a session.
	StartMatch(ctx context.Context, req StartMatchRequest) (*matchdomain.View, error)

	// GetMatch returns the current read model.
	GetMatch(ctx context.Context, matchID string) (*matchdomain.View, error)

	// ListMatches returns the ids of open sessions.
	ListMatches(ctx context.Context) ([]string, error)

	// AddPoint awards a rally to winner, rotating on side-out.
	AddPoint(ctx context.Context, matchID string, winner matchdomain.Side) (*matchdomain.View, error)

	// AdjustScore takes one point off side, floored at zero.
	AdjustScore(ctx context.Context, matchID string, side matchdomain.Side) (*matchdomain.View, error)

	// Rotate moves side's rotation one step forward or backward.
	Rotate(ctx context.Context, matchID string, side matchdomain.Side, dir matchdomain.Direction) (*matchdomain.View, error)

	// ChangeSet moves the match to another set number.
	ChangeSet(ctx context.Context, matchID string, set int) (*matchdomain.View, error)

	// Substitute replaces the player in slot with a bench player.
	Substitute(ctx context.Context, matchID string, side matchdomain.Side, slot int, incoming matchdomain.PlayerID) (*SubstitutionResult, error)

	// ResetLineup clears side's lineup.
	ResetLineup(ctx context.Context, matchID string, side matchdomain.Side) (*matchdomain.View, error)

	// SetLineup enters a new lineup for side mid-match.
	SetLineup(ctx context.Context, matchID string, side matchdomain.Side, players []matchdomain.PlayerID, libero matchdomain.PlayerID) (*matchdomain.View, error)

	// RecordRally appends a rally record and applies its point.
	RecordRally(ctx context.Context, matchID string, in matchdomain.RallyInput) (*RallyResult, error)

	// UndoLast drops the last record without touching the scoreboard.
	UndoLast(ctx context.Context, matchID string) (*RallyResult, error)

	// RevertLastRally drops the last record and restores its snapshot.
	RevertLastRally(ctx context.Context, matchID string) (*RallyResult, error)

	// Positions returns the court roles of one side.
	Positions(ctx context.Context, matchID string, side matchdomain.Side) (*matchdomain.SideView, error)

	// Flush persists and clears pending rallies. The scoreboard is kept.
	Flush(ctx context.Context, matchID string) (*FlushResult, error)

	// EndMatch persists pending rallies, resets the scoreboard and clears lineups.
	EndMatch(ctx context.Context, matchID string) (*FlushResult, error)

	// CloseMatch persists pending rallies and discards the session.
	CloseMatch(ctx context.Context, matchID string) (*FlushResult, error)
}

// StartMatchRequest is the input of StartMatch.
type StartMatchRequest struct {
	Name       string
	PlayedOn   time.Time
	Set        int
	HomeTeam   string
	AwayTeam   string
	HomeLineup []matchdomain.PlayerID
	AwayLineup []matchdomain.PlayerID
	HomeLibero matchdomain.PlayerID
	AwayLibero matchdomain.PlayerID
	FirstServe matchdomain.Side
}

// SubstitutionResult reports who left the court.
type SubstitutionResult struct {
	Outgoing matchdomain.PlayerID `json:"outgoing"`
	View     matchdomain.View     `json:"match"`
}

// RallyResult is returned by RecordRally, UndoLast and RevertLastRally.
type RallyResult struct {
	Record matchdomain.RallyRecord `json:"record"`
	// Appended is false when RecordRally saw a redelivered event.
	Appended bool             `json:"appended"`
	View     matchdomain.View `json:"match"`
}

// FlushResult describes where a flushed batch went.
type FlushResult struct {
	MatchID   string                    `json:"match_id"`
	Records   []matchdomain.RallyRecord `json:"records"`
	Persisted bool                      `json:"persisted"`
	Queued    bool                      `json:"queued"`
	View      matchdomain.View          `json:"match"`
}
