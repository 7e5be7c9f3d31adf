package matchdb

import (
	"time"

	"github.com/uptrace/bun"

	matchdomain "github.com/Black-And-White-Club/volley-analyst/app/modules/match/domain"
)

// RallyHistory is one persisted rally row.
type RallyHistory struct {
	bun.BaseModel `bun:"table:rally_history,alias:rh"`

	ID             string    `bun:"id,pk,type:varchar(36)"`
	MatchID        string    `bun:"match_id,notnull,type:varchar(36)"`
	MatchLabel     string    `bun:"match_label,notnull"`
	SetNumber      int       `bun:"set_number,notnull"`
	Team           string    `bun:"team,notnull"`
	Side           string    `bun:"side,notnull,type:varchar(8)"`
	Rotation       int       `bun:"rotation,notnull"`
	Reception      string    `bun:"reception,notnull,type:varchar(32)"`
	Setter         string    `bun:"setter,nullzero"`
	Zone           string    `bun:"zone,nullzero,type:varchar(16)"`
	Hitter         string    `bun:"hitter,nullzero"`
	HitterPosition string    `bun:"hitter_position,nullzero,type:varchar(4)"`
	Result         string    `bun:"result,notnull,type:varchar(32)"`
	X              float64   `bun:"x,notnull,default:0"`
	Y              float64   `bun:"y,notnull,default:0"`
	HomeScore      int       `bun:"home_score,notnull"`
	AwayScore      int       `bun:"away_score,notnull"`
	Serve          string    `bun:"serve,notnull,type:varchar(8)"`
	HomeRotation   int       `bun:"home_rotation,notnull"`
	AwayRotation   int       `bun:"away_rotation,notnull"`
	EventID        string    `bun:"event_id,nullzero"`
	RecordedAt     time.Time `bun:"recorded_at,notnull"`
	CreatedAt      time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// FromRecord maps a domain record to its row.
func FromRecord(r matchdomain.RallyRecord) RallyHistory {
	return RallyHistory{
		ID:             r.ID,
		MatchID:        r.MatchID,
		MatchLabel:     r.MatchLabel,
		SetNumber:      r.Set,
		Team:           r.Team,
		Side:           string(r.Side),
		Rotation:       r.Rotation(),
		Reception:      string(r.Reception),
		Setter:         string(r.Setter),
		Zone:           string(r.Zone),
		Hitter:         string(r.Hitter),
		HitterPosition: r.HitterPosition,
		Result:         string(r.Result),
		X:              r.X,
		Y:              r.Y,
		HomeScore:      r.Snapshot.HomeScore,
		AwayScore:      r.Snapshot.AwayScore,
		Serve:          string(r.Snapshot.Serve),
		HomeRotation:   r.Snapshot.HomeRotation,
		AwayRotation:   r.Snapshot.AwayRotation,
		EventID:        r.EventID,
		RecordedAt:     r.RecordedAt,
	}
}

// Record maps the row back to the domain record.
func (h RallyHistory) Record() matchdomain.RallyRecord {
	return matchdomain.RallyRecord{
		ID:             h.ID,
		MatchID:        h.MatchID,
		MatchLabel:     h.MatchLabel,
		Set:            h.SetNumber,
		Team:           h.Team,
		Side:           matchdomain.Side(h.Side),
		Reception:      matchdomain.Reception(h.Reception),
		Setter:         matchdomain.PlayerID(h.Setter),
		Zone:           matchdomain.Zone(h.Zone),
		Hitter:         matchdomain.PlayerID(h.Hitter),
		HitterPosition: h.HitterPosition,
		Result:         matchdomain.Result(h.Result),
		X:              h.X,
		Y:              h.Y,
		Snapshot: matchdomain.MatchState{
			HomeScore:    h.HomeScore,
			AwayScore:    h.AwayScore,
			Serve:        matchdomain.Side(h.Serve),
			HomeRotation: h.HomeRotation,
			AwayRotation: h.AwayRotation,
		},
		RecordedAt: h.RecordedAt,
		EventID:    h.EventID,
	}
}
