// Package matchevents defines the event bus contract of the match module.
package matchevents

import (
	"time"

	matchdomain "github.com/Black-And-White-Club/volley-analyst/app/modules/match/domain"
)

// StreamName is the JetStream stream carrying every volley subject.
const StreamName = "volley"

// StreamSubjects is the subject filter of StreamName.
const StreamSubjects = "volley.>"

// RallyObservedV1 is published by the video classifier.
const RallyObservedV1 = "volley.rally.observed.v1"

// Outbound topics, published by the engine.
const (
	MatchUpdatedV1  = "volley.match.updated.v1"
	RallyRejectedV1 = "volley.rally.rejected.v1"
)

// RallyObservedPayloadV1 is a classified rally.
type RallyObservedPayloadV1 struct {
	MatchID    string                `json:"match_id"`
	EventID    string                `json:"event_id"`
	Source     string                `json:"source,omitempty"`
	Side       matchdomain.Side      `json:"side"`
	Reception  matchdomain.Reception `json:"reception"`
	Setter     matchdomain.PlayerID  `json:"setter,omitempty"`
	Zone       matchdomain.Zone      `json:"zone,omitempty"`
	Hitter     matchdomain.PlayerID  `json:"hitter,omitempty"`
	Result     matchdomain.Result    `json:"result,omitempty"`
	X          float64               `json:"x"`
	Y          float64               `json:"y"`
	ObservedAt time.Time             `json:"observed_at"`
}

// Input converts the payload to an engine command input.
func (p RallyObservedPayloadV1) Input() matchdomain.RallyInput {
	return matchdomain.RallyInput{
		Side:      p.Side,
		Reception: p.Reception,
		Setter:    p.Setter,
		Zone:      p.Zone,
		Hitter:    p.Hitter,
		Result:    p.Result,
		X:         p.X,
		Y:         p.Y,
		EventID:   p.EventID,
	}
}

// MatchUpdatedPayloadV1 is the scoreboard after a bus-driven command.
type MatchUpdatedPayloadV1 struct {
	MatchID        string                   `json:"match_id"`
	Label          string                   `json:"label"`
	Set            int                      `json:"set"`
	State          matchdomain.MatchState   `json:"state"`
	PendingRallies int                      `json:"pending_rallies"`
	LastRally      *matchdomain.RallyRecord `json:"last_rally,omitempty"`
}

// NewMatchUpdated builds the payload from a view.
func NewMatchUpdated(v matchdomain.View) *MatchUpdatedPayloadV1 {
	return &MatchUpdatedPayloadV1{
		MatchID:        v.ID,
		Label:          v.Label,
		Set:            v.Set,
		State:          v.State,
		PendingRallies: v.PendingRallies,
		LastRally:      v.LastRally,
	}
}

// Rejection reasons.
const (
	ReasonValidation = "validation"
	ReasonState      = "state"
	ReasonNotFound   = "not_found"
)

// RallyRejectedPayloadV1 reports an inbound event the engine refused.
type RallyRejectedPayloadV1 struct {
	MatchID string `json:"match_id"`
	EventID string `json:"event_id"`
	Reason  string `json:"reason"`
	Error   string `json:"error"`
}
