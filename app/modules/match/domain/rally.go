package matchdomain

import (
	"math"
	"time"
)

// Reception is the quality of the serve receive.
type Reception string

const (
	ReceptionA               Reception = "a_pass"
	ReceptionB               Reception = "b_pass"
	ReceptionC               Reception = "c_pass"
	ReceptionError           Reception = "rec_error"
	ReceptionOppServiceError Reception = "opp_service_error"
	ReceptionOther           Reception = "other"
)

func (r Reception) Validate() error {
	switch r {
	case ReceptionA, ReceptionB, ReceptionC, ReceptionError, ReceptionOppServiceError, ReceptionOther:
		return nil
	default:
		return invalid("reception", ErrInvalidReception)
	}
}

// Terminal reports whether the reception alone decides the rally.
func (r Reception) Terminal() bool {
	return r == ReceptionError || r == ReceptionOppServiceError
}

// Zone is where the set was delivered.
type Zone string

const (
	ZoneLeft       Zone = "left"
	ZoneCenter     Zone = "center"
	ZoneRight      Zone = "right"
	ZoneLeftBack   Zone = "left_back"
	ZoneCenterBack Zone = "center_back"
	ZoneRightBack  Zone = "right_back"
)

// Validate accepts the six attack zones and the empty zone.
func (z Zone) Validate() error {
	switch z {
	case "", ZoneLeft, ZoneCenter, ZoneRight, ZoneLeftBack, ZoneCenterBack, ZoneRightBack:
		return nil
	default:
		return invalid("zone", ErrInvalidZone)
	}
}

// Result is the outcome of the attack. ResultRecError and
// ResultOppServiceError are stored when the reception decided the rally.
type Result string

const (
	ResultKill            Result = "kill"
	ResultEffective       Result = "effective"
	ResultContinue        Result = "continue"
	ResultError           Result = "error"
	ResultBlocked         Result = "blocked"
	ResultRecError        Result = "rec_error"
	ResultOppServiceError Result = "opp_service_error"
)

// Validate accepts only attack results an operator can choose.
func (r Result) Validate() error {
	switch r {
	case ResultKill, ResultEffective, ResultContinue, ResultError, ResultBlocked:
		return nil
	default:
		return invalid("result", ErrInvalidResult)
	}
}

// RallyInput is what an operator or the classifier submits for one rally.
type RallyInput struct {
	Side      Side      `json:"side"`
	Reception Reception `json:"reception"`
	Setter    PlayerID  `json:"setter,omitempty"`
	Zone      Zone      `json:"zone,omitempty"`
	Hitter    PlayerID  `json:"hitter,omitempty"`
	Result    Result    `json:"result,omitempty"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	// EventID makes redelivery of the same observation a no-op.
	EventID string `json:"event_id,omitempty"`
}

// Validate checks the categorical fields. Roster membership is checked by the match.
func (in RallyInput) Validate() error {
	if err := in.Side.Validate(); err != nil {
		return err
	}
	if err := in.Reception.Validate(); err != nil {
		return err
	}
	if err := in.Zone.Validate(); err != nil {
		return err
	}
	if !in.Reception.Terminal() {
		if err := in.Result.Validate(); err != nil {
			return err
		}
	}
	for _, c := range []float64{in.X, in.Y} {
		if math.IsNaN(c) || math.IsInf(c, 0) || c < 0 {
			return invalid("coordinates", ErrInvalidCoordinates)
		}
	}
	return nil
}

// Outcome derives who scores and which result is stored. scored is false
// for rallies that continue (effective, continue).
func (in RallyInput) Outcome() (winner Side, scored bool, stored Result) {
	switch in.Reception {
	case ReceptionError:
		return in.Side.Opponent(), true, ResultRecError
	case ReceptionOppServiceError:
		return in.Side, true, ResultOppServiceError
	}
	switch in.Result {
	case ResultKill:
		return in.Side, true, in.Result
	case ResultError, ResultBlocked:
		return in.Side.Opponent(), true, in.Result
	default:
		return "", false, in.Result
	}
}

// RallyRecord is an immutable ledger entry. Snapshot is the scoreboard
// before the rally was scored.
type RallyRecord struct {
	ID             string     `json:"id"`
	MatchID        string     `json:"match_id"`
	MatchLabel     string     `json:"match_label"`
	Set            int        `json:"set"`
	Team           string     `json:"team"`
	Side           Side       `json:"side"`
	Reception      Reception  `json:"reception"`
	Setter         PlayerID   `json:"setter,omitempty"`
	Zone           Zone       `json:"zone,omitempty"`
	Hitter         PlayerID   `json:"hitter,omitempty"`
	HitterPosition string     `json:"hitter_position,omitempty"`
	Result         Result     `json:"result"`
	X              float64    `json:"x"`
	Y              float64    `json:"y"`
	Snapshot       MatchState `json:"snapshot"`
	RecordedAt     time.Time  `json:"recorded_at"`
	EventID        string     `json:"event_id,omitempty"`
}

// Rotation returns the recording side's rotation at capture time.
func (r RallyRecord) Rotation() int {
	return r.Snapshot.Rotation(r.Side)
}
