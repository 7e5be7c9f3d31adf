package matchdomain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxSets is the highest set number a match can reach.
const MaxSets = 5

// UnknownPosition is stored when a hitter has no roster position.
const UnknownPosition = "?"

// TeamSetup describes one side at match start.
type TeamSetup struct {
	Name   string
	Roster []RosterEntry
	Lineup []PlayerID
	Libero PlayerID
}

// Setup is the input of Start.
type Setup struct {
	ID         string
	Name       string
	PlayedOn   time.Time
	Set        int
	Home       TeamSetup
	Away       TeamSetup
	FirstServe Side
}

type team struct {
	name   string
	roster []RosterEntry
	lineup *Lineup
}

func (t *team) position(p PlayerID) string {
	for _, e := range t.roster {
		if e.Player == p {
			if e.Position == "" {
				return UnknownPosition
			}
			return e.Position
		}
	}
	return UnknownPosition
}

// Match is the progression engine for one match. It is not safe for
// concurrent use; callers serialize access per match.
type Match struct {
	id       string
	name     string
	playedOn time.Time
	set      int

	home team
	away team

	state  MatchState
	ledger RallyLedger

	clock func() time.Time
	newID func() string
}

// Option configures a Match.
type Option func(*Match)

// WithClock overrides the time source used for RecordedAt.
func WithClock(clock func() time.Time) Option {
	return func(m *Match) { m.clock = clock }
}

// WithIDGenerator overrides how rally record IDs are minted.
func WithIDGenerator(gen func() string) Option {
	return func(m *Match) { m.newID = gen }
}

// Start validates setup and returns a match at 0-0, both rotations at 1.
// The away lineup is optional when the away roster is unknown; an away libero
// without one is rejected.
func Start(setup Setup, opts ...Option) (*Match, error) {
	if strings.TrimSpace(setup.Name) == "" {
		return nil, invalid("name", ErrMissingMatchName)
	}
	if strings.TrimSpace(setup.Home.Name) == "" {
		return nil, invalid("home.name", ErrMissingTeamName)
	}

	set := setup.Set
	if set == 0 {
		set = 1
	}
	if set < 1 || set > MaxSets {
		return nil, invalid("set", ErrInvalidSetNumber)
	}

	serve := setup.FirstServe
	if serve == "" {
		serve = SideHome
	}
	if err := serve.Validate(); err != nil {
		return nil, err
	}

	homeLineup, err := NewLineup(setup.Home.Lineup, setup.Home.Libero, setup.Home.Roster)
	if err != nil {
		return nil, prefixField(err, "home")
	}

	var awayLineup *Lineup
	if len(setup.Away.Roster) > 0 || len(setup.Away.Lineup) > 0 {
		l, err := NewLineup(setup.Away.Lineup, setup.Away.Libero, setup.Away.Roster)
		if err != nil {
			return nil, prefixField(err, "away")
		}
		awayLineup = &l
	} else if setup.Away.Libero != "" {
		return nil, invalid("away.libero", ErrLiberoWithoutLineup)
	}

	id := setup.ID
	if id == "" {
		id = uuid.NewString()
	}
	playedOn := setup.PlayedOn
	if playedOn.IsZero() {
		playedOn = time.Now()
	}
	awayName := setup.Away.Name
	if strings.TrimSpace(awayName) == "" {
		awayName = "Opponent"
	}

	m := &Match{
		id:       id,
		name:     strings.TrimSpace(setup.Name),
		playedOn: playedOn,
		set:      set,
		home:     team{name: setup.Home.Name, roster: cloneRoster(setup.Home.Roster), lineup: &homeLineup},
		away:     team{name: awayName, roster: cloneRoster(setup.Away.Roster), lineup: awayLineup},
		state:    NewMatchState(serve),
		clock:    time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func prefixField(err error, prefix string) error {
	if v, ok := err.(*ValidationError); ok {
		return &ValidationError{Field: prefix + "." + v.Field, Err: v.Err}
	}
	return err
}

func cloneRoster(r []RosterEntry) []RosterEntry {
	if len(r) == 0 {
		return nil
	}
	out := make([]RosterEntry, len(r))
	copy(out, r)
	return out
}

func (m *Match) team(side Side) *team {
	if side == SideAway {
		return &m.away
	}
	return &m.home
}

// ID returns the match identifier.
func (m *Match) ID() string { return m.id }

// Label is "<date>_<name>", the key rally history is grouped by.
func (m *Match) Label() string {
	return m.playedOn.Format("2006-01-02") + "_" + m.name
}

// State returns a copy of the scoreboard.
func (m *Match) State() MatchState { return m.state }

// SetNumber returns the current set.
func (m *Match) SetNumber() int { return m.set }

// Lineup returns side's lineup, or false when none is set.
func (m *Match) Lineup(side Side) (Lineup, bool) {
	t := m.team(side)
	if t.lineup == nil {
		return Lineup{}, false
	}
	return *t.lineup, true
}

// PendingRallies returns a copy of the unflushed ledger.
func (m *Match) PendingRallies() []RallyRecord { return m.ledger.Records() }

// AddPoint awards one rally to winner.
func (m *Match) AddPoint(winner Side) error {
	next := m.state
	if err := next.AddPoint(winner); err != nil {
		return err
	}
	m.state = next
	return nil
}

// ManualAdjustScore removes one point from side, floored at zero.
func (m *Match) ManualAdjustScore(side Side) error {
	next := m.state
	if err := next.ManualAdjustScore(side); err != nil {
		return err
	}
	m.state = next
	return nil
}

// ManualRotate moves side's rotation one step.
func (m *Match) ManualRotate(side Side, dir Direction) error {
	next := m.state
	if err := next.ManualRotate(side, dir); err != nil {
		return err
	}
	m.state = next
	return nil
}

// SetSetNumber moves the match to another set. Scores are not touched.
func (m *Match) SetSetNumber(n int) error {
	if n < 1 || n > MaxSets {
		return invalid("set", ErrInvalidSetNumber)
	}
	m.set = n
	return nil
}

// Substitute puts incoming into slot (1..6) in place of whoever is there.
// incoming must come from the bench. Score, serve and rotation are unchanged.
func (m *Match) Substitute(side Side, slot int, incoming PlayerID) (PlayerID, error) {
	if err := side.Validate(); err != nil {
		return "", err
	}
	t := m.team(side)
	if t.lineup == nil {
		return "", notAllowed("substitute", ErrLineupNotSet)
	}
	if slot < 1 || slot > LineupSize {
		return "", invalid("slot", ErrInvalidSlot)
	}
	if incoming == "" {
		return "", invalid("incoming", ErrEmptyPlayerID)
	}
	if t.lineup.Contains(incoming) {
		return "", invalid("incoming", ErrPlayerFielded)
	}
	if set := rosterSet(t.roster); set != nil {
		if _, ok := set[incoming]; !ok {
			return "", invalid("incoming", ErrNotOnRoster)
		}
	}

	next := *t.lineup
	outgoing := next.Slots[slot-1]
	next.Slots[slot-1] = incoming
	if next.Libero == incoming {
		next.Libero = ""
	}
	t.lineup = &next
	return outgoing, nil
}

// ResetLineup clears side's lineup and libero. Scoreboard and ledger stay.
func (m *Match) ResetLineup(side Side) error {
	if err := side.Validate(); err != nil {
		return err
	}
	m.team(side).lineup = nil
	return nil
}

// SetLineup enters a lineup for side mid-match, typically after ResetLineup.
func (m *Match) SetLineup(side Side, players []PlayerID, libero PlayerID) error {
	if err := side.Validate(); err != nil {
		return err
	}
	t := m.team(side)
	l, err := NewLineup(players, libero, t.roster)
	if err != nil {
		return prefixField(err, string(side))
	}
	t.lineup = &l
	return nil
}

// RecordRally appends a record built from in with the scoreboard as it was
// before the rally, then applies the derived point. A redelivered EventID
// returns the existing record and appended=false.
func (m *Match) RecordRally(in RallyInput) (rec RallyRecord, appended bool, err error) {
	if err := in.Validate(); err != nil {
		return RallyRecord{}, false, err
	}
	t := m.team(in.Side)
	if t.lineup == nil {
		return RallyRecord{}, false, notAllowed("record rally", ErrLineupNotSet)
	}
	if in.Setter != "" && !t.lineup.IsActive(in.Setter) {
		return RallyRecord{}, false, invalid("setter", ErrNotInActiveRoster)
	}
	if in.Hitter != "" && !t.lineup.IsActive(in.Hitter) {
		return RallyRecord{}, false, invalid("hitter", ErrNotInActiveRoster)
	}
	if in.EventID != "" {
		if last, ok := m.ledger.Last(); ok && last.EventID == in.EventID {
			return last, false, nil
		}
	}

	winner, scored, stored := in.Outcome()
	rec = RallyRecord{
		ID:         m.newID(),
		MatchID:    m.id,
		MatchLabel: m.Label(),
		Set:        m.set,
		Team:       t.name,
		Side:       in.Side,
		Reception:  in.Reception,
		Setter:     in.Setter,
		Zone:       in.Zone,
		Hitter:     in.Hitter,
		Result:     stored,
		X:          in.X,
		Y:          in.Y,
		Snapshot:   m.state,
		RecordedAt: m.clock().UTC(),
		EventID:    in.EventID,
	}
	if in.Hitter != "" {
		rec.HitterPosition = t.position(in.Hitter)
	}

	m.ledger.Append(rec)
	if scored {
		// winner is always a valid side here.
		_ = m.state.AddPoint(winner)
	}
	return rec, true, nil
}

// UndoLast drops the most recent rally record. The scoreboard is NOT
// reverted; use RevertLastRally for that.
func (m *Match) UndoLast() (RallyRecord, error) {
	return m.ledger.UndoLast()
}

// RevertLastRally drops the most recent record and restores the scoreboard
// from its snapshot.
func (m *Match) RevertLastRally() (RallyRecord, error) {
	last, err := m.ledger.UndoLast()
	if err != nil {
		return RallyRecord{}, err
	}
	m.state = last.Snapshot
	return last, nil
}

// Flush hands off every pending record and empties the ledger.
func (m *Match) Flush() []RallyRecord {
	return m.ledger.Flush()
}

// End hands off the ledger, zeroes the scoreboard with home serving and
// clears both lineups.
func (m *Match) End() []RallyRecord {
	records := m.ledger.Flush()
	m.state = NewMatchState(SideHome)
	m.home.lineup = nil
	m.away.lineup = nil
	return records
}
