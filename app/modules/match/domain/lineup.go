package matchdomain

// PlayerID is the roster key of a player, e.g. "#4 Tanaka".
type PlayerID string

// LineupSize is the number of numbered court slots per side.
const LineupSize = 6

// RosterEntry is the part of a roster the match engine needs.
type RosterEntry struct {
	Player   PlayerID `json:"player"`
	Position string   `json:"position"`
}

// Lineup holds the six players in slot order (index 0 = slot 1 at rotation 1)
// and an optional libero who never occupies a numbered slot.
type Lineup struct {
	Slots  [LineupSize]PlayerID `json:"slots"`
	Libero PlayerID             `json:"libero,omitempty"`
}

// NewLineup validates players and libero and builds a Lineup.
// When roster is non-empty every player, libero included, must appear on it.
func NewLineup(players []PlayerID, libero PlayerID, roster []RosterEntry) (Lineup, error) {
	var l Lineup
	if len(players) != LineupSize {
		return l, invalid("lineup", ErrInvalidLineupSize)
	}

	onRoster := rosterSet(roster)
	seen := make(map[PlayerID]struct{}, LineupSize)
	for i, p := range players {
		if p == "" {
			return Lineup{}, invalid("lineup", ErrEmptyPlayerID)
		}
		if _, dup := seen[p]; dup {
			return Lineup{}, invalid("lineup", ErrDuplicatePlayer)
		}
		if onRoster != nil {
			if _, ok := onRoster[p]; !ok {
				return Lineup{}, invalid("lineup", ErrNotOnRoster)
			}
		}
		seen[p] = struct{}{}
		l.Slots[i] = p
	}

	if libero != "" {
		if _, dup := seen[libero]; dup {
			return Lineup{}, invalid("libero", ErrLiberoInLineup)
		}
		if onRoster != nil {
			if _, ok := onRoster[libero]; !ok {
				return Lineup{}, invalid("libero", ErrNotOnRoster)
			}
		}
		l.Libero = libero
	}
	return l, nil
}

// IndexOf returns the slot index of p, or -1.
func (l Lineup) IndexOf(p PlayerID) int {
	for i, s := range l.Slots {
		if s == p {
			return i
		}
	}
	return -1
}

// Contains reports whether p occupies a numbered slot.
func (l Lineup) Contains(p PlayerID) bool {
	return l.IndexOf(p) >= 0
}

// Active returns the six slot players followed by the libero, if any.
// These are the players eligible as setter or hitter.
func (l Lineup) Active() []PlayerID {
	out := make([]PlayerID, 0, LineupSize+1)
	out = append(out, l.Slots[:]...)
	if l.Libero != "" {
		out = append(out, l.Libero)
	}
	return out
}

// IsActive reports whether p is in a slot or is the libero.
func (l Lineup) IsActive(p PlayerID) bool {
	return p != "" && (p == l.Libero || l.Contains(p))
}

func rosterSet(roster []RosterEntry) map[PlayerID]struct{} {
	if len(roster) == 0 {
		return nil
	}
	set := make(map[PlayerID]struct{}, len(roster))
	for _, e := range roster {
		set[e.Player] = struct{}{}
	}
	return set
}
