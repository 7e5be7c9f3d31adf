package rosterdomain

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Position is a player's court role.
type Position string

const (
	PositionOutside  Position = "OH"
	PositionMiddle   Position = "MB"
	PositionOpposite Position = "OP"
	PositionSetter   Position = "S"
	PositionLibero   Position = "L"
)

// Positions lists the roles in display order.
var Positions = []Position{PositionOutside, PositionMiddle, PositionOpposite, PositionSetter, PositionLibero}

// Valid reports whether p is a known role.
func (p Position) Valid() bool {
	switch p {
	case PositionOutside, PositionMiddle, PositionOpposite, PositionSetter, PositionLibero:
		return true
	}
	return false
}

// UnnumberedSortKey orders players without a jersey number after everyone else.
const UnnumberedSortKey = 999

const maxJerseyNumber = 99

var (
	ErrInvalidPlayer   = errors.New("invalid player")
	ErrInvalidPosition = errors.New("invalid position")
	ErrInvalidTeamName = errors.New("invalid team name")
)

var jerseyPattern = regexp.MustCompile(`#(\d+)`)

// Player is one roster row. Key is the identifier the match engine uses, e.g. "#4 Tanaka".
type Player struct {
	Key      string   `json:"key"`
	Number   *int     `json:"number,omitempty"`
	Name     string   `json:"name"`
	Position Position `json:"position"`
}

// NewPlayer validates its inputs and builds the "#N Name" key. A nil number
// keeps the bare name as key.
func NewPlayer(name string, number *int, position Position) (Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Player{}, fmt.Errorf("%w: name is required", ErrInvalidPlayer)
	}
	if strings.ContainsAny(name, "\n\t") {
		return Player{}, fmt.Errorf("%w: name contains control characters", ErrInvalidPlayer)
	}
	if !position.Valid() {
		return Player{}, fmt.Errorf("%w: %q", ErrInvalidPosition, position)
	}
	p := Player{Key: name, Name: name, Position: position}
	if number != nil {
		if *number < 0 || *number > maxJerseyNumber {
			return Player{}, fmt.Errorf("%w: jersey number %d out of range", ErrInvalidPlayer, *number)
		}
		n := *number
		p.Number = &n
		p.Key = PlayerKey(n, name)
	}
	return p, nil
}

// PlayerKey formats a numbered roster key.
func PlayerKey(number int, name string) string {
	return "#" + strconv.Itoa(number) + " " + name
}

// ParsePlayerKey splits a stored key back into a Player with the given position.
func ParsePlayerKey(key string, position Position) Player {
	p := Player{Key: key, Name: key, Position: position}
	if m := jerseyPattern.FindStringSubmatchIndex(key); m != nil {
		if n, err := strconv.Atoi(key[m[2]:m[3]]); err == nil {
			p.Number = &n
			p.Name = strings.TrimSpace(key[:m[0]] + key[m[1]:])
		}
	}
	return p
}

// JerseyNumber returns the first "#N" in key, or UnnumberedSortKey.
func JerseyNumber(key string) int {
	m := jerseyPattern.FindStringSubmatch(key)
	if m == nil {
		return UnnumberedSortKey
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return UnnumberedSortKey
	}
	return n
}

// SortPlayers orders players by jersey number, then by key.
func SortPlayers(players []Player) {
	sort.SliceStable(players, func(i, j int) bool {
		ni, nj := JerseyNumber(players[i].Key), JerseyNumber(players[j].Key)
		if ni != nj {
			return ni < nj
		}
		return players[i].Key < players[j].Key
	})
}

// ValidateTeamName trims name and rejects empty or oversized names.
func ValidateTeamName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidTeamName)
	}
	if len(name) > 100 {
		return "", fmt.Errorf("%w: name longer than 100 bytes", ErrInvalidTeamName)
	}
	return name, nil
}
