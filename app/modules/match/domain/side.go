package matchdomain

import "strings"

// Side identifies one of the two teams in a match.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// Sides lists both sides in a stable order.
var Sides = [2]Side{SideHome, SideAway}

// Validate returns a *ValidationError for anything other than home or away.
func (s Side) Validate() error {
	switch s {
	case SideHome, SideAway:
		return nil
	default:
		return invalid("side", ErrUnknownSide)
	}
}

// Opponent returns the other side. The receiver must be valid.
func (s Side) Opponent() Side {
	if s == SideHome {
		return SideAway
	}
	return SideHome
}

// ParseSide accepts "home"/"away" in any case.
func ParseSide(v string) (Side, error) {
	s := Side(strings.ToLower(strings.TrimSpace(v)))
	if err := s.Validate(); err != nil {
		return "", err
	}
	return s, nil
}

// Direction is the sense of a manual rotation.
type Direction string

const (
	DirectionForward  Direction = "forward"
	DirectionBackward Direction = "backward"
)

func (d Direction) Validate() error {
	switch d {
	case DirectionForward, DirectionBackward:
		return nil
	default:
		return invalid("direction", ErrInvalidDirection)
	}
}
