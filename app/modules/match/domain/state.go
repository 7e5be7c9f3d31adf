package matchdomain

// MatchState is the scoreboard: both scores, who serves, and each side's
// rotation counter (1..6). It is a value type; copies are snapshots.
type MatchState struct {
	HomeScore    int  `json:"home_score"`
	AwayScore    int  `json:"away_score"`
	Serve        Side `json:"serve"`
	HomeRotation int  `json:"home_rotation"`
	AwayRotation int  `json:"away_rotation"`
}

// NewMatchState returns a zeroed scoreboard with serve given to serve.
func NewMatchState(serve Side) MatchState {
	return MatchState{Serve: serve, HomeRotation: 1, AwayRotation: 1}
}

// Score returns the score of side.
func (s MatchState) Score(side Side) int {
	if side == SideAway {
		return s.AwayScore
	}
	return s.HomeScore
}

// Rotation returns the rotation counter of side.
func (s MatchState) Rotation(side Side) int {
	if side == SideAway {
		return s.AwayRotation
	}
	return s.HomeRotation
}

func (s *MatchState) score(side Side) *int {
	if side == SideAway {
		return &s.AwayScore
	}
	return &s.HomeScore
}

func (s *MatchState) rotation(side Side) *int {
	if side == SideAway {
		return &s.AwayRotation
	}
	return &s.HomeRotation
}

func rotateForward(r int) int {
	if r >= LineupSize {
		return 1
	}
	return r + 1
}

func rotateBackward(r int) int {
	if r <= 1 {
		return LineupSize
	}
	return r - 1
}

// AddPoint awards a rally to winner. On a side-out the winner rotates
// forward and takes the serve.
func (s *MatchState) AddPoint(winner Side) error {
	if err := winner.Validate(); err != nil {
		return err
	}
	*s.score(winner)++
	if s.Serve != winner {
		r := s.rotation(winner)
		*r = rotateForward(*r)
		s.Serve = winner
	}
	return nil
}

// ManualAdjustScore takes one point off side, never below zero.
// Serve and rotation are left alone, so this is not an inverse of AddPoint.
func (s *MatchState) ManualAdjustScore(side Side) error {
	if err := side.Validate(); err != nil {
		return err
	}
	if sc := s.score(side); *sc > 0 {
		*sc--
	}
	return nil
}

// ManualRotate moves side's rotation one step with wraparound.
func (s *MatchState) ManualRotate(side Side, dir Direction) error {
	if err := side.Validate(); err != nil {
		return err
	}
	if err := dir.Validate(); err != nil {
		return err
	}
	r := s.rotation(side)
	if dir == DirectionForward {
		*r = rotateForward(*r)
	} else {
		*r = rotateBackward(*r)
	}
	return nil
}
