package matchdomain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchState_AddPoint(t *testing.T) {
	tests := []struct {
		name   string
		start  MatchState
		winner Side
		want   MatchState
	}{
		{
			name:   "serving side scores, no rotation",
			start:  NewMatchState(SideHome),
			winner: SideHome,
			want:   MatchState{HomeScore: 1, Serve: SideHome, HomeRotation: 1, AwayRotation: 1},
		},
		{
			name:   "side-out rotates receiving side and hands serve",
			start:  NewMatchState(SideHome),
			winner: SideAway,
			want:   MatchState{AwayScore: 1, Serve: SideAway, HomeRotation: 1, AwayRotation: 2},
		},
		{
			name:   "side-out at rotation 6 wraps to 1",
			start:  MatchState{HomeScore: 3, AwayScore: 4, Serve: SideAway, HomeRotation: 6, AwayRotation: 2},
			winner: SideHome,
			want:   MatchState{HomeScore: 4, AwayScore: 4, Serve: SideHome, HomeRotation: 1, AwayRotation: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.start
			require.NoError(t, s.AddPoint(tt.winner))
			assert.Equal(t, tt.want, s)
		})
	}
}

func TestMatchState_AddPointUnknownSide(t *testing.T) {
	s := NewMatchState(SideHome)
	err := s.AddPoint(Side("visitors"))
	assert.ErrorIs(t, err, ErrUnknownSide)
	assert.True(t, IsValidation(err))
	assert.Equal(t, NewMatchState(SideHome), s)
}

func TestMatchState_ManualAdjustScore(t *testing.T) {
	s := MatchState{HomeScore: 1, Serve: SideAway, HomeRotation: 3, AwayRotation: 4}

	require.NoError(t, s.ManualAdjustScore(SideHome))
	assert.Equal(t, 0, s.HomeScore)

	require.NoError(t, s.ManualAdjustScore(SideHome))
	assert.Equal(t, 0, s.HomeScore, "score is floored at zero")

	require.NoError(t, s.ManualAdjustScore(SideAway))
	assert.Equal(t, 0, s.AwayScore)

	assert.Equal(t, SideAway, s.Serve)
	assert.Equal(t, 3, s.HomeRotation)
	assert.Equal(t, 4, s.AwayRotation)
}

func TestMatchState_ManualRotate(t *testing.T) {
	tests := []struct {
		name  string
		start int
		dir   Direction
		want  int
	}{
		{name: "forward", start: 2, dir: DirectionForward, want: 3},
		{name: "forward wraps", start: 6, dir: DirectionForward, want: 1},
		{name: "backward", start: 4, dir: DirectionBackward, want: 3},
		{name: "backward wraps", start: 1, dir: DirectionBackward, want: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := MatchState{HomeScore: 7, AwayScore: 5, Serve: SideHome, HomeRotation: 1, AwayRotation: tt.start}
			require.NoError(t, s.ManualRotate(SideAway, tt.dir))
			assert.Equal(t, tt.want, s.AwayRotation)
			assert.Equal(t, 1, s.HomeRotation)
			assert.Equal(t, 7, s.HomeScore)
			assert.Equal(t, 5, s.AwayScore)
			assert.Equal(t, SideHome, s.Serve)
		})
	}
}

func TestMatchState_ManualRotateRejects(t *testing.T) {
	s := NewMatchState(SideHome)
	assert.ErrorIs(t, s.ManualRotate(Side(""), DirectionForward), ErrUnknownSide)
	assert.ErrorIs(t, s.ManualRotate(SideHome, Direction("sideways")), ErrInvalidDirection)
	assert.Equal(t, NewMatchState(SideHome), s)
}

func TestMatchState_InvariantsOverLongSequence(t *testing.T) {
	s := NewMatchState(SideAway)
	winners := []Side{SideHome, SideHome, SideAway, SideHome, SideAway, SideAway, SideHome, SideAway, SideHome, SideHome, SideAway, SideHome, SideAway, SideHome}
	for i, w := range winners {
		require.NoError(t, s.AddPoint(w))
		if i%3 == 0 {
			require.NoError(t, s.ManualAdjustScore(w.Opponent()))
			require.NoError(t, s.ManualRotate(w, DirectionBackward))
		}
		assert.GreaterOrEqual(t, s.HomeScore, 0)
		assert.GreaterOrEqual(t, s.AwayScore, 0)
		for _, side := range Sides {
			r := s.Rotation(side)
			assert.True(t, r >= 1 && r <= LineupSize, "rotation %d out of range", r)
		}
	}
}

func TestParseSide(t *testing.T) {
	s, err := ParseSide(" Away ")
	require.NoError(t, err)
	assert.Equal(t, SideAway, s)

	_, err = ParseSide("both")
	assert.ErrorIs(t, err, ErrUnknownSide)
}
