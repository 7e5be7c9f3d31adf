package rosterdomain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestNewPlayer(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		number   *int
		position Position
		wantKey  string
		wantErr  error
	}{
		{name: "numbered", in: "Tanaka", number: intPtr(4), position: PositionOutside, wantKey: "#4 Tanaka"},
		{name: "trimmed", in: "  Sato ", number: intPtr(12), position: PositionLibero, wantKey: "#12 Sato"},
		{name: "unnumbered", in: "Guest", position: PositionSetter, wantKey: "Guest"},
		{name: "jersey zero", in: "Zero", number: intPtr(0), position: PositionMiddle, wantKey: "#0 Zero"},
		{name: "empty name", in: " ", number: intPtr(1), position: PositionOutside, wantErr: ErrInvalidPlayer},
		{name: "number too big", in: "Big", number: intPtr(100), position: PositionOutside, wantErr: ErrInvalidPlayer},
		{name: "negative number", in: "Neg", number: intPtr(-1), position: PositionOutside, wantErr: ErrInvalidPlayer},
		{name: "unknown position", in: "X", number: intPtr(3), position: "DS", wantErr: ErrInvalidPosition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPlayer(tt.in, tt.number, tt.position)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, p.Key)
			assert.Equal(t, tt.position, p.Position)
		})
	}
}

func TestParsePlayerKey(t *testing.T) {
	p := ParsePlayerKey("#7 Suzuki", PositionOpposite)
	require.NotNil(t, p.Number)
	assert.Equal(t, 7, *p.Number)
	assert.Equal(t, "Suzuki", p.Name)

	p = ParsePlayerKey("Coach", PositionSetter)
	assert.Nil(t, p.Number)
	assert.Equal(t, "Coach", p.Name)
}

func TestSortPlayers(t *testing.T) {
	players := []Player{
		{Key: "Guest"},
		{Key: "#10 Ito"},
		{Key: "#2 Sato"},
		{Key: "#10 Abe"},
		{Key: "#1 Tanaka"},
	}
	SortPlayers(players)

	var keys []string
	for _, p := range players {
		keys = append(keys, p.Key)
	}
	assert.Equal(t, []string{"#1 Tanaka", "#2 Sato", "#10 Abe", "#10 Ito", "Guest"}, keys)
}

func TestJerseyNumber(t *testing.T) {
	assert.Equal(t, 4, JerseyNumber("#4 Takahashi"))
	assert.Equal(t, UnnumberedSortKey, JerseyNumber("Takahashi"))
	assert.Equal(t, UnnumberedSortKey, JerseyNumber("#x"))
}

func TestValidateTeamName(t *testing.T) {
	name, err := ValidateTeamName("  Falcons ")
	require.NoError(t, err)
	assert.Equal(t, "Falcons", name)

	_, err = ValidateTeamName("")
	assert.ErrorIs(t, err, ErrInvalidTeamName)
}
