package matchdomain

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 18, 14, 30, 0, 0, time.UTC)

func roster(prefix string, n int) []RosterEntry {
	positions := []string{"OH", "MB", "OP", "S", "L"}
	out := make([]RosterEntry, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, RosterEntry{
			Player:   PlayerID(fmt.Sprintf("#%d %s%d", i, prefix, i)),
			Position: positions[(i-1)%len(positions)],
		})
	}
	return out
}

func ids(entries []RosterEntry, idx ...int) []PlayerID {
	out := make([]PlayerID, 0, len(idx))
	for _, i := range idx {
		out = append(out, entries[i].Player)
	}
	return out
}

func newTestMatch(t *testing.T) (*Match, []RosterEntry) {
	t.Helper()
	home := roster("H", 10)
	seq := 0
	m, err := Start(Setup{
		ID:       "match-1",
		Name:     "League Day",
		PlayedOn: fixedNow,
		Home: TeamSetup{
			Name:   "Falcons",
			Roster: home,
			Lineup: ids(home, 0, 1, 2, 3, 5, 6),
			Libero: home[4].Player,
		},
		Away: TeamSetup{Name: "Rivals"},
	},
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string { seq++; return fmt.Sprintf("r%d", seq) }),
	)
	require.NoError(t, err)
	return m, home
}

func TestStart(t *testing.T) {
	home := roster("H", 8)
	away := roster("A", 8)

	tests := []struct {
		name    string
		setup   Setup
		wantErr error
	}{
		{
			name:  "home only with unknown away roster",
			setup: Setup{Name: "m", Home: TeamSetup{Name: "Falcons", Roster: home, Lineup: ids(home, 0, 1, 2, 3, 4, 5)}},
		},
		{
			name: "both sides",
			setup: Setup{
				Name: "m",
				Home: TeamSetup{Name: "Falcons", Roster: home, Lineup: ids(home, 0, 1, 2, 3, 4, 5), Libero: home[6].Player},
				Away: TeamSetup{Name: "Rivals", Roster: away, Lineup: ids(away, 2, 3, 4, 5, 6, 7)},
			},
		},
		{
			name:    "five players",
			setup:   Setup{Name: "m", Home: TeamSetup{Name: "Falcons", Roster: home, Lineup: ids(home, 0, 1, 2, 3, 4)}},
			wantErr: ErrInvalidLineupSize,
		},
		{
			name:    "duplicate player",
			setup:   Setup{Name: "m", Home: TeamSetup{Name: "Falcons", Roster: home, Lineup: ids(home, 0, 1, 2, 3, 4, 4)}},
			wantErr: ErrDuplicatePlayer,
		},
		{
			name: "player from another roster",
			setup: Setup{Name: "m", Home: TeamSetup{
				Name:   "Falcons",
				Roster: home,
				Lineup: append(ids(home, 0, 1, 2, 3, 4), away[0].Player),
			}},
			wantErr: ErrNotOnRoster,
		},
		{
			name: "libero duplicates lineup entry",
			setup: Setup{Name: "m", Home: TeamSetup{
				Name: "Falcons", Roster: home, Lineup: ids(home, 0, 1, 2, 3, 4, 5), Libero: home[2].Player,
			}},
			wantErr: ErrLiberoInLineup,
		},
		{
			name: "away roster known but no lineup",
			setup: Setup{
				Name: "m",
				Home: TeamSetup{Name: "Falcons", Roster: home, Lineup: ids(home, 0, 1, 2, 3, 4, 5)},
				Away: TeamSetup{Name: "Rivals", Roster: away},
			},
			wantErr: ErrInvalidLineupSize,
		},
		{
			name:    "missing name",
			setup:   Setup{Home: TeamSetup{Name: "Falcons", Lineup: ids(home, 0, 1, 2, 3, 4, 5)}},
			wantErr: ErrMissingMatchName,
		},
		{
			name:    "unknown first serve",
			setup:   Setup{Name: "m", FirstServe: "both", Home: TeamSetup{Name: "Falcons", Lineup: ids(home, 0, 1, 2, 3, 4, 5)}},
			wantErr: ErrUnknownSide,
		},
		{
			name:    "set out of range",
			setup:   Setup{Name: "m", Set: 6, Home: TeamSetup{Name: "Falcons", Lineup: ids(home, 0, 1, 2, 3, 4, 5)}},
			wantErr: ErrInvalidSetNumber,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Start(tt.setup)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, IsValidation(err))
				assert.Nil(t, m)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, NewMatchState(SideHome), m.State())
			assert.Equal(t, 1, m.SetNumber())
		})
	}
}

func TestStart_ValidationFieldNamesSide(t *testing.T) {
	home := roster("H", 8)
	_, err := Start(Setup{Name: "m", Home: TeamSetup{Name: "Falcons", Roster: home, Lineup: ids(home, 0, 0, 1, 2, 3, 4)}})
	var v *ValidationError
	require.ErrorAs(t, err, &v)
	assert.Equal(t, "home.lineup", v.Field)
}

func TestStart_AwayLiberoWithoutLineup(t *testing.T) {
	home := roster("H", 8)
	_, err := Start(Setup{
		Name: "m",
		Home: TeamSetup{Name: "Falcons", Roster: home, Lineup: ids(home, 0, 1, 2, 3, 4, 5)},
		Away: TeamSetup{Name: "Rivals", Libero: "#9 Libero"},
	})
	var v *ValidationError
	require.ErrorAs(t, err, &v)
	assert.Equal(t, "away.libero", v.Field)
	assert.ErrorIs(t, err, ErrLiberoWithoutLineup)
}

func TestMatch_Label(t *testing.T) {
	m, _ := newTestMatch(t)
	assert.Equal(t, "2026-10-18_League Day", m.Label())
}

func TestMatch_Substitute(t *testing.T) {
	t.Run("replaces slot in place", func(t *testing.T) {
		m, home := newTestMatch(t)
		require.NoError(t, m.AddPoint(SideAway))
		before := m.State()

		out, err := m.Substitute(SideHome, 2, home[9].Player)
		require.NoError(t, err)
		assert.Equal(t, home[1].Player, out)

		l, ok := m.Lineup(SideHome)
		require.True(t, ok)
		assert.Equal(t, home[9].Player, l.Slots[1])
		assert.Equal(t, before, m.State())

		seen := map[PlayerID]bool{}
		for _, p := range l.Slots {
			assert.False(t, seen[p])
			seen[p] = true
		}
	})

	t.Run("substitute keeps role mapping", func(t *testing.T) {
		m, home := newTestMatch(t)
		require.NoError(t, m.ManualRotate(SideHome, DirectionForward))
		before, _ := m.Lineup(SideHome)
		role, _ := RoleOfPlayer(before, 2, before.Slots[4])

		_, err := m.Substitute(SideHome, 5, home[8].Player)
		require.NoError(t, err)
		after, _ := m.Lineup(SideHome)
		got, ok := RoleOfPlayer(after, 2, home[8].Player)
		require.True(t, ok)
		assert.Equal(t, role, got)
	})

	t.Run("libero entering a slot loses libero designation", func(t *testing.T) {
		m, home := newTestMatch(t)
		_, err := m.Substitute(SideHome, 1, home[4].Player)
		require.NoError(t, err)
		l, _ := m.Lineup(SideHome)
		assert.Empty(t, l.Libero)
	})

	errCases := []struct {
		name     string
		side     Side
		slot     int
		incoming func(home []RosterEntry) PlayerID
		wantErr  error
		state    bool
	}{
		{name: "player already on court", side: SideHome, slot: 3, incoming: func(h []RosterEntry) PlayerID { return h[0].Player }, wantErr: ErrPlayerFielded},
		{name: "slot zero", side: SideHome, slot: 0, incoming: func(h []RosterEntry) PlayerID { return h[9].Player }, wantErr: ErrInvalidSlot},
		{name: "slot seven", side: SideHome, slot: 7, incoming: func(h []RosterEntry) PlayerID { return h[9].Player }, wantErr: ErrInvalidSlot},
		{name: "not on roster", side: SideHome, slot: 1, incoming: func([]RosterEntry) PlayerID { return "#99 Stranger" }, wantErr: ErrNotOnRoster},
		{name: "unknown side", side: Side("x"), slot: 1, incoming: func(h []RosterEntry) PlayerID { return h[9].Player }, wantErr: ErrUnknownSide},
		{name: "away side not started", side: SideAway, slot: 1, incoming: func([]RosterEntry) PlayerID { return "#1 A" }, wantErr: ErrLineupNotSet, state: true},
	}
	for _, tt := range errCases {
		t.Run(tt.name, func(t *testing.T) {
			m, home := newTestMatch(t)
			before, _ := m.Lineup(SideHome)

			_, err := m.Substitute(tt.side, tt.slot, tt.incoming(home))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.state, IsState(err))

			after, _ := m.Lineup(SideHome)
			assert.Equal(t, before, after)
		})
	}
}

func TestMatch_ResetAndSetLineup(t *testing.T) {
	m, home := newTestMatch(t)
	require.NoError(t, m.AddPoint(SideHome))
	_, _, err := m.RecordRally(RallyInput{Side: SideHome, Reception: ReceptionA, Result: ResultContinue})
	require.NoError(t, err)
	state := m.State()

	require.NoError(t, m.ResetLineup(SideHome))
	_, ok := m.Lineup(SideHome)
	assert.False(t, ok)
	assert.Equal(t, state, m.State())
	assert.Len(t, m.PendingRallies(), 1)

	_, err = m.Substitute(SideHome, 1, home[9].Player)
	assert.ErrorIs(t, err, ErrLineupNotSet)

	_, _, err = m.RecordRally(RallyInput{Side: SideHome, Reception: ReceptionA, Result: ResultKill})
	assert.ErrorIs(t, err, ErrLineupNotSet)

	require.NoError(t, m.SetLineup(SideHome, ids(home, 4, 5, 6, 7, 8, 9), ""))
	l, ok := m.Lineup(SideHome)
	require.True(t, ok)
	assert.Equal(t, home[4].Player, l.Slots[0])
	assert.Equal(t, state, m.State())
}

func TestMatch_RecordRallyOutcomes(t *testing.T) {
	tests := []struct {
		name       string
		in         RallyInput
		wantResult Result
		wantHome   int
		wantAway   int
		wantServe  Side
	}{
		{name: "kill scores for recording side", in: RallyInput{Side: SideHome, Reception: ReceptionA, Result: ResultKill}, wantResult: ResultKill, wantHome: 1, wantServe: SideHome},
		{name: "attack error scores for opponent", in: RallyInput{Side: SideHome, Reception: ReceptionB, Result: ResultError}, wantResult: ResultError, wantAway: 1, wantServe: SideAway},
		{name: "blocked scores for opponent", in: RallyInput{Side: SideHome, Reception: ReceptionC, Result: ResultBlocked}, wantResult: ResultBlocked, wantAway: 1, wantServe: SideAway},
		{name: "effective keeps rally alive", in: RallyInput{Side: SideHome, Reception: ReceptionA, Result: ResultEffective}, wantResult: ResultEffective, wantServe: SideHome},
		{name: "continue keeps rally alive", in: RallyInput{Side: SideHome, Reception: ReceptionOther, Result: ResultContinue}, wantResult: ResultContinue, wantServe: SideHome},
		{name: "reception error is opponent ace", in: RallyInput{Side: SideHome, Reception: ReceptionError, Result: ResultKill}, wantResult: ResultRecError, wantAway: 1, wantServe: SideAway},
		{name: "opponent service error", in: RallyInput{Side: SideHome, Reception: ReceptionOppServiceError}, wantResult: ResultOppServiceError, wantHome: 1, wantServe: SideHome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestMatch(t)
			before := m.State()

			rec, appended, err := m.RecordRally(tt.in)
			require.NoError(t, err)
			assert.True(t, appended)
			assert.Equal(t, tt.wantResult, rec.Result)
			assert.Equal(t, before, rec.Snapshot, "snapshot is taken before scoring")

			s := m.State()
			assert.Equal(t, tt.wantHome, s.HomeScore)
			assert.Equal(t, tt.wantAway, s.AwayScore)
			assert.Equal(t, tt.wantServe, s.Serve)
		})
	}
}

func TestMatch_RecordRallyRecordFields(t *testing.T) {
	m, home := newTestMatch(t)
	require.NoError(t, m.AddPoint(SideAway))

	rec, _, err := m.RecordRally(RallyInput{
		Side:      SideHome,
		Reception: ReceptionA,
		Setter:    home[3].Player,
		Zone:      ZoneLeft,
		Hitter:    home[4].Player,
		Result:    ResultKill,
		X:         120,
		Y:         88,
		EventID:   "evt-1",
	})
	require.NoError(t, err)

	want := RallyRecord{
		ID:             "r1",
		MatchID:        "match-1",
		MatchLabel:     "2026-10-18_League Day",
		Set:            1,
		Team:           "Falcons",
		Side:           SideHome,
		Reception:      ReceptionA,
		Setter:         home[3].Player,
		Zone:           ZoneLeft,
		Hitter:         home[4].Player,
		HitterPosition: "L",
		Result:         ResultKill,
		X:              120,
		Y:              88,
		Snapshot:       MatchState{AwayScore: 1, Serve: SideAway, HomeRotation: 1, AwayRotation: 2},
		RecordedAt:     fixedNow,
		EventID:        "evt-1",
	}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, rec.Rotation())
}

func TestMatch_RecordRallyRejects(t *testing.T) {
	tests := []struct {
		name    string
		in      RallyInput
		wantErr error
	}{
		{name: "unknown side", in: RallyInput{Side: "ref", Reception: ReceptionA, Result: ResultKill}, wantErr: ErrUnknownSide},
		{name: "unknown reception", in: RallyInput{Side: SideHome, Reception: "d_pass", Result: ResultKill}, wantErr: ErrInvalidReception},
		{name: "missing result", in: RallyInput{Side: SideHome, Reception: ReceptionA}, wantErr: ErrInvalidResult},
		{name: "derived result cannot be chosen", in: RallyInput{Side: SideHome, Reception: ReceptionA, Result: ResultRecError}, wantErr: ErrInvalidResult},
		{name: "unknown zone", in: RallyInput{Side: SideHome, Reception: ReceptionA, Result: ResultKill, Zone: "pipe"}, wantErr: ErrInvalidZone},
		{name: "bench hitter", in: RallyInput{Side: SideHome, Reception: ReceptionA, Result: ResultKill, Hitter: "#10 H10"}, wantErr: ErrNotInActiveRoster},
		{name: "bench setter", in: RallyInput{Side: SideHome, Reception: ReceptionA, Result: ResultKill, Setter: "#10 H10"}, wantErr: ErrNotInActiveRoster},
		{name: "negative coordinate", in: RallyInput{Side: SideHome, Reception: ReceptionA, Result: ResultKill, X: -1}, wantErr: ErrInvalidCoordinates},
		{name: "away side not started", in: RallyInput{Side: SideAway, Reception: ReceptionA, Result: ResultKill}, wantErr: ErrLineupNotSet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestMatch(t)
			_, _, err := m.RecordRally(tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, NewMatchState(SideHome), m.State())
			assert.Empty(t, m.PendingRallies())
		})
	}
}

func TestMatch_RecordRallyDuplicateEvent(t *testing.T) {
	m, _ := newTestMatch(t)
	in := RallyInput{Side: SideHome, Reception: ReceptionA, Result: ResultKill, EventID: "frame-42"}

	first, appended, err := m.RecordRally(in)
	require.NoError(t, err)
	require.True(t, appended)

	again, appended, err := m.RecordRally(in)
	require.NoError(t, err)
	assert.False(t, appended)
	assert.Equal(t, first, again)
	assert.Len(t, m.PendingRallies(), 1)
	assert.Equal(t, 1, m.State().HomeScore)
}

func TestMatch_UndoLast(t *testing.T) {
	m, _ := newTestMatch(t)

	_, err := m.UndoLast()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyLedger)
	assert.True(t, IsState(err))

	var recs []RallyRecord
	for _, res := range []Result{ResultKill, ResultError, ResultKill} {
		rec, _, err := m.RecordRally(RallyInput{Side: SideHome, Reception: ReceptionA, Result: res})
		require.NoError(t, err)
		recs = append(recs, rec)
	}
	stateAfter := m.State()

	undone, err := m.UndoLast()
	require.NoError(t, err)
	assert.Equal(t, recs[2], undone)
	_, err = m.UndoLast()
	require.NoError(t, err)

	assert.Equal(t, recs[:1], m.PendingRallies())
	assert.Equal(t, stateAfter, m.State(), "undo leaves the scoreboard alone")
}

func TestMatch_RevertLastRally(t *testing.T) {
	m, _ := newTestMatch(t)
	_, err := m.RevertLastRally()
	assert.ErrorIs(t, err, ErrEmptyLedger)

	_, _, err = m.RecordRally(RallyInput{Side: SideHome, Reception: ReceptionA, Result: ResultKill})
	require.NoError(t, err)
	afterFirst := m.State()

	_, _, err = m.RecordRally(RallyInput{Side: SideHome, Reception: ReceptionError})
	require.NoError(t, err)
	require.Equal(t, SideAway, m.State().Serve)

	reverted, err := m.RevertLastRally()
	require.NoError(t, err)
	assert.Equal(t, ResultRecError, reverted.Result)
	assert.Equal(t, afterFirst, m.State())
	assert.Len(t, m.PendingRallies(), 1)
}

func TestMatch_FlushAndEnd(t *testing.T) {
	m, _ := newTestMatch(t)
	for i := 0; i < 3; i++ {
		_, _, err := m.RecordRally(RallyInput{Side: SideHome, Reception: ReceptionB, Result: ResultKill})
		require.NoError(t, err)
	}

	flushed := m.Flush()
	assert.Len(t, flushed, 3)
	assert.Empty(t, m.PendingRallies())
	assert.Equal(t, 3, m.State().HomeScore, "flush does not reset the scoreboard")
	assert.Empty(t, m.Flush())

	_, _, err := m.RecordRally(RallyInput{Side: SideHome, Reception: ReceptionB, Result: ResultError})
	require.NoError(t, err)
	require.NoError(t, m.ManualRotate(SideAway, DirectionForward))

	ended := m.End()
	assert.Len(t, ended, 1)
	assert.Equal(t, NewMatchState(SideHome), m.State())
	assert.Empty(t, m.PendingRallies())
	_, ok := m.Lineup(SideHome)
	assert.False(t, ok)
}

// Serving side wins: score only.
func TestScenario_HoldServe(t *testing.T) {
	m, _ := newTestMatch(t)
	require.NoError(t, m.AddPoint(SideHome))
	assert.Equal(t, MatchState{HomeScore: 1, Serve: SideHome, HomeRotation: 1, AwayRotation: 1}, m.State())
}

// Opponent wins while home serves: away rotates 1 -> 2 and takes serve.
func TestScenario_SideOutToAway(t *testing.T) {
	m, _ := newTestMatch(t)
	require.NoError(t, m.AddPoint(SideAway))
	assert.Equal(t, MatchState{AwayScore: 1, Serve: SideAway, HomeRotation: 1, AwayRotation: 2}, m.State())
}

// Manual rotation at 6 wraps to 1 with nothing else changed.
func TestScenario_ManualRotateWraps(t *testing.T) {
	m, _ := newTestMatch(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, m.ManualRotate(SideHome, DirectionForward))
	}
	require.Equal(t, 6, m.State().HomeRotation)
	require.NoError(t, m.ManualRotate(SideHome, DirectionForward))
	assert.Equal(t, NewMatchState(SideHome), m.State())
}

// Substitution at slot 3 while rotation 4: P6 is held by lineup index 2.
func TestScenario_SubstitutionUnderRotation(t *testing.T) {
	m, home := newTestMatch(t)
	for i := 0; i < 3; i++ {
		require.NoError(t, m.ManualRotate(SideHome, DirectionForward))
	}
	_, err := m.Substitute(SideHome, 3, home[9].Player)
	require.NoError(t, err)
	l, _ := m.Lineup(SideHome)
	assert.Equal(t, home[9].Player, Occupant(l, 4, RoleBackCenter))
}

func TestMatch_ViewBenchAndCourt(t *testing.T) {
	m, home := newTestMatch(t)
	v := m.View()

	assert.True(t, v.Home.Started)
	assert.False(t, v.Away.Started)
	assert.Equal(t, "Rivals", v.Away.Team)
	require.Len(t, v.Home.Court, LineupSize)
	assert.Equal(t, "P1", v.Home.Court[0].Role)
	assert.Equal(t, home[0].Player, v.Home.Court[0].Player)
	assert.Len(t, v.Home.Active, LineupSize+1)
	assert.ElementsMatch(t, ids(home, 4, 7, 8, 9), v.Home.Bench)
	assert.Nil(t, v.LastRally)
}
