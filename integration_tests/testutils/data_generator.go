package testutils

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	matchdomain "github.com/Black-And-White-Club/volley-analyst/app/modules/match/domain"
	rosterdomain "github.com/Black-And-White-Club/volley-analyst/app/modules/roster/domain"
)

// TestDataGenerator produces reproducible rosters and rally records.
type TestDataGenerator struct {
	faker *gofakeit.Faker
}

// NewTestDataGenerator seeds the generator; without a seed it uses 42.
func NewTestDataGenerator(seed ...uint64) *TestDataGenerator {
	s := uint64(42)
	if len(seed) > 0 {
		s = seed[0]
	}
	return &TestDataGenerator{faker: gofakeit.New(s)}
}

// TeamName returns a team name that fits the roster limits.
func (g *TestDataGenerator) TeamName() string {
	return fmt.Sprintf("%s %s", g.faker.City(), g.faker.Animal())
}

// Players returns count numbered players with distinct jerseys.
func (g *TestDataGenerator) Players(count int) []rosterdomain.Player {
	players := make([]rosterdomain.Player, 0, count)
	for i := 0; i < count; i++ {
		number := i + 1
		pos := rosterdomain.Positions[g.faker.IntN(len(rosterdomain.Positions))]
		p, err := rosterdomain.NewPlayer(g.faker.LastName(), &number, pos)
		if err != nil {
			panic(err)
		}
		players = append(players, p)
	}
	return players
}

// Rallies returns count records for one match, one second apart.
func (g *TestDataGenerator) Rallies(matchID, label, team string, count int) []matchdomain.RallyRecord {
	receptions := []matchdomain.Reception{matchdomain.ReceptionA, matchdomain.ReceptionB, matchdomain.ReceptionC}
	results := []matchdomain.Result{matchdomain.ResultKill, matchdomain.ResultError, matchdomain.ResultContinue}
	zones := []matchdomain.Zone{matchdomain.ZoneLeft, matchdomain.ZoneCenter, matchdomain.ZoneRight}

	base := time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC)
	out := make([]matchdomain.RallyRecord, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, matchdomain.RallyRecord{
			ID:         uuid.NewString(),
			MatchID:    matchID,
			MatchLabel: label,
			Set:        1,
			Team:       team,
			Side:       matchdomain.SideHome,
			Reception:  receptions[g.faker.IntN(len(receptions))],
			Setter:     matchdomain.PlayerID(fmt.Sprintf("#%d %s", g.faker.IntRange(1, 99), g.faker.LastName())),
			Zone:       zones[g.faker.IntN(len(zones))],
			Hitter:     matchdomain.PlayerID(fmt.Sprintf("#%d %s", g.faker.IntRange(1, 99), g.faker.LastName())),
			Result:     results[g.faker.IntN(len(results))],
			X:          float64(g.faker.IntRange(0, 100)) / 100,
			Y:          float64(g.faker.IntRange(0, 100)) / 100,
			Snapshot: matchdomain.MatchState{
				HomeScore:    i,
				AwayScore:    i / 2,
				Serve:        matchdomain.SideHome,
				HomeRotation: i%6 + 1,
				AwayRotation: 1,
			},
			RecordedAt: base.Add(time.Duration(i) * time.Second),
			EventID:    uuid.NewString(),
		})
	}
	return out
}
