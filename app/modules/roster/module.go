package roster

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"

	matchdomain "github.com/Black-And-White-Club/volley-analyst/app/modules/match/domain"
	rosterservice "github.com/Black-And-White-Club/volley-analyst/app/modules/roster/application"
	rosterhandlers "github.com/Black-And-White-Club/volley-analyst/app/modules/roster/infrastructure/handlers"
	rosterdb "github.com/Black-And-White-Club/volley-analyst/app/modules/roster/infrastructure/repositories"
	rostersheet "github.com/Black-And-White-Club/volley-analyst/app/modules/roster/infrastructure/sheet"
	"github.com/Black-And-White-Club/volley-analyst/app/observability"
	"github.com/Black-And-White-Club/volley-analyst/config"
)

// Module represents the roster module.
type Module struct {
	RosterService rosterservice.Service
	obs           observability.Observability
}

// NewRosterModule creates the roster module. Rosters live in Postgres when db
// is set and in the roster workbook otherwise.
func NewRosterModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	db *bun.DB,
	httpRouter chi.Router,
	guard rosterhandlers.Guard,
	middleware ...func(http.Handler) http.Handler,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "roster.NewRosterModule initializing")

	var repo rosterdb.Repository
	if db != nil {
		repo = rosterdb.NewRepository(db)
	} else {
		logger.InfoContext(ctx, "No database configured, keeping rosters in workbook", "path", cfg.Roster.XLSXPath)
		repo = rostersheet.NewStore(cfg.Roster.XLSXPath)
	}

	var metrics observability.OperationMetrics
	if obs.Registry != nil {
		metrics = observability.NewOperationMetrics(obs.Registry, "roster")
	}

	service := rosterservice.NewRosterService(repo, logger, metrics, obs.Tracer, db)

	if httpRouter != nil {
		handlers := rosterhandlers.NewRosterHandlers(service, logger)
		httpRouter.Route("/api/teams", func(r chi.Router) {
			for _, mw := range middleware {
				r.Use(mw)
			}
			handlers.Routes(r, guard)
		})
	}

	return &Module{RosterService: service, obs: obs}, nil
}

// Lookup returns a team's roster in jersey order for the match engine. An
// unknown team yields an empty roster.
func (m *Module) Lookup(ctx context.Context, team string) ([]matchdomain.RosterEntry, error) {
	roster, err := m.RosterService.GetRoster(ctx, team)
	if err != nil {
		if errors.Is(err, rosterservice.ErrTeamNotFound) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]matchdomain.RosterEntry, 0, len(roster.Players))
	for _, p := range roster.Players {
		out = append(out, matchdomain.RosterEntry{
			Player:   matchdomain.PlayerID(p.Key),
			Position: string(p.Position),
		})
	}
	return out, nil
}
