package matchservice

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	matchdomain "github.com/Black-And-White-Club/volley-analyst/app/modules/match/domain"
	"github.com/Black-And-White-Club/volley-analyst/pkg/attr"
	"github.com/Black-And-White-Club/volley-analyst/pkg/results"
	"go.opentelemetry.io/otel/trace"
)

// MatchService implements the Service interface.
type MatchService struct {
	sessions  *registry
	roster    RosterLookup
	persister RallyPersister
	queue     BatchQueue
	logger    *slog.Logger
	metrics   Metrics
	tracer    trace.Tracer
	clock     func() time.Time
}

// NewMatchService creates a new MatchService. persister and queue may be nil:
// without a persister Flush only hands records back, without a queue a
// failed batch stays in the ledger.
func NewMatchService(
	roster RosterLookup,
	persister RallyPersister,
	queue BatchQueue,
	logger *slog.Logger,
	metrics Metrics,
	tracer trace.Tracer,
) *MatchService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &MatchService{
		sessions:  newRegistry(),
		roster:    roster,
		persister: persister,
		queue:     queue,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		clock:     time.Now,
	}
}

type viewResult = results.OperationResult[*matchdomain.View, error]

func success(m *matchdomain.Match) (viewResult, error) {
	v := m.View()
	return results.SuccessResult[*matchdomain.View, error](&v), nil
}

// StartMatch opens a new session after checking lineups against both rosters.
func (s *MatchService) StartMatch(ctx context.Context, req StartMatchRequest) (*matchdomain.View, error) {
	result, err := withTelemetry(s, ctx, "StartMatch", req.Name, func(ctx context.Context) (viewResult, error) {
		return s.startMatchLogic(ctx, req)
	})
	return unwrap(result, err)
}

func (s *MatchService) startMatchLogic(ctx context.Context, req StartMatchRequest) (viewResult, error) {
	if strings.TrimSpace(req.HomeTeam) == "" {
		return results.FailureResult[*matchdomain.View, error](&matchdomain.ValidationError{Field: "home.name", Err: matchdomain.ErrMissingTeamName}), nil
	}

	homeRoster, err := s.lookupRoster(ctx, req.HomeTeam)
	if err != nil {
		return viewResult{}, err
	}
	if len(homeRoster) == 0 {
		return results.FailureResult[*matchdomain.View, error](&matchdomain.ValidationError{Field: "home.name", Err: ErrUnknownTeam}), nil
	}

	var awayRoster []matchdomain.RosterEntry
	if strings.TrimSpace(req.AwayTeam) != "" {
		if awayRoster, err = s.lookupRoster(ctx, req.AwayTeam); err != nil {
			return viewResult{}, err
		}
	}

	playedOn := req.PlayedOn
	if playedOn.IsZero() {
		playedOn = s.clock()
	}

	m, err := matchdomain.Start(matchdomain.Setup{
		Name:     req.Name,
		PlayedOn: playedOn,
		Set:      req.Set,
		Home: matchdomain.TeamSetup{
			Name:   req.HomeTeam,
			Roster: homeRoster,
			Lineup: req.HomeLineup,
			Libero: req.HomeLibero,
		},
		Away: matchdomain.TeamSetup{
			Name:   req.AwayTeam,
			Roster: awayRoster,
			Lineup: req.AwayLineup,
			Libero: req.AwayLibero,
		},
		FirstServe: req.FirstServe,
	}, matchdomain.WithClock(s.clock))
	if err != nil {
		return domainFailure[*matchdomain.View](err)
	}

	active := s.sessions.add(m)
	s.metrics.SetActiveMatches(ctx, active)
	s.logger.InfoContext(ctx, "Match started",
		attr.MatchID(m.ID()),
		attr.String("label", m.Label()),
		attr.Bool("away_started", len(req.AwayLineup) > 0),
	)
	return success(m)
}

func (s *MatchService) lookupRoster(ctx context.Context, team string) ([]matchdomain.RosterEntry, error) {
	if s.roster == nil {
		return nil, nil
	}
	entries, err := s.roster.Lookup(ctx, team)
	if err != nil {
		return nil, &matchdomain.CollaboratorError{Collaborator: "roster lookup", Err: err}
	}
	return entries, nil
}

// GetMatch returns the read model of a match.
func (s *MatchService) GetMatch(ctx context.Context, matchID string) (*matchdomain.View, error) {
	result, err := withTelemetry(s, ctx, "GetMatch", matchID, func(ctx context.Context) (viewResult, error) {
		return withSession(s, matchID, success)
	})
	return unwrap(result, err)
}

// ListMatches returns the ids of open sessions.
func (s *MatchService) ListMatches(ctx context.Context) ([]string, error) {
	return s.sessions.ids(), nil
}

// AddPoint awards one rally to winner.
func (s *MatchService) AddPoint(ctx context.Context, matchID string, winner matchdomain.Side) (*matchdomain.View, error) {
	result, err := withTelemetry(s, ctx, "AddPoint", matchID, func(ctx context.Context) (viewResult, error) {
		return withSession(s, matchID, func(m *matchdomain.Match) (viewResult, error) {
			if err := m.AddPoint(winner); err != nil {
				return domainFailure[*matchdomain.View](err)
			}
			return success(m)
		})
	})
	return unwrap(result, err)
}

// AdjustScore removes one point from side.
func (s *MatchService) AdjustScore(ctx context.Context, matchID string, side matchdomain.Side) (*matchdomain.View, error) {
	result, err := withTelemetry(s, ctx, "AdjustScore", matchID, func(ctx context.Context) (viewResult, error) {
		return withSession(s, matchID, func(m *matchdomain.Match) (viewResult, error) {
			if err := m.ManualAdjustScore(side); err != nil {
				return domainFailure[*matchdomain.View](err)
			}
			return success(m)
		})
	})
	return unwrap(result, err)
}

// Rotate moves side's rotation one step.
func (s *MatchService) Rotate(ctx context.Context, matchID string, side matchdomain.Side, dir matchdomain.Direction) (*matchdomain.View, error) {
	result, err := withTelemetry(s, ctx, "Rotate", matchID, func(ctx context.Context) (viewResult, error) {
		return withSession(s, matchID, func(m *matchdomain.Match) (viewResult, error) {
			if err := m.ManualRotate(side, dir); err != nil {
				return domainFailure[*matchdomain.View](err)
			}
			return success(m)
		})
	})
	return unwrap(result, err)
}

// ChangeSet moves the match to set.
func (s *MatchService) ChangeSet(ctx context.Context, matchID string, set int) (*matchdomain.View, error) {
	result, err := withTelemetry(s, ctx, "ChangeSet", matchID, func(ctx context.Context) (viewResult, error) {
		return withSession(s, matchID, func(m *matchdomain.Match) (viewResult, error) {
			if err := m.SetSetNumber(set); err != nil {
				return domainFailure[*matchdomain.View](err)
			}
			return success(m)
		})
	})
	return unwrap(result, err)
}

// Substitute swaps a bench player into slot.
func (s *MatchService) Substitute(ctx context.Context, matchID string, side matchdomain.Side, slot int, incoming matchdomain.PlayerID) (*SubstitutionResult, error) {
	result, err := withTelemetry(s, ctx, "Substitute", matchID, func(ctx context.Context) (results.OperationResult[*SubstitutionResult, error], error) {
		return withSession(s, matchID, func(m *matchdomain.Match) (results.OperationResult[*SubstitutionResult, error], error) {
			outgoing, err := m.Substitute(side, slot, incoming)
			if err != nil {
				return domainFailure[*SubstitutionResult](err)
			}
			s.logger.InfoContext(ctx, "Substitution applied",
				attr.MatchID(matchID),
				attr.Side(string(side)),
				attr.Int("slot", slot),
				attr.String("outgoing", string(outgoing)),
				attr.String("incoming", string(incoming)),
			)
			return results.SuccessResult[*SubstitutionResult, error](&SubstitutionResult{Outgoing: outgoing, View: m.View()}), nil
		})
	})
	return unwrap(result, err)
}

// ResetLineup clears side's lineup.
func (s *MatchService) ResetLineup(ctx context.Context, matchID string, side matchdomain.Side) (*matchdomain.View, error) {
	result, err := withTelemetry(s, ctx, "ResetLineup", matchID, func(ctx context.Context) (viewResult, error) {
		return withSession(s, matchID, func(m *matchdomain.Match) (viewResult, error) {
			if err := m.ResetLineup(side); err != nil {
				return domainFailure[*matchdomain.View](err)
			}
			return success(m)
		})
	})
	return unwrap(result, err)
}

// SetLineup enters a lineup for side after a reset.
func (s *MatchService) SetLineup(ctx context.Context, matchID string, side matchdomain.Side, players []matchdomain.PlayerID, libero matchdomain.PlayerID) (*matchdomain.View, error) {
	result, err := withTelemetry(s, ctx, "SetLineup", matchID, func(ctx context.Context) (viewResult, error) {
		return withSession(s, matchID, func(m *matchdomain.Match) (viewResult, error) {
			if err := m.SetLineup(side, players, libero); err != nil {
				return domainFailure[*matchdomain.View](err)
			}
			return success(m)
		})
	})
	return unwrap(result, err)
}

type rallyResult = results.OperationResult[*RallyResult, error]

// RecordRally appends a rally and applies its point.
func (s *MatchService) RecordRally(ctx context.Context, matchID string, in matchdomain.RallyInput) (*RallyResult, error) {
	result, err := withTelemetry(s, ctx, "RecordRally", matchID, func(ctx context.Context) (rallyResult, error) {
		return withSession(s, matchID, func(m *matchdomain.Match) (rallyResult, error) {
			rec, appended, err := m.RecordRally(in)
			if err != nil {
				return domainFailure[*RallyResult](err)
			}
			if appended {
				s.metrics.RecordRally(ctx, rec.Side, rec.Result)
			} else {
				s.logger.InfoContext(ctx, "Duplicate rally event ignored",
					attr.MatchID(matchID),
					attr.String("event_id", in.EventID),
				)
			}
			return results.SuccessResult[*RallyResult, error](&RallyResult{Record: rec, Appended: appended, View: m.View()}), nil
		})
	})
	return unwrap(result, err)
}

// UndoLast removes the last record. The scoreboard is left as is.
func (s *MatchService) UndoLast(ctx context.Context, matchID string) (*RallyResult, error) {
	result, err := withTelemetry(s, ctx, "UndoLast", matchID, func(ctx context.Context) (rallyResult, error) {
		return withSession(s, matchID, func(m *matchdomain.Match) (rallyResult, error) {
			rec, err := m.UndoLast()
			if err != nil {
				return domainFailure[*RallyResult](err)
			}
			return results.SuccessResult[*RallyResult, error](&RallyResult{Record: rec, View: m.View()}), nil
		})
	})
	return unwrap(result, err)
}

// RevertLastRally removes the last record and restores its snapshot.
func (s *MatchService) RevertLastRally(ctx context.Context, matchID string) (*RallyResult, error) {
	result, err := withTelemetry(s, ctx, "RevertLastRally", matchID, func(ctx context.Context) (rallyResult, error) {
		return withSession(s, matchID, func(m *matchdomain.Match) (rallyResult, error) {
			rec, err := m.RevertLastRally()
			if err != nil {
				return domainFailure[*RallyResult](err)
			}
			return results.SuccessResult[*RallyResult, error](&RallyResult{Record: rec, View: m.View()}), nil
		})
	})
	return unwrap(result, err)
}

// Positions returns the court view of one side.
func (s *MatchService) Positions(ctx context.Context, matchID string, side matchdomain.Side) (*matchdomain.SideView, error) {
	result, err := withTelemetry(s, ctx, "Positions", matchID, func(ctx context.Context) (results.OperationResult[*matchdomain.SideView, error], error) {
		return withSession(s, matchID, func(m *matchdomain.Match) (results.OperationResult[*matchdomain.SideView, error], error) {
			if err := side.Validate(); err != nil {
				return domainFailure[*matchdomain.SideView](err)
			}
			sv := m.SideView(side)
			return results.SuccessResult[*matchdomain.SideView, error](&sv), nil
		})
	})
	return unwrap(result, err)
}

type flushResult = results.OperationResult[*FlushResult, error]

// Flush persists pending rallies and clears the ledger. When persistence
// fails and no queue accepts the batch, the ledger is left intact.
func (s *MatchService) Flush(ctx context.Context, matchID string) (*FlushResult, error) {
	result, err := withTelemetry(s, ctx, "Flush", matchID, func(ctx context.Context) (flushResult, error) {
		return withSession(s, matchID, func(m *matchdomain.Match) (flushResult, error) {
			out, err := s.handOff(ctx, m)
			if err != nil {
				return flushResult{}, err
			}
			m.Flush()
			out.View = m.View()
			return results.SuccessResult[*FlushResult, error](out), nil
		})
	})
	return unwrap(result, err)
}

// EndMatch persists pending rallies, then zeroes the scoreboard and clears
// both lineups. Nothing changes if the batch cannot be stored or queued.
func (s *MatchService) EndMatch(ctx context.Context, matchID string) (*FlushResult, error) {
	result, err := withTelemetry(s, ctx, "EndMatch", matchID, func(ctx context.Context) (flushResult, error) {
		return withSession(s, matchID, func(m *matchdomain.Match) (flushResult, error) {
			out, err := s.handOff(ctx, m)
			if err != nil {
				return flushResult{}, err
			}
			m.End()
			out.View = m.View()
			s.logger.InfoContext(ctx, "Match ended",
				attr.MatchID(matchID),
				attr.Int("rallies", len(out.Records)),
				attr.Bool("queued", out.Queued),
			)
			return results.SuccessResult[*FlushResult, error](out), nil
		})
	})
	return unwrap(result, err)
}

// CloseMatch persists pending rallies and removes the session. The session
// stays registered if the batch cannot be stored or queued.
func (s *MatchService) CloseMatch(ctx context.Context, matchID string) (*FlushResult, error) {
	result, err := withTelemetry(s, ctx, "CloseMatch", matchID, func(ctx context.Context) (flushResult, error) {
		return withSession(s, matchID, func(m *matchdomain.Match) (flushResult, error) {
			out, err := s.handOff(ctx, m)
			if err != nil {
				return flushResult{}, err
			}
			m.Flush()
			out.View = m.View()
			active, _ := s.sessions.remove(matchID)
			s.metrics.SetActiveMatches(ctx, active)
			s.logger.InfoContext(ctx, "Match closed",
				attr.MatchID(matchID),
				attr.Int("rallies", len(out.Records)),
				attr.Int("active_matches", active),
			)
			return results.SuccessResult[*FlushResult, error](out), nil
		})
	})
	return unwrap(result, err)
}

// handOff sends the pending batch to the persister, falling back to the
// queue. It never mutates the match.
func (s *MatchService) handOff(ctx context.Context, m *matchdomain.Match) (*FlushResult, error) {
	records := m.PendingRallies()
	out := &FlushResult{MatchID: m.ID(), Records: records}
	if len(records) == 0 || s.persister == nil {
		return out, nil
	}

	persistErr := s.persister.PersistRallyBatch(ctx, records)
	if persistErr == nil {
		s.metrics.RecordBatchPersisted(ctx, len(records))
		out.Persisted = true
		return out, nil
	}

	if s.queue == nil {
		return nil, &matchdomain.CollaboratorError{Collaborator: "rally persistence", Err: persistErr}
	}

	s.logger.WarnContext(ctx, "Rally batch not persisted, re-queueing",
		attr.ExtractCorrelationID(ctx),
		attr.MatchID(m.ID()),
		attr.Int("records", len(records)),
		attr.Error(persistErr),
	)
	if qErr := s.queue.EnqueueRallyBatch(ctx, m.ID(), records); qErr != nil {
		return nil, &matchdomain.CollaboratorError{
			Collaborator: "rally persistence",
			Err:          errors.Join(persistErr, qErr),
		}
	}
	s.metrics.RecordBatchRequeued(ctx, len(records))
	out.Queued = true
	return out, nil
}
