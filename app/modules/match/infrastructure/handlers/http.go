package matchhandlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	matchservice "github.com/Black-And-White-Club/volley-analyst/app/modules/match/application"
	matchdomain "github.com/Black-And-White-Club/volley-analyst/app/modules/match/domain"
	"github.com/Black-And-White-Club/volley-analyst/pkg/attr"
	"github.com/Black-And-White-Club/volley-analyst/pkg/jwt"
)

// ErrHistoryNotFound is returned by a HistoryReader with nothing stored.
var ErrHistoryNotFound = errors.New("no rallies stored for match")

// Guard returns middleware admitting callers holding at least role.
type Guard func(role jwt.Role) func(http.Handler) http.Handler

// HistoryReader returns persisted rallies of a match.
type HistoryReader interface {
	History(ctx context.Context, matchID string) ([]matchdomain.RallyRecord, error)
}

// HTTPHandlers serves the operator API of the match module.
type HTTPHandlers struct {
	service matchservice.Service
	history HistoryReader
	dates   *PlayedOnParser
	logger  *slog.Logger
	now     func() time.Time
}

// NewHTTPHandlers creates the operator API handlers.
func NewHTTPHandlers(service matchservice.Service, logger *slog.Logger) *HTTPHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPHandlers{
		service: service,
		dates:   NewPlayedOnParser(),
		logger:  logger,
		now:     time.Now,
	}
}

// WithHistory enables GET /{matchID}/history.
func (h *HTTPHandlers) WithHistory(reader HistoryReader) *HTTPHandlers {
	h.history = reader
	return h
}

// Routes mounts the API on r. A nil guard leaves the routes open.
func (h *HTTPHandlers) Routes(r chi.Router, guard Guard) {
	use := func(role jwt.Role) func(http.Handler) http.Handler {
		if guard == nil {
			return func(next http.Handler) http.Handler { return next }
		}
		return guard(role)
	}

	r.Group(func(r chi.Router) {
		r.Use(use(jwt.RoleViewer))
		r.Get("/", h.HandleListMatches)
		r.Get("/{matchID}", h.HandleGetMatch)
		r.Get("/{matchID}/positions/{side}", h.HandlePositions)
		if h.history != nil {
			r.Get("/{matchID}/history", h.HandleHistory)
		}
	})

	r.Group(func(r chi.Router) {
		r.Use(use(jwt.RoleOperator))
		r.Post("/", h.HandleStartMatch)
		r.Post("/{matchID}/points", h.HandleAddPoint)
		r.Post("/{matchID}/score/adjust", h.HandleAdjustScore)
		r.Post("/{matchID}/rotation", h.HandleRotate)
		r.Put("/{matchID}/set", h.HandleChangeSet)
		r.Post("/{matchID}/substitutions", h.HandleSubstitute)
		r.Put("/{matchID}/lineups/{side}", h.HandleSetLineup)
		r.Delete("/{matchID}/lineups/{side}", h.HandleResetLineup)
		r.Post("/{matchID}/rallies", h.HandleRecordRally)
		r.Delete("/{matchID}/rallies/last", h.HandleUndoLast)
		r.Post("/{matchID}/rallies/last/revert", h.HandleRevertLastRally)
		r.Post("/{matchID}/flush", h.HandleFlush)
		r.Post("/{matchID}/end", h.HandleEndMatch)
		r.Delete("/{matchID}", h.HandleCloseMatch)
	})
}

type startMatchBody struct {
	Name       string                 `json:"name"`
	PlayedOn   string                 `json:"played_on"`
	Set        int                    `json:"set"`
	HomeTeam   string                 `json:"home_team"`
	AwayTeam   string                 `json:"away_team"`
	HomeLineup []matchdomain.PlayerID `json:"home_lineup"`
	AwayLineup []matchdomain.PlayerID `json:"away_lineup"`
	HomeLibero matchdomain.PlayerID   `json:"home_libero"`
	AwayLibero matchdomain.PlayerID   `json:"away_libero"`
	FirstServe matchdomain.Side       `json:"first_serve"`
}

type sideBody struct {
	Side matchdomain.Side `json:"side"`
}

type pointBody struct {
	Winner matchdomain.Side `json:"winner"`
}

type rotateBody struct {
	Side      matchdomain.Side      `json:"side"`
	Direction matchdomain.Direction `json:"direction"`
}

type setBody struct {
	Set int `json:"set"`
}

type substitutionBody struct {
	Side     matchdomain.Side     `json:"side"`
	Slot     int                  `json:"slot"`
	Incoming matchdomain.PlayerID `json:"incoming"`
}

type lineupBody struct {
	Players []matchdomain.PlayerID `json:"players"`
	Libero  matchdomain.PlayerID   `json:"libero"`
}

type rallyBody struct {
	Side      matchdomain.Side      `json:"side"`
	Reception matchdomain.Reception `json:"reception"`
	Setter    matchdomain.PlayerID  `json:"setter"`
	Zone      matchdomain.Zone      `json:"zone"`
	Hitter    matchdomain.PlayerID  `json:"hitter"`
	Result    matchdomain.Result    `json:"result"`
	X         float64               `json:"x"`
	Y         float64               `json:"y"`
	EventID   string                `json:"event_id"`
}

// HandleStartMatch opens a match session.
func (h *HTTPHandlers) HandleStartMatch(w http.ResponseWriter, r *http.Request) {
	var body startMatchBody
	if !h.decode(w, r, &body) {
		return
	}
	playedOn, err := h.dates.Parse(body.PlayedOn, h.now())
	if err != nil {
		h.writeError(w, r, &matchdomain.ValidationError{Field: "played_on", Err: err})
		return
	}

	view, err := h.service.StartMatch(r.Context(), matchservice.StartMatchRequest{
		Name:       body.Name,
		PlayedOn:   playedOn,
		Set:        body.Set,
		HomeTeam:   body.HomeTeam,
		AwayTeam:   body.AwayTeam,
		HomeLineup: body.HomeLineup,
		AwayLineup: body.AwayLineup,
		HomeLibero: body.HomeLibero,
		AwayLibero: body.AwayLibero,
		FirstServe: body.FirstServe,
	})
	h.respond(w, r, http.StatusCreated, view, err)
}

// HandleListMatches lists open match ids.
func (h *HTTPHandlers) HandleListMatches(w http.ResponseWriter, r *http.Request) {
	ids, err := h.service.ListMatches(r.Context())
	h.respond(w, r, http.StatusOK, map[string][]string{"matches": ids}, err)
}

// HandleGetMatch returns the read model of a match.
func (h *HTTPHandlers) HandleGetMatch(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.GetMatch(r.Context(), chi.URLParam(r, "matchID"))
	h.respond(w, r, http.StatusOK, view, err)
}

// HandleAddPoint awards a rally.
func (h *HTTPHandlers) HandleAddPoint(w http.ResponseWriter, r *http.Request) {
	var body pointBody
	if !h.decode(w, r, &body) {
		return
	}
	view, err := h.service.AddPoint(r.Context(), chi.URLParam(r, "matchID"), body.Winner)
	h.respond(w, r, http.StatusOK, view, err)
}

// HandleAdjustScore takes a point off a side.
func (h *HTTPHandlers) HandleAdjustScore(w http.ResponseWriter, r *http.Request) {
	var body sideBody
	if !h.decode(w, r, &body) {
		return
	}
	view, err := h.service.AdjustScore(r.Context(), chi.URLParam(r, "matchID"), body.Side)
	h.respond(w, r, http.StatusOK, view, err)
}

// HandleRotate rotates a side manually.
func (h *HTTPHandlers) HandleRotate(w http.ResponseWriter, r *http.Request) {
	var body rotateBody
	if !h.decode(w, r, &body) {
		return
	}
	view, err := h.service.Rotate(r.Context(), chi.URLParam(r, "matchID"), body.Side, body.Direction)
	h.respond(w, r, http.StatusOK, view, err)
}

// HandleChangeSet moves the match to another set.
func (h *HTTPHandlers) HandleChangeSet(w http.ResponseWriter, r *http.Request) {
	var body setBody
	if !h.decode(w, r, &body) {
		return
	}
	view, err := h.service.ChangeSet(r.Context(), chi.URLParam(r, "matchID"), body.Set)
	h.respond(w, r, http.StatusOK, view, err)
}

// HandleSubstitute swaps a bench player into a slot.
func (h *HTTPHandlers) HandleSubstitute(w http.ResponseWriter, r *http.Request) {
	var body substitutionBody
	if !h.decode(w, r, &body) {
		return
	}
	res, err := h.service.Substitute(r.Context(), chi.URLParam(r, "matchID"), body.Side, body.Slot, body.Incoming)
	h.respond(w, r, http.StatusOK, res, err)
}

// HandleSetLineup enters a lineup for a side.
func (h *HTTPHandlers) HandleSetLineup(w http.ResponseWriter, r *http.Request) {
	var body lineupBody
	if !h.decode(w, r, &body) {
		return
	}
	view, err := h.service.SetLineup(r.Context(), chi.URLParam(r, "matchID"), matchdomain.Side(chi.URLParam(r, "side")), body.Players, body.Libero)
	h.respond(w, r, http.StatusOK, view, err)
}

// HandleResetLineup clears a side's lineup.
func (h *HTTPHandlers) HandleResetLineup(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.ResetLineup(r.Context(), chi.URLParam(r, "matchID"), matchdomain.Side(chi.URLParam(r, "side")))
	h.respond(w, r, http.StatusOK, view, err)
}

// HandleRecordRally records an operator-entered rally.
func (h *HTTPHandlers) HandleRecordRally(w http.ResponseWriter, r *http.Request) {
	var body rallyBody
	if !h.decode(w, r, &body) {
		return
	}
	res, err := h.service.RecordRally(r.Context(), chi.URLParam(r, "matchID"), matchdomain.RallyInput{
		Side:      body.Side,
		Reception: body.Reception,
		Setter:    body.Setter,
		Zone:      body.Zone,
		Hitter:    body.Hitter,
		Result:    body.Result,
		X:         body.X,
		Y:         body.Y,
		EventID:   body.EventID,
	})
	status := http.StatusCreated
	if res != nil && !res.Appended {
		status = http.StatusOK
	}
	h.respond(w, r, status, res, err)
}

// HandleUndoLast drops the last pending rally.
func (h *HTTPHandlers) HandleUndoLast(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.UndoLast(r.Context(), chi.URLParam(r, "matchID"))
	h.respond(w, r, http.StatusOK, res, err)
}

// HandleRevertLastRally drops the last rally and restores its scoreboard.
func (h *HTTPHandlers) HandleRevertLastRally(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.RevertLastRally(r.Context(), chi.URLParam(r, "matchID"))
	h.respond(w, r, http.StatusOK, res, err)
}

// HandlePositions returns the court roles of a side.
func (h *HTTPHandlers) HandlePositions(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Positions(r.Context(), chi.URLParam(r, "matchID"), matchdomain.Side(chi.URLParam(r, "side")))
	h.respond(w, r, http.StatusOK, view, err)
}

// HandleHistory returns the persisted rallies of a match.
func (h *HTTPHandlers) HandleHistory(w http.ResponseWriter, r *http.Request) {
	records, err := h.history.History(r.Context(), chi.URLParam(r, "matchID"))
	if err != nil {
		if errors.Is(err, ErrHistoryNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error(), Kind: "not_found"})
			return
		}
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rallies": records})
}

// HandleFlush persists pending rallies.
func (h *HTTPHandlers) HandleFlush(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Flush(r.Context(), chi.URLParam(r, "matchID"))
	h.respond(w, r, http.StatusOK, res, err)
}

// HandleEndMatch persists pending rallies and resets the match.
func (h *HTTPHandlers) HandleEndMatch(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.EndMatch(r.Context(), chi.URLParam(r, "matchID"))
	h.respond(w, r, http.StatusOK, res, err)
}

// HandleCloseMatch persists pending rallies and discards the match.
func (h *HTTPHandlers) HandleCloseMatch(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.CloseMatch(r.Context(), chi.URLParam(r, "matchID"))
	h.respond(w, r, http.StatusOK, res, err)
}

func (h *HTTPHandlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body", Kind: "bad_request"})
		return false
	}
	return true
}

func (h *HTTPHandlers) respond(w http.ResponseWriter, r *http.Request, status int, body any, err error) {
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, status, body)
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// StatusFor maps a service error to its HTTP status and kind.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, matchservice.ErrMatchNotFound):
		return http.StatusNotFound, "not_found"
	case matchdomain.IsValidation(err):
		return http.StatusUnprocessableEntity, "validation"
	case matchdomain.IsState(err):
		return http.StatusConflict, "state"
	case matchdomain.IsCollaborator(err):
		return http.StatusBadGateway, "collaborator"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (h *HTTPHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "Match request failed",
			attr.String("path", r.URL.Path),
			attr.Error(err),
		)
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorBody{Error: msg, Kind: kind})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
