package rosterhandlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	rosterservice "github.com/Black-And-White-Club/volley-analyst/app/modules/roster/application"
	rosterdomain "github.com/Black-And-White-Club/volley-analyst/app/modules/roster/domain"
	rostersheet "github.com/Black-And-White-Club/volley-analyst/app/modules/roster/infrastructure/sheet"
	"github.com/Black-And-White-Club/volley-analyst/pkg/attr"
	"github.com/Black-And-White-Club/volley-analyst/pkg/jwt"
)

const maxImportBytes = 4 << 20

// Guard returns middleware requiring at least role.
type Guard func(role jwt.Role) func(http.Handler) http.Handler

// RosterHandlers serves /api/teams.
type RosterHandlers struct {
	service rosterservice.Service
	logger  *slog.Logger
}

// NewRosterHandlers creates the roster HTTP handlers.
func NewRosterHandlers(service rosterservice.Service, logger *slog.Logger) *RosterHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &RosterHandlers{service: service, logger: logger}
}

// Routes mounts the API on r. A nil guard leaves the routes open.
func (h *RosterHandlers) Routes(r chi.Router, guard Guard) {
	use := func(role jwt.Role) func(http.Handler) http.Handler {
		if guard == nil {
			return func(next http.Handler) http.Handler { return next }
		}
		return guard(role)
	}

	r.With(use(jwt.RoleViewer)).Get("/", h.HandleListTeams)
	r.With(use(jwt.RoleViewer)).Get("/{team}", h.HandleGetRoster)

	r.Group(func(r chi.Router) {
		r.Use(use(jwt.RoleOperator))
		r.Post("/", h.HandleAddTeam)
		r.Post("/{team}/players", h.HandleAddPlayer)
		r.Delete("/{team}/players/{playerKey}", h.HandleRemovePlayer)
	})

	r.With(use(jwt.RoleAdmin)).Post("/import", h.HandleImport)
}

type addTeamBody struct {
	Name string `json:"name"`
}

type addPlayerBody struct {
	Name     string `json:"name"`
	Number   *int   `json:"number,omitempty"`
	Position string `json:"position"`
}

func (h *RosterHandlers) HandleListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.service.ListTeams(r.Context())
	if teams == nil {
		teams = []string{}
	}
	h.respond(w, r, http.StatusOK, teams, err)
}

func (h *RosterHandlers) HandleGetRoster(w http.ResponseWriter, r *http.Request) {
	team, ok := pathParam(w, r, "team")
	if !ok {
		return
	}
	roster, err := h.service.GetRoster(r.Context(), team)
	h.respond(w, r, http.StatusOK, roster, err)
}

func (h *RosterHandlers) HandleAddTeam(w http.ResponseWriter, r *http.Request) {
	var body addTeamBody
	if !decode(w, r, &body) {
		return
	}
	team, err := h.service.AddTeam(r.Context(), body.Name)
	h.respond(w, r, http.StatusCreated, team, err)
}

func (h *RosterHandlers) HandleAddPlayer(w http.ResponseWriter, r *http.Request) {
	team, ok := pathParam(w, r, "team")
	if !ok {
		return
	}
	var body addPlayerBody
	if !decode(w, r, &body) {
		return
	}
	player, err := h.service.AddPlayer(r.Context(), team, rosterservice.AddPlayerRequest{
		Name:     body.Name,
		Number:   body.Number,
		Position: rosterdomain.Position(body.Position),
	})
	h.respond(w, r, http.StatusCreated, player, err)
}

func (h *RosterHandlers) HandleRemovePlayer(w http.ResponseWriter, r *http.Request) {
	team, ok := pathParam(w, r, "team")
	if !ok {
		return
	}
	key, ok := pathParam(w, r, "playerKey")
	if !ok {
		return
	}
	if err := h.service.RemovePlayer(r.Context(), team, key); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleImport loads a players workbook uploaded as the "file" form field.
func (h *RosterHandlers) HandleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "missing file", Kind: "bad_request"})
		return
	}
	defer file.Close()

	rows, err := rostersheet.ParsePlayers(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Kind: "bad_request"})
		return
	}

	in := make([]rosterservice.ImportRow, len(rows))
	for i, row := range rows {
		in[i] = rosterservice.ImportRow{Team: row.Team, PlayerKey: row.PlayerKey, Position: row.Position}
	}
	res, err := h.service.ImportPlayers(r.Context(), in)
	h.respond(w, r, http.StatusOK, res, err)
}

func pathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v, err := url.PathUnescape(chi.URLParam(r, name))
	if err != nil || v == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid " + name, Kind: "bad_request"})
		return "", false
	}
	return v, true
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body", Kind: "bad_request"})
		return false
	}
	return true
}

func (h *RosterHandlers) respond(w http.ResponseWriter, r *http.Request, status int, body any, err error) {
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

// StatusFor maps a roster error to its HTTP status and kind.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, rosterservice.ErrTeamNotFound), errors.Is(err, rosterservice.ErrPlayerNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, rosterservice.ErrTeamExists):
		return http.StatusConflict, "conflict"
	case errors.Is(err, rosterdomain.ErrInvalidPlayer),
		errors.Is(err, rosterdomain.ErrInvalidPosition),
		errors.Is(err, rosterdomain.ErrInvalidTeamName):
		return http.StatusUnprocessableEntity, "validation"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (h *RosterHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "Roster request failed",
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
