package authhandlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	authservice "github.com/Black-And-White-Club/volley-analyst/app/modules/auth/application"
	"github.com/Black-And-White-Club/volley-analyst/pkg/attr"
	"github.com/Black-And-White-Club/volley-analyst/pkg/jwt"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// AuthHandlers serves the token endpoints.
type AuthHandlers struct {
	service authservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewAuthHandlers creates a new AuthHandlers instance.
func NewAuthHandlers(
	service authservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) *AuthHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("auth")
	}
	return &AuthHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

type issueTokenBody struct {
	Subject string `json:"subject"`
	Team    string `json:"team,omitempty"`
	Role    string `json:"role"`
	TTL     string `json:"ttl,omitempty"`
}

type whoAmIResponse struct {
	Subject   string    `json:"subject"`
	Team      string    `json:"team,omitempty"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// HandleWhoAmI echoes the authenticated principal.
func (h *AuthHandlers) HandleWhoAmI(w http.ResponseWriter, r *http.Request) {
	p, ok := ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, whoAmIResponse{
		Subject:   p.Subject,
		Team:      p.Team,
		Role:      string(p.Role),
		ExpiresAt: p.ExpiresAt,
	})
}

// HandleIssueToken mints a token for another scorer or scoreboard.
func (h *AuthHandlers) HandleIssueToken(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "AuthHandlers.HandleIssueToken")
	defer span.End()

	var body issueTokenBody
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var ttl time.Duration
	if body.TTL != "" {
		d, err := time.ParseDuration(body.TTL)
		if err != nil || d < 0 {
			http.Error(w, "invalid ttl", http.StatusBadRequest)
			return
		}
		ttl = d
	}

	result, err := h.service.IssueToken(ctx, authservice.IssueTokenRequest{
		Subject: body.Subject,
		Team:    body.Team,
		Role:    jwt.Role(body.Role),
		TTL:     ttl,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to issue token", attr.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if result.IsFailure() {
		status := http.StatusBadRequest
		if errors.Is(*result.Failure, authservice.ErrInvalidRole) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, (*result.Failure).Error(), status)
		return
	}

	writeJSON(w, http.StatusCreated, *result.Success)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
