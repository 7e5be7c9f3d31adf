package auth

import (
	"context"
	"log/slog"
	"net/http"

	authservice "github.com/Black-And-White-Club/volley-analyst/app/modules/auth/application"
	authhandlers "github.com/Black-And-White-Club/volley-analyst/app/modules/auth/infrastructure/handlers"
	"github.com/Black-And-White-Club/volley-analyst/app/observability"
	"github.com/Black-And-White-Club/volley-analyst/config"
	"github.com/Black-And-White-Club/volley-analyst/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

// Module represents the auth module.
type Module struct {
	service  authservice.Service
	handlers *authhandlers.AuthHandlers
	guard    func(role jwt.Role) func(http.Handler) http.Handler
	limiter  *authhandlers.IPRateLimiter
	origins  []string
	logger   *slog.Logger
}

// NewModule creates the auth module and registers /api/auth when httpRouter is set.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	httpRouter chi.Router,
) (*Module, error) {
	logger := obs.Logger
	tracer := obs.Tracer

	logger.InfoContext(ctx, "Initializing auth module")

	tokens := jwt.NewService(cfg.JWT.Secret, cfg.JWT.DefaultTTL, cfg.JWT.Issuer)
	service := authservice.NewService(tokens, logger, tracer)
	handlers := authhandlers.NewAuthHandlers(service, logger, tracer)

	m := &Module{
		service:  service,
		handlers: handlers,
		guard:    authhandlers.RequireRole(service),
		limiter:  authhandlers.NewIPRateLimiter(rate.Limit(cfg.HTTP.RateLimit), cfg.HTTP.RateBurst),
		origins:  cfg.HTTP.AllowedOrigins,
		logger:   logger,
	}

	if httpRouter != nil {
		httpRouter.Route("/api/auth", func(r chi.Router) {
			for _, mw := range m.Middleware() {
				r.Use(mw)
			}
			r.With(m.guard(jwt.RoleViewer)).Get("/whoami", handlers.HandleWhoAmI)
			r.With(m.guard(jwt.RoleAdmin)).Post("/tokens", handlers.HandleIssueToken)
		})
	}

	return m, nil
}

// Guard returns middleware requiring at least role.
func (m *Module) Guard(role jwt.Role) func(http.Handler) http.Handler {
	return m.guard(role)
}

// Middleware returns the CORS and rate limiting stack shared by the API routes.
func (m *Module) Middleware() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		authhandlers.CORSMiddleware(m.origins),
		authhandlers.RateLimitMiddleware(m.limiter),
	}
}

// GetService returns the auth service for use by other modules.
func (m *Module) GetService() authservice.Service {
	return m.service
}
