package authservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	authdomain "github.com/Black-And-White-Club/volley-analyst/app/modules/auth/domain"
	"github.com/Black-And-White-Club/volley-analyst/pkg/attr"
	"github.com/Black-And-White-Club/volley-analyst/pkg/jwt"
	"github.com/Black-And-White-Club/volley-analyst/pkg/results"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// service implements the Service interface.
type service struct {
	tokens jwt.Service
	logger *slog.Logger
	tracer trace.Tracer
	now    func() time.Time
}

// NewService creates a new auth service.
func NewService(tokens jwt.Service, logger *slog.Logger, tracer trace.Tracer) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("auth")
	}
	return &service{
		tokens: tokens,
		logger: logger,
		tracer: tracer,
		now:    time.Now,
	}
}

// IssueToken mints a bearer token. Bad requests come back as a failure result.
func (s *service) IssueToken(ctx context.Context, req IssueTokenRequest) (IssueTokenResult, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.IssueToken")
	defer span.End()

	s.logger.InfoContext(ctx, "Issuing operator token",
		attr.String("subject", req.Subject),
		attr.String("team", req.Team),
		attr.String("role", string(req.Role)),
	)

	if req.Subject == "" {
		return results.FailureResult[*TokenResponse, error](ErrMissingSubject), nil
	}
	if !req.Role.Valid() {
		s.logger.WarnContext(ctx, "Invalid role specified", attr.String("role", string(req.Role)))
		return results.FailureResult[*TokenResponse, error](fmt.Errorf("%w: %q", ErrInvalidRole, req.Role)), nil
	}

	ttl := req.TTL
	if ttl <= 0 {
		ttl = s.tokens.DefaultTTL()
	}

	token, err := s.tokens.GenerateToken(req.Subject, req.Team, req.Role, ttl)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to generate token", attr.Error(err))
		return IssueTokenResult{}, fmt.Errorf("%w: %w", ErrGenerateToken, err)
	}

	return results.SuccessResult[*TokenResponse, error](&TokenResponse{
		Token:     token,
		ExpiresAt: s.now().Add(ttl).UTC(),
	}), nil
}

// Authenticate validates a bearer token and maps its claims to a Principal.
func (s *service) Authenticate(ctx context.Context, tokenString string) (*authdomain.Principal, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Authenticate")
	defer span.End()

	if tokenString == "" {
		return nil, ErrMissingToken
	}

	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		s.logger.DebugContext(ctx, "Token validation failed", attr.Error(err))
		if errors.Is(err, jwt.ErrExpiredToken) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	p := &authdomain.Principal{
		Subject: claims.Subject,
		Team:    claims.Team,
		Role:    jwt.Role(claims.Role),
	}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}
	if claims.IssuedAt != nil {
		p.IssuedAt = claims.IssuedAt.Time
	}
	return p, nil
}
