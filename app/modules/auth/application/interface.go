package authservice

import (
	"context"
	"time"

	authdomain "github.com/Black-And-White-Club/volley-analyst/app/modules/auth/domain"
	"github.com/Black-And-White-Club/volley-analyst/pkg/jwt"
	"github.com/Black-And-White-Club/volley-analyst/pkg/results"
)

// Service defines the authentication service interface.
type Service interface {
	// IssueToken mints a bearer token for a scorer or scoreboard.
	IssueToken(ctx context.Context, req IssueTokenRequest) (IssueTokenResult, error)

	// Authenticate validates a bearer token and returns the caller.
	Authenticate(ctx context.Context, tokenString string) (*authdomain.Principal, error)
}

// IssueTokenRequest describes the token to mint. A zero TTL uses the default.
type IssueTokenRequest struct {
	Subject string
	Team    string
	Role    jwt.Role
	TTL     time.Duration
}

// TokenResponse is the minted token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type IssueTokenResult = results.OperationResult[*TokenResponse, error]
