package authservice

import (
	"time"

	"github.com/Black-And-White-Club/volley-analyst/pkg/jwt"
	gojwt "github.com/golang-jwt/jwt/v5"
)

// ------------------------
// Fake JWT Service
// ------------------------

type FakeJWTService struct {
	trace []string

	GenerateTokenFunc func(subject, team string, role jwt.Role, ttl time.Duration) (string, error)
	ValidateTokenFunc func(tokenString string) (*jwt.OperatorClaims, error)
	DefaultTTLValue   time.Duration
}

func (f *FakeJWTService) Trace() []string {
	return f.trace
}

func (f *FakeJWTService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeJWTService) GenerateToken(subject, team string, role jwt.Role, ttl time.Duration) (string, error) {
	f.record("GenerateToken")
	if f.GenerateTokenFunc != nil {
		return f.GenerateTokenFunc(subject, team, role, ttl)
	}
	return "fake-token", nil
}

func (f *FakeJWTService) ValidateToken(tokenString string) (*jwt.OperatorClaims, error) {
	f.record("ValidateToken")
	if f.ValidateTokenFunc != nil {
		return f.ValidateTokenFunc(tokenString)
	}
	return &jwt.OperatorClaims{
		RegisteredClaims: gojwt.RegisteredClaims{Subject: "test-subject"},
		Role:             string(jwt.RoleViewer),
	}, nil
}

func (f *FakeJWTService) DefaultTTL() time.Duration {
	if f.DefaultTTLValue > 0 {
		return f.DefaultTTLValue
	}
	return time.Hour
}

var _ jwt.Service = (*FakeJWTService)(nil)
