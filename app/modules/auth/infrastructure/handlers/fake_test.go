package authhandlers

import (
	"context"

	authservice "github.com/Black-And-White-Club/volley-analyst/app/modules/auth/application"
	authdomain "github.com/Black-And-White-Club/volley-analyst/app/modules/auth/domain"
	"github.com/Black-And-White-Club/volley-analyst/pkg/results"
)

// ------------------------
// Fake Service
// ------------------------

type FakeService struct {
	trace []string

	IssueTokenFunc   func(ctx context.Context, req authservice.IssueTokenRequest) (authservice.IssueTokenResult, error)
	AuthenticateFunc func(ctx context.Context, tokenString string) (*authdomain.Principal, error)
}

func (f *FakeService) Trace() []string {
	return f.trace
}

func (f *FakeService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeService) IssueToken(ctx context.Context, req authservice.IssueTokenRequest) (authservice.IssueTokenResult, error) {
	f.record("IssueToken")
	if f.IssueTokenFunc != nil {
		return f.IssueTokenFunc(ctx, req)
	}
	return results.SuccessResult[*authservice.TokenResponse, error](&authservice.TokenResponse{Token: "fake-token"}), nil
}

func (f *FakeService) Authenticate(ctx context.Context, tokenString string) (*authdomain.Principal, error) {
	f.record("Authenticate")
	if f.AuthenticateFunc != nil {
		return f.AuthenticateFunc(ctx, tokenString)
	}
	return nil, authservice.ErrInvalidToken
}

var _ authservice.Service = (*FakeService)(nil)
