package authdomain

import (
	"time"

	"github.com/Black-And-White-Club/volley-analyst/pkg/jwt"
)

// Principal is the authenticated caller behind an operator API request.
type Principal struct {
	Subject   string
	Team      string
	Role      jwt.Role
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// IsExpired checks if the principal's token has expired.
func (p *Principal) IsExpired() bool {
	return time.Now().After(p.ExpiresAt)
}

// Can reports whether the principal holds at least the required role.
func (p *Principal) Can(required jwt.Role) bool {
	return p != nil && p.Role.Allows(required)
}
