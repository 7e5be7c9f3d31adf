package jwt

import "github.com/golang-jwt/jwt/v5"

// OperatorClaims are carried by bearer tokens issued to scorers and viewers.
type OperatorClaims struct {
	jwt.RegisteredClaims
	Team string `json:"team,omitempty"`
	Role string `json:"role"`
}

type Role string

const (
	RoleViewer   Role = "viewer"
	RoleOperator Role = "operator"
	RoleAdmin    Role = "admin"
)

var roleRank = map[Role]int{
	RoleViewer:   1,
	RoleOperator: 2,
	RoleAdmin:    3,
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// Allows reports whether r is at least required.
func (r Role) Allows(required Role) bool {
	return roleRank[r] >= roleRank[required] && roleRank[r] > 0
}
