package matchdomain

// Role is a court role. Its integer value is the role index used by the
// rotation arithmetic (0 = P1 ... 5 = P6).
type Role int

const (
	RoleServe Role = iota
	RoleFrontRight
	RoleFrontCenter
	RoleFrontLeft
	RoleBackLeft
	RoleBackCenter
)

// Roles lists every role in index order.
var Roles = [LineupSize]Role{RoleServe, RoleFrontRight, RoleFrontCenter, RoleFrontLeft, RoleBackLeft, RoleBackCenter}

var roleCodes = [LineupSize]string{"P1", "P2", "P3", "P4", "P5", "P6"}

var roleLabels = [LineupSize]string{
	"Serve (back right)",
	"Front right",
	"Front center",
	"Front left",
	"Back left",
	"Back center",
}

// String returns the short code, P1..P6.
func (r Role) String() string {
	if r < 0 || int(r) >= LineupSize {
		return "P?"
	}
	return roleCodes[r]
}

// Label returns a human readable court position.
func (r Role) Label() string {
	if r < 0 || int(r) >= LineupSize {
		return "unknown"
	}
	return roleLabels[r]
}

// IsFrontRow reports whether the role is one of P2, P3, P4.
func (r Role) IsFrontRow() bool {
	return r >= RoleFrontRight && r <= RoleFrontLeft
}

func mod6(v int) int {
	return ((v % LineupSize) + LineupSize) % LineupSize
}

// RoleOf returns the role held by lineup index i at the given rotation.
func RoleOf(rotation, index int) Role {
	return Role(mod6(index - (rotation - 1)))
}

// OccupantIndex returns the lineup index holding role at the given rotation.
func OccupantIndex(rotation int, role Role) int {
	return mod6(int(role) + (rotation - 1))
}

// Occupant returns the player holding role at the given rotation.
func Occupant(l Lineup, rotation int, role Role) PlayerID {
	return l.Slots[OccupantIndex(rotation, role)]
}

// RoleOfPlayer finds the role p currently holds. The libero and bench
// players hold no numbered role.
func RoleOfPlayer(l Lineup, rotation int, p PlayerID) (Role, bool) {
	i := l.IndexOf(p)
	if i < 0 {
		return 0, false
	}
	return RoleOf(rotation, i), true
}

// Court returns the occupants indexed by role for the given rotation.
func Court(l Lineup, rotation int) [LineupSize]PlayerID {
	var out [LineupSize]PlayerID
	for _, r := range Roles {
		out[r] = Occupant(l, rotation, r)
	}
	return out
}
