package domain

// Role is a numeric privilege tier. The values are persisted as plain
// integers, so they must stay stable across releases.
type Role int

const (
	// RoleNone is the schema default; no account is created with it anymore.
	RoleNone Role = 0
	// RoleUser is assigned to every new registration.
	RoleUser Role = 1
	// RoleOperator is the elevated tier that receives long-lived tokens.
	RoleOperator Role = 3
	// RoleAdmin is the top administrator tier.
	RoleAdmin Role = 4
)

// Valid reports whether the role is a non-negative tier value.
func (r Role) Valid() bool {
	return r >= 0
}
