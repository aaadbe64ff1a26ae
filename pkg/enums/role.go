package enums

import "fmt"

// Role is the portal-wide permissions role assigned to a user.
type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleHarnas  Role = "Harnas"
	RoleKursant Role = "Kursant"
)

// DefaultRole is assigned when registration does not name a role.
const DefaultRole = RoleKursant

var validRoles = []Role{
	RoleAdmin,
	RoleHarnas,
	RoleKursant,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
