package domain

import "strings"

// Role is a user's role within their tenant.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// Roles lists every valid role, most privileged first.
var Roles = []Role{RoleAdmin, RoleManager, RoleUser}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// ParseRole normalises s and reports whether it names a role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}
