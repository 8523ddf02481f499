package auth

// Role is a declared capability of a user. Roles are interchangeable; a
// single user usually holds several.
type Role string

const (
	RoleSeller    Role = "seller"
	RoleBuyer     Role = "buyer"
	RoleSponsor   Role = "sponsor"
	RoleDeveloper Role = "developer"
	RoleAdmin     Role = "admin"
)

// IsValid checks if the role is one of the predefined valid roles
func (r Role) IsValid() bool {
	switch r {
	case RoleSeller, RoleBuyer, RoleSponsor, RoleDeveloper, RoleAdmin:
		return true
	default:
		return false
	}
}

// DefaultSignupRoles is the explicit grant policy for new signups: every
// participant capability, never admin. Changing the grant is a one-line,
// independently tested decision.
func DefaultSignupRoles() []Role {
	return []Role{RoleDeveloper, RoleSeller, RoleBuyer, RoleSponsor}
}

// ParseRole safely parses a string into a Role
func ParseRole(roleStr string) (Role, bool) {
	role := Role(roleStr)
	return role, role.IsValid()
}

// RoleNames converts a role set to its serializable form.
func RoleNames(roles []Role) []string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return names
}
