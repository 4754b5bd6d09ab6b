package identity

// Role is an authority label carried by a user
type Role string

const (
	RoleClient Role = "ROLE_CLIENT"
	RoleAdmin  Role = "ROLE_ADMIN"
)

// IsValid checks if the role is a known authority
func (r Role) IsValid() bool {
	switch r {
	case RoleClient, RoleAdmin:
		return true
	}
	return false
}

// ParseRoles filters a list of raw authority strings down to known roles
func ParseRoles(raw []string) []Role {
	roles := make([]Role, 0, len(raw))
	for _, s := range raw {
		r := Role(s)
		if r.IsValid() {
			roles = append(roles, r)
		}
	}
	return roles
}
