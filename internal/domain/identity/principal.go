package identity

import (
	"github.com/google/uuid"
)

// Principal is the authenticated caller of a service operation.
// It is passed explicitly into every operation that needs authorization,
// never read from ambient state.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Roles  []Role
}

// IsAdmin reports whether the caller carries the admin authority
func (p Principal) IsAdmin() bool {
	for _, r := range p.Roles {
		if r == RoleAdmin {
			return true
		}
	}
	return false
}

// Is reports whether the caller is the given user
func (p Principal) Is(userID uuid.UUID) bool {
	return p.UserID == userID
}

// IsAnonymous reports whether no authenticated user is attached
func (p Principal) IsAnonymous() bool {
	return p.UserID == uuid.Nil
}
