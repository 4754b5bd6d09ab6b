package identity

import (
	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// RequireAuthenticated rejects anonymous callers
func RequireAuthenticated(p Principal) error {
	if p.IsAnonymous() {
		return shared.ErrUnauthorized
	}
	return nil
}

// RequireAdmin allows only callers carrying the admin role
func RequireAdmin(p Principal) error {
	if p.IsAnonymous() {
		return shared.ErrUnauthorized
	}
	if !p.IsAdmin() {
		return shared.ErrForbidden
	}
	return nil
}

// RequireSelfOrAdmin allows the resource owner or an admin.
// The caller is expected to have resolved the resource first, so a
// denied request on an existing resource reads as forbidden rather
// than leaking whether the resource exists.
func RequireSelfOrAdmin(p Principal, ownerID uuid.UUID) error {
	if p.IsAnonymous() {
		return shared.ErrUnauthorized
	}
	if p.IsAdmin() || p.Is(ownerID) {
		return nil
	}
	return shared.ErrForbidden
}
