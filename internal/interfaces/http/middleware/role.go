package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// RequireAdmin restricts a route group to callers carrying the admin role.
// It must run after JWTAuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(identity.RoleAdmin)
}

// RequireRole restricts a route to callers carrying the given role
func RequireRole(role identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := GetPrincipal(c)
		if principal.IsAnonymous() {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}

		for _, r := range principal.Roles {
			if r == role {
				c.Next()
				return
			}
		}

		requestID := c.GetString("request_id")
		c.AbortWithStatusJSON(http.StatusForbidden,
			dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden, "Caller lacks the required role", requestID))
	}
}
