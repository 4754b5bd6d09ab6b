package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// Gin context keys populated by the JWT middleware
const (
	PrincipalKey = "principal"
	JWTClaimsKey = "jwt_claims"
)

// JWTMiddlewareConfig holds configuration for JWT authentication middleware
type JWTMiddlewareConfig struct {
	JWTService *auth.JWTService
	Blacklist  auth.TokenBlacklist
	Logger     *zap.Logger
	// SkipPaths are exact paths that bypass authentication
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that bypass authentication
	SkipPathPrefixes []string
}

// JWTAuthMiddleware validates the bearer token on every request and attaches
// the authenticated principal to the gin context. Requests to skip paths pass
// through without a token.
func JWTAuthMiddleware(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		for _, skip := range cfg.SkipPaths {
			if path == skip {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		tokenString := extractBearerToken(c)
		if tokenString == "" {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Authorization header is missing or malformed")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			handleAuthError(c, cfg.Logger, err)
			return
		}

		if revoked := tokenRevoked(c, cfg, claims); revoked {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Token has been revoked")
			return
		}

		userID, err := claims.GetUserUUID()
		if err != nil {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Token carries an invalid user id")
			return
		}

		principal := identity.Principal{
			UserID: userID,
			Email:  claims.Email,
			Roles:  identity.ParseRoles(claims.Roles),
		}

		c.Set(PrincipalKey, principal)
		c.Set(JWTClaimsKey, claims)

		ctx, _ := logger.WithUserID(c.Request.Context(), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// tokenRevoked consults the blacklist for the token JTI and for a user-wide
// revocation. Blacklist lookup failures are logged and treated as not revoked
// so an unavailable store does not lock every caller out.
func tokenRevoked(c *gin.Context, cfg JWTMiddlewareConfig, claims *auth.Claims) bool {
	if cfg.Blacklist == nil {
		return false
	}

	revoked, err := cfg.Blacklist.IsRevoked(c.Request.Context(), claims.ID)
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("token blacklist lookup failed",
				zap.String("jti", claims.ID),
				zap.Error(err))
		}
	} else if revoked {
		return true
	}

	if claims.IssuedAt == nil {
		return false
	}
	userRevoked, err := cfg.Blacklist.IsUserRevoked(c.Request.Context(), claims.UserID, claims.IssuedAt.Time)
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("user revocation lookup failed",
				zap.String("user_id", claims.UserID),
				zap.Error(err))
		}
		return false
	}
	return userRevoked
}

// extractBearerToken pulls the token out of the Authorization header
func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// handleAuthError maps token validation failures onto 401 responses
func handleAuthError(c *gin.Context, log *zap.Logger, err error) {
	code := dto.ErrCodeUnauthorized
	message := "Invalid or expired token"

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code = dto.ErrCodeTokenExpired
		message = "Token has expired"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		message = "Token is not yet valid"
	case errors.Is(err, auth.ErrInvalidTokenType):
		message = "Token is not an access token"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidClaims), errors.Is(err, auth.ErrMissingUserID):
		message = "Invalid token"
	}

	if log != nil {
		log.Debug("request authentication failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
	}

	abortUnauthorized(c, code, message)
}

func abortUnauthorized(c *gin.Context, code, message string) {
	requestID := c.GetString("request_id")
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(code, message, requestID))
}

// GetPrincipal returns the authenticated principal from the gin context.
// An anonymous principal is returned when the request carried no valid token.
func GetPrincipal(c *gin.Context) identity.Principal {
	if v, exists := c.Get(PrincipalKey); exists {
		if p, ok := v.(identity.Principal); ok {
			return p
		}
	}
	return identity.Principal{}
}

// GetJWTClaims returns the raw token claims from the gin context, or nil
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if v, exists := c.Get(JWTClaimsKey); exists {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}
