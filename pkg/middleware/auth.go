package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/weiawesome/prefixid/pkg/jwt"
	"github.com/weiawesome/prefixid/pkg/log"
	"github.com/weiawesome/prefixid/pkg/response"
)

const (
	SubjectKey    = log.FieldSubject
	ClaimsKey     = "claims"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// AuthMiddleware validates bearer tokens signed by the configured secret.
type AuthMiddleware struct {
	manager *jwt.Manager
}

// NewAuthMiddleware creates a new auth middleware.
func NewAuthMiddleware(manager *jwt.Manager) *AuthMiddleware {
	return &AuthMiddleware{manager: manager}
}

// RequireAuth returns a Gin middleware that validates JWT tokens.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			response.Unauthorized(c, "invalid authorization format")
			return
		}

		claims, err := m.manager.ValidateToken(strings.TrimPrefix(authHeader, BearerPrefix))
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, jwt.ErrExpiredToken) {
				msg = "token has expired"
			}
			response.Unauthorized(c, msg)
			return
		}

		// Set caller info in context
		c.Set(SubjectKey, claims.Subject)
		c.Set(ClaimsKey, claims)

		c.Next()
	}
}

// RequireKind returns a Gin middleware that rejects callers whose token does
// not grant the kind named by the route parameter param. It must run after
// RequireAuth.
func (m *AuthMiddleware) RequireKind(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || !claims.Allows(c.Param(param)) {
			response.Forbidden(c, "token does not grant this kind")
			return
		}
		c.Next()
	}
}

// GetSubject extracts the caller's subject from Gin context.
func GetSubject(c *gin.Context) string {
	if sub, exists := c.Get(SubjectKey); exists {
		return sub.(string)
	}
	return ""
}

// GetClaims extracts the validated claims from Gin context.
func GetClaims(c *gin.Context) *jwt.Claims {
	if claims, exists := c.Get(ClaimsKey); exists {
		return claims.(*jwt.Claims)
	}
	return nil
}
