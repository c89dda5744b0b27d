package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"warestock/internal/core/apperror"
	"warestock/internal/core/security"
)

// JWTValidator interface for token validation.
type JWTValidator interface {
	ValidateToken(tokenString string) (*security.Actor, error)
}

// Auth middleware validates JWT tokens and populates the request actor.
func Auth(validator JWTValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		actor, err := validator.ValidateToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		ctx := security.WithActor(c.Request.Context(), *actor)
		c.Request = c.Request.WithContext(ctx)
		c.Set("actor_id", actor.ID.String())

		c.Next()
	}
}

// RequireAdmin rejects requests whose actor is not an administrator.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := security.GetActor(c.Request.Context())
		if !ok {
			abortUnauthorized(c, "authentication required")
			return
		}
		if !actor.IsAdmin() {
			_ = c.Error(apperror.NewForbidden("administrator role required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}
