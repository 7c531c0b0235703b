package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/magzhanmnazhatdin/courtclub/internal/domain"
)

const (
	identityKey = "identity"
	roleKey     = "role"
)

// Middleware rejects requests without a valid bearer token and stores the
// verified identity on the context.
func Middleware(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no Authorization header"})
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" || token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			return
		}
		id, err := v.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// RoleResolver looks up a caller's role in the directory.
type RoleResolver interface {
	UserRole(ctx context.Context, email string) (domain.Role, error)
}

// RequireRole resolves the caller's role and aborts with 403 unless it is one
// of roles. With no roles it only resolves; callers without a user record
// then get the user role. Must run after Middleware.
func RequireRole(r RoleResolver, roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		role, err := r.UserRole(c.Request.Context(), id.Email)
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			role = domain.RoleUser
			if len(roles) > 0 {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
				return
			}
		case err != nil:
			slog.ErrorContext(c.Request.Context(), "resolve role", slog.String("email", id.Email), slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		if len(roles) > 0 && !slices.Contains(roles, role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Set(roleKey, role)
		c.Next()
	}
}

// RoleFrom returns the role resolved by RequireRole.
func RoleFrom(c *gin.Context) domain.Role {
	v, _ := c.Get(roleKey)
	role, _ := v.(domain.Role)
	return role
}
