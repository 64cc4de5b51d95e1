package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"medicare-api/internal/auth"
	"medicare-api/internal/model"
)

const (
	UserIDKey = "uid"
	RoleKey   = "role"
)

// Auth parses the Bearer token and puts the user id and role in the
// request context for handlers.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no token"})
			return
		}

		claims, err := auth.ParseToken(raw, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "bad token"})
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

// RequireRole gates a route group to one role.
func RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if Role(c) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission denied"})
			return
		}
		c.Next()
	}
}

func UserID(c *gin.Context) string {
	v, _ := c.Get(UserIDKey)
	id, _ := v.(string)
	return id
}

func Role(c *gin.Context) model.Role {
	v, _ := c.Get(RoleKey)
	r, _ := v.(model.Role)
	return r
}
