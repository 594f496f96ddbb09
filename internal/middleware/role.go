package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aqarat/internal/pkg/response"
)

// RequireRole ensures the authenticated user holds one of the given roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Role not found in token")
			c.Abort()
			return
		}

		for _, r := range roles {
			if role.(string) == r {
				c.Next()
				return
			}
		}

		response.Error(c, http.StatusForbidden, response.CodeForbidden, "Access denied: insufficient permissions")
		c.Abort()
	}
}

func AdminOnly() gin.HandlerFunc {
	return RequireRole("admin")
}
