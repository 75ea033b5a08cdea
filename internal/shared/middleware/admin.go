package middleware

import (
	"github.com/gin-gonic/gin"

	"sunkissed-backend/internal/shared/response"
	"sunkissed-backend/pkg/jwt"
)

// AdminMiddleware must run after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextKeyRole) != jwt.RoleAdmin {
			response.Forbidden(c, "Access denied: admin role required")
			c.Abort()
			return
		}
		c.Next()
	}
}
