package middlewares

import (
	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/table-reservation/utils"
)

// WebSocketAuthMiddleware reads the staff token from the token query
// parameter, since browsers cannot set headers on websocket upgrades.
func WebSocketAuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.AbortWithStatus(401)
			return
		}

		claims, err := utils.ParseStaffToken(secret, token)
		if err != nil {
			c.AbortWithStatus(401)
			return
		}

		c.Set(ContextStaffRole, claims.Role)
		c.Set(ContextStaffSubject, claims.Subject)

		c.Next()
	}
}
