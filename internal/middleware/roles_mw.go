package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminMiddleware rejects callers whose resolved account is not an admin.
// It reads the account the auth middleware stored, so the admin flag is
// always the current stored value, not a stale token claim.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account not resolved, ensure auth middleware runs first"})
			return
		}
		if !user.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient privileges for this resource"})
			return
		}
		c.Next()
	}
}
