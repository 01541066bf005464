package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/traintrackhq/traintrack-api/internal/models"
	"github.com/traintrackhq/traintrack-api/internal/policy"
	appErrors "github.com/traintrackhq/traintrack-api/pkg/errors"
	"github.com/traintrackhq/traintrack-api/pkg/response"
)

// Guard gates a route on the role policy for one operation. A denied
// caller is sent back to the dashboard with nothing changed rather than
// shown an error page.
func Guard(op policy.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims, ok := claimsValue.(*models.JWTClaims)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		if !policy.Authorize(claims.Role, op) {
			response.Redirect(c, "/")
			c.Abort()
			return
		}

		c.Next()
	}
}
