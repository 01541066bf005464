package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/traintrackhq/traintrack-api/internal/middleware"
	"github.com/traintrackhq/traintrack-api/internal/models"
	appErrors "github.com/traintrackhq/traintrack-api/pkg/errors"
	"github.com/traintrackhq/traintrack-api/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// mutationError answers a failed write. Ownership denials are softened
// to a redirect home, like the guard middleware does; everything else
// surfaces as an error envelope.
func mutationError(c *gin.Context, err error) {
	if appErrors.FromError(err).Code == appErrors.ErrForbidden.Code {
		response.Redirect(c, "/")
		return
	}
	response.Error(c, err)
}
