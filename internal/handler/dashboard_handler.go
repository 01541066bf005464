package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/traintrackhq/traintrack-api/internal/models"
	"github.com/traintrackhq/traintrack-api/internal/service"
	appErrors "github.com/traintrackhq/traintrack-api/pkg/errors"
	"github.com/traintrackhq/traintrack-api/pkg/response"
)

type dashboardService interface {
	View(ctx context.Context, userID string, role models.Role) (*service.Dashboard, error)
}

// DashboardHandler serves the role-scoped landing view.
type DashboardHandler struct {
	dashboards dashboardService
}

// NewDashboardHandler constructs a new DashboardHandler.
func NewDashboardHandler(dashboards dashboardService) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards}
}

// View godoc
// @Summary Dashboard scoped to the caller's role
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router / [get]
func (h *DashboardHandler) View(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	dashboard, err := h.dashboards.View(c.Request.Context(), claims.UserID, claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dashboard, nil)
}
