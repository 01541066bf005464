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

type logService interface {
	Create(ctx context.Context, actorUserID string, actorRole models.Role, req service.LogRequest) (*models.DailyClassLog, error)
	ListForBatch(ctx context.Context, actorUserID string, actorRole models.Role, batchID string) ([]models.DailyClassLog, error)
}

// LogHandler wires class log recording to HTTP routes.
type LogHandler struct {
	logs logService
}

// NewLogHandler constructs a new LogHandler.
func NewLogHandler(logs logService) *LogHandler {
	return &LogHandler{logs: logs}
}

// Create godoc
// @Summary Record a class session
// @Tags Logs
// @Accept json
// @Produce json
// @Param payload body service.LogRequest true "Class log"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /logs [post]
func (h *LogHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.LogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid class log payload"))
		return
	}

	log, err := h.logs.Create(c.Request.Context(), claims.UserID, claims.Role, req)
	if err != nil {
		mutationError(c, err)
		return
	}
	response.Created(c, log)
}

// ListForBatch godoc
// @Summary List the class sessions recorded against a batch
// @Tags Logs
// @Produce json
// @Param id path string true "Batch ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /batches/{id}/logs [get]
func (h *LogHandler) ListForBatch(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	logs, err := h.logs.ListForBatch(c.Request.Context(), claims.UserID, claims.Role, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, nil)
}
