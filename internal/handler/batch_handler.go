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

type batchService interface {
	List(ctx context.Context, actorUserID string, actorRole models.Role, trainerID string) ([]service.BatchView, error)
	Get(ctx context.Context, actorUserID string, actorRole models.Role, id string) (*service.BatchView, error)
	Create(ctx context.Context, actorUserID string, actorRole models.Role, req service.BatchRequest) (*service.BatchView, error)
	Update(ctx context.Context, actorUserID string, actorRole models.Role, batchID string, req service.BatchRequest) (*service.BatchView, error)
}

// BatchHandler wires batch management to HTTP routes.
type BatchHandler struct {
	batches batchService
	logs    logService
}

// NewBatchHandler constructs a new BatchHandler.
func NewBatchHandler(batches batchService, logs logService) *BatchHandler {
	return &BatchHandler{batches: batches, logs: logs}
}

// BatchDetail is a batch view together with its recorded sessions.
type BatchDetail struct {
	service.BatchView
	Logs []models.DailyClassLog `json:"logs"`
}

// List godoc
// @Summary List batches
// @Tags Batches
// @Produce json
// @Param trainer_id query string false "Scope to one trainer"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /batches [get]
func (h *BatchHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	batches, err := h.batches.List(c.Request.Context(), claims.UserID, claims.Role, c.Query("trainer_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, batches, nil)
}

// Get godoc
// @Summary Get batch detail with derived status and its class logs
// @Tags Batches
// @Produce json
// @Param id path string true "Batch ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /batches/{id} [get]
func (h *BatchHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	id := c.Param("id")
	batch, err := h.batches.Get(c.Request.Context(), claims.UserID, claims.Role, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	logs, err := h.logs.ListForBatch(c.Request.Context(), claims.UserID, claims.Role, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if logs == nil {
		logs = []models.DailyClassLog{}
	}
	response.JSON(c, http.StatusOK, BatchDetail{BatchView: *batch, Logs: logs}, nil)
}

// Create godoc
// @Summary Create a batch
// @Tags Batches
// @Accept json
// @Produce json
// @Param payload body service.BatchRequest true "Batch"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /batches [post]
func (h *BatchHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid batch payload"))
		return
	}

	batch, err := h.batches.Create(c.Request.Context(), claims.UserID, claims.Role, req)
	if err != nil {
		mutationError(c, err)
		return
	}
	response.Created(c, batch)
}

// Update godoc
// @Summary Edit a batch
// @Tags Batches
// @Accept json
// @Produce json
// @Param id path string true "Batch ID"
// @Param payload body service.BatchRequest true "Batch"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /batches/{id} [put]
func (h *BatchHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid batch payload"))
		return
	}

	batch, err := h.batches.Update(c.Request.Context(), claims.UserID, claims.Role, c.Param("id"), req)
	if err != nil {
		mutationError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, batch, nil)
}
