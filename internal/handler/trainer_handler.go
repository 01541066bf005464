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

type trainerService interface {
	List(ctx context.Context) ([]models.Trainer, error)
	Get(ctx context.Context, id string) (*models.Trainer, error)
	SelfRegister(ctx context.Context, userID string, req service.TrainerRequest) (*models.Trainer, error)
	Issue(ctx context.Context, req service.IssueTrainerRequest) (*models.Trainer, error)
	Update(ctx context.Context, actorUserID string, actorRole models.Role, trainerID string, req service.TrainerRequest) (*models.Trainer, error)
	Delete(ctx context.Context, trainerID string) error
}

// TrainerHandler wires trainer management to HTTP routes.
type TrainerHandler struct {
	trainers trainerService
}

// NewTrainerHandler constructs a new TrainerHandler.
func NewTrainerHandler(trainers trainerService) *TrainerHandler {
	return &TrainerHandler{trainers: trainers}
}

// List godoc
// @Summary List trainers
// @Tags Trainers
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /trainers [get]
func (h *TrainerHandler) List(c *gin.Context) {
	trainers, err := h.trainers.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trainers, nil)
}

// Get godoc
// @Summary Get trainer detail
// @Tags Trainers
// @Produce json
// @Param id path string true "Trainer ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /trainers/{id} [get]
func (h *TrainerHandler) Get(c *gin.Context) {
	trainer, err := h.trainers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trainer, nil)
}

// SelfRegister godoc
// @Summary Register the calling user as a trainer
// @Tags Trainers
// @Accept json
// @Produce json
// @Param payload body service.TrainerRequest true "Trainer profile"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /trainers [post]
func (h *TrainerHandler) SelfRegister(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.TrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid trainer payload"))
		return
	}

	trainer, err := h.trainers.SelfRegister(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, trainer)
}

// Issue godoc
// @Summary Create a login together with its trainer profile
// @Tags Trainers
// @Accept json
// @Produce json
// @Param payload body service.IssueTrainerRequest true "Login and trainer profile"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /trainers/admin [post]
func (h *TrainerHandler) Issue(c *gin.Context) {
	var req service.IssueTrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid trainer payload"))
		return
	}

	trainer, err := h.trainers.Issue(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, trainer)
}

// Update godoc
// @Summary Edit a trainer profile
// @Tags Trainers
// @Accept json
// @Produce json
// @Param id path string true "Trainer ID"
// @Param payload body service.TrainerRequest true "Trainer profile"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /trainers/{id} [put]
func (h *TrainerHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.TrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid trainer payload"))
		return
	}

	trainer, err := h.trainers.Update(c.Request.Context(), claims.UserID, claims.Role, c.Param("id"), req)
	if err != nil {
		mutationError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trainer, nil)
}

// Delete godoc
// @Summary Delete a trainer with its batches and class logs
// @Tags Trainers
// @Param id path string true "Trainer ID"
// @Success 204
// @Security BearerAuth
// @Router /trainers/{id} [delete]
func (h *TrainerHandler) Delete(c *gin.Context) {
	if err := h.trainers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
