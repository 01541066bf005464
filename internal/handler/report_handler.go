package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/traintrackhq/traintrack-api/internal/models"
	"github.com/traintrackhq/traintrack-api/internal/service"
	appErrors "github.com/traintrackhq/traintrack-api/pkg/errors"
	"github.com/traintrackhq/traintrack-api/pkg/response"
)

type reportService interface {
	Weekly(ctx context.Context, userID string, role models.Role) (*service.Report, error)
	Export(ctx context.Context, userID string, role models.Role, format string) (*service.ReportFile, error)
}

// ReportHandler serves the weekly activity report and its exports.
type ReportHandler struct {
	reports reportService
}

// NewReportHandler constructs a new ReportHandler.
func NewReportHandler(reports reportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Weekly godoc
// @Summary Weekly activity report, optionally exported as a file
// @Tags Reports
// @Produce json
// @Param export query int false "Set to 1 to download a file"
// @Param format query string false "Export format (csv or pdf)"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /reports/weekly [get]
func (h *ReportHandler) Weekly(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if c.Query("export") != "1" {
		report, err := h.reports.Weekly(c.Request.Context(), claims.UserID, claims.Role)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, report, nil)
		return
	}

	file, err := h.reports.Export(c.Request.Context(), claims.UserID, claims.Role, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
