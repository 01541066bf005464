package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/traintrackhq/traintrack-api/internal/middleware"
	"github.com/traintrackhq/traintrack-api/internal/models"
	"github.com/traintrackhq/traintrack-api/internal/service"
)

type reportServiceMock struct {
	report    *service.Report
	reportErr error
	file      *service.ReportFile
	fileErr   error

	gotFormat string
}

func (m *reportServiceMock) Weekly(ctx context.Context, userID string, role models.Role) (*service.Report, error) {
	return m.report, m.reportErr
}

func (m *reportServiceMock) Export(ctx context.Context, userID string, role models.Role, format string) (*service.ReportFile, error) {
	m.gotFormat = format
	return m.file, m.fileErr
}

func newGinContext(method, path string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, nil)
	c.Request = req
	return c, w
}

func TestReportHandlerWeeklyJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &reportServiceMock{
		report: &service.Report{
			Window: service.ReportWindow{From: time.Now().AddDate(0, 0, -7), To: time.Now()},
			Rows:   []models.ReportRow{},
		},
	}
	handler := NewReportHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/reports/weekly")
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})

	handler.Weekly(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestReportHandlerWeeklyCSVAttachment(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &reportServiceMock{
		file: &service.ReportFile{
			Filename:    "weekly_report.csv",
			ContentType: "text/csv",
			Content:     []byte("Trainer,Batch,Date,Duration (hrs)\n"),
		},
	}
	handler := NewReportHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/reports/weekly?export=1")
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-1", Role: models.RoleReadWrite})

	handler.Weekly(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	require.Equal(t, `attachment; filename="weekly_report.csv"`, w.Header().Get("Content-Disposition"))
	require.Equal(t, "Trainer,Batch,Date,Duration (hrs)\n", w.Body.String())
}

func TestReportHandlerWeeklyPDFFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &reportServiceMock{
		file: &service.ReportFile{Filename: "weekly_report.pdf", ContentType: "application/pdf", Content: []byte("%PDF-1.3")},
	}
	handler := NewReportHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/reports/weekly?export=1&format=pdf")
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-1", Role: models.RoleAdmin})

	handler.Weekly(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "pdf", mockSvc.gotFormat)
	require.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
}

func TestReportHandlerWeeklyRequiresClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&reportServiceMock{})

	c, w := newGinContext(http.MethodGet, "/reports/weekly")

	handler.Weekly(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
