package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/traintrackhq/traintrack-api/internal/middleware"
	"github.com/traintrackhq/traintrack-api/internal/models"
	"github.com/traintrackhq/traintrack-api/internal/service"
	appErrors "github.com/traintrackhq/traintrack-api/pkg/errors"
)

type trainerServiceMock struct {
	trainer *models.Trainer
	err     error

	gotUserID string
}

func (m *trainerServiceMock) List(ctx context.Context) ([]models.Trainer, error) {
	if m.trainer == nil {
		return nil, m.err
	}
	return []models.Trainer{*m.trainer}, m.err
}

func (m *trainerServiceMock) Get(ctx context.Context, id string) (*models.Trainer, error) {
	return m.trainer, m.err
}

func (m *trainerServiceMock) SelfRegister(ctx context.Context, userID string, req service.TrainerRequest) (*models.Trainer, error) {
	m.gotUserID = userID
	return m.trainer, m.err
}

func (m *trainerServiceMock) Issue(ctx context.Context, req service.IssueTrainerRequest) (*models.Trainer, error) {
	return m.trainer, m.err
}

func (m *trainerServiceMock) Update(ctx context.Context, actorUserID string, actorRole models.Role, trainerID string, req service.TrainerRequest) (*models.Trainer, error) {
	m.gotUserID = actorUserID
	return m.trainer, m.err
}

func (m *trainerServiceMock) Delete(ctx context.Context, trainerID string) error {
	return m.err
}

func newJSONContext(method, path string, payload interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	body, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestTrainerHandlerSelfRegister(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &trainerServiceMock{trainer: &models.Trainer{ID: "t-1", UserID: "u-1", Name: "Asha"}}
	handler := NewTrainerHandler(mockSvc)

	c, w := newJSONContext(http.MethodPost, "/trainers", service.TrainerRequest{
		Name:               "Asha",
		Subjects:           "Python",
		ExpectedDailyHours: 8,
	})
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-1", Role: models.RoleReadOnly})

	handler.SelfRegister(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "u-1", mockSvc.gotUserID)
}

func TestTrainerHandlerSelfRegisterConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &trainerServiceMock{err: appErrors.Clone(appErrors.ErrConflict, "user is already registered as a trainer")}
	handler := NewTrainerHandler(mockSvc)

	c, w := newJSONContext(http.MethodPost, "/trainers", service.TrainerRequest{
		Name:               "Asha",
		Subjects:           "Python",
		ExpectedDailyHours: 8,
	})
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-1", Role: models.RoleReadWrite})

	handler.SelfRegister(c)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestTrainerHandlerUpdateDeniedRedirectsHome(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &trainerServiceMock{err: appErrors.Clone(appErrors.ErrForbidden, "cannot edit another trainer's profile")}
	handler := NewTrainerHandler(mockSvc)

	c, w := newJSONContext(http.MethodPut, "/trainers/t-2", service.TrainerRequest{
		Name:               "Asha",
		Subjects:           "Python",
		ExpectedDailyHours: 8,
	})
	c.Params = gin.Params{{Key: "id", Value: "t-2"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-1", Role: models.RoleReadWrite})

	handler.Update(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))
}

func TestTrainerHandlerIssueRejectsBadPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTrainerHandler(&trainerServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/trainers/admin", bytes.NewReader([]byte("{broken")))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Issue(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTrainerHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTrainerHandler(&trainerServiceMock{})

	c, w := newGinContext(http.MethodDelete, "/trainers/t-1")
	c.Params = gin.Params{{Key: "id", Value: "t-1"}}

	handler.Delete(c)
	// gin defers the status until the first write, flush it so the
	// recorder sees the code.
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
}
