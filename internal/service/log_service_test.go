package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traintrackhq/traintrack-api/internal/models"
	appErrors "github.com/traintrackhq/traintrack-api/pkg/errors"
)

type mockLogRepo struct {
	logs    []models.DailyClassLog
	gotDate time.Time
}

func (m *mockLogRepo) Create(ctx context.Context, log *models.DailyClassLog) error {
	if log.ID == "" {
		log.ID = "log-1"
	}
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockLogRepo) ListByBatch(ctx context.Context, batchID string) ([]models.DailyClassLog, error) {
	var result []models.DailyClassLog
	for _, l := range m.logs {
		if l.BatchID == batchID {
			result = append(result, l)
		}
	}
	return result, nil
}

func (m *mockLogRepo) ListForTrainerOnDate(ctx context.Context, trainerID string, date time.Time) ([]models.DailyClassLog, error) {
	m.gotDate = date
	var result []models.DailyClassLog
	for _, l := range m.logs {
		if l.TrainerID == trainerID && l.Date.Equal(date) {
			result = append(result, l)
		}
	}
	return result, nil
}

const testBatchID = "a4c1b2d3-6e5f-4a7b-8c9d-0e1f2a3b4c5d"

type mockBatchFinder struct {
	batches map[string]models.Batch
}

func (m *mockBatchFinder) FindByID(ctx context.Context, id string) (*models.Batch, error) {
	b, ok := m.batches[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &b, nil
}

func newLogService(logs *mockLogRepo) *LogService {
	batches := &mockBatchFinder{batches: map[string]models.Batch{
		testBatchID: {ID: testBatchID, TrainerID: testTrainerID, Name: "Morning Python", Course: "python"},
	}}
	return NewLogService(logs, seededTrainerRepo(), batches, nil, nil)
}

func TestLogServiceCreateDerivesDuration(t *testing.T) {
	repo := &mockLogRepo{}
	svc := newLogService(repo)

	log, err := svc.Create(context.Background(), "user-1", models.RoleReadWrite, LogRequest{
		TrainerID: testTrainerID,
		BatchID:   testBatchID,
		Date:      "2026-03-02",
		StartTime: "09:00",
		EndTime:   "12:30",
	})
	require.NoError(t, err)
	assert.InDelta(t, 3.5, log.Duration, 1e-9)
	require.Len(t, repo.logs, 1)
	assert.Equal(t, "09:00", repo.logs[0].StartTime)
}

func TestLogServiceCreateRejectsReversedTimes(t *testing.T) {
	repo := &mockLogRepo{}
	svc := newLogService(repo)

	_, err := svc.Create(context.Background(), "user-1", models.RoleReadWrite, LogRequest{
		TrainerID: testTrainerID,
		BatchID:   testBatchID,
		Date:      "2026-03-02",
		StartTime: "12:30",
		EndTime:   "09:00",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.logs)
}

func TestLogServiceCreateRejectsBadDate(t *testing.T) {
	svc := newLogService(&mockLogRepo{})

	_, err := svc.Create(context.Background(), "user-1", models.RoleReadWrite, LogRequest{
		TrainerID: testTrainerID,
		BatchID:   testBatchID,
		Date:      "02-03-2026",
		StartTime: "09:00",
		EndTime:   "10:00",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestLogServiceCreateRejectsForeignBatch(t *testing.T) {
	logs := &mockLogRepo{}
	trainers := seededTrainerRepo()
	const otherTrainerID = "9d8c7b6a-5f4e-3d2c-1b0a-998877665544"
	trainers.trainers[otherTrainerID] = models.Trainer{ID: otherTrainerID, UserID: "user-2"}
	batches := &mockBatchFinder{batches: map[string]models.Batch{
		testBatchID: {ID: testBatchID, TrainerID: otherTrainerID},
	}}
	svc := NewLogService(logs, trainers, batches, nil, nil)

	_, err := svc.Create(context.Background(), "user-1", models.RoleAdmin, LogRequest{
		TrainerID: testTrainerID,
		BatchID:   testBatchID,
		Date:      "2026-03-02",
		StartTime: "09:00",
		EndTime:   "10:00",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, logs.logs)
}

func TestLogServiceCreateForeignTrainerForbidden(t *testing.T) {
	repo := &mockLogRepo{}
	svc := newLogService(repo)

	_, err := svc.Create(context.Background(), "user-2", models.RoleReadWrite, LogRequest{
		TrainerID: testTrainerID,
		BatchID:   testBatchID,
		Date:      "2026-03-02",
		StartTime: "09:00",
		EndTime:   "10:00",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.logs)
}

func TestLogServiceListForBatchScopesNonAdmins(t *testing.T) {
	repo := &mockLogRepo{logs: []models.DailyClassLog{
		{ID: "l-1", TrainerID: testTrainerID, BatchID: testBatchID, Duration: 2},
	}}
	svc := newLogService(repo)

	logs, err := svc.ListForBatch(context.Background(), "admin-1", models.RoleAdmin, testBatchID)
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	logs, err = svc.ListForBatch(context.Background(), "user-1", models.RoleReadWrite, testBatchID)
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	_, err = svc.ListForBatch(context.Background(), "user-2", models.RoleReadWrite, testBatchID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	_, err = svc.ListForBatch(context.Background(), "user-2", models.RoleReadOnly, testBatchID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
