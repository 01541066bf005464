package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traintrackhq/traintrack-api/internal/models"
)

func logRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "trainer_id", "batch_id", "date", "start_time", "end_time", "duration", "remarks", "created_at"})
}

func TestLogRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLogRepository(db)

	mock.ExpectExec("INSERT INTO class_logs").
		WithArgs(sqlmock.AnyArg(), "t1", "b1", sqlmock.AnyArg(), "09:00", "12:30", 3.5, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	log := &models.DailyClassLog{
		TrainerID: "t1",
		BatchID:   "b1",
		Date:      time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		StartTime: "09:00",
		EndTime:   "12:30",
		Duration:  3.5,
	}
	require.NoError(t, repo.Create(context.Background(), log))
	assert.NotEmpty(t, log.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogRepositoryListForTrainerOnDate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLogRepository(db)

	day := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	rows := logRows().
		AddRow("l1", "t1", "b1", day, "09:00", "12:30", 3.5, nil, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, trainer_id, batch_id, date, start_time, end_time, duration, remarks, created_at FROM class_logs WHERE trainer_id = $1 AND date = $2 ORDER BY created_at ASC")).
		WithArgs("t1", day).
		WillReturnRows(rows)

	logs, err := repo.ListForTrainerOnDate(context.Background(), "t1", day)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 3.5, logs[0].Duration)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogRepositoryListReportRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLogRepository(db)

	from := time.Date(2026, time.February, 23, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"trainer_name", "batch_name", "date", "duration"}).
		AddRow("Asha", "Morning Python", from, 2.0).
		AddRow("Asha", "Morning Python", to, 3.5)
	mock.ExpectQuery("SELECT t.name AS trainer_name, b.name AS batch_name").
		WithArgs(from, to, "t1").
		WillReturnRows(rows)

	result, err := repo.ListReportRows(context.Background(), from, to, "t1")
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "Asha", result[0].TrainerName)
	assert.InDelta(t, 3.5, result[1].Duration, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}
