package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traintrackhq/traintrack-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func trainerRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "name", "subjects", "expected_daily_hours", "created_at", "updated_at"})
}

func TestTrainerRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTrainerRepository(db)

	rows := trainerRows().
		AddRow("t1", "u1", "Asha", "Python, SQL", 8.0, time.Now(), time.Now()).
		AddRow("t2", "u2", "Ravi", "Java", 6.0, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, name, subjects, expected_daily_hours, created_at, updated_at FROM trainers ORDER BY created_at ASC")).
		WillReturnRows(rows)

	trainers, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, trainers, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrainerRepositoryFindByUserIDAbsent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTrainerRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, name, subjects, expected_daily_hours, created_at, updated_at FROM trainers WHERE user_id = $1")).
		WithArgs("u-missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByUserID(context.Background(), "u-missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrainerRepositoryCreateSelfRegisteredPromotes(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTrainerRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO trainers").
		WithArgs(sqlmock.AnyArg(), "u1", "Asha", "Python", 8.0, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE profiles SET role = $2, updated_at = $3 WHERE user_id = $1 AND role = $4")).
		WithArgs("u1", models.RoleReadWrite, sqlmock.AnyArg(), models.RoleReadOnly).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.CreateSelfRegistered(context.Background(), &models.Trainer{
		UserID:             "u1",
		Name:               "Asha",
		Subjects:           "Python",
		ExpectedDailyHours: 8,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrainerRepositoryDeleteCascade(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTrainerRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM class_logs WHERE trainer_id = $1")).
		WithArgs("t1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM batches WHERE trainer_id = $1")).
		WithArgs("t1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM trainers WHERE id = $1")).
		WithArgs("t1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteCascade(context.Background(), "t1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrainerRepositoryDeleteCascadeRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTrainerRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM class_logs WHERE trainer_id = $1")).
		WithArgs("t1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM batches WHERE trainer_id = $1")).
		WithArgs("t1").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.DeleteCascade(context.Background(), "t1")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrainerRepositoryDeleteCascadeUnknownTrainer(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTrainerRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM class_logs WHERE trainer_id = $1")).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM batches WHERE trainer_id = $1")).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM trainers WHERE id = $1")).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.DeleteCascade(context.Background(), "ghost")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
