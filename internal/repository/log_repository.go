package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/traintrackhq/traintrack-api/internal/models"
)

// LogRepository manages persistence for daily class logs.
type LogRepository struct {
	db *sqlx.DB
}

// NewLogRepository constructs a LogRepository.
func NewLogRepository(db *sqlx.DB) *LogRepository {
	return &LogRepository{db: db}
}

const logColumns = "id, trainer_id, batch_id, date, start_time, end_time, duration, remarks, created_at"

// Create inserts a class log. The duration is expected to be derived by the
// caller before insertion; logs are never updated afterwards.
func (r *LogRepository) Create(ctx context.Context, log *models.DailyClassLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO class_logs (id, trainer_id, batch_id, date, start_time, end_time, duration, remarks, created_at)
		VALUES (:id, :trainer_id, :batch_id, :date, :start_time, :end_time, :duration, :remarks, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create class log: %w", err)
	}
	return nil
}

// ListByBatch returns all logs recorded against a batch.
func (r *LogRepository) ListByBatch(ctx context.Context, batchID string) ([]models.DailyClassLog, error) {
	query := fmt.Sprintf("SELECT %s FROM class_logs WHERE batch_id = $1 ORDER BY date ASC, created_at ASC", logColumns)
	var logs []models.DailyClassLog
	if err := r.db.SelectContext(ctx, &logs, query, batchID); err != nil {
		return nil, fmt.Errorf("list logs by batch: %w", err)
	}
	return logs, nil
}

// ListForTrainerOnDate returns a trainer's logs for a single day.
func (r *LogRepository) ListForTrainerOnDate(ctx context.Context, trainerID string, date time.Time) ([]models.DailyClassLog, error) {
	query := fmt.Sprintf("SELECT %s FROM class_logs WHERE trainer_id = $1 AND date = $2 ORDER BY created_at ASC", logColumns)
	var logs []models.DailyClassLog
	if err := r.db.SelectContext(ctx, &logs, query, trainerID, date); err != nil {
		return nil, fmt.Errorf("list logs for trainer on date: %w", err)
	}
	return logs, nil
}

// ListReportRows returns logs within [from, to] inclusive joined with
// trainer and batch names, optionally scoped to one trainer. Ordering is
// stable: date then insertion time.
func (r *LogRepository) ListReportRows(ctx context.Context, from, to time.Time, trainerID string) ([]models.ReportRow, error) {
	query := `SELECT t.name AS trainer_name, b.name AS batch_name, l.date, l.duration
		FROM class_logs l
		JOIN trainers t ON t.id = l.trainer_id
		JOIN batches b ON b.id = l.batch_id
		WHERE l.date >= $1 AND l.date <= $2`
	args := []interface{}{from, to}
	if trainerID != "" {
		query += " AND l.trainer_id = $3"
		args = append(args, trainerID)
	}
	query += " ORDER BY l.date ASC, l.created_at ASC"

	var rows []models.ReportRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list report rows: %w", err)
	}
	return rows, nil
}
