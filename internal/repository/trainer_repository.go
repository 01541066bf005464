package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/traintrackhq/traintrack-api/internal/models"
)

// TrainerRepository manages persistence for trainers.
type TrainerRepository struct {
	db *sqlx.DB
}

// NewTrainerRepository constructs a TrainerRepository.
func NewTrainerRepository(db *sqlx.DB) *TrainerRepository {
	return &TrainerRepository{db: db}
}

const trainerColumns = "id, user_id, name, subjects, expected_daily_hours, created_at, updated_at"

// List returns all trainers ordered by creation time.
func (r *TrainerRepository) List(ctx context.Context) ([]models.Trainer, error) {
	query := fmt.Sprintf("SELECT %s FROM trainers ORDER BY created_at ASC", trainerColumns)
	var trainers []models.Trainer
	if err := r.db.SelectContext(ctx, &trainers, query); err != nil {
		return nil, fmt.Errorf("list trainers: %w", err)
	}
	return trainers, nil
}

// FindByID fetches a trainer by ID.
func (r *TrainerRepository) FindByID(ctx context.Context, id string) (*models.Trainer, error) {
	query := fmt.Sprintf("SELECT %s FROM trainers WHERE id = $1", trainerColumns)
	var trainer models.Trainer
	if err := r.db.GetContext(ctx, &trainer, query, id); err != nil {
		return nil, err
	}
	return &trainer, nil
}

// FindByUserID fetches the trainer owned by an identity. Absence is a
// routine outcome surfaced as sql.ErrNoRows, not a failure.
func (r *TrainerRepository) FindByUserID(ctx context.Context, userID string) (*models.Trainer, error) {
	query := fmt.Sprintf("SELECT %s FROM trainers WHERE user_id = $1", trainerColumns)
	var trainer models.Trainer
	if err := r.db.GetContext(ctx, &trainer, query, userID); err != nil {
		return nil, err
	}
	return &trainer, nil
}

// Create inserts a new trainer record.
func (r *TrainerRepository) Create(ctx context.Context, trainer *models.Trainer) error {
	prepareTrainer(trainer)
	const query = `INSERT INTO trainers (id, user_id, name, subjects, expected_daily_hours, created_at, updated_at)
		VALUES (:id, :user_id, :name, :subjects, :expected_daily_hours, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, trainer); err != nil {
		return fmt.Errorf("create trainer: %w", err)
	}
	return nil
}

// CreateSelfRegistered inserts the trainer and promotes the owning profile
// from read_only to read_write in the same transaction.
func (r *TrainerRepository) CreateSelfRegistered(ctx context.Context, trainer *models.Trainer) error {
	prepareTrainer(trainer)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin self register: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const insertQuery = `INSERT INTO trainers (id, user_id, name, subjects, expected_daily_hours, created_at, updated_at)
		VALUES (:id, :user_id, :name, :subjects, :expected_daily_hours, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, insertQuery, trainer); err != nil {
		return fmt.Errorf("create trainer: %w", err)
	}

	const promoteQuery = `UPDATE profiles SET role = $2, updated_at = $3 WHERE user_id = $1 AND role = $4`
	if _, err := tx.ExecContext(ctx, promoteQuery, trainer.UserID, models.RoleReadWrite, time.Now().UTC(), models.RoleReadOnly); err != nil {
		return fmt.Errorf("promote profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit self register: %w", err)
	}
	return nil
}

// Update modifies an existing trainer record.
func (r *TrainerRepository) Update(ctx context.Context, trainer *models.Trainer) error {
	trainer.UpdatedAt = time.Now().UTC()
	const query = `UPDATE trainers SET name = :name, subjects = :subjects, expected_daily_hours = :expected_daily_hours, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, trainer); err != nil {
		return fmt.Errorf("update trainer: %w", err)
	}
	return nil
}

// DeleteCascade removes the trainer together with its batches and class
// logs. The whole cascade commits or rolls back as one unit.
func (r *TrainerRepository) DeleteCascade(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete trainer: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM class_logs WHERE trainer_id = $1`, id); err != nil {
		return fmt.Errorf("delete trainer logs: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM batches WHERE trainer_id = $1`, id); err != nil {
		return fmt.Errorf("delete trainer batches: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM trainers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete trainer: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete trainer: %w", err)
	}
	return nil
}

func prepareTrainer(trainer *models.Trainer) {
	if trainer.ID == "" {
		trainer.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if trainer.CreatedAt.IsZero() {
		trainer.CreatedAt = now
	}
	trainer.UpdatedAt = now
}
