package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/traintrackhq/traintrack-api/internal/models"
)

// BatchRepository manages persistence for batches.
type BatchRepository struct {
	db *sqlx.DB
}

// NewBatchRepository constructs a BatchRepository.
func NewBatchRepository(db *sqlx.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

const batchColumns = "id, trainer_id, name, course, start_date, end_date, created_at, updated_at"

// List returns all batches ordered by start date.
func (r *BatchRepository) List(ctx context.Context) ([]models.Batch, error) {
	query := fmt.Sprintf("SELECT %s FROM batches ORDER BY start_date ASC, created_at ASC", batchColumns)
	var batches []models.Batch
	if err := r.db.SelectContext(ctx, &batches, query); err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	return batches, nil
}

// ListByTrainer returns a trainer's batches ordered by start date.
func (r *BatchRepository) ListByTrainer(ctx context.Context, trainerID string) ([]models.Batch, error) {
	query := fmt.Sprintf("SELECT %s FROM batches WHERE trainer_id = $1 ORDER BY start_date ASC, created_at ASC", batchColumns)
	var batches []models.Batch
	if err := r.db.SelectContext(ctx, &batches, query, trainerID); err != nil {
		return nil, fmt.Errorf("list batches by trainer: %w", err)
	}
	return batches, nil
}

// FindByID fetches a batch by ID.
func (r *BatchRepository) FindByID(ctx context.Context, id string) (*models.Batch, error) {
	query := fmt.Sprintf("SELECT %s FROM batches WHERE id = $1", batchColumns)
	var batch models.Batch
	if err := r.db.GetContext(ctx, &batch, query, id); err != nil {
		return nil, err
	}
	return &batch, nil
}

// Create inserts a new batch record.
func (r *BatchRepository) Create(ctx context.Context, batch *models.Batch) error {
	if batch.ID == "" {
		batch.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if batch.CreatedAt.IsZero() {
		batch.CreatedAt = now
	}
	batch.UpdatedAt = now

	const query = `INSERT INTO batches (id, trainer_id, name, course, start_date, end_date, created_at, updated_at)
		VALUES (:id, :trainer_id, :name, :course, :start_date, :end_date, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, batch); err != nil {
		return fmt.Errorf("create batch: %w", err)
	}
	return nil
}

// Update modifies an existing batch. The owning trainer never changes.
func (r *BatchRepository) Update(ctx context.Context, batch *models.Batch) error {
	batch.UpdatedAt = time.Now().UTC()
	const query = `UPDATE batches SET name = :name, course = :course, start_date = :start_date, end_date = :end_date, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, batch); err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	return nil
}
