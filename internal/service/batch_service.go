package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/traintrackhq/traintrack-api/internal/models"
	appErrors "github.com/traintrackhq/traintrack-api/pkg/errors"
)

type batchRepository interface {
	List(ctx context.Context) ([]models.Batch, error)
	ListByTrainer(ctx context.Context, trainerID string) ([]models.Batch, error)
	FindByID(ctx context.Context, id string) (*models.Batch, error)
	Create(ctx context.Context, batch *models.Batch) error
	Update(ctx context.Context, batch *models.Batch) error
}

type trainerFinder interface {
	FindByID(ctx context.Context, id string) (*models.Trainer, error)
	FindByUserID(ctx context.Context, userID string) (*models.Trainer, error)
}

// BatchRequest represents the batch payload.
type BatchRequest struct {
	TrainerID string  `json:"trainer_id" validate:"required,uuid"`
	Name      string  `json:"name" validate:"required,max=150"`
	Course    string  `json:"course" validate:"required"`
	StartDate string  `json:"start_date" validate:"required"`
	EndDate   *string `json:"end_date" validate:"omitempty"`
}

// BatchView pairs a batch with its derived status and elapsed days.
type BatchView struct {
	models.Batch
	Status    string `json:"status"`
	DaysTaken int    `json:"days_taken"`
}

// BatchService manages batches and their derived lifecycle state.
type BatchService struct {
	repo       batchRepository
	trainers   trainerFinder
	dashboards dashboardInvalidator
	validator  *validator.Validate
	logger     *zap.Logger
	now        func() time.Time
}

// NewBatchService constructs a BatchService.
func NewBatchService(repo batchRepository, trainers trainerFinder, validate *validator.Validate, logger *zap.Logger) *BatchService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchService{repo: repo, trainers: trainers, validator: validate, logger: logger, now: time.Now}
}

// SetDashboardInvalidator wires cache invalidation for dashboard reads.
func (s *BatchService) SetDashboardInvalidator(inv dashboardInvalidator) {
	s.dashboards = inv
}

// Get returns one batch with its derived status and day count. Only
// admins see any batch; everyone else is limited to batches under the
// trainer profile they own.
func (s *BatchService) Get(ctx context.Context, actorUserID string, actorRole models.Role, id string) (*BatchView, error) {
	batch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch")
	}

	if actorRole != models.RoleAdmin {
		trainer, err := s.trainers.FindByID(ctx, batch.TrainerID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainer")
		}
		if trainer == nil || trainer.UserID != actorUserID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot view another trainer's batch")
		}
	}

	view := s.view(*batch)
	return &view, nil
}

// List returns the batches visible to the caller, ordered by start
// date. Admins see everything and may narrow to one trainer; everyone
// else only sees the batches of the trainer profile they own.
func (s *BatchService) List(ctx context.Context, actorUserID string, actorRole models.Role, trainerID string) ([]BatchView, error) {
	if actorRole != models.RoleAdmin {
		own, err := s.trainers.FindByUserID(ctx, actorUserID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return []BatchView{}, nil
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainer")
		}
		if trainerID != "" && trainerID != own.ID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot list another trainer's batches")
		}
		trainerID = own.ID
	}

	var (
		batches []models.Batch
		err     error
	)
	if trainerID != "" {
		batches, err = s.repo.ListByTrainer(ctx, trainerID)
	} else {
		batches, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list batches")
	}
	return s.views(batches), nil
}

// Create stores a new batch after validating its course code, dates and
// trainer reference. Non-admin writers may only create batches under the
// trainer profile they own.
func (s *BatchService) Create(ctx context.Context, actorUserID string, actorRole models.Role, req BatchRequest) (*BatchView, error) {
	batch, err := s.buildBatch(ctx, actorUserID, actorRole, req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, batch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create batch")
	}

	s.invalidateDashboards(ctx)
	s.logger.Info("batch created", zap.String("batch_id", batch.ID), zap.String("trainer_id", batch.TrainerID))
	view := s.view(*batch)
	return &view, nil
}

// Update edits a batch in place. The owning trainer never changes.
func (s *BatchService) Update(ctx context.Context, actorUserID string, actorRole models.Role, batchID string, req BatchRequest) (*BatchView, error) {
	current, err := s.repo.FindByID(ctx, batchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch")
	}

	req.TrainerID = current.TrainerID
	updated, err := s.buildBatch(ctx, actorUserID, actorRole, req)
	if err != nil {
		return nil, err
	}

	current.Name = updated.Name
	current.Course = updated.Course
	current.StartDate = updated.StartDate
	current.EndDate = updated.EndDate
	if err := s.repo.Update(ctx, current); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update batch")
	}

	s.invalidateDashboards(ctx)
	view := s.view(*current)
	return &view, nil
}

func (s *BatchService) buildBatch(ctx context.Context, actorUserID string, actorRole models.Role, req BatchRequest) (*models.Batch, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid batch payload")
	}

	course := strings.ToLower(strings.TrimSpace(req.Course))
	if !models.ValidCourse(course) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown course code")
	}

	startDate, err := time.Parse(models.DateLayout, req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date must be YYYY-MM-DD")
	}
	var endDate *time.Time
	if req.EndDate != nil && *req.EndDate != "" {
		parsed, err := time.Parse(models.DateLayout, *req.EndDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must be YYYY-MM-DD")
		}
		if parsed.Before(startDate) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "end_date cannot precede start_date")
		}
		endDate = &parsed
	}

	trainer, err := s.trainers.FindByID(ctx, req.TrainerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "trainer does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainer")
	}
	if actorRole != models.RoleAdmin && trainer.UserID != actorUserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot manage another trainer's batches")
	}

	return &models.Batch{
		TrainerID: trainer.ID,
		Name:      strings.TrimSpace(req.Name),
		Course:    course,
		StartDate: startDate,
		EndDate:   endDate,
	}, nil
}

func (s *BatchService) view(batch models.Batch) BatchView {
	today := s.now()
	return BatchView{
		Batch:     batch,
		Status:    batch.Status(today),
		DaysTaken: batch.DaysTaken(today),
	}
}

func (s *BatchService) views(batches []models.Batch) []BatchView {
	views := make([]BatchView, 0, len(batches))
	for _, batch := range batches {
		views = append(views, s.view(batch))
	}
	return views
}

func (s *BatchService) invalidateDashboards(ctx context.Context) {
	if s.dashboards != nil {
		s.dashboards.InvalidateDashboards(ctx)
	}
}
