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

type logRepository interface {
	Create(ctx context.Context, log *models.DailyClassLog) error
	ListByBatch(ctx context.Context, batchID string) ([]models.DailyClassLog, error)
	ListForTrainerOnDate(ctx context.Context, trainerID string, date time.Time) ([]models.DailyClassLog, error)
}

type batchFinder interface {
	FindByID(ctx context.Context, id string) (*models.Batch, error)
}

// LogRequest represents the class log payload.
type LogRequest struct {
	TrainerID string  `json:"trainer_id" validate:"required,uuid"`
	BatchID   string  `json:"batch_id" validate:"required,uuid"`
	Date      string  `json:"date" validate:"required"`
	StartTime string  `json:"start_time" validate:"required"`
	EndTime   string  `json:"end_time" validate:"required"`
	Remarks   *string `json:"remarks" validate:"omitempty,max=500"`
}

// LogService records teaching sessions. Logs are append-only and their
// duration is always derived from the submitted times.
type LogService struct {
	repo       logRepository
	trainers   trainerFinder
	batches    batchFinder
	dashboards dashboardInvalidator
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewLogService constructs a LogService.
func NewLogService(repo logRepository, trainers trainerFinder, batches batchFinder, validate *validator.Validate, logger *zap.Logger) *LogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogService{repo: repo, trainers: trainers, batches: batches, validator: validate, logger: logger}
}

// SetDashboardInvalidator wires cache invalidation for dashboard reads.
func (s *LogService) SetDashboardInvalidator(inv dashboardInvalidator) {
	s.dashboards = inv
}

// Create validates and stores a class log. The referenced batch must
// belong to the referenced trainer, and non-admin writers may only log
// sessions for the trainer profile they own.
func (s *LogService) Create(ctx context.Context, actorUserID string, actorRole models.Role, req LogRequest) (*models.DailyClassLog, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class log payload")
	}

	date, err := time.Parse(models.DateLayout, req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}

	duration, err := models.ComputeDuration(date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session times")
	}

	trainer, err := s.trainers.FindByID(ctx, req.TrainerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "trainer does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainer")
	}
	if actorRole != models.RoleAdmin && trainer.UserID != actorUserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot log sessions for another trainer")
	}

	batch, err := s.batches.FindByID(ctx, req.BatchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "batch does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch")
	}
	if batch.TrainerID != trainer.ID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "batch does not belong to trainer")
	}

	var remarks *string
	if req.Remarks != nil {
		trimmed := strings.TrimSpace(*req.Remarks)
		if trimmed != "" {
			remarks = &trimmed
		}
	}

	log := &models.DailyClassLog{
		TrainerID: trainer.ID,
		BatchID:   batch.ID,
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Duration:  duration,
		Remarks:   remarks,
	}
	if err := s.repo.Create(ctx, log); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class log")
	}

	s.invalidateDashboards(ctx)
	s.logger.Info("class log created",
		zap.String("log_id", log.ID),
		zap.String("trainer_id", trainer.ID),
		zap.String("batch_id", batch.ID),
		zap.Float64("duration", duration))
	return log, nil
}

// ListForBatch returns the logs recorded against one batch. Only
// admins read any batch's logs; everyone else is limited to batches
// under the trainer profile they own.
func (s *LogService) ListForBatch(ctx context.Context, actorUserID string, actorRole models.Role, batchID string) ([]models.DailyClassLog, error) {
	if actorRole != models.RoleAdmin {
		batch, err := s.batches.FindByID(ctx, batchID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch")
		}
		trainer, err := s.trainers.FindByID(ctx, batch.TrainerID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainer")
		}
		if trainer == nil || trainer.UserID != actorUserID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot view another trainer's class logs")
		}
	}

	logs, err := s.repo.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list class logs")
	}
	return logs, nil
}

func (s *LogService) invalidateDashboards(ctx context.Context) {
	if s.dashboards != nil {
		s.dashboards.InvalidateDashboards(ctx)
	}
}
