package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/traintrackhq/traintrack-api/internal/models"
	appErrors "github.com/traintrackhq/traintrack-api/pkg/errors"
)

type trainerRepository interface {
	List(ctx context.Context) ([]models.Trainer, error)
	FindByID(ctx context.Context, id string) (*models.Trainer, error)
	FindByUserID(ctx context.Context, userID string) (*models.Trainer, error)
	Create(ctx context.Context, trainer *models.Trainer) error
	CreateSelfRegistered(ctx context.Context, trainer *models.Trainer) error
	Update(ctx context.Context, trainer *models.Trainer) error
	DeleteCascade(ctx context.Context, id string) error
}

type identityProvider interface {
	CreateIdentity(ctx context.Context, req CreateIdentityRequest, role models.Role) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

type dashboardInvalidator interface {
	InvalidateDashboards(ctx context.Context)
}

// TrainerRequest represents the trainer profile payload.
type TrainerRequest struct {
	Name               string  `json:"name" validate:"required,max=150"`
	Subjects           string  `json:"subjects" validate:"required,max=255"`
	ExpectedDailyHours float64 `json:"expected_daily_hours" validate:"required,gt=0,lte=24"`
}

// IssueTrainerRequest represents the admin payload that attaches a
// trainer profile to a login, either a freshly created one or, with
// UseExistingUser, one that already exists.
type IssueTrainerRequest struct {
	Username           string  `json:"username" validate:"required,min=3,max=100"`
	Password           string  `json:"password" validate:"omitempty,min=6"`
	Email              *string `json:"email" validate:"omitempty,email"`
	UseExistingUser    bool    `json:"use_existing_user"`
	Name               string  `json:"name" validate:"required,max=150"`
	Subjects           string  `json:"subjects" validate:"required,max=255"`
	ExpectedDailyHours float64 `json:"expected_daily_hours" validate:"required,gt=0,lte=24"`
}

// TrainerService manages trainer profiles and their ownership rules.
type TrainerService struct {
	repo       trainerRepository
	identities identityProvider
	dashboards dashboardInvalidator
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewTrainerService constructs a TrainerService.
func NewTrainerService(repo trainerRepository, identities identityProvider, validate *validator.Validate, logger *zap.Logger) *TrainerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrainerService{repo: repo, identities: identities, validator: validate, logger: logger}
}

// SetDashboardInvalidator wires cache invalidation for dashboard reads.
func (s *TrainerService) SetDashboardInvalidator(inv dashboardInvalidator) {
	s.dashboards = inv
}

// List returns all trainer profiles.
func (s *TrainerService) List(ctx context.Context) ([]models.Trainer, error) {
	trainers, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list trainers")
	}
	return trainers, nil
}

// Get returns one trainer by id.
func (s *TrainerService) Get(ctx context.Context, id string) (*models.Trainer, error) {
	trainer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "trainer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainer")
	}
	return trainer, nil
}

// ForUser returns the trainer owned by a user, or nil when the user has
// not registered a profile yet.
func (s *TrainerService) ForUser(ctx context.Context, userID string) (*models.Trainer, error) {
	trainer, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainer")
	}
	return trainer, nil
}

// SelfRegister creates a trainer profile for the calling user. Users at
// the default role are promoted to read_write in the same transaction.
func (s *TrainerService) SelfRegister(ctx context.Context, userID string, req TrainerRequest) (*models.Trainer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid trainer payload")
	}

	existing, err := s.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "user is already registered as a trainer")
	}

	trainer := &models.Trainer{
		UserID:             userID,
		Name:               strings.TrimSpace(req.Name),
		Subjects:           strings.TrimSpace(req.Subjects),
		ExpectedDailyHours: req.ExpectedDailyHours,
	}
	if err := s.repo.CreateSelfRegistered(ctx, trainer); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to register trainer")
	}

	s.invalidateDashboards(ctx)
	s.logger.Info("trainer self-registered", zap.String("trainer_id", trainer.ID), zap.String("user_id", userID))
	return trainer, nil
}

// Issue attaches a trainer profile to a login. Only admins reach this
// path. Without UseExistingUser a fresh identity is created at
// read_write; with it the profile goes to the named existing user, who
// must not already be a trainer.
func (s *TrainerService) Issue(ctx context.Context, req IssueTrainerRequest) (*models.Trainer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid trainer payload")
	}

	var user *models.User
	if req.UseExistingUser {
		found, err := s.identities.FindByUsername(ctx, req.Username)
		if err != nil {
			if appErrors.FromError(err).Code == appErrors.ErrNotFound.Code {
				return nil, appErrors.Clone(appErrors.ErrValidation, "username does not exist")
			}
			return nil, err
		}
		existing, err := s.ForUser(ctx, found.ID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, appErrors.Clone(appErrors.ErrConflict, "user is already a trainer")
		}
		user = found
	} else {
		if req.Password == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "password is required for new users")
		}
		created, err := s.identities.CreateIdentity(ctx, CreateIdentityRequest{
			Username: req.Username,
			Password: req.Password,
			Email:    req.Email,
		}, models.RoleReadWrite)
		if err != nil {
			return nil, err
		}
		user = created
	}

	trainer := &models.Trainer{
		UserID:             user.ID,
		Name:               strings.TrimSpace(req.Name),
		Subjects:           strings.TrimSpace(req.Subjects),
		ExpectedDailyHours: req.ExpectedDailyHours,
	}
	if err := s.repo.Create(ctx, trainer); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create trainer")
	}

	s.invalidateDashboards(ctx)
	s.logger.Info("trainer issued", zap.String("trainer_id", trainer.ID), zap.String("user_id", user.ID))
	return trainer, nil
}

// Update edits a trainer profile. Non-admin writers may only edit the
// profile they own.
func (s *TrainerService) Update(ctx context.Context, actorUserID string, actorRole models.Role, trainerID string, req TrainerRequest) (*models.Trainer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid trainer payload")
	}

	trainer, err := s.Get(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	if actorRole != models.RoleAdmin && trainer.UserID != actorUserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot edit another trainer's profile")
	}

	trainer.Name = strings.TrimSpace(req.Name)
	trainer.Subjects = strings.TrimSpace(req.Subjects)
	trainer.ExpectedDailyHours = req.ExpectedDailyHours
	if err := s.repo.Update(ctx, trainer); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update trainer")
	}

	s.invalidateDashboards(ctx)
	return trainer, nil
}

// Delete removes a trainer together with its batches and class logs.
func (s *TrainerService) Delete(ctx context.Context, trainerID string) error {
	if err := s.repo.DeleteCascade(ctx, trainerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "trainer not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete trainer")
	}

	s.invalidateDashboards(ctx)
	s.logger.Info("trainer deleted", zap.String("trainer_id", trainerID))
	return nil
}

func (s *TrainerService) invalidateDashboards(ctx context.Context) {
	if s.dashboards != nil {
		s.dashboards.InvalidateDashboards(ctx)
	}
}
