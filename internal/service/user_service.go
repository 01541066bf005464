package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/traintrackhq/traintrack-api/internal/models"
	appErrors "github.com/traintrackhq/traintrack-api/pkg/errors"
)

// pqUniqueViolation is the postgres error code for a unique index hit.
const pqUniqueViolation = "23505"

type userRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	CreateWithProfile(ctx context.Context, user *models.User, role models.Role) error
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	UpdateRole(ctx context.Context, userID string, role models.Role) error
	List(ctx context.Context, filter models.UserFilter) ([]models.UserAccount, int, error)
}

// CreateIdentityRequest represents payload for creating an identity.
type CreateIdentityRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=100"`
	Password string  `json:"password" validate:"required,min=6"`
	Email    *string `json:"email" validate:"omitempty,email"`
}

// SetRoleRequest represents payload for changing an account's role.
type SetRoleRequest struct {
	Role models.Role `json:"role" validate:"required"`
}

// UserService orchestrates identity management.
type UserService struct {
	repo      userRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs a UserService.
func NewUserService(repo userRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, validator: validate, logger: logger}
}

// CreateIdentity creates a user and its profile as one unit. The profile
// starts at the default role unless a caller-provided role overrides it.
func (s *UserService) CreateIdentity(ctx context.Context, req CreateIdentityRequest, role models.Role) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid identity payload")
	}
	if role == "" {
		role = models.DefaultRole
	}
	if !role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown role")
	}

	username := strings.TrimSpace(req.Username)
	exists, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check username")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		Email:        req.Email,
		Active:       true,
	}
	if err := s.repo.CreateWithProfile(ctx, user, role); err != nil {
		// A concurrent insert can slip past the existence check; the
		// unique index reports it as 23505.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, appErrors.Clone(appErrors.ErrConflict, "username already taken")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create identity")
	}

	s.logger.Info("identity created", zap.String("user_id", user.ID), zap.String("role", string(role)))
	return user, nil
}

// FindByUsername resolves a user by its unique username.
func (s *UserService) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

// SetRole updates the role held by a user's profile.
func (s *UserService) SetRole(ctx context.Context, userID string, req SetRoleRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid role payload")
	}
	if !req.Role.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "unknown role")
	}

	if err := s.repo.UpdateRole(ctx, userID, req.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update role")
	}

	s.logger.Info("role updated", zap.String("user_id", userID), zap.String("role", string(req.Role)))
	return nil
}

// List returns user accounts plus pagination data.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.UserAccount, *models.Pagination, error) {
	accounts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return accounts, pagination, nil
}

// RoleOf resolves the live profile role for a user.
func (s *UserService) RoleOf(ctx context.Context, userID string) (models.Role, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.Clone(appErrors.ErrNotFound, "profile not found")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}
	return profile.Role, nil
}
