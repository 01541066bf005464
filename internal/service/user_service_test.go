package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/traintrackhq/traintrack-api/internal/models"
	appErrors "github.com/traintrackhq/traintrack-api/pkg/errors"
)

type mockUserRepo struct {
	users     map[string]models.User
	profiles  map[string]models.Profile
	createErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:    make(map[string]models.User),
		profiles: make(map[string]models.Profile),
	}
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			found := u
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	for _, u := range m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) CreateWithProfile(ctx context.Context, user *models.User, role models.Role) error {
	if m.createErr != nil {
		return m.createErr
	}
	if user.ID == "" {
		user.ID = "user-" + user.Username
	}
	m.users[user.ID] = *user
	m.profiles[user.ID] = models.Profile{UserID: user.ID, Role: role}
	return nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &u, nil
}

func (m *mockUserRepo) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

func (m *mockUserRepo) UpdateRole(ctx context.Context, userID string, role models.Role) error {
	p, ok := m.profiles[userID]
	if !ok {
		return sql.ErrNoRows
	}
	p.Role = role
	m.profiles[userID] = p
	return nil
}

func (m *mockUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.UserAccount, int, error) {
	var accounts []models.UserAccount
	for _, u := range m.users {
		accounts = append(accounts, models.UserAccount{
			ID:       u.ID,
			Username: u.Username,
			Role:     m.profiles[u.ID].Role,
			Active:   u.Active,
		})
	}
	return accounts, len(accounts), nil
}

func TestUserServiceCreateIdentityDefaultsRole(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo, nil, nil)

	user, err := svc.CreateIdentity(context.Background(), CreateIdentityRequest{
		Username: "asha",
		Password: "secret123",
	}, "")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)

	assert.Equal(t, models.RoleReadOnly, repo.profiles[user.ID].Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))
	assert.NotEqual(t, "secret123", user.PasswordHash)
}

func TestUserServiceCreateIdentityDuplicateUsername(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo, nil, nil)

	_, err := svc.CreateIdentity(context.Background(), CreateIdentityRequest{Username: "asha", Password: "secret123"}, "")
	require.NoError(t, err)

	_, err = svc.CreateIdentity(context.Background(), CreateIdentityRequest{Username: "asha", Password: "another9"}, "")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Len(t, repo.users, 1)
}

func TestUserServiceCreateIdentityRacedUniqueViolation(t *testing.T) {
	repo := newMockUserRepo()
	repo.createErr = &pq.Error{Code: "23505", Constraint: "users_username_key"}
	svc := NewUserService(repo, nil, nil)

	_, err := svc.CreateIdentity(context.Background(), CreateIdentityRequest{Username: "asha", Password: "secret123"}, "")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, "username already taken", appErr.Message)
}

func TestUserServiceCreateIdentityRejectsUnknownRole(t *testing.T) {
	svc := NewUserService(newMockUserRepo(), nil, nil)

	_, err := svc.CreateIdentity(context.Background(), CreateIdentityRequest{Username: "asha", Password: "secret123"}, "superuser")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUserServiceSetRole(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo, nil, nil)

	user, err := svc.CreateIdentity(context.Background(), CreateIdentityRequest{Username: "asha", Password: "secret123"}, "")
	require.NoError(t, err)

	require.NoError(t, svc.SetRole(context.Background(), user.ID, SetRoleRequest{Role: models.RoleAdmin}))
	assert.Equal(t, models.RoleAdmin, repo.profiles[user.ID].Role)

	err = svc.SetRole(context.Background(), "missing", SetRoleRequest{Role: models.RoleAdmin})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	err = svc.SetRole(context.Background(), user.ID, SetRoleRequest{Role: "owner"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
