package auth

import (
	"context"
	"testing"

	"github.com/avilov/skybooker/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateName(ctx context.Context, id, name string) error {
	args := m.Called(ctx, id, name)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hash)
}

func TestAuthService_Register_Success(t *testing.T) {
	mockUsers := &MockUserRepository{}
	service := NewAuthService(mockUsers, bcrypt.MinCost)

	ctx := context.Background()
	mockUsers.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil).Once()

	user, err := service.Register(ctx, "Anna", "anna@example.com", "secret123")

	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, domain.RolePassenger, user.Role)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))

	mockUsers.AssertExpectations(t)
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	service := NewAuthService(&MockUserRepository{}, bcrypt.MinCost)

	user, err := service.Register(context.Background(), "Anna", "", "secret123")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	mockUsers := &MockUserRepository{}
	service := NewAuthService(mockUsers, bcrypt.MinCost)

	ctx := context.Background()
	mockUsers.On("Create", ctx, mock.Anything).Return(domain.ErrDuplicateUser).Once()

	user, err := service.Register(ctx, "Anna", "anna@example.com", "secret123")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, domain.ErrDuplicateUser)
}

func TestAuthService_Login(t *testing.T) {
	mockUsers := &MockUserRepository{}
	service := NewAuthService(mockUsers, bcrypt.MinCost)

	ctx := context.Background()
	stored := &domain.User{
		ID:           "user-1",
		Email:        "anna@example.com",
		PasswordHash: hashFor(t, "secret123"),
	}
	mockUsers.On("GetByEmail", ctx, "anna@example.com").Return(stored, nil)
	mockUsers.On("GetByEmail", ctx, "ghost@example.com").Return(nil, domain.ErrUserNotFound)

	user, err := service.Login(ctx, "anna@example.com", "secret123")
	assert.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)

	// Wrong password and unknown email collapse into the same error.
	user, err = service.Login(ctx, "anna@example.com", "wrong")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	user, err = service.Login(ctx, "ghost@example.com", "secret123")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_ChangePassword(t *testing.T) {
	mockUsers := &MockUserRepository{}
	service := NewAuthService(mockUsers, bcrypt.MinCost)

	ctx := context.Background()
	stored := &domain.User{ID: "user-1", PasswordHash: hashFor(t, "old-pass")}
	mockUsers.On("GetByID", ctx, "user-1").Return(stored, nil)
	mockUsers.On("UpdatePassword", ctx, "user-1", mock.AnythingOfType("string")).Return(nil).Once()

	err := service.ChangePassword(ctx, "user-1", "old-pass", "new-pass")
	assert.NoError(t, err)

	err = service.ChangePassword(ctx, "user-1", "wrong-pass", "new-pass")
	assert.ErrorIs(t, err, domain.ErrInvalidCurrentPassword)

	err = service.ChangePassword(ctx, "user-1", "", "new-pass")
	assert.ErrorIs(t, err, domain.ErrValidation)

	mockUsers.AssertNumberOfCalls(t, "UpdatePassword", 1)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	mockUsers := &MockUserRepository{}
	service := NewAuthService(mockUsers, bcrypt.MinCost)

	ctx := context.Background()
	mockUsers.On("UpdateName", ctx, "user-1", "Anna K").Return(nil).Once()

	assert.NoError(t, service.UpdateProfile(ctx, "user-1", "Anna K"))
	assert.ErrorIs(t, service.UpdateProfile(ctx, "user-1", ""), domain.ErrValidation)
}

func TestAuthService_UpdateRole(t *testing.T) {
	mockUsers := &MockUserRepository{}
	service := NewAuthService(mockUsers, bcrypt.MinCost)

	ctx := context.Background()
	mockUsers.On("UpdateRole", ctx, "user-1", domain.RoleAirlineStaff).Return(nil).Once()

	assert.NoError(t, service.UpdateRole(ctx, "user-1", domain.RoleAirlineStaff))
	assert.ErrorIs(t, service.UpdateRole(ctx, "user-1", domain.Role("superuser")), domain.ErrInvalidRole)

	mockUsers.AssertExpectations(t)
}
