package usecase

import (
	"context"
	"testing"

	"contest-arena/pkg/jwt"
	"contest-arena/pkg/logger"
	"contest-arena/pkg/models"
	"contest-arena/services/auth/internal/entity"
	"contest-arena/services/auth/internal/repo/persistent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

var _ persistent.UserRepository = (*MockUserRepository)(nil)

type MockLoginLimiter struct {
	mock.Mock
}

func (m *MockLoginLimiter) TooManyAttempts(ctx context.Context, email string) (bool, error) {
	args := m.Called(email)
	return args.Bool(0), args.Error(1)
}

func (m *MockLoginLimiter) RecordFailure(ctx context.Context, email string) error {
	args := m.Called(email)
	return args.Error(0)
}

func (m *MockLoginLimiter) Reset(ctx context.Context, email string) error {
	args := m.Called(email)
	return args.Error(0)
}

var _ persistent.LoginLimiter = (*MockLoginLimiter)(nil)

func newTestUseCase(userRepo *MockUserRepository, limiter *MockLoginLimiter) AuthUseCase {
	// A nil *MockLoginLimiter must stay a nil interface inside the usecase.
	var l persistent.LoginLimiter
	if limiter != nil {
		l = limiter
	}
	return NewAuthUseCase(userRepo, l, jwt.NewService("test-secret"), logger.New())
}

func TestRegister_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := newTestUseCase(userRepo, nil)

	userRepo.On("GetByEmail", "new@example.com").Return(nil, entity.ErrUserNotFound)
	userRepo.On("GetByUsername", "newbie").Return(nil, entity.ErrUserNotFound)
	userRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil)

	user, token, err := uc.Register(context.Background(), "new@example.com", "newbie", "Passw0rd!")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Empty(t, user.Password)
	userRepo.AssertExpectations(t)
}

func TestRegister_InvalidEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := newTestUseCase(userRepo, nil)

	_, _, err := uc.Register(context.Background(), "not-an-email", "user", "Passw0rd!")

	assert.ErrorIs(t, err, entity.ErrInvalidEmail)
	userRepo.AssertNotCalled(t, "Create")
}

func TestRegister_WeakPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := newTestUseCase(userRepo, nil)

	_, _, err := uc.Register(context.Background(), "user@example.com", "user", "password")

	assert.ErrorIs(t, err, entity.ErrWeakPassword)
	userRepo.AssertNotCalled(t, "Create")
}

func TestRegister_EmailTaken(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := newTestUseCase(userRepo, nil)

	userRepo.On("GetByEmail", "taken@example.com").Return(&models.User{ID: "existing"}, nil)

	_, _, err := uc.Register(context.Background(), "taken@example.com", "user", "Passw0rd!")

	assert.ErrorIs(t, err, entity.ErrEmailTaken)
	userRepo.AssertNotCalled(t, "Create")
}

func TestLogin_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	limiter := new(MockLoginLimiter)
	uc := newTestUseCase(userRepo, limiter)

	hash, _ := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.DefaultCost)
	userRepo.On("GetByEmail", "user@example.com").Return(&models.User{
		ID:       "user-1",
		Email:    "user@example.com",
		Password: string(hash),
		Role:     models.RoleUser,
		IsActive: true,
	}, nil)
	limiter.On("TooManyAttempts", "user@example.com").Return(false, nil)
	limiter.On("Reset", "user@example.com").Return(nil)

	user, token, err := uc.Login(context.Background(), "user@example.com", "Passw0rd!")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Empty(t, user.Password)
	limiter.AssertExpectations(t)
}

func TestLogin_WrongPasswordRecordsFailure(t *testing.T) {
	userRepo := new(MockUserRepository)
	limiter := new(MockLoginLimiter)
	uc := newTestUseCase(userRepo, limiter)

	hash, _ := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.DefaultCost)
	userRepo.On("GetByEmail", "user@example.com").Return(&models.User{
		ID:       "user-1",
		Password: string(hash),
		IsActive: true,
	}, nil)
	limiter.On("TooManyAttempts", "user@example.com").Return(false, nil)
	limiter.On("RecordFailure", "user@example.com").Return(nil)

	_, _, err := uc.Login(context.Background(), "user@example.com", "wrong-pass")

	assert.ErrorIs(t, err, entity.ErrInvalidCredentials)
	limiter.AssertExpectations(t)
	limiter.AssertNotCalled(t, "Reset")
}

func TestLogin_Throttled(t *testing.T) {
	userRepo := new(MockUserRepository)
	limiter := new(MockLoginLimiter)
	uc := newTestUseCase(userRepo, limiter)

	limiter.On("TooManyAttempts", "user@example.com").Return(true, nil)

	_, _, err := uc.Login(context.Background(), "user@example.com", "Passw0rd!")

	assert.ErrorIs(t, err, entity.ErrTooManyAttempts)
	userRepo.AssertNotCalled(t, "GetByEmail")
}

func TestLogin_UnknownEmailRecordsFailure(t *testing.T) {
	userRepo := new(MockUserRepository)
	limiter := new(MockLoginLimiter)
	uc := newTestUseCase(userRepo, limiter)

	limiter.On("TooManyAttempts", "ghost@example.com").Return(false, nil)
	userRepo.On("GetByEmail", "ghost@example.com").Return(nil, entity.ErrUserNotFound)
	limiter.On("RecordFailure", "ghost@example.com").Return(nil)

	_, _, err := uc.Login(context.Background(), "ghost@example.com", "Passw0rd!")

	assert.ErrorIs(t, err, entity.ErrInvalidCredentials)
	limiter.AssertExpectations(t)
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	userRepo := new(MockUserRepository)
	limiter := new(MockLoginLimiter)
	uc := newTestUseCase(userRepo, limiter)

	hash, _ := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.DefaultCost)
	limiter.On("TooManyAttempts", "user@example.com").Return(false, nil)
	userRepo.On("GetByEmail", "user@example.com").Return(&models.User{
		ID:       "user-1",
		Password: string(hash),
		IsActive: false,
	}, nil)

	_, _, err := uc.Login(context.Background(), "user@example.com", "Passw0rd!")

	assert.ErrorIs(t, err, entity.ErrAccountDeactivated)
}

func TestGetUser_StripsPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := newTestUseCase(userRepo, nil)

	userRepo.On("GetByID", "user-1").Return(&models.User{ID: "user-1", Password: "hash"}, nil)

	user, err := uc.GetUser(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Empty(t, user.Password)
}
