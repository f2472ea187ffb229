package usecase

import (
	"context"
	"fmt"

	"contest-arena/pkg/jwt"
	"contest-arena/pkg/logger"
	"contest-arena/pkg/models"
	"contest-arena/services/auth/internal/entity"
	"contest-arena/services/auth/internal/repo/persistent"

	"golang.org/x/crypto/bcrypt"
)

type AuthUseCase interface {
	Register(ctx context.Context, email, username, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

type authUseCase struct {
	userRepo     persistent.UserRepository
	loginLimiter persistent.LoginLimiter
	jwtService   *jwt.Service
	logger       *logger.Logger
}

func NewAuthUseCase(
	userRepo persistent.UserRepository,
	loginLimiter persistent.LoginLimiter,
	jwtService *jwt.Service,
	logger *logger.Logger,
) AuthUseCase {
	return &authUseCase{
		userRepo:     userRepo,
		loginLimiter: loginLimiter,
		jwtService:   jwtService,
		logger:       logger,
	}
}

func (uc *authUseCase) Register(ctx context.Context, email, username, password string) (*models.User, string, error) {
	if !entity.ValidEmail(email) {
		return nil, "", entity.ErrInvalidEmail
	}
	if !entity.ValidPassword(password) {
		return nil, "", entity.ErrWeakPassword
	}

	if _, err := uc.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, "", entity.ErrEmailTaken
	}
	if _, err := uc.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, "", entity.ErrUsernameTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		uc.logger.Error("Failed to hash password: %v", err)
		return nil, "", fmt.Errorf("failed to process registration")
	}

	user := &models.User{
		Email:    email,
		Username: username,
		Password: string(hashedPassword),
		Role:     models.RoleUser,
		IsActive: true,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		uc.logger.Error("Failed to create user: %v", err)
		return nil, "", fmt.Errorf("failed to create user")
	}

	token, err := uc.jwtService.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		uc.logger.Error("Failed to generate token: %v", err)
		return nil, "", fmt.Errorf("failed to generate token")
	}

	user.Password = ""
	return user, token, nil
}

func (uc *authUseCase) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if uc.loginLimiter != nil {
		throttled, err := uc.loginLimiter.TooManyAttempts(ctx, email)
		if err != nil {
			uc.logger.Error("Login limiter check failed for %s: %v", email, err)
		} else if throttled {
			return nil, "", entity.ErrTooManyAttempts
		}
	}

	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		uc.recordFailure(ctx, email)
		return nil, "", entity.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		uc.recordFailure(ctx, email)
		return nil, "", entity.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, "", entity.ErrAccountDeactivated
	}

	token, err := uc.jwtService.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		uc.logger.Error("Failed to generate token: %v", err)
		return nil, "", fmt.Errorf("failed to generate token")
	}

	if uc.loginLimiter != nil {
		if err := uc.loginLimiter.Reset(ctx, email); err != nil {
			uc.logger.Error("Failed to reset login attempts for %s: %v", email, err)
		}
	}

	user.Password = ""
	return user, token, nil
}

func (uc *authUseCase) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

func (uc *authUseCase) recordFailure(ctx context.Context, email string) {
	if uc.loginLimiter == nil {
		return
	}
	if err := uc.loginLimiter.RecordFailure(ctx, email); err != nil {
		uc.logger.Error("Failed to record login attempt for %s: %v", email, err)
	}
}
