package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexedwards/argon2id"

	"github.com/abhishekgaud7/PG-Backend/internal/domain"
	"github.com/abhishekgaud7/PG-Backend/internal/repo/postgres"
	"github.com/abhishekgaud7/PG-Backend/pkg/auth"
	"github.com/abhishekgaud7/PG-Backend/pkg/config"
	"github.com/abhishekgaud7/PG-Backend/pkg/logger"
)

type AuthService interface {
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.UserInfo, string, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.UserInfo, string, error)
}

type authService struct {
	users  postgres.UserRepo
	config *config.Config
}

func NewAuthService(users postgres.UserRepo, config *config.Config) AuthService {
	return &authService{users: users, config: config}
}

func (s *authService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.UserInfo, string, error) {
	req.Normalize()

	if req.Name == "" || req.Email == "" || req.Phone == "" || req.Password == "" {
		return nil, "", domain.NewValidationError("Please provide all required fields")
	}
	if err := domain.ValidateName(req.Name); err != nil {
		return nil, "", err
	}
	if err := domain.ValidateEmail(req.Email); err != nil {
		return nil, "", err
	}
	phone, err := domain.ValidatePhone(req.Phone)
	if err != nil {
		return nil, "", err
	}
	if err := domain.ValidatePassword(req.Password); err != nil {
		return nil, "", err
	}
	if !domain.IsValidRole(req.Role) {
		return nil, "", domain.NewValidationError("Invalid role")
	}
	req.Phone = phone

	existing, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, "", domain.ErrDuplicateEmail
	}

	// argon2id generates a fresh random salt per hash.
	passwordHash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.Create(ctx, req, passwordHash)
	if err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	logger.InfoContext(ctx, "User registered", "user_id", user.ID, "role", user.Role)
	return user.ToUserInfo(), token, nil
}

func (s *authService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.UserInfo, string, error) {
	req.Normalize()

	if req.Email == "" || req.Password == "" {
		return nil, "", domain.NewValidationError("Please provide email and password")
	}
	if err := domain.ValidateEmail(req.Email); err != nil {
		return nil, "", err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		// Same rejection as a wrong password; account existence stays hidden.
		return nil, "", &domain.InvalidCredentialsError{AttemptsRemaining: -1}
	}

	now := time.Now()

	// Lockout is checked before the password: a locked account rejects even
	// correct credentials until the window elapses.
	if user.IsLocked(now) {
		return nil, "", &domain.AccountLockedError{LockedUntil: *user.LockedUntil}
	}

	match, err := argon2id.ComparePasswordAndHash(req.Password, user.PasswordHash)
	if err != nil {
		return nil, "", fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		attempts := user.FailedLoginAttempts + 1

		var lockedUntil *time.Time
		if attempts >= domain.MaxFailedLoginAttempts {
			t := now.Add(domain.LockoutDuration)
			lockedUntil = &t
		}

		if err := s.users.RecordFailedLogin(ctx, user.ID, attempts, lockedUntil); err != nil {
			return nil, "", fmt.Errorf("failed to record login attempt: %w", err)
		}

		if lockedUntil != nil {
			logger.WarnContext(ctx, "Account locked after repeated failures", "user_id", user.ID)
			return nil, "", &domain.AccountLockedError{LockedUntil: *lockedUntil}
		}
		return nil, "", &domain.InvalidCredentialsError{
			AttemptsRemaining: domain.MaxFailedLoginAttempts - attempts,
		}
	}

	if err := s.users.ResetLoginState(ctx, user.ID); err != nil {
		return nil, "", fmt.Errorf("failed to reset login state: %w", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user.ToUserInfo(), token, nil
}

func (s *authService) issueToken(user *domain.User) (string, error) {
	token, err := auth.NewIdentityToken(user.ID, user.Role, s.config.Auth.JWTSecret, s.config.Auth.TokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to create token: %w", err)
	}
	return token, nil
}
