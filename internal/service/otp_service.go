package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/abhishekgaud7/PG-Backend/internal/domain"
	"github.com/abhishekgaud7/PG-Backend/internal/repo/postgres"
	"github.com/abhishekgaud7/PG-Backend/internal/sms"
	"github.com/abhishekgaud7/PG-Backend/pkg/auth"
	"github.com/abhishekgaud7/PG-Backend/pkg/config"
	"github.com/abhishekgaud7/PG-Backend/pkg/events"
	"github.com/abhishekgaud7/PG-Backend/pkg/logger"
)

type OTPService interface {
	Request(ctx context.Context, phone string) (*OTPResult, error)
	Verify(ctx context.Context, phone, code string) (*domain.UserInfo, string, error)
	RunReaper(ctx context.Context) error
}

// OTPResult reports when the issued code expires. Code is only populated
// outside production, as a documented testing backdoor.
type OTPResult struct {
	ExpiresAt time.Time
	Code      string
}

type otpService struct {
	otps     postgres.OTPRepo
	users    postgres.UserRepo
	sender   sms.Sender
	eventBus events.Publisher
	config   *config.Config
}

func NewOTPService(
	otps postgres.OTPRepo,
	users postgres.UserRepo,
	sender sms.Sender,
	eventBus events.Publisher,
	config *config.Config,
) OTPService {
	return &otpService{
		otps:     otps,
		users:    users,
		sender:   sender,
		eventBus: eventBus,
		config:   config,
	}
}

func (s *otpService) Request(ctx context.Context, phone string) (*OTPResult, error) {
	canonical, err := domain.ValidatePhone(phone)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByPhone(ctx, canonical)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	code, err := generateOTPCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate code: %w", err)
	}

	expiresAt := time.Now().Add(s.config.Auth.OTPTTL)
	if _, err := s.otps.Create(ctx, canonical, code, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to store otp: %w", err)
	}

	// Dispatch must not block correctness; a failed send still leaves a
	// valid code behind.
	message := fmt.Sprintf("Your PG-Backend OTP is: %s. Valid for %d minutes.",
		code, int(s.config.Auth.OTPTTL.Minutes()))
	if err := s.sender.Send(ctx, canonical, message); err != nil {
		logger.WarnContext(ctx, "Failed to send OTP SMS", "error", err, "phone", canonical)
	}

	if err := s.eventBus.Publish(ctx, events.OTPRequested, events.OTPRequestedEvent{
		Phone:     canonical,
		ExpiresAt: expiresAt,
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish otp requested event", "error", err)
	}

	result := &OTPResult{ExpiresAt: expiresAt}
	if !s.config.IsProduction() {
		result.Code = code
	}
	return result, nil
}

func (s *otpService) Verify(ctx context.Context, phone, code string) (*domain.UserInfo, string, error) {
	canonical, err := domain.ValidatePhone(phone)
	if err != nil {
		return nil, "", err
	}
	if code == "" {
		return nil, "", domain.NewValidationError("Phone number and OTP code are required")
	}

	consumed, err := s.otps.Consume(ctx, canonical, code, time.Now())
	if err != nil {
		return nil, "", fmt.Errorf("failed to verify otp: %w", err)
	}
	if !consumed {
		return nil, "", domain.ErrInvalidOTP
	}

	user, err := s.users.FindByPhone(ctx, canonical)
	if err != nil {
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, "", domain.ErrUserNotFound
	}

	// A possession-verified phone is a trusted alternate path: it also
	// clears any password lockout.
	if err := s.users.MarkPhoneVerified(ctx, user.ID); err != nil {
		return nil, "", fmt.Errorf("failed to mark phone verified: %w", err)
	}
	user.PhoneVerified = true

	token, err := auth.NewIdentityToken(user.ID, user.Role, s.config.Auth.JWTSecret, s.config.Auth.TokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create token: %w", err)
	}

	logger.InfoContext(ctx, "OTP login", "user_id", user.ID)
	return user.ToUserInfo(), token, nil
}

// RunReaper deletes expired unverified codes on an interval until ctx is
// canceled. Sweep failures are logged and skipped; the next tick retries.
func (s *otpService) RunReaper(ctx context.Context) error {
	ticker := time.NewTicker(s.config.Auth.ReaperInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			deleted, err := s.otps.DeleteExpired(ctx, time.Now())
			if err != nil {
				logger.Error("OTP reaper sweep failed", "error", err)
				continue
			}
			if deleted > 0 {
				logger.Info("Reaped expired OTP codes", "count", deleted)
			}
		}
	}
}

// generateOTPCode draws a uniformly random 6-digit code; leading zeros are
// preserved.
func generateOTPCode() (string, error) {
	max := big.NewInt(1_000_000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
