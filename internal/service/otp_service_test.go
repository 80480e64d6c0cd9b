package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhishekgaud7/PG-Backend/internal/domain"
	"github.com/abhishekgaud7/PG-Backend/pkg/config"
	"github.com/abhishekgaud7/PG-Backend/pkg/events"
)

func newOTPFixture(t *testing.T) (OTPService, *memUserRepo, *memOTPRepo, *recordingSender, *recordingPublisher) {
	t.Helper()
	users := newMemUserRepo()
	otps := newMemOTPRepo()
	sender := &recordingSender{}
	bus := &recordingPublisher{}
	svc := NewOTPService(otps, users, sender, bus, testConfig())

	authSvc := NewAuthService(users, testConfig())
	_, _, err := authSvc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	return svc, users, otps, sender, bus
}

func TestOTPRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("issues six digit code", func(t *testing.T) {
		svc, _, otps, sender, bus := newOTPFixture(t)

		result, err := svc.Request(ctx, "98765 43210")
		require.NoError(t, err)
		assert.Len(t, result.Code, domain.OTPCodeLength, "code echoed outside production")
		assert.WithinDuration(t, time.Now().Add(5*time.Minute), result.ExpiresAt, 5*time.Second)

		require.Len(t, otps.codes, 1)
		assert.Equal(t, "+919876543210", otps.codes[0].Phone, "stored under canonical phone")
		assert.Len(t, sender.messages, 1)
		assert.True(t, bus.published(events.OTPRequested))
	})

	t.Run("unknown phone", func(t *testing.T) {
		svc, _, _, _, _ := newOTPFixture(t)

		_, err := svc.Request(ctx, "9123456789")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("production hides the code", func(t *testing.T) {
		users := newMemUserRepo()
		cfg := testConfig()
		cfg.App.Env = config.EnvProduction
		svc := NewOTPService(newMemOTPRepo(), users, &recordingSender{}, &recordingPublisher{}, cfg)

		authSvc := NewAuthService(users, testConfig())
		_, _, err := authSvc.Register(ctx, registerReq())
		require.NoError(t, err)

		result, err := svc.Request(ctx, "9876543210")
		require.NoError(t, err)
		assert.Empty(t, result.Code)
	})
}

func TestOTPVerify(t *testing.T) {
	ctx := context.Background()

	t.Run("consumes code and issues token", func(t *testing.T) {
		svc, users, _, _, _ := newOTPFixture(t)

		result, err := svc.Request(ctx, "9876543210")
		require.NoError(t, err)

		info, token, err := svc.Verify(ctx, "9876543210", result.Code)
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.True(t, info.PhoneVerified)

		stored, _ := users.FindByPhone(ctx, "+919876543210")
		assert.True(t, stored.PhoneVerified)
	})

	t.Run("code is single use", func(t *testing.T) {
		svc, _, _, _, _ := newOTPFixture(t)

		result, err := svc.Request(ctx, "9876543210")
		require.NoError(t, err)

		_, _, err = svc.Verify(ctx, "9876543210", result.Code)
		require.NoError(t, err)

		_, _, err = svc.Verify(ctx, "9876543210", result.Code)
		assert.ErrorIs(t, err, domain.ErrInvalidOTP)
	})

	t.Run("expired code rejected", func(t *testing.T) {
		svc, _, otps, _, _ := newOTPFixture(t)

		result, err := svc.Request(ctx, "9876543210")
		require.NoError(t, err)
		otps.codes[0].ExpiresAt = time.Now().Add(-time.Second)

		_, _, err = svc.Verify(ctx, "9876543210", result.Code)
		assert.ErrorIs(t, err, domain.ErrInvalidOTP)
	})

	t.Run("wrong code rejected", func(t *testing.T) {
		svc, _, _, _, _ := newOTPFixture(t)

		_, err := svc.Request(ctx, "9876543210")
		require.NoError(t, err)

		_, _, err = svc.Verify(ctx, "9876543210", "000000")
		assert.ErrorIs(t, err, domain.ErrInvalidOTP)
	})

	t.Run("each issued code consumed independently", func(t *testing.T) {
		svc, _, _, _, _ := newOTPFixture(t)

		first, err := svc.Request(ctx, "9876543210")
		require.NoError(t, err)
		second, err := svc.Request(ctx, "9876543210")
		require.NoError(t, err)

		// Re-requesting does not invalidate the earlier code; each is
		// still single use.
		_, _, err = svc.Verify(ctx, "9876543210", second.Code)
		require.NoError(t, err)
		if first.Code != second.Code {
			_, _, err = svc.Verify(ctx, "9876543210", first.Code)
			assert.NoError(t, err)
		}
	})

	t.Run("clears login lockout", func(t *testing.T) {
		svc, users, _, _, _ := newOTPFixture(t)

		stored, _ := users.FindByPhone(ctx, "+919876543210")
		lockedUntil := time.Now().Add(10 * time.Minute)
		require.NoError(t, users.RecordFailedLogin(ctx, stored.ID, 5, &lockedUntil))

		result, err := svc.Request(ctx, "9876543210")
		require.NoError(t, err)
		_, _, err = svc.Verify(ctx, "9876543210", result.Code)
		require.NoError(t, err)

		stored, _ = users.FindByPhone(ctx, "+919876543210")
		assert.Zero(t, stored.FailedLoginAttempts)
		assert.Nil(t, stored.LockedUntil)
	})
}

func TestDeleteExpiredCodes(t *testing.T) {
	ctx := context.Background()
	otps := newMemOTPRepo()

	_, err := otps.Create(ctx, "+919876543210", "111111", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	_, err = otps.Create(ctx, "+919876543210", "222222", time.Now().Add(time.Minute))
	require.NoError(t, err)

	deleted, err := otps.DeleteExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestGenerateOTPCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := generateOTPCode()
		require.NoError(t, err)
		require.Len(t, code, domain.OTPCodeLength)
		for _, c := range code {
			assert.True(t, c >= '0' && c <= '9')
		}
	}
}
