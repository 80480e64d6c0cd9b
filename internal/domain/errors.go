package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors the HTTP boundary maps to status codes. Services wrap
// infrastructure failures separately; those fall through to a generic 500.
var (
	ErrUserNotFound        = errors.New("no account found with this phone number")
	ErrDuplicateEmail      = errors.New("user already exists with this email")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidOTP          = errors.New("invalid or expired OTP")
	ErrPropertyNotFound    = errors.New("property not found")
	ErrPropertyDeleted     = errors.New("property is already deleted")
	ErrPropertyNotDeleted  = errors.New("property is not deleted")
	ErrNoBedsAvailable     = errors.New("no beds available for this property")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrBookingDeleted      = errors.New("this booking has been cancelled and cannot be updated")
	ErrAlreadyCancelled    = errors.New("booking is already cancelled")
	ErrNotCancelled        = errors.New("booking is not cancelled")
	ErrForbidden           = errors.New("you are not authorized to perform this action")
	ErrInvalidPaymentState = errors.New("invalid payment state")
)

// ValidationError is a field-level input rejection.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// PasswordPolicyError carries every violated password rule, not just the first.
type PasswordPolicyError struct {
	Violations []string
}

func (e *PasswordPolicyError) Error() string {
	return "password does not meet requirements"
}

// PaymentStateError rejects a payment type/status combination that violates
// the cross-invariants, keeping the combination-specific message.
type PaymentStateError struct {
	Message string
}

func (e *PaymentStateError) Error() string { return e.Message }

func (e *PaymentStateError) Is(target error) bool { return target == ErrInvalidPaymentState }

// InvalidCredentialsError is a wrong-password rejection that also reports how
// many attempts remain before lockout. AttemptsRemaining < 0 means the count
// is not disclosed (unknown email uses the same message to avoid leaking
// account existence).
type InvalidCredentialsError struct {
	AttemptsRemaining int
}

func (e *InvalidCredentialsError) Error() string { return ErrInvalidCredentials.Error() }

func (e *InvalidCredentialsError) Is(target error) bool { return target == ErrInvalidCredentials }

// AccountLockedError rejects every authentication attempt until LockedUntil
// passes, regardless of credential correctness.
type AccountLockedError struct {
	LockedUntil time.Time
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account is temporarily locked. Try again in %d minutes", e.RemainingMinutes(time.Now()))
}

// RemainingMinutes is the ceiling of the remaining lockout in minutes.
func (e *AccountLockedError) RemainingMinutes(now time.Time) int {
	remaining := e.LockedUntil.Sub(now)
	if remaining <= 0 {
		return 0
	}
	mins := remaining.Milliseconds() / 60000
	if remaining.Milliseconds()%60000 != 0 {
		mins++
	}
	return int(mins)
}
