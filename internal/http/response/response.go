// Package response writes the uniform JSON envelope used by every endpoint
// and maps domain errors onto HTTP status codes in one place.
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/abhishekgaud7/PG-Backend/internal/domain"
	"github.com/abhishekgaud7/PG-Backend/pkg/auth"
	"github.com/abhishekgaud7/PG-Backend/pkg/logger"
)

// Envelope is the shape of every response body.
type Envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func OK(w http.ResponseWriter, message string, data any) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

func Created(w http.ResponseWriter, message string, data any) {
	WriteJSON(w, http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

func Fail(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Envelope{Success: false, Message: message})
}

// Error translates a service-layer error into the right status code and
// envelope. Unknown errors are logged and collapsed to a generic 500 so
// internals never leak to clients.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	var validation *domain.ValidationError
	var policy *domain.PasswordPolicyError
	var payment *domain.PaymentStateError
	var badCreds *domain.InvalidCredentialsError
	var locked *domain.AccountLockedError

	switch {
	case errors.As(err, &validation):
		Fail(w, http.StatusBadRequest, validation.Message)
	case errors.As(err, &policy):
		WriteJSON(w, http.StatusBadRequest, Envelope{
			Success: false,
			Message: "Password does not meet the requirements",
			Errors:  policy.Violations,
		})
	case errors.As(err, &payment):
		Fail(w, http.StatusBadRequest, payment.Message)
	case errors.As(err, &locked):
		WriteJSON(w, http.StatusForbidden, Envelope{
			Success: false,
			Message: fmt.Sprintf("Account is temporarily locked. Try again in %d minutes", locked.RemainingMinutes(time.Now())),
			Data:    map[string]any{"locked_until": locked.LockedUntil.Format(time.RFC3339)},
		})
	case errors.As(err, &badCreds):
		env := Envelope{Success: false, Message: "Invalid credentials"}
		if badCreds.AttemptsRemaining >= 0 {
			env.Data = map[string]any{"attempts_remaining": badCreds.AttemptsRemaining}
		}
		WriteJSON(w, http.StatusUnauthorized, env)
	case errors.Is(err, domain.ErrDuplicateEmail):
		Fail(w, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, domain.ErrInvalidOTP):
		Fail(w, http.StatusBadRequest, "Invalid or expired OTP")
	case errors.Is(err, domain.ErrNoBedsAvailable):
		Fail(w, http.StatusBadRequest, "No beds available for this property")
	case errors.Is(err, domain.ErrBookingDeleted):
		Fail(w, http.StatusBadRequest, "Booking has been deleted")
	case errors.Is(err, domain.ErrAlreadyCancelled):
		Fail(w, http.StatusBadRequest, "Booking is already cancelled")
	case errors.Is(err, domain.ErrNotCancelled):
		Fail(w, http.StatusBadRequest, "Only cancelled bookings can be restored")
	case errors.Is(err, domain.ErrPropertyDeleted):
		Fail(w, http.StatusBadRequest, "Property is already deleted")
	case errors.Is(err, domain.ErrPropertyNotDeleted):
		Fail(w, http.StatusBadRequest, "Property is not deleted")
	case errors.Is(err, auth.ErrTokenExpired):
		Fail(w, http.StatusUnauthorized, "Token has expired")
	case errors.Is(err, auth.ErrTokenInvalid):
		Fail(w, http.StatusUnauthorized, "Invalid token")
	case errors.Is(err, domain.ErrForbidden):
		Fail(w, http.StatusForbidden, "You are not allowed to perform this action")
	case errors.Is(err, domain.ErrUserNotFound):
		Fail(w, http.StatusNotFound, "User not found")
	case errors.Is(err, domain.ErrPropertyNotFound):
		Fail(w, http.StatusNotFound, "Property not found")
	case errors.Is(err, domain.ErrBookingNotFound):
		Fail(w, http.StatusNotFound, "Booking not found")
	default:
		logger.ErrorContext(r.Context(), "unhandled error", "error", err, "path", r.URL.Path)
		Fail(w, http.StatusInternalServerError, "Server Error")
	}
}
