package domain

import (
	"regexp"
	"strings"
	"time"
)

type User struct {
	ID                  int64      `json:"id"`
	Role                string     `json:"role"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	Phone               string     `json:"phone"`
	PasswordHash        string     `json:"-"`
	PhoneVerified       bool       `json:"phone_verified"`
	FailedLoginAttempts int        `json:"-"`
	LockedUntil         *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserInfo struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Role          string `json:"role"`
	PhoneVerified bool   `json:"phone_verified"`
}

// Valid user roles
const (
	RoleUser  = "user"
	RoleOwner = "owner"
)

var validRoles = map[string]bool{
	RoleUser:  true,
	RoleOwner: true,
}

func IsValidRole(role string) bool {
	return validRoles[role]
}

// Lockout state machine constants
const (
	MaxFailedLoginAttempts = 5
	LockoutDuration        = 15 * time.Minute
)

var (
	nameRegex  = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// Indian mobile: optional +91/91 prefix, first digit 6-9, ten digits total.
	phoneRegex   = regexp.MustCompile(`^(\+91|91)?[6-9]\d{9}$`)
	upperRegex   = regexp.MustCompile(`[A-Z]`)
	lowerRegex   = regexp.MustCompile(`[a-z]`)
	digitRegex   = regexp.MustCompile(`[0-9]`)
	symbolRegex  = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
	prefixRegex  = regexp.MustCompile(`^(\+91|91)`)
	cleanerRegex = regexp.MustCompile(`[\s-]`)
)

func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < 2 {
		return NewValidationError("Name must be at least 2 characters long")
	}
	if !nameRegex.MatchString(trimmed) {
		return NewValidationError("Name can only contain letters and spaces")
	}
	return nil
}

func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return NewValidationError("Invalid email format")
	}
	return nil
}

// ValidatePhone checks an Indian mobile number and returns its canonical
// +91XXXXXXXXXX form. Every store lookup uses the canonical form, so inputs
// that differ only by prefix or spacing collide onto one record.
func ValidatePhone(phone string) (string, error) {
	cleaned := cleanerRegex.ReplaceAllString(phone, "")
	if !phoneRegex.MatchString(cleaned) {
		return "", NewValidationError("Invalid phone number. Must be a valid Indian mobile number")
	}
	return "+91" + prefixRegex.ReplaceAllString(cleaned, ""), nil
}

// ValidatePassword collects every violated rule; a single weak aspect never
// masks the others.
func ValidatePassword(password string) error {
	var violations []string

	if len(password) < 8 {
		violations = append(violations, "Password must be at least 8 characters long")
	}
	if !upperRegex.MatchString(password) {
		violations = append(violations, "Password must contain at least one uppercase letter")
	}
	if !lowerRegex.MatchString(password) {
		violations = append(violations, "Password must contain at least one lowercase letter")
	}
	if !digitRegex.MatchString(password) {
		violations = append(violations, "Password must contain at least one number")
	}
	if !symbolRegex.MatchString(password) {
		violations = append(violations, "Password must contain at least one special character")
	}

	if len(violations) > 0 {
		return &PasswordPolicyError{Violations: violations}
	}
	return nil
}

// PasswordStrength scores 0-4 for advisory display; it never gates acceptance.
func PasswordStrength(password string) int {
	strength := 0

	if len(password) >= 8 {
		strength++
	}
	if len(password) >= 12 {
		strength++
	}
	if upperRegex.MatchString(password) && lowerRegex.MatchString(password) {
		strength++
	}
	if digitRegex.MatchString(password) {
		strength++
	}
	if symbolRegex.MatchString(password) {
		strength++
	}

	if strength > 4 {
		strength = 4
	}
	return strength
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	if r.Role == "" {
		r.Role = RoleUser
	}
}

func (r *LoginRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
}

// IsLocked reports whether the lockout window is still open at now.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

// ToUserInfo converts User to UserInfo (without sensitive data)
func (u *User) ToUserInfo() *UserInfo {
	return &UserInfo{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Phone:         u.Phone,
		Role:          u.Role,
		PhoneVerified: u.PhoneVerified,
	}
}
