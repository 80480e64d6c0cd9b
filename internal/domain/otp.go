package domain

import "time"

// OTPCode is an ephemeral phone credential. A row is consumed (verified)
// at most once and only before ExpiresAt; expired unverified rows are
// reaped in the background.
type OTPCode struct {
	ID        int64     `json:"id"`
	Phone     string    `json:"phone"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

const OTPCodeLength = 6
