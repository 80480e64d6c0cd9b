package domain

import (
	"math"
	"time"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingRejected  BookingStatus = "rejected"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

var validBookingStatuses = map[BookingStatus]bool{
	BookingPending:   true,
	BookingConfirmed: true,
	BookingRejected:  true,
	BookingCancelled: true,
	BookingCompleted: true,
}

func IsValidBookingStatus(s BookingStatus) bool {
	return validBookingStatuses[s]
}

// Payment types and statuses. The system only mocks payment; Cash settles on
// check-in, Mock settles immediately.
const (
	PaymentTypeMock = "Mock"
	PaymentTypeCash = "Cash"

	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"
)

type PaymentInfo struct {
	Type   string  `json:"type"`
	Status string  `json:"status"`
	ID     string  `json:"id"`
	Amount float64 `json:"amount,omitempty"`
}

// Validate enforces the payment cross-invariants: Cash settles later so its
// status must be pending; Mock settles instantly so its status must be success.
func (p *PaymentInfo) Validate() error {
	if p == nil || p.Type == "" || p.Status == "" || p.ID == "" {
		return NewValidationError("Please provide complete payment information (type, status, id)")
	}
	if p.Type != PaymentTypeMock && p.Type != PaymentTypeCash {
		return NewValidationError(`Payment type must be either "Mock" or "Cash"`)
	}
	if p.Type == PaymentTypeCash && p.Status != PaymentStatusPending {
		return &PaymentStateError{Message: `Cash payment status must be "pending"`}
	}
	if p.Type == PaymentTypeMock && p.Status != PaymentStatusSuccess {
		return &PaymentStateError{Message: `Mock payment status must be "success"`}
	}
	return nil
}

type CreateBookingRequest struct {
	PropertyID     int64        `json:"property"`
	CheckInDate    string       `json:"checkInDate"`
	CheckOutDate   string       `json:"checkOutDate"`
	PaymentInfo    *PaymentInfo `json:"paymentInfo"`
	GovtID         string       `json:"govtId,omitempty"`
	EmergencyName  string       `json:"emergencyName,omitempty"`
	EmergencyPhone string       `json:"emergencyPhone,omitempty"`
}

type Booking struct {
	ID             int64         `json:"id"`
	UserID         int64         `json:"user_id"`
	PropertyID     int64         `json:"property_id"`
	CheckInDate    time.Time     `json:"check_in_date"`
	CheckOutDate   time.Time     `json:"check_out_date"`
	GovtID         string        `json:"govt_id,omitempty"`
	EmergencyName  string        `json:"emergency_name,omitempty"`
	EmergencyPhone string        `json:"emergency_phone,omitempty"`
	PaymentType    string        `json:"payment_type"`
	PaymentStatus  string        `json:"payment_status"`
	PaymentID      string        `json:"payment_id"`
	TotalAmount    int64         `json:"total_amount"`
	Status         BookingStatus `json:"status"`
	IsDeleted      bool          `json:"is_deleted"`
	DeletedAt      *time.Time    `json:"deleted_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`

	// PropertyOwnerID is joined in for ownership checks; never serialized.
	PropertyOwnerID int64 `json:"-"`

	// Summaries, populated on joined reads only.
	User     *UserInfo        `json:"user,omitempty"`
	Property *PropertySummary `json:"property,omitempty"`
}

type PropertySummary struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	Type          string   `json:"type"`
	City          string   `json:"city"`
	PricePerMonth float64  `json:"price_per_month"`
	Images        []string `json:"images,omitempty"`
}

var bookingDateLayouts = []string{time.RFC3339, "2006-01-02"}

// ParseBookingDate accepts the date forms clients send for check-in/check-out.
func ParseBookingDate(s string) (time.Time, error) {
	for _, layout := range bookingDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, NewValidationError("Invalid date format, use YYYY-MM-DD")
}

// StayDays is the stay length in whole days, rounded up.
func StayDays(checkIn, checkOut time.Time) int {
	return int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
}

// DeriveTotalAmount prefers the explicit payment amount; otherwise it
// prorates the monthly rate over the stay, rounded up.
func DeriveTotalAmount(payment *PaymentInfo, days int, pricePerMonth float64) int64 {
	if payment != nil && payment.Amount > 0 {
		return int64(math.Ceil(payment.Amount))
	}
	return int64(math.Ceil(float64(days) / 30 * pricePerMonth))
}

// DeriveBookingStatus confirms immediately only for settled mock payments.
func DeriveBookingStatus(payment *PaymentInfo) BookingStatus {
	if payment != nil && payment.Type == PaymentTypeMock && payment.Status == PaymentStatusSuccess {
		return BookingConfirmed
	}
	return BookingPending
}
