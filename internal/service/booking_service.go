package service

import (
	"context"
	"fmt"
	"time"

	"github.com/abhishekgaud7/PG-Backend/internal/domain"
	"github.com/abhishekgaud7/PG-Backend/internal/repo/postgres"
	"github.com/abhishekgaud7/PG-Backend/pkg/events"
	"github.com/abhishekgaud7/PG-Backend/pkg/logger"
)

type BookingService interface {
	Create(ctx context.Context, userID int64, req *domain.CreateBookingRequest) (*domain.Booking, error)
	ListForUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	ListForOwner(ctx context.Context, ownerID int64) ([]domain.Booking, error)
	ListForProperty(ctx context.Context, actorID, propertyID int64) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, actorID, id int64, status domain.BookingStatus) (*domain.Booking, error)
	Cancel(ctx context.Context, actorID, id int64) error
	Restore(ctx context.Context, actorID, id int64) (*domain.Booking, error)
}

type bookingService struct {
	bookings   postgres.BookingRepo
	properties postgres.PropertyRepo
	eventBus   events.Publisher
}

func NewBookingService(
	bookings postgres.BookingRepo,
	properties postgres.PropertyRepo,
	eventBus events.Publisher,
) BookingService {
	return &bookingService{
		bookings:   bookings,
		properties: properties,
		eventBus:   eventBus,
	}
}

func (s *bookingService) Create(ctx context.Context, userID int64, req *domain.CreateBookingRequest) (*domain.Booking, error) {
	if req.PropertyID == 0 || req.CheckInDate == "" || req.CheckOutDate == "" {
		return nil, domain.NewValidationError("Please provide property, check-in date, and check-out date")
	}
	if req.EmergencyName != "" && req.EmergencyPhone == "" {
		return nil, domain.NewValidationError("Please provide emergency contact phone number")
	}
	if err := req.PaymentInfo.Validate(); err != nil {
		return nil, err
	}

	checkIn, err := domain.ParseBookingDate(req.CheckInDate)
	if err != nil {
		return nil, err
	}
	checkOut, err := domain.ParseBookingDate(req.CheckOutDate)
	if err != nil {
		return nil, err
	}
	if !checkOut.After(checkIn) {
		return nil, domain.NewValidationError("Check-out date must be after check-in date")
	}

	property, err := s.properties.GetByID(ctx, req.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load property: %w", err)
	}
	if property == nil || property.IsDeleted {
		return nil, domain.ErrPropertyNotFound
	}
	// Beds are checked but never decremented: two concurrent bookings against
	// the last bed can both pass. Carried over from the source system as a
	// known gap; do not add a reservation protocol here without a product
	// decision.
	if property.AvailableBeds == 0 {
		return nil, domain.ErrNoBedsAvailable
	}

	days := domain.StayDays(checkIn, checkOut)
	booking := &domain.Booking{
		UserID:         userID,
		PropertyID:     property.ID,
		CheckInDate:    checkIn,
		CheckOutDate:   checkOut,
		GovtID:         req.GovtID,
		EmergencyName:  req.EmergencyName,
		EmergencyPhone: req.EmergencyPhone,
		PaymentType:    req.PaymentInfo.Type,
		PaymentStatus:  req.PaymentInfo.Status,
		PaymentID:      req.PaymentInfo.ID,
		TotalAmount:    domain.DeriveTotalAmount(req.PaymentInfo, days, property.PricePerMonth),
		Status:         domain.DeriveBookingStatus(req.PaymentInfo),
	}

	created, err := s.bookings.Create(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.publish(ctx, events.BookingCreated, events.BookingCreatedEvent{
		BookingID:   created.ID,
		UserID:      created.UserID,
		PropertyID:  created.PropertyID,
		Status:      string(created.Status),
		PaymentType: created.PaymentType,
		TotalAmount: created.TotalAmount,
		CheckIn:     created.CheckInDate,
		CheckOut:    created.CheckOutDate,
		CreatedAt:   created.CreatedAt,
	})

	return created, nil
}

func (s *bookingService) ListForUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

func (s *bookingService) ListForOwner(ctx context.Context, ownerID int64) ([]domain.Booking, error) {
	return s.bookings.ListByOwner(ctx, ownerID)
}

func (s *bookingService) ListForProperty(ctx context.Context, actorID, propertyID int64) ([]domain.Booking, error) {
	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load property: %w", err)
	}
	if property == nil {
		return nil, domain.ErrPropertyNotFound
	}
	if property.OwnerID != actorID {
		return nil, domain.ErrForbidden
	}
	return s.bookings.ListByProperty(ctx, propertyID)
}

// UpdateStatus lets the property owner move a booking between any two
// states; there are deliberately no adjacency rules.
func (s *bookingService) UpdateStatus(ctx context.Context, actorID, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	if !domain.IsValidBookingStatus(status) {
		return nil, domain.NewValidationError("Please provide a valid status (pending, confirmed, rejected, cancelled, completed)")
	}

	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if booking == nil {
		return nil, domain.ErrBookingNotFound
	}
	if booking.IsDeleted {
		return nil, domain.ErrBookingDeleted
	}
	if booking.PropertyOwnerID != actorID {
		return nil, domain.ErrForbidden
	}

	updated, err := s.bookings.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	s.publish(ctx, events.BookingStatusUpdated, events.BookingStatusUpdatedEvent{
		BookingID: updated.ID,
		OldStatus: string(booking.Status),
		NewStatus: string(updated.Status),
		UpdatedAt: updated.UpdatedAt,
	})

	return updated, nil
}

// Cancel is the user-initiated soft delete: the row is preserved, frozen at
// status cancelled, and stays restorable by the owner.
func (s *bookingService) Cancel(ctx context.Context, actorID, id int64) error {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load booking: %w", err)
	}
	if booking == nil {
		return domain.ErrBookingNotFound
	}
	if booking.IsDeleted {
		return domain.ErrAlreadyCancelled
	}
	if booking.UserID != actorID {
		return domain.ErrForbidden
	}

	if err := s.bookings.SoftDelete(ctx, id, time.Now()); err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	s.publish(ctx, events.BookingCanceled, events.BookingCanceledEvent{
		BookingID:  id,
		UserID:     booking.UserID,
		CanceledAt: time.Now(),
	})

	return nil
}

// Restore clears the soft delete and resets the booking to pending; the
// pre-cancellation status is discarded.
func (s *bookingService) Restore(ctx context.Context, actorID, id int64) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if booking == nil {
		return nil, domain.ErrBookingNotFound
	}
	if !booking.IsDeleted {
		return nil, domain.ErrNotCancelled
	}
	if booking.PropertyOwnerID != actorID {
		return nil, domain.ErrForbidden
	}

	restored, err := s.bookings.Restore(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to restore booking: %w", err)
	}

	s.publish(ctx, events.BookingRestored, events.BookingRestoredEvent{
		BookingID:  restored.ID,
		RestoredAt: restored.UpdatedAt,
	})

	return restored, nil
}

func (s *bookingService) publish(ctx context.Context, subject string, event any) {
	if err := s.eventBus.Publish(ctx, subject, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish booking event", "error", err, "subject", subject)
	}
}
