package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhishekgaud7/PG-Backend/internal/domain"
	"github.com/abhishekgaud7/PG-Backend/pkg/events"
)

const (
	testOwnerID = int64(100)
	testUserID  = int64(200)
)

type bookingFixture struct {
	svc      BookingService
	props    *memPropertyRepo
	bookings *memBookingRepo
	bus      *recordingPublisher
	property *domain.Property
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	props := newMemPropertyRepo()
	bookings := newMemBookingRepo(props)
	bus := &recordingPublisher{}

	property, err := props.Create(context.Background(), testOwnerID, &domain.CreatePropertyRequest{
		Title:         "Sunrise PG",
		Type:          "PG",
		Gender:        "Any",
		Address:       "12 MG Road",
		City:          "Bengaluru",
		PricePerMonth: 9000,
		AvailableBeds: 3,
	})
	require.NoError(t, err)

	return &bookingFixture{
		svc:      NewBookingService(bookings, props, bus),
		props:    props,
		bookings: bookings,
		bus:      bus,
		property: property,
	}
}

func mockBookingReq(propertyID int64) *domain.CreateBookingRequest {
	return &domain.CreateBookingRequest{
		PropertyID:   propertyID,
		CheckInDate:  "2026-09-01",
		CheckOutDate: "2026-09-16",
		PaymentInfo: &domain.PaymentInfo{
			Type:   domain.PaymentTypeMock,
			Status: domain.PaymentStatusSuccess,
			ID:     "MOCK_PAY_1700000000000_ab12",
		},
	}
}

func TestBookingCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("mock payment confirms immediately", func(t *testing.T) {
		f := newBookingFixture(t)

		b, err := f.svc.Create(ctx, testUserID, mockBookingReq(f.property.ID))
		require.NoError(t, err)
		assert.Equal(t, domain.BookingConfirmed, b.Status)
		// 15 of 30 days at 9000/month.
		assert.Equal(t, int64(4500), b.TotalAmount)
		assert.True(t, f.bus.published(events.BookingCreated))
	})

	t.Run("cash payment stays pending", func(t *testing.T) {
		f := newBookingFixture(t)

		req := mockBookingReq(f.property.ID)
		req.PaymentInfo = &domain.PaymentInfo{
			Type:   domain.PaymentTypeCash,
			Status: domain.PaymentStatusPending,
			ID:     "cash-on-arrival",
		}
		b, err := f.svc.Create(ctx, testUserID, req)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingPending, b.Status)
	})

	t.Run("explicit payment amount wins over proration", func(t *testing.T) {
		f := newBookingFixture(t)

		req := mockBookingReq(f.property.ID)
		req.PaymentInfo.Amount = 5000
		b, err := f.svc.Create(ctx, testUserID, req)
		require.NoError(t, err)
		assert.Equal(t, int64(5000), b.TotalAmount)
	})

	t.Run("cash marked success rejected", func(t *testing.T) {
		f := newBookingFixture(t)

		req := mockBookingReq(f.property.ID)
		req.PaymentInfo.Type = domain.PaymentTypeCash
		_, err := f.svc.Create(ctx, testUserID, req)
		assert.ErrorIs(t, err, domain.ErrInvalidPaymentState)
	})

	t.Run("checkout must follow checkin", func(t *testing.T) {
		f := newBookingFixture(t)

		req := mockBookingReq(f.property.ID)
		req.CheckOutDate = req.CheckInDate
		_, err := f.svc.Create(ctx, testUserID, req)
		var validation *domain.ValidationError
		assert.ErrorAs(t, err, &validation)
	})

	t.Run("emergency name requires phone", func(t *testing.T) {
		f := newBookingFixture(t)

		req := mockBookingReq(f.property.ID)
		req.EmergencyName = "Asha"
		_, err := f.svc.Create(ctx, testUserID, req)
		var validation *domain.ValidationError
		assert.ErrorAs(t, err, &validation)
	})

	t.Run("unknown property", func(t *testing.T) {
		f := newBookingFixture(t)

		_, err := f.svc.Create(ctx, testUserID, mockBookingReq(999))
		assert.ErrorIs(t, err, domain.ErrPropertyNotFound)
	})

	t.Run("soft deleted property behaves as missing", func(t *testing.T) {
		f := newBookingFixture(t)
		require.NoError(t, f.props.SoftDelete(ctx, f.property.ID, f.property.CreatedAt))

		_, err := f.svc.Create(ctx, testUserID, mockBookingReq(f.property.ID))
		assert.ErrorIs(t, err, domain.ErrPropertyNotFound)
	})

	t.Run("no beds available", func(t *testing.T) {
		f := newBookingFixture(t)
		zero := 0
		_, err := f.props.Update(ctx, f.property.ID, domain.PropertyPatch{AvailableBeds: &zero})
		require.NoError(t, err)

		_, err = f.svc.Create(ctx, testUserID, mockBookingReq(f.property.ID))
		assert.ErrorIs(t, err, domain.ErrNoBedsAvailable)
	})
}

func TestBookingUpdateStatus(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t)

	b, err := f.svc.Create(ctx, testUserID, mockBookingReq(f.property.ID))
	require.NoError(t, err)

	t.Run("owner updates freely", func(t *testing.T) {
		updated, err := f.svc.UpdateStatus(ctx, testOwnerID, b.ID, domain.BookingCompleted)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingCompleted, updated.Status)
		assert.True(t, f.bus.published(events.BookingStatusUpdated))

		// No adjacency rules: completed back to pending is allowed.
		updated, err = f.svc.UpdateStatus(ctx, testOwnerID, b.ID, domain.BookingPending)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingPending, updated.Status)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		_, err := f.svc.UpdateStatus(ctx, testOwnerID, b.ID, "archived")
		var validation *domain.ValidationError
		assert.ErrorAs(t, err, &validation)
	})

	t.Run("non owner forbidden", func(t *testing.T) {
		_, err := f.svc.UpdateStatus(ctx, testUserID, b.ID, domain.BookingConfirmed)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("missing booking", func(t *testing.T) {
		_, err := f.svc.UpdateStatus(ctx, testOwnerID, 999, domain.BookingConfirmed)
		assert.ErrorIs(t, err, domain.ErrBookingNotFound)
	})
}

func TestBookingCancelRestore(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t)

	b, err := f.svc.Create(ctx, testUserID, mockBookingReq(f.property.ID))
	require.NoError(t, err)

	t.Run("only the booking user cancels", func(t *testing.T) {
		err := f.svc.Cancel(ctx, testOwnerID, b.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("cancel freezes status at cancelled", func(t *testing.T) {
		require.NoError(t, f.svc.Cancel(ctx, testUserID, b.ID))

		stored, _ := f.bookings.GetByID(ctx, b.ID)
		assert.True(t, stored.IsDeleted)
		assert.Equal(t, domain.BookingCancelled, stored.Status)
		assert.True(t, f.bus.published(events.BookingCanceled))

		// Cancelled bookings disappear from listings.
		mine, err := f.svc.ListForUser(ctx, testUserID)
		require.NoError(t, err)
		assert.Empty(t, mine)
	})

	t.Run("double cancel rejected", func(t *testing.T) {
		err := f.svc.Cancel(ctx, testUserID, b.ID)
		assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)
	})

	t.Run("cancelled booking cannot change status", func(t *testing.T) {
		_, err := f.svc.UpdateStatus(ctx, testOwnerID, b.ID, domain.BookingConfirmed)
		assert.ErrorIs(t, err, domain.ErrBookingDeleted)
	})

	t.Run("only the owner restores", func(t *testing.T) {
		_, err := f.svc.Restore(ctx, testUserID, b.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("restore resets to pending", func(t *testing.T) {
		restored, err := f.svc.Restore(ctx, testOwnerID, b.ID)
		require.NoError(t, err)
		assert.False(t, restored.IsDeleted)
		// The confirmed status from before cancellation is discarded.
		assert.Equal(t, domain.BookingPending, restored.Status)
		assert.True(t, f.bus.published(events.BookingRestored))
	})

	t.Run("restore of live booking rejected", func(t *testing.T) {
		_, err := f.svc.Restore(ctx, testOwnerID, b.ID)
		assert.ErrorIs(t, err, domain.ErrNotCancelled)
	})
}

func TestBookingListings(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t)

	_, err := f.svc.Create(ctx, testUserID, mockBookingReq(f.property.ID))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, 201, mockBookingReq(f.property.ID))
	require.NoError(t, err)

	mine, err := f.svc.ListForUser(ctx, testUserID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	owned, err := f.svc.ListForOwner(ctx, testOwnerID)
	require.NoError(t, err)
	assert.Len(t, owned, 2)

	t.Run("property listing is owner only", func(t *testing.T) {
		byProp, err := f.svc.ListForProperty(ctx, testOwnerID, f.property.ID)
		require.NoError(t, err)
		assert.Len(t, byProp, 2)

		_, err = f.svc.ListForProperty(ctx, testUserID, f.property.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)

		_, err = f.svc.ListForProperty(ctx, testOwnerID, 999)
		assert.ErrorIs(t, err, domain.ErrPropertyNotFound)
	})
}
