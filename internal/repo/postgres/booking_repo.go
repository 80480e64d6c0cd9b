package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abhishekgaud7/PG-Backend/internal/domain"
)

type BookingRepo interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	ListByProperty(ctx context.Context, propertyID int64) ([]domain.Booking, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error)
	SoftDelete(ctx context.Context, id int64, at time.Time) error
	Restore(ctx context.Context, id int64) (*domain.Booking, error)
}

type bookingRepo struct {
	pool *pgxpool.Pool
}

func NewBookingRepo(pool *pgxpool.Pool) BookingRepo {
	return &bookingRepo{pool: pool}
}

const bookingCols = `id, user_id, property_id, check_in_date, check_out_date,
govt_id, emergency_name, emergency_phone,
payment_type, payment_status, payment_id, total_amount,
status, is_deleted, deleted_at, created_at, updated_at`

// joined selection: booking columns prefixed with b, plus owner id and the
// user/property summaries the API returns.
const bookingJoinCols = `b.id, b.user_id, b.property_id, b.check_in_date, b.check_out_date,
b.govt_id, b.emergency_name, b.emergency_phone,
b.payment_type, b.payment_status, b.payment_id, b.total_amount,
b.status, b.is_deleted, b.deleted_at, b.created_at, b.updated_at,
p.owner_id, p.id, p.title, p.type, p.city, p.price_per_month, p.images,
u.id, u.name, u.email, u.phone, u.role, u.phone_verified`

const bookingJoinFrom = `
FROM bookings b
JOIN properties p ON p.id = b.property_id
JOIN users u ON u.id = b.user_id`

func scanJoinedBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	var prop domain.PropertySummary
	var user domain.UserInfo
	err := row.Scan(
		&b.ID, &b.UserID, &b.PropertyID, &b.CheckInDate, &b.CheckOutDate,
		&b.GovtID, &b.EmergencyName, &b.EmergencyPhone,
		&b.PaymentType, &b.PaymentStatus, &b.PaymentID, &b.TotalAmount,
		&b.Status, &b.IsDeleted, &b.DeletedAt, &b.CreatedAt, &b.UpdatedAt,
		&b.PropertyOwnerID, &prop.ID, &prop.Title, &prop.Type, &prop.City, &prop.PricePerMonth, &prop.Images,
		&user.ID, &user.Name, &user.Email, &user.Phone, &user.Role, &user.PhoneVerified,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	b.Property = &prop
	b.User = &user
	return &b, nil
}

func (r *bookingRepo) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	const q = `
		INSERT INTO bookings (
			user_id, property_id, check_in_date, check_out_date,
			govt_id, emergency_name, emergency_phone,
			payment_type, payment_status, payment_id, total_amount,
			status, is_deleted
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,false)
		RETURNING id`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var id int64
	err := r.pool.QueryRow(ctx, q,
		b.UserID, b.PropertyID, b.CheckInDate, b.CheckOutDate,
		b.GovtID, b.EmergencyName, b.EmergencyPhone,
		b.PaymentType, b.PaymentStatus, b.PaymentID, b.TotalAmount,
		b.Status,
	).Scan(&id)
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

// GetByID returns the booking with owner/property/user fields joined in,
// soft-deleted rows included; callers decide whether a deleted row counts.
func (r *bookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	const q = `SELECT ` + bookingJoinCols + bookingJoinFrom + ` WHERE b.id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanJoinedBooking(r.pool.QueryRow(ctx, q, id))
}

func (r *bookingRepo) listJoined(ctx context.Context, cond string, args ...any) ([]domain.Booking, error) {
	q := `SELECT ` + bookingJoinCols + bookingJoinFrom + `
		WHERE b.is_deleted = false AND p.is_deleted = false AND ` + cond + `
		ORDER BY b.created_at DESC`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bs []domain.Booking
	for rows.Next() {
		b, err := scanJoinedBooking(rows)
		if err != nil {
			return nil, err
		}
		bs = append(bs, *b)
	}
	return bs, rows.Err()
}

func (r *bookingRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return r.listJoined(ctx, `b.user_id = $1`, userID)
}

func (r *bookingRepo) ListByProperty(ctx context.Context, propertyID int64) ([]domain.Booking, error) {
	return r.listJoined(ctx, `b.property_id = $1`, propertyID)
}

func (r *bookingRepo) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Booking, error) {
	return r.listJoined(ctx, `p.owner_id = $1`, ownerID)
}

func (r *bookingRepo) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	const q = `UPDATE bookings SET status = $2, updated_at = now() WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if _, err := r.pool.Exec(ctx, q, id, status); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// SoftDelete freezes the booking: the deleted flag forces status cancelled
// and blocks further status updates until an explicit restore.
func (r *bookingRepo) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	const q = `
		UPDATE bookings
		SET is_deleted = true, deleted_at = $2, status = 'cancelled', updated_at = now()
		WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, id, at)
	return err
}

// Restore clears the soft-delete flag and resets the status to pending,
// discarding whatever status the booking held before cancellation.
func (r *bookingRepo) Restore(ctx context.Context, id int64) (*domain.Booking, error) {
	const q = `
		UPDATE bookings
		SET is_deleted = false, deleted_at = NULL, status = 'pending', updated_at = now()
		WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if _, err := r.pool.Exec(ctx, q, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}
