package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abhishekgaud7/PG-Backend/internal/domain"
)

type OTPRepo interface {
	Create(ctx context.Context, phone, code string, expiresAt time.Time) (*domain.OTPCode, error)
	Consume(ctx context.Context, phone, code string, now time.Time) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type otpRepo struct {
	pool *pgxpool.Pool
}

func NewOTPRepo(pool *pgxpool.Pool) OTPRepo {
	return &otpRepo{pool: pool}
}

const otpCols = `id, phone, code, expires_at, verified, created_at`

func (r *otpRepo) Create(ctx context.Context, phone, code string, expiresAt time.Time) (*domain.OTPCode, error) {
	const q = `
		INSERT INTO otp_codes (phone, code, expires_at, verified)
		VALUES ($1, $2, $3, false)
		RETURNING ` + otpCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var o domain.OTPCode
	err := r.pool.QueryRow(ctx, q, phone, code, expiresAt).Scan(
		&o.ID, &o.Phone, &o.Code, &o.ExpiresAt, &o.Verified, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Consume marks the newest matching unverified, unexpired code as verified.
// The verified guard in both the subquery and the outer UPDATE makes a second
// attempt with the same code fail instead of re-succeeding.
func (r *otpRepo) Consume(ctx context.Context, phone, code string, now time.Time) (bool, error) {
	const q = `
		UPDATE otp_codes
		SET verified = true
		WHERE id = (
			SELECT id FROM otp_codes
			WHERE phone = $1 AND code = $2 AND verified = false AND expires_at > $3
			ORDER BY created_at DESC
			LIMIT 1
		) AND verified = false
		RETURNING id`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var id int64
	err := r.pool.QueryRow(ctx, q, phone, code, now).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *otpRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const q = `DELETE FROM otp_codes WHERE verified = false AND expires_at < $1`

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q, now)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
