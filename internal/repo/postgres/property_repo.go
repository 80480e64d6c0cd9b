package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abhishekgaud7/PG-Backend/internal/domain"
)

type PropertyRepo interface {
	Create(ctx context.Context, ownerID int64, req *domain.CreatePropertyRequest) (*domain.Property, error)
	GetByID(ctx context.Context, id int64) (*domain.Property, error)
	GetWithOwner(ctx context.Context, id int64) (*domain.Property, error)
	List(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, error)
	Update(ctx context.Context, id int64, patch domain.PropertyPatch) (*domain.Property, error)
	SoftDelete(ctx context.Context, id int64, at time.Time) error
	Restore(ctx context.Context, id int64) (*domain.Property, error)
}

type propertyRepo struct {
	pool *pgxpool.Pool
}

func NewPropertyRepo(pool *pgxpool.Pool) PropertyRepo {
	return &propertyRepo{pool: pool}
}

const propertyCols = `id, owner_id, title, type, gender, address, city,
price_per_month, deposit, amenities, images, available_beds, description,
is_deleted, deleted_at, created_at, updated_at`

func scanProperty(row pgx.Row) (*domain.Property, error) {
	var p domain.Property
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Title, &p.Type, &p.Gender, &p.Address, &p.City,
		&p.PricePerMonth, &p.Deposit, &p.Amenities, &p.Images, &p.AvailableBeds, &p.Description,
		&p.IsDeleted, &p.DeletedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *propertyRepo) Create(ctx context.Context, ownerID int64, req *domain.CreatePropertyRequest) (*domain.Property, error) {
	const q = `
		INSERT INTO properties (
			owner_id, title, type, gender, address, city,
			price_per_month, deposit, amenities, images, available_beds, description, is_deleted
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,false)
		RETURNING ` + propertyCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	amenities := req.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	images := req.Images
	if images == nil {
		images = []string{}
	}

	return scanProperty(r.pool.QueryRow(ctx, q,
		ownerID, req.Title, req.Type, req.Gender, req.Address, req.City,
		req.PricePerMonth, req.Deposit, amenities, images, req.AvailableBeds, req.Description,
	))
}

// GetByID returns the row regardless of the soft-delete flag; callers decide
// whether a deleted row counts.
func (r *propertyRepo) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	const q = `SELECT ` + propertyCols + ` FROM properties WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanProperty(r.pool.QueryRow(ctx, q, id))
}

func (r *propertyRepo) GetWithOwner(ctx context.Context, id int64) (*domain.Property, error) {
	const q = `
		SELECT p.id, p.owner_id, p.title, p.type, p.gender, p.address, p.city,
			p.price_per_month, p.deposit, p.amenities, p.images, p.available_beds, p.description,
			p.is_deleted, p.deleted_at, p.created_at, p.updated_at,
			u.id, u.name, u.email, u.phone, u.role, u.phone_verified
		FROM properties p
		JOIN users u ON u.id = p.owner_id
		WHERE p.id = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var p domain.Property
	var owner domain.UserInfo
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&p.ID, &p.OwnerID, &p.Title, &p.Type, &p.Gender, &p.Address, &p.City,
		&p.PricePerMonth, &p.Deposit, &p.Amenities, &p.Images, &p.AvailableBeds, &p.Description,
		&p.IsDeleted, &p.DeletedAt, &p.CreatedAt, &p.UpdatedAt,
		&owner.ID, &owner.Name, &owner.Email, &owner.Phone, &owner.Role, &owner.PhoneVerified,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.Owner = &owner
	return &p, nil
}

func (r *propertyRepo) List(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, error) {
	conds := []string{"is_deleted = false"}
	args := []any{}

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.City != "" {
		conds = append(conds, "city ILIKE "+arg("%"+filter.City+"%"))
	}
	if filter.Type != "" {
		conds = append(conds, "type = "+arg(filter.Type))
	}
	if filter.Gender != "" {
		conds = append(conds, "gender = "+arg(filter.Gender))
	}
	if filter.MinPrice != nil {
		conds = append(conds, "price_per_month >= "+arg(*filter.MinPrice))
	}
	if filter.MaxPrice != nil {
		conds = append(conds, "price_per_month <= "+arg(*filter.MaxPrice))
	}
	if filter.OwnerID != nil {
		conds = append(conds, "owner_id = "+arg(*filter.OwnerID))
	}

	q := `SELECT ` + propertyCols + ` FROM properties WHERE ` +
		strings.Join(conds, " AND ") + ` ORDER BY created_at DESC`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ps []domain.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		ps = append(ps, *p)
	}
	return ps, rows.Err()
}

func (r *propertyRepo) Update(ctx context.Context, id int64, patch domain.PropertyPatch) (*domain.Property, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if patch.Title != nil {
		sets = append(sets, "title = "+arg(*patch.Title))
	}
	if patch.Type != nil {
		sets = append(sets, "type = "+arg(*patch.Type))
	}
	if patch.Gender != nil {
		sets = append(sets, "gender = "+arg(*patch.Gender))
	}
	if patch.Address != nil {
		sets = append(sets, "address = "+arg(*patch.Address))
	}
	if patch.City != nil {
		sets = append(sets, "city = "+arg(*patch.City))
	}
	if patch.PricePerMonth != nil {
		sets = append(sets, "price_per_month = "+arg(*patch.PricePerMonth))
	}
	if patch.Deposit != nil {
		sets = append(sets, "deposit = "+arg(*patch.Deposit))
	}
	if patch.Amenities != nil {
		sets = append(sets, "amenities = "+arg(*patch.Amenities))
	}
	if patch.Images != nil {
		sets = append(sets, "images = "+arg(*patch.Images))
	}
	if patch.AvailableBeds != nil {
		sets = append(sets, "available_beds = "+arg(*patch.AvailableBeds))
	}
	if patch.Description != nil {
		sets = append(sets, "description = "+arg(*patch.Description))
	}

	q := `UPDATE properties SET ` + strings.Join(sets, ", ") +
		` WHERE id = $1 RETURNING ` + propertyCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanProperty(r.pool.QueryRow(ctx, q, args...))
}

func (r *propertyRepo) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	const q = `UPDATE properties SET is_deleted = true, deleted_at = $2, updated_at = now() WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, id, at)
	return err
}

func (r *propertyRepo) Restore(ctx context.Context, id int64) (*domain.Property, error) {
	const q = `
		UPDATE properties SET is_deleted = false, deleted_at = NULL, updated_at = now()
		WHERE id = $1
		RETURNING ` + propertyCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanProperty(r.pool.QueryRow(ctx, q, id))
}
