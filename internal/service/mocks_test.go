package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/abhishekgaud7/PG-Backend/internal/domain"
	"github.com/abhishekgaud7/PG-Backend/pkg/config"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: config.EnvDevelopment},
		Auth: config.AuthConfig{
			JWTSecret:      "test-secret",
			TokenTTL:       time.Hour,
			OTPTTL:         5 * time.Minute,
			ReaperInterval: time.Minute,
		},
	}
}

// memUserRepo is an in-memory UserRepo good enough for service tests.
type memUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[int64]*domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, req *domain.RegisterRequest, passwordHash string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	u := &domain.User{
		ID:           r.nextID,
		Role:         req.Role,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	r.users[u.ID] = u
	return copyUser(u), nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) FindByPhone(_ context.Context, phone string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Phone == phone {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return copyUser(u), nil
}

func (r *memUserRepo) RecordFailedLogin(_ context.Context, id int64, attempts int, lockedUntil *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.FailedLoginAttempts = attempts
		u.LockedUntil = lockedUntil
	}
	return nil
}

func (r *memUserRepo) ResetLoginState(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.FailedLoginAttempts = 0
		u.LockedUntil = nil
	}
	return nil
}

func (r *memUserRepo) MarkPhoneVerified(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.PhoneVerified = true
		u.FailedLoginAttempts = 0
		u.LockedUntil = nil
	}
	return nil
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	if u.LockedUntil != nil {
		t := *u.LockedUntil
		c.LockedUntil = &t
	}
	return &c
}

type memOTPRepo struct {
	mu     sync.Mutex
	nextID int64
	codes  []*domain.OTPCode
}

func newMemOTPRepo() *memOTPRepo { return &memOTPRepo{} }

func (r *memOTPRepo) Create(_ context.Context, phone, code string, expiresAt time.Time) (*domain.OTPCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c := &domain.OTPCode{
		ID:        r.nextID,
		Phone:     phone,
		Code:      code,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	r.codes = append(r.codes, c)
	return c, nil
}

func (r *memOTPRepo) Consume(_ context.Context, phone, code string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Newest unverified, unexpired code for the phone.
	sort.SliceStable(r.codes, func(i, j int) bool {
		return r.codes[i].CreatedAt.After(r.codes[j].CreatedAt)
	})
	for _, c := range r.codes {
		if c.Phone == phone && c.Code == code && !c.Verified && c.ExpiresAt.After(now) {
			c.Verified = true
			return true, nil
		}
	}
	return false, nil
}

func (r *memOTPRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*domain.OTPCode
	var deleted int64
	for _, c := range r.codes {
		if !c.Verified && c.ExpiresAt.Before(now) {
			deleted++
			continue
		}
		kept = append(kept, c)
	}
	r.codes = kept
	return deleted, nil
}

type memPropertyRepo struct {
	mu     sync.Mutex
	nextID int64
	props  map[int64]*domain.Property
}

func newMemPropertyRepo() *memPropertyRepo {
	return &memPropertyRepo{props: make(map[int64]*domain.Property)}
}

func (r *memPropertyRepo) Create(_ context.Context, ownerID int64, req *domain.CreatePropertyRequest) (*domain.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p := &domain.Property{
		ID:            r.nextID,
		OwnerID:       ownerID,
		Title:         req.Title,
		Type:          req.Type,
		Gender:        req.Gender,
		Address:       req.Address,
		City:          req.City,
		PricePerMonth: req.PricePerMonth,
		Deposit:       req.Deposit,
		Amenities:     req.Amenities,
		Images:        req.Images,
		AvailableBeds: req.AvailableBeds,
		Description:   req.Description,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	r.props[p.ID] = p
	return copyProperty(p), nil
}

func (r *memPropertyRepo) GetByID(_ context.Context, id int64) (*domain.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.props[id]
	if !ok {
		return nil, nil
	}
	return copyProperty(p), nil
}

func (r *memPropertyRepo) GetWithOwner(ctx context.Context, id int64) (*domain.Property, error) {
	return r.GetByID(ctx, id)
}

func (r *memPropertyRepo) List(_ context.Context, filter domain.PropertyFilter) ([]domain.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Property
	for _, p := range r.props {
		if p.IsDeleted {
			continue
		}
		if filter.City != "" && p.City != filter.City {
			continue
		}
		if filter.Type != "" && p.Type != filter.Type {
			continue
		}
		out = append(out, *copyProperty(p))
	}
	return out, nil
}

func (r *memPropertyRepo) Update(_ context.Context, id int64, patch domain.PropertyPatch) (*domain.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.props[id]
	if !ok {
		return nil, nil
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.City != nil {
		p.City = *patch.City
	}
	if patch.PricePerMonth != nil {
		p.PricePerMonth = *patch.PricePerMonth
	}
	if patch.AvailableBeds != nil {
		p.AvailableBeds = *patch.AvailableBeds
	}
	p.UpdatedAt = time.Now()
	return copyProperty(p), nil
}

func (r *memPropertyRepo) SoftDelete(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.props[id]; ok {
		p.IsDeleted = true
		p.DeletedAt = &at
	}
	return nil
}

func (r *memPropertyRepo) Restore(_ context.Context, id int64) (*domain.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.props[id]
	if !ok {
		return nil, nil
	}
	p.IsDeleted = false
	p.DeletedAt = nil
	return copyProperty(p), nil
}

func copyProperty(p *domain.Property) *domain.Property {
	c := *p
	return &c
}

type memBookingRepo struct {
	mu       sync.Mutex
	nextID   int64
	bookings map[int64]*domain.Booking
	props    *memPropertyRepo
}

func newMemBookingRepo(props *memPropertyRepo) *memBookingRepo {
	return &memBookingRepo{bookings: make(map[int64]*domain.Booking), props: props}
}

func (r *memBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c := *b
	c.ID = r.nextID
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	if p, ok := r.props.props[c.PropertyID]; ok {
		c.PropertyOwnerID = p.OwnerID
	}
	r.bookings[c.ID] = &c
	return copyBooking(&c), nil
}

func (r *memBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	return copyBooking(b), nil
}

func (r *memBookingRepo) ListByUser(_ context.Context, userID int64) ([]domain.Booking, error) {
	return r.list(func(b *domain.Booking) bool { return b.UserID == userID })
}

func (r *memBookingRepo) ListByProperty(_ context.Context, propertyID int64) ([]domain.Booking, error) {
	return r.list(func(b *domain.Booking) bool { return b.PropertyID == propertyID })
}

func (r *memBookingRepo) ListByOwner(_ context.Context, ownerID int64) ([]domain.Booking, error) {
	return r.list(func(b *domain.Booking) bool { return b.PropertyOwnerID == ownerID })
}

func (r *memBookingRepo) list(match func(*domain.Booking) bool) ([]domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Booking
	for _, b := range r.bookings {
		if b.IsDeleted || !match(b) {
			continue
		}
		out = append(out, *copyBooking(b))
	}
	return out, nil
}

func (r *memBookingRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	b.Status = status
	b.UpdatedAt = time.Now()
	return copyBooking(b), nil
}

func (r *memBookingRepo) SoftDelete(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.bookings[id]; ok {
		b.IsDeleted = true
		b.DeletedAt = &at
		b.Status = domain.BookingCancelled
	}
	return nil
}

func (r *memBookingRepo) Restore(_ context.Context, id int64) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	b.IsDeleted = false
	b.DeletedAt = nil
	b.Status = domain.BookingPending
	return copyBooking(b), nil
}

func copyBooking(b *domain.Booking) *domain.Booking {
	c := *b
	return &c
}

// recordingPublisher captures events for assertions.
type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
}

func (p *recordingPublisher) Publish(_ context.Context, subject string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published(subject string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range p.subjects {
		if s == subject {
			return true
		}
	}
	return false
}

// recordingSender captures SMS sends.
type recordingSender struct {
	mu       sync.Mutex
	messages []string
}

func (s *recordingSender) Send(_ context.Context, _, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, message)
	return nil
}
