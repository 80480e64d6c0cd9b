package service

import (
	"context"
	"fmt"
	"time"

	"github.com/abhishekgaud7/PG-Backend/internal/domain"
	"github.com/abhishekgaud7/PG-Backend/internal/repo/postgres"
)

type PropertyService interface {
	List(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, error)
	Get(ctx context.Context, id int64) (*domain.Property, error)
	Create(ctx context.Context, ownerID int64, req *domain.CreatePropertyRequest) (*domain.Property, error)
	Update(ctx context.Context, ownerID, id int64, patch domain.PropertyPatch) (*domain.Property, error)
	Delete(ctx context.Context, ownerID, id int64) error
	Restore(ctx context.Context, ownerID, id int64) (*domain.Property, error)
}

type propertyService struct {
	properties postgres.PropertyRepo
}

func NewPropertyService(properties postgres.PropertyRepo) PropertyService {
	return &propertyService{properties: properties}
}

func (s *propertyService) List(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, error) {
	return s.properties.List(ctx, filter)
}

func (s *propertyService) Get(ctx context.Context, id int64) (*domain.Property, error) {
	property, err := s.properties.GetWithOwner(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load property: %w", err)
	}
	if property == nil || property.IsDeleted {
		return nil, domain.ErrPropertyNotFound
	}
	return property, nil
}

func (s *propertyService) Create(ctx context.Context, ownerID int64, req *domain.CreatePropertyRequest) (*domain.Property, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.properties.Create(ctx, ownerID, req)
}

func (s *propertyService) Update(ctx context.Context, ownerID, id int64, patch domain.PropertyPatch) (*domain.Property, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	property, err := s.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if property.IsDeleted {
		return nil, domain.ErrPropertyNotFound
	}

	updated, err := s.properties.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update property: %w", err)
	}
	return updated, nil
}

func (s *propertyService) Delete(ctx context.Context, ownerID, id int64) error {
	property, err := s.owned(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if property.IsDeleted {
		return domain.ErrPropertyDeleted
	}
	return s.properties.SoftDelete(ctx, id, time.Now())
}

func (s *propertyService) Restore(ctx context.Context, ownerID, id int64) (*domain.Property, error) {
	property, err := s.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if !property.IsDeleted {
		return nil, domain.ErrPropertyNotDeleted
	}

	restored, err := s.properties.Restore(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to restore property: %w", err)
	}
	return restored, nil
}

func (s *propertyService) owned(ctx context.Context, ownerID, id int64) (*domain.Property, error) {
	property, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load property: %w", err)
	}
	if property == nil {
		return nil, domain.ErrPropertyNotFound
	}
	if property.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	return property, nil
}
