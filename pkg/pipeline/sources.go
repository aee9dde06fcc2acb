package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-crm-slim/pkg/domain"
	"github.com/tendant/simple-crm-slim/pkg/tenancy"
)

// CreateSourceInput holds the fields for creating a lead source.
type CreateSourceInput struct {
	Name        string
	Description *string
	IsActive    *bool
}

// UpdateSourceInput is a partial update; nil fields are left unchanged.
type UpdateSourceInput struct {
	Name        *string
	Description *string
	IsActive    *bool
}

// ListSources returns the organization's lead sources in alphabetical order.
func (s *Service) ListSources(ctx context.Context, tc *domain.TenantContext) ([]domain.LeadSourceConfig, error) {
	tc, err := tenancy.ValidateContext(tc)
	if err != nil {
		return nil, err
	}
	return s.sources.ListByOrganization(ctx, tc.OrganizationID)
}

// CreateSource creates a lead source for the caller's organization. Name
// must be non-empty and unique within the organization.
func (s *Service) CreateSource(ctx context.Context, tc *domain.TenantContext, input CreateSourceInput) (*domain.LeadSourceConfig, error) {
	tc, err := tenancy.ValidateContext(tc)
	if err != nil {
		return nil, err
	}

	if input.Name == "" {
		return nil, domain.NewValidation("name", "source name is required")
	}

	existing, err := s.sources.GetByName(ctx, input.Name, tc.OrganizationID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewDuplicateName(input.Name)
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	now := time.Now()
	source := &domain.LeadSourceConfig{
		ID:             uuid.New(),
		OrganizationID: tc.OrganizationID,
		Name:           input.Name,
		Description:    input.Description,
		IsActive:       active,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.sources.Create(ctx, source); err != nil {
		return nil, err
	}
	return source, nil
}

// UpdateSource applies a partial update to a lead source in the caller's
// organization. Renames are checked for sibling collisions.
func (s *Service) UpdateSource(ctx context.Context, tc *domain.TenantContext, id uuid.UUID, patch UpdateSourceInput) (*domain.LeadSourceConfig, error) {
	tc, err := tenancy.ValidateContext(tc)
	if err != nil {
		return nil, err
	}

	source, err := s.sources.GetByID(ctx, id, tc.OrganizationID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil && *patch.Name != source.Name {
		if *patch.Name == "" {
			return nil, domain.NewValidation("name", "source name is required")
		}
		sibling, err := s.sources.GetByName(ctx, *patch.Name, tc.OrganizationID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if sibling != nil {
			return nil, domain.NewDuplicateName(*patch.Name)
		}
		source.Name = *patch.Name
	}
	if patch.Description != nil {
		source.Description = patch.Description
	}
	if patch.IsActive != nil {
		source.IsActive = *patch.IsActive
	}
	source.UpdatedAt = time.Now()

	if err := s.sources.Update(ctx, source); err != nil {
		return nil, err
	}
	return source, nil
}

// DeleteSource deletes a lead source once found in the caller's
// organization. Sources have no reference guard.
func (s *Service) DeleteSource(ctx context.Context, tc *domain.TenantContext, id uuid.UUID) error {
	tc, err := tenancy.ValidateContext(tc)
	if err != nil {
		return err
	}

	if _, err := s.sources.GetByID(ctx, id, tc.OrganizationID); err != nil {
		return err
	}
	return s.sources.Delete(ctx, id, tc.OrganizationID)
}
