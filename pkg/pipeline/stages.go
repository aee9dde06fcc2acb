package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-crm-slim/pkg/domain"
	"github.com/tendant/simple-crm-slim/pkg/tenancy"
)

// CreateStageInput holds the fields for creating a stage. A nil SortOrder
// appends after the organization's current maximum.
type CreateStageInput struct {
	Name        string
	Description *string
	Color       string
	SortOrder   *int
}

// UpdateStageInput is a partial update; nil fields are left unchanged.
type UpdateStageInput struct {
	Name        *string
	Description *string
	Color       *string
	SortOrder   *int
}

// ListStages returns the organization's stages ordered by sort order.
func (s *Service) ListStages(ctx context.Context, tc *domain.TenantContext) ([]domain.LeadStage, error) {
	tc, err := tenancy.ValidateContext(tc)
	if err != nil {
		return nil, err
	}
	return s.stages.ListByOrganization(ctx, tc.OrganizationID)
}

// CreateStage creates a stage for the caller's organization. Name must be
// non-empty and unique within the organization (case-sensitive exact match).
func (s *Service) CreateStage(ctx context.Context, tc *domain.TenantContext, input CreateStageInput) (*domain.LeadStage, error) {
	tc, err := tenancy.ValidateContext(tc)
	if err != nil {
		return nil, err
	}

	if input.Name == "" {
		return nil, domain.NewValidation("name", "stage name is required")
	}

	existing, err := s.stages.GetByName(ctx, input.Name, tc.OrganizationID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewDuplicateName(input.Name)
	}

	color := input.Color
	if color == "" {
		color = domain.DefaultStageColor
	}

	now := time.Now()
	stage := &domain.LeadStage{
		ID:             uuid.New(),
		OrganizationID: tc.OrganizationID,
		Name:           input.Name,
		Description:    input.Description,
		Color:          color,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if input.SortOrder != nil {
		stage.SortOrder = *input.SortOrder
		if err := s.stages.Create(ctx, stage); err != nil {
			return nil, err
		}
		return stage, nil
	}

	// Read-max-then-insert is a read-modify-write race; hold the
	// per-organization lock across both steps.
	lock := s.orgLock(tc.OrganizationID)
	lock.Lock()
	defer lock.Unlock()

	max, err := s.stages.MaxSortOrder(ctx, tc.OrganizationID)
	if err != nil {
		return nil, err
	}
	stage.SortOrder = max + 1
	if err := s.stages.Create(ctx, stage); err != nil {
		return nil, err
	}
	return stage, nil
}

// UpdateStage applies a partial update to a stage in the caller's
// organization. A rename is rejected when the new name collides with a
// sibling stage, since lead records reference stages by name.
func (s *Service) UpdateStage(ctx context.Context, tc *domain.TenantContext, id uuid.UUID, patch UpdateStageInput) (*domain.LeadStage, error) {
	tc, err := tenancy.ValidateContext(tc)
	if err != nil {
		return nil, err
	}

	stage, err := s.stages.GetByID(ctx, id, tc.OrganizationID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil && *patch.Name != stage.Name {
		if *patch.Name == "" {
			return nil, domain.NewValidation("name", "stage name is required")
		}
		sibling, err := s.stages.GetByName(ctx, *patch.Name, tc.OrganizationID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if sibling != nil {
			return nil, domain.NewDuplicateName(*patch.Name)
		}
		stage.Name = *patch.Name
	}
	if patch.Description != nil {
		stage.Description = patch.Description
	}
	if patch.Color != nil {
		stage.Color = *patch.Color
	}
	if patch.SortOrder != nil {
		stage.SortOrder = *patch.SortOrder
	}
	stage.UpdatedAt = time.Now()

	if err := s.stages.Update(ctx, stage); err != nil {
		return nil, err
	}
	return stage, nil
}

// DeleteStage deletes a stage unless lead records still reference it by
// name within the same organization. The reference count is a hard
// precondition, not best-effort.
func (s *Service) DeleteStage(ctx context.Context, tc *domain.TenantContext, id uuid.UUID) error {
	tc, err := tenancy.ValidateContext(tc)
	if err != nil {
		return err
	}

	stage, err := s.stages.GetByID(ctx, id, tc.OrganizationID)
	if err != nil {
		return err
	}

	count, err := s.clients.CountByStageName(ctx, tc.OrganizationID, stage.Name)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.NewReferentialConflict(count)
	}

	return s.stages.Delete(ctx, id, tc.OrganizationID)
}

// ReorderStages applies the position batch atomically. The store verifies
// ownership of every id inside the transaction; a foreign id fails the
// whole batch and no partial order becomes visible.
func (s *Service) ReorderStages(ctx context.Context, tc *domain.TenantContext, positions []domain.StagePosition) error {
	tc, err := tenancy.ValidateContext(tc)
	if err != nil {
		return err
	}
	if len(positions) == 0 {
		return domain.NewValidation("stages", "at least one stage position is required")
	}
	return s.stages.Reorder(ctx, tc.OrganizationID, positions)
}
