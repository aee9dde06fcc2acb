// Package leads manages organization-scoped lead (client) records. Lead
// records reference pipeline stages by name, which makes them the foreign
// data the stage delete guard protects.
package leads

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-crm-slim/pkg/domain"
	"github.com/tendant/simple-crm-slim/pkg/tenancy"
)

// ClientStore is the backing-store contract for lead records.
type ClientStore interface {
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]domain.Client, error)
	GetByID(ctx context.Context, id, orgID uuid.UUID) (*domain.Client, error)
	Create(ctx context.Context, client *domain.Client) error
	CountByStageName(ctx context.Context, orgID uuid.UUID, stageName string) (int, error)
	// ReassignStage moves every client on fromStage to toStage within the
	// organization and returns the number of rows moved.
	ReassignStage(ctx context.Context, orgID uuid.UUID, fromStage, toStage string) (int64, error)
}

// StageFinder is the slice of the stage store the leads service needs to
// validate stage references.
type StageFinder interface {
	GetByName(ctx context.Context, name string, orgID uuid.UUID) (*domain.LeadStage, error)
}

// CreateClientInput holds the fields for creating a lead record.
// OrganizationID, when set, must match the caller's organization; it exists
// so payloads that explicitly reference a foreign tenant are rejected
// rather than silently rescoped.
type CreateClientInput struct {
	Name           string
	Email          *string
	Phone          *string
	LeadStage      string
	LeadSource     *string
	OrganizationID uuid.UUID
}

// Service implements lead record operations.
type Service struct {
	clients ClientStore
	stages  StageFinder
}

// NewService creates a leads service.
func NewService(clients ClientStore, stages StageFinder) *Service {
	return &Service{clients: clients, stages: stages}
}

// List returns the organization's lead records.
func (s *Service) List(ctx context.Context, tc *domain.TenantContext) ([]domain.Client, error) {
	tc, err := tenancy.ValidateContext(tc)
	if err != nil {
		return nil, err
	}
	return s.clients.ListByOrganization(ctx, tc.OrganizationID)
}

// Create creates a lead record in the caller's organization. The stage
// reference must name an existing stage of the same organization.
func (s *Service) Create(ctx context.Context, tc *domain.TenantContext, input CreateClientInput) (*domain.Client, error) {
	tc, err := tenancy.ValidateReference(tc, input.OrganizationID)
	if err != nil {
		return nil, err
	}

	if input.Name == "" {
		return nil, domain.NewValidation("name", "client name is required")
	}
	if input.LeadStage == "" {
		return nil, domain.NewValidation("lead_stage", "lead stage is required")
	}

	if _, err := s.stages.GetByName(ctx, input.LeadStage, tc.OrganizationID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewValidation("lead_stage", "unknown lead stage: "+input.LeadStage)
		}
		return nil, err
	}

	now := time.Now()
	client := &domain.Client{
		ID:             uuid.New(),
		OrganizationID: tc.OrganizationID,
		Name:           input.Name,
		Email:          input.Email,
		Phone:          input.Phone,
		LeadStage:      input.LeadStage,
		LeadSource:     input.LeadSource,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// ReassignStage moves every client on fromStage to toStage. The target
// stage must exist; this is the path that clears a referential conflict
// before a stage delete.
func (s *Service) ReassignStage(ctx context.Context, tc *domain.TenantContext, fromStage, toStage string) (int64, error) {
	tc, err := tenancy.ValidateContext(tc)
	if err != nil {
		return 0, err
	}

	if fromStage == "" || toStage == "" {
		return 0, domain.NewValidation("stage", "both source and target stage names are required")
	}
	if fromStage == toStage {
		return 0, domain.NewValidation("stage", "source and target stages are the same")
	}

	if _, err := s.stages.GetByName(ctx, toStage, tc.OrganizationID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, domain.NewValidation("stage", "unknown target stage: "+toStage)
		}
		return 0, err
	}

	return s.clients.ReassignStage(ctx, tc.OrganizationID, fromStage, toStage)
}
