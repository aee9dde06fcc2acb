package pipeline

import (
	"context"

	"github.com/google/uuid"
	"github.com/tendant/simple-crm-slim/pkg/domain"
)

// StageStore is the backing-store contract for lead stages. Every lookup is
// scoped by organization id; an id owned by another organization must look
// absent.
type StageStore interface {
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]domain.LeadStage, error)
	GetByID(ctx context.Context, id, orgID uuid.UUID) (*domain.LeadStage, error)
	GetByName(ctx context.Context, name string, orgID uuid.UUID) (*domain.LeadStage, error)
	MaxSortOrder(ctx context.Context, orgID uuid.UUID) (int, error)
	Create(ctx context.Context, stage *domain.LeadStage) error
	Update(ctx context.Context, stage *domain.LeadStage) error
	Delete(ctx context.Context, id, orgID uuid.UUID) error

	// Reorder applies the position batch atomically. Implementations must
	// verify inside the same transaction that every id belongs to orgID,
	// failing the whole batch with an access-denied error on a foreign id
	// and a not-found error on an unknown one. A failure must leave the
	// pre-reorder state visible.
	Reorder(ctx context.Context, orgID uuid.UUID, positions []domain.StagePosition) error
}

// SourceStore is the backing-store contract for lead source configs.
type SourceStore interface {
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]domain.LeadSourceConfig, error)
	GetByID(ctx context.Context, id, orgID uuid.UUID) (*domain.LeadSourceConfig, error)
	GetByName(ctx context.Context, name string, orgID uuid.UUID) (*domain.LeadSourceConfig, error)
	Create(ctx context.Context, source *domain.LeadSourceConfig) error
	Update(ctx context.Context, source *domain.LeadSourceConfig) error
	Delete(ctx context.Context, id, orgID uuid.UUID) error
}

// ClientRefStore counts lead records referencing a stage by name, for the
// delete guard.
type ClientRefStore interface {
	CountByStageName(ctx context.Context, orgID uuid.UUID, stageName string) (int, error)
}
