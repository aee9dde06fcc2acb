package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultStageColor is assigned when a stage is created without a color.
const DefaultStageColor = "#6b7280"

// LeadStage is an organization-scoped pipeline stage. Name is unique within
// the organization; SortOrder governs display position. Order values are not
// required to be contiguous, but insertion without an explicit order appends
// after the current maximum.
type LeadStage struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	Description    *string
	Color          string
	SortOrder      int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// StagePosition pairs a stage id with its new sort order in a reorder batch.
type StagePosition struct {
	ID        uuid.UUID `json:"id"`
	SortOrder int       `json:"order"`
}
