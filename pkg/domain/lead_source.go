package domain

import (
	"time"

	"github.com/google/uuid"
)

// LeadSourceConfig is an organization-scoped lead source. Name is unique
// within the organization; display order is alphabetical.
type LeadSourceConfig struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	Description    *string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
