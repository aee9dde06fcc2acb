package domain

import (
	"time"

	"github.com/google/uuid"
)

// Organization represents a tenant. All domain data is scoped to exactly
// one organization.
type Organization struct {
	ID        uuid.UUID
	Name      string
	Slug      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// IsActive returns true if the organization is enabled and not deleted.
func (o *Organization) IsActive() bool {
	return o.Active && o.DeletedAt == nil
}

// Summary returns the fields exposed in selection prompts.
func (o *Organization) Summary() OrganizationSummary {
	return OrganizationSummary{ID: o.ID, Name: o.Name, Slug: o.Slug}
}

// OrganizationSummary is the subset of organization fields carried in a
// selection-required failure payload.
type OrganizationSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}
