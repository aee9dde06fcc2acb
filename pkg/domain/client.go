package domain

import (
	"time"

	"github.com/google/uuid"
)

// Client is a lead record. LeadStage references a LeadStage by name within
// the same organization, which is why stage deletion is guarded by a
// reference count.
type Client struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	Email          *string
	Phone          *string
	LeadStage      string
	LeadSource     *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}
