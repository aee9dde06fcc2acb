package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/tendant/simple-crm-slim/pkg/domain"
)

// LeadSourcesRepository handles lead source config persistence.
type LeadSourcesRepository struct {
	db *sql.DB
}

// NewLeadSourcesRepository creates a new lead sources repository.
func NewLeadSourcesRepository(db *sql.DB) *LeadSourcesRepository {
	return &LeadSourcesRepository{db: db}
}

// ListByOrganization retrieves an organization's sources in alphabetical order.
func (r *LeadSourcesRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]domain.LeadSourceConfig, error) {
	query := `
		SELECT id, organization_id, name, description, is_active, created_at, updated_at
		FROM lead_sources
		WHERE organization_id = $1
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []domain.LeadSourceConfig
	for rows.Next() {
		var source domain.LeadSourceConfig
		err := rows.Scan(
			&source.ID, &source.OrganizationID, &source.Name, &source.Description,
			&source.IsActive, &source.CreatedAt, &source.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}

	return sources, rows.Err()
}

// GetByID retrieves a source by id within an organization.
func (r *LeadSourcesRepository) GetByID(ctx context.Context, id, orgID uuid.UUID) (*domain.LeadSourceConfig, error) {
	query := `
		SELECT id, organization_id, name, description, is_active, created_at, updated_at
		FROM lead_sources
		WHERE id = $1 AND organization_id = $2
	`

	var source domain.LeadSourceConfig
	err := r.db.QueryRowContext(ctx, query, id, orgID).Scan(
		&source.ID, &source.OrganizationID, &source.Name, &source.Description,
		&source.IsActive, &source.CreatedAt, &source.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewEntityNotFound("lead source")
		}
		return nil, err
	}

	return &source, nil
}

// GetByName retrieves a source by exact name within an organization.
func (r *LeadSourcesRepository) GetByName(ctx context.Context, name string, orgID uuid.UUID) (*domain.LeadSourceConfig, error) {
	query := `
		SELECT id, organization_id, name, description, is_active, created_at, updated_at
		FROM lead_sources
		WHERE name = $1 AND organization_id = $2
	`

	var source domain.LeadSourceConfig
	err := r.db.QueryRowContext(ctx, query, name, orgID).Scan(
		&source.ID, &source.OrganizationID, &source.Name, &source.Description,
		&source.IsActive, &source.CreatedAt, &source.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewEntityNotFound("lead source")
		}
		return nil, err
	}

	return &source, nil
}

// Create creates a new source.
func (r *LeadSourcesRepository) Create(ctx context.Context, source *domain.LeadSourceConfig) error {
	query := `
		INSERT INTO lead_sources (id, organization_id, name, description, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		source.ID, source.OrganizationID, source.Name, source.Description,
		source.IsActive, source.CreatedAt, source.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return domain.NewDuplicateName(source.Name)
	}
	return err
}

// Update updates a source, scoped by id and organization.
func (r *LeadSourcesRepository) Update(ctx context.Context, source *domain.LeadSourceConfig) error {
	query := `
		UPDATE lead_sources
		SET name = $1, description = $2, is_active = $3, updated_at = $4
		WHERE id = $5 AND organization_id = $6
	`
	result, err := r.db.ExecContext(ctx, query,
		source.Name, source.Description, source.IsActive, source.UpdatedAt,
		source.ID, source.OrganizationID,
	)
	if isUniqueViolation(err) {
		return domain.NewDuplicateName(source.Name)
	}
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.NewEntityNotFound("lead source")
	}

	return nil
}

// Delete deletes a source, scoped by id and organization.
func (r *LeadSourcesRepository) Delete(ctx context.Context, id, orgID uuid.UUID) error {
	query := `DELETE FROM lead_sources WHERE id = $1 AND organization_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, orgID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.NewEntityNotFound("lead source")
	}

	return nil
}
