package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/tendant/simple-crm-slim/pkg/domain"
)

// OrganizationsRepository handles organization persistence.
type OrganizationsRepository struct {
	db *sql.DB
}

// NewOrganizationsRepository creates a new organizations repository.
func NewOrganizationsRepository(db *sql.DB) *OrganizationsRepository {
	return &OrganizationsRepository{db: db}
}

// Create creates a new organization.
func (r *OrganizationsRepository) Create(ctx context.Context, org *domain.Organization) error {
	return r.CreateTx(ctx, r.db, org)
}

// CreateTx creates a new organization within a transaction.
func (r *OrganizationsRepository) CreateTx(ctx context.Context, q Querier, org *domain.Organization) error {
	query := `
		INSERT INTO organizations (id, name, slug, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := q.ExecContext(ctx, query,
		org.ID, org.Name, org.Slug, org.Active, org.CreatedAt, org.UpdatedAt,
	)
	return err
}

// GetByID retrieves an organization by ID.
func (r *OrganizationsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Organization, error) {
	query := `
		SELECT id, name, slug, active, created_at, updated_at, deleted_at
		FROM organizations
		WHERE id = $1 AND deleted_at IS NULL
	`

	var org domain.Organization
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&org.ID, &org.Name, &org.Slug, &org.Active,
		&org.CreatedAt, &org.UpdatedAt, &org.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewOrgNotFound()
		}
		return nil, err
	}

	return &org, nil
}

// GetBySlug retrieves an organization by slug.
func (r *OrganizationsRepository) GetBySlug(ctx context.Context, slug string) (*domain.Organization, error) {
	query := `
		SELECT id, name, slug, active, created_at, updated_at, deleted_at
		FROM organizations
		WHERE slug = $1 AND deleted_at IS NULL
	`

	var org domain.Organization
	err := r.db.QueryRowContext(ctx, query, slug).Scan(
		&org.ID, &org.Name, &org.Slug, &org.Active,
		&org.CreatedAt, &org.UpdatedAt, &org.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewOrgNotFound()
		}
		return nil, err
	}

	return &org, nil
}

// SetActive enables or disables an organization.
func (r *OrganizationsRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `
		UPDATE organizations
		SET active = $1, updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, active, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.NewOrgNotFound()
	}

	return nil
}

// SoftDelete soft deletes an organization.
func (r *OrganizationsRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE organizations
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.NewOrgNotFound()
	}

	return nil
}
