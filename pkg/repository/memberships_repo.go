package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/tendant/simple-crm-slim/pkg/domain"
	"github.com/tendant/simple-crm-slim/pkg/tenancy"
)

// MembershipsRepository handles membership data persistence.
type MembershipsRepository struct {
	db *sql.DB
}

// NewMembershipsRepository creates a new memberships repository.
func NewMembershipsRepository(db *sql.DB) *MembershipsRepository {
	return &MembershipsRepository{db: db}
}

// Create creates a new membership.
func (r *MembershipsRepository) Create(ctx context.Context, membership *domain.Membership) error {
	return r.CreateTx(ctx, r.db, membership)
}

// CreateTx creates a new membership within a transaction.
func (r *MembershipsRepository) CreateTx(ctx context.Context, q Querier, membership *domain.Membership) error {
	query := `
		INSERT INTO memberships (id, organization_id, user_id, role, permissions, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := q.ExecContext(ctx, query,
		membership.ID,
		membership.OrganizationID,
		membership.UserID,
		membership.Role,
		pq.Array(membership.Permissions),
		membership.Status,
		membership.CreatedAt,
		membership.UpdatedAt,
	)
	return err
}

// GetByUserAndOrganization retrieves a membership for a user in an organization.
func (r *MembershipsRepository) GetByUserAndOrganization(ctx context.Context, userID, orgID uuid.UUID) (*domain.Membership, error) {
	query := `
		SELECT id, organization_id, user_id, role, permissions, status, created_at, updated_at, deleted_at
		FROM memberships
		WHERE user_id = $1 AND organization_id = $2 AND deleted_at IS NULL
	`

	var membership domain.Membership
	err := r.db.QueryRowContext(ctx, query, userID, orgID).Scan(
		&membership.ID,
		&membership.OrganizationID,
		&membership.UserID,
		&membership.Role,
		pq.Array(&membership.Permissions),
		&membership.Status,
		&membership.CreatedAt,
		&membership.UpdatedAt,
		&membership.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewEntityNotFound("membership")
		}
		return nil, err
	}

	return &membership, nil
}

// ActiveGrantsForUser retrieves active memberships joined with their
// organizations. Implements the tenancy resolver's store contract.
func (r *MembershipsRepository) ActiveGrantsForUser(ctx context.Context, userID uuid.UUID) ([]tenancy.MembershipGrant, error) {
	query := `
		SELECT
			m.id, m.organization_id, m.user_id, m.role, m.permissions, m.status,
			m.created_at, m.updated_at, m.deleted_at,
			o.id, o.name, o.slug, o.active, o.created_at, o.updated_at, o.deleted_at
		FROM memberships m
		INNER JOIN organizations o ON m.organization_id = o.id
		WHERE m.user_id = $1
			AND m.status = 'active'
			AND m.deleted_at IS NULL
			AND o.deleted_at IS NULL
		ORDER BY m.created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []tenancy.MembershipGrant
	for rows.Next() {
		var g tenancy.MembershipGrant
		err := rows.Scan(
			&g.Membership.ID,
			&g.Membership.OrganizationID,
			&g.Membership.UserID,
			&g.Membership.Role,
			pq.Array(&g.Membership.Permissions),
			&g.Membership.Status,
			&g.Membership.CreatedAt,
			&g.Membership.UpdatedAt,
			&g.Membership.DeletedAt,
			&g.Organization.ID,
			&g.Organization.Name,
			&g.Organization.Slug,
			&g.Organization.Active,
			&g.Organization.CreatedAt,
			&g.Organization.UpdatedAt,
			&g.Organization.DeletedAt,
		)
		if err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}

	return grants, rows.Err()
}

// UpdateRole updates the role of a membership.
func (r *MembershipsRepository) UpdateRole(ctx context.Context, id uuid.UUID, role domain.OrgRole) error {
	query := `
		UPDATE memberships
		SET role = $1, updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, role, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.NewEntityNotFound("membership")
	}

	return nil
}

// UpdateStatus updates the status of a membership.
func (r *MembershipsRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.MembershipStatus) error {
	query := `
		UPDATE memberships
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.NewEntityNotFound("membership")
	}

	return nil
}

// SoftDelete soft deletes a membership.
func (r *MembershipsRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE memberships
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
		return domain.NewEntityNotFound("membership")
	}

	return nil
}
