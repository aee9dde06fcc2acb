package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/tendant/simple-crm-slim/pkg/domain"
)

// LeadStagesRepository handles lead stage persistence. Every lookup is
// scoped by organization id so foreign rows look absent.
type LeadStagesRepository struct {
	db *sql.DB
}

// NewLeadStagesRepository creates a new lead stages repository.
func NewLeadStagesRepository(db *sql.DB) *LeadStagesRepository {
	return &LeadStagesRepository{db: db}
}

// ListByOrganization retrieves an organization's stages ordered by sort order.
func (r *LeadStagesRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]domain.LeadStage, error) {
	query := `
		SELECT id, organization_id, name, description, color, sort_order, created_at, updated_at
		FROM lead_stages
		WHERE organization_id = $1
		ORDER BY sort_order ASC, name ASC
	`

	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stages []domain.LeadStage
	for rows.Next() {
		var stage domain.LeadStage
		err := rows.Scan(
			&stage.ID, &stage.OrganizationID, &stage.Name, &stage.Description,
			&stage.Color, &stage.SortOrder, &stage.CreatedAt, &stage.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}

	return stages, rows.Err()
}

// GetByID retrieves a stage by id within an organization.
func (r *LeadStagesRepository) GetByID(ctx context.Context, id, orgID uuid.UUID) (*domain.LeadStage, error) {
	query := `
		SELECT id, organization_id, name, description, color, sort_order, created_at, updated_at
		FROM lead_stages
		WHERE id = $1 AND organization_id = $2
	`

	var stage domain.LeadStage
	err := r.db.QueryRowContext(ctx, query, id, orgID).Scan(
		&stage.ID, &stage.OrganizationID, &stage.Name, &stage.Description,
		&stage.Color, &stage.SortOrder, &stage.CreatedAt, &stage.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewEntityNotFound("lead stage")
		}
		return nil, err
	}

	return &stage, nil
}

// GetByName retrieves a stage by exact name within an organization.
func (r *LeadStagesRepository) GetByName(ctx context.Context, name string, orgID uuid.UUID) (*domain.LeadStage, error) {
	query := `
		SELECT id, organization_id, name, description, color, sort_order, created_at, updated_at
		FROM lead_stages
		WHERE name = $1 AND organization_id = $2
	`

	var stage domain.LeadStage
	err := r.db.QueryRowContext(ctx, query, name, orgID).Scan(
		&stage.ID, &stage.OrganizationID, &stage.Name, &stage.Description,
		&stage.Color, &stage.SortOrder, &stage.CreatedAt, &stage.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewEntityNotFound("lead stage")
		}
		return nil, err
	}

	return &stage, nil
}

// MaxSortOrder returns the highest sort order in the organization, or 0
// when the organization has no stages.
func (r *LeadStagesRepository) MaxSortOrder(ctx context.Context, orgID uuid.UUID) (int, error) {
	query := `
		SELECT COALESCE(MAX(sort_order), 0)
		FROM lead_stages
		WHERE organization_id = $1
	`

	var max int
	if err := r.db.QueryRowContext(ctx, query, orgID).Scan(&max); err != nil {
		return 0, err
	}
	return max, nil
}

// Create creates a new stage.
func (r *LeadStagesRepository) Create(ctx context.Context, stage *domain.LeadStage) error {
	query := `
		INSERT INTO lead_stages (id, organization_id, name, description, color, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		stage.ID, stage.OrganizationID, stage.Name, stage.Description,
		stage.Color, stage.SortOrder, stage.CreatedAt, stage.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return domain.NewDuplicateName(stage.Name)
	}
	return err
}

// Update updates a stage, scoped by id and organization.
func (r *LeadStagesRepository) Update(ctx context.Context, stage *domain.LeadStage) error {
	query := `
		UPDATE lead_stages
		SET name = $1, description = $2, color = $3, sort_order = $4, updated_at = $5
		WHERE id = $6 AND organization_id = $7
	`
	result, err := r.db.ExecContext(ctx, query,
		stage.Name, stage.Description, stage.Color, stage.SortOrder, stage.UpdatedAt,
		stage.ID, stage.OrganizationID,
	)
	if isUniqueViolation(err) {
		return domain.NewDuplicateName(stage.Name)
	}
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.NewEntityNotFound("lead stage")
	}

	return nil
}

// Delete deletes a stage, scoped by id and organization.
func (r *LeadStagesRepository) Delete(ctx context.Context, id, orgID uuid.UUID) error {
	query := `DELETE FROM lead_stages WHERE id = $1 AND organization_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, orgID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.NewEntityNotFound("lead stage")
	}

	return nil
}

// Reorder applies a position batch in one transaction. Ownership of every
// id is verified inside the transaction before any write: an unknown id
// fails the batch with not found, a foreign id with access denied. Any
// failure (including context cancellation) rolls the transaction back, so
// no partial order becomes visible.
func (r *LeadStagesRepository) Reorder(ctx context.Context, orgID uuid.UUID, positions []domain.StagePosition) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	ids := make([]uuid.UUID, 0, len(positions))
	for _, p := range positions {
		ids = append(ids, p.ID)
	}

	ownerQuery := `
		SELECT id, organization_id
		FROM lead_stages
		WHERE id = ANY($1)
		FOR UPDATE
	`
	rows, err := tx.QueryContext(ctx, ownerQuery, pq.Array(ids))
	if err != nil {
		return err
	}

	owners := make(map[uuid.UUID]uuid.UUID, len(ids))
	for rows.Next() {
		var id, owner uuid.UUID
		if err := rows.Scan(&id, &owner); err != nil {
			rows.Close()
			return err
		}
		owners[id] = owner
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, id := range ids {
		owner, ok := owners[id]
		if !ok {
			return domain.NewEntityNotFound("lead stage")
		}
		if owner != orgID {
			return domain.NewAccessDenied()
		}
	}

	updateQuery := `
		UPDATE lead_stages
		SET sort_order = $1, updated_at = NOW()
		WHERE id = $2 AND organization_id = $3
	`
	for _, p := range positions {
		result, err := tx.ExecContext(ctx, updateQuery, p.SortOrder, p.ID, orgID)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("reorder: stage %s vanished mid-transaction", p.ID)
		}
	}

	return tx.Commit()
}
