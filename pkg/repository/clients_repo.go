package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/tendant/simple-crm-slim/pkg/domain"
)

// ClientsRepository handles lead record persistence.
type ClientsRepository struct {
	db *sql.DB
}

// NewClientsRepository creates a new clients repository.
func NewClientsRepository(db *sql.DB) *ClientsRepository {
	return &ClientsRepository{db: db}
}

// ListByOrganization retrieves an organization's lead records, newest first.
func (r *ClientsRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]domain.Client, error) {
	query := `
		SELECT id, organization_id, name, email, phone, lead_stage, lead_source, created_at, updated_at, deleted_at
		FROM clients
		WHERE organization_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []domain.Client
	for rows.Next() {
		var c domain.Client
		err := rows.Scan(
			&c.ID, &c.OrganizationID, &c.Name, &c.Email, &c.Phone,
			&c.LeadStage, &c.LeadSource, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
		)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}

	return clients, rows.Err()
}

// GetByID retrieves a lead record by id within an organization.
func (r *ClientsRepository) GetByID(ctx context.Context, id, orgID uuid.UUID) (*domain.Client, error) {
	query := `
		SELECT id, organization_id, name, email, phone, lead_stage, lead_source, created_at, updated_at, deleted_at
		FROM clients
		WHERE id = $1 AND organization_id = $2 AND deleted_at IS NULL
	`

	var c domain.Client
	err := r.db.QueryRowContext(ctx, query, id, orgID).Scan(
		&c.ID, &c.OrganizationID, &c.Name, &c.Email, &c.Phone,
		&c.LeadStage, &c.LeadSource, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewEntityNotFound("client")
		}
		return nil, err
	}

	return &c, nil
}

// Create creates a new lead record.
func (r *ClientsRepository) Create(ctx context.Context, client *domain.Client) error {
	query := `
		INSERT INTO clients (id, organization_id, name, email, phone, lead_stage, lead_source, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		client.ID, client.OrganizationID, client.Name, client.Email, client.Phone,
		client.LeadStage, client.LeadSource, client.CreatedAt, client.UpdatedAt,
	)
	return err
}

// CountByStageName counts lead records on a stage within an organization.
// Backs the stage delete guard.
func (r *ClientsRepository) CountByStageName(ctx context.Context, orgID uuid.UUID, stageName string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM clients
		WHERE organization_id = $1 AND lead_stage = $2 AND deleted_at IS NULL
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, orgID, stageName).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ReassignStage moves every lead record on fromStage to toStage within an
// organization and returns the number of rows moved.
func (r *ClientsRepository) ReassignStage(ctx context.Context, orgID uuid.UUID, fromStage, toStage string) (int64, error) {
	query := `
		UPDATE clients
		SET lead_stage = $1, updated_at = NOW()
		WHERE organization_id = $2 AND lead_stage = $3 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, toStage, orgID, fromStage)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
