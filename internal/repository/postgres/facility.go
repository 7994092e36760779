package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/orgconsole/admin-api/internal/model"
)

func (r *facilityRepository) Create(ctx context.Context, facility *model.Facility) error {
	query := `
		INSERT INTO facilities (id, workspace_id, name, address, phone, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	facility.ID = uuid.New()
	facility.CreatedAt = time.Now()
	facility.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		facility.ID,
		facility.WorkspaceID,
		facility.Name,
		facility.Address,
		facility.Phone,
		facility.Status,
		facility.CreatedAt,
		facility.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create facility: %w", err)
	}
	return nil
}

func (r *facilityRepository) Get(ctx context.Context, id uuid.UUID) (*model.Facility, error) {
	query := `
		SELECT id, workspace_id, name, address, phone, status, created_at, updated_at, deleted_at
		FROM facilities
		WHERE id = $1 AND deleted_at IS NULL
	`
	var facility model.Facility
	err := r.db.GetContext(ctx, &facility, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get facility: %w", err)
	}
	return &facility, nil
}

func (r *facilityRepository) Update(ctx context.Context, facility *model.Facility) error {
	query := `
		UPDATE facilities
		SET name = $1, address = $2, phone = $3, status = $4, updated_at = $5
		WHERE id = $6 AND deleted_at IS NULL
	`
	facility.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		facility.Name,
		facility.Address,
		facility.Phone,
		facility.Status,
		facility.UpdatedAt,
		facility.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update facility: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("facility not found")
	}

	return nil
}

func (r *facilityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE facilities
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete facility: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("facility not found")
	}

	return nil
}

func (r *facilityRepository) List(ctx context.Context, workspaceID uuid.UUID) ([]*model.Facility, error) {
	query := `
		SELECT id, workspace_id, name, address, phone, status, created_at, updated_at, deleted_at
		FROM facilities
		WHERE workspace_id = $1 AND deleted_at IS NULL
		ORDER BY name ASC
	`
	var facilities []*model.Facility
	err := r.db.SelectContext(ctx, &facilities, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list facilities: %w", err)
	}
	return facilities, nil
}

func (r *facilityRepository) CountForOrganization(ctx context.Context, orgID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM facilities f
		JOIN workspaces w ON f.workspace_id = w.id
		WHERE w.organization_id = $1 AND f.deleted_at IS NULL AND w.deleted_at IS NULL
	`
	var count int
	if err := r.db.GetContext(ctx, &count, query, orgID); err != nil {
		return 0, fmt.Errorf("failed to count facilities: %w", err)
	}
	return count, nil
}
