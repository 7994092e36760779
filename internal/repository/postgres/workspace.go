package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/orgconsole/admin-api/internal/model"
)

func (r *workspaceRepository) Create(ctx context.Context, ws *model.Workspace) error {
	query := `
		INSERT INTO workspaces (id, organization_id, name, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	ws.ID = uuid.New()
	ws.CreatedAt = time.Now()
	ws.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		ws.ID,
		ws.OrganizationID,
		ws.Name,
		ws.Description,
		ws.Status,
		ws.CreatedAt,
		ws.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}
	return nil
}

func (r *workspaceRepository) Get(ctx context.Context, id uuid.UUID) (*model.Workspace, error) {
	query := `
		SELECT id, organization_id, name, description, status, created_at, updated_at, deleted_at
		FROM workspaces
		WHERE id = $1 AND deleted_at IS NULL
	`
	var ws model.Workspace
	err := r.db.GetContext(ctx, &ws, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	return &ws, nil
}

func (r *workspaceRepository) Update(ctx context.Context, ws *model.Workspace) error {
	query := `
		UPDATE workspaces
		SET name = $1, description = $2, status = $3, updated_at = $4
		WHERE id = $5 AND deleted_at IS NULL
	`
	ws.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		ws.Name,
		ws.Description,
		ws.Status,
		ws.UpdatedAt,
		ws.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update workspace: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("workspace not found")
	}

	return nil
}

func (r *workspaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE workspaces
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("workspace not found")
	}

	return nil
}

func (r *workspaceRepository) List(ctx context.Context, orgID uuid.UUID) ([]*model.Workspace, error) {
	query := `
		SELECT id, organization_id, name, description, status, created_at, updated_at, deleted_at
		FROM workspaces
		WHERE organization_id = $1 AND deleted_at IS NULL
		ORDER BY name ASC
	`
	var workspaces []*model.Workspace
	err := r.db.SelectContext(ctx, &workspaces, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	return workspaces, nil
}

func (r *workspaceRepository) CountFacilities(ctx context.Context, workspaceID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*) FROM facilities
		WHERE workspace_id = $1 AND deleted_at IS NULL
	`
	var count int
	if err := r.db.GetContext(ctx, &count, query, workspaceID); err != nil {
		return 0, fmt.Errorf("failed to count facilities: %w", err)
	}
	return count, nil
}
