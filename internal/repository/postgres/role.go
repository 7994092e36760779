package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/orgconsole/admin-api/internal/model"
)

const assignmentColumns = `id, user_id, role, custom_role_id, organization_id, workspace_id, facility_id, department_id, specialty_id, created_at, updated_at, deleted_at`

func (r *roleRepository) CreateAssignment(ctx context.Context, a *model.RoleAssignment) error {
	query := `
		INSERT INTO role_assignments (id, user_id, role, custom_role_id, organization_id, workspace_id, facility_id, department_id, specialty_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.UserID,
		a.Role,
		a.CustomRoleID,
		a.OrganizationID,
		a.WorkspaceID,
		a.FacilityID,
		a.DepartmentID,
		a.SpecialtyID,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create role assignment: %w", err)
	}
	return nil
}

func (r *roleRepository) DeleteAssignment(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE role_assignments
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete role assignment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("role assignment not found")
	}

	return nil
}

func (r *roleRepository) ListUserAssignments(ctx context.Context, userID uuid.UUID) ([]*model.RoleAssignment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM role_assignments
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY created_at ASC
	`, assignmentColumns)
	var assignments []*model.RoleAssignment
	err := r.db.SelectContext(ctx, &assignments, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list role assignments: %w", err)
	}
	return assignments, nil
}

func (r *roleRepository) CreateCustomRole(ctx context.Context, role *model.CustomRole) error {
	query := `
		INSERT INTO custom_roles (id, organization_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	role.ID = uuid.New()
	role.CreatedAt = time.Now()
	role.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		role.ID,
		role.OrganizationID,
		role.Name,
		role.Description,
		role.CreatedAt,
		role.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create custom role: %w", err)
	}
	return nil
}

func (r *roleRepository) GetCustomRole(ctx context.Context, id uuid.UUID) (*model.CustomRole, error) {
	query := `
		SELECT id, organization_id, name, description, created_at, updated_at, deleted_at
		FROM custom_roles
		WHERE id = $1 AND deleted_at IS NULL
	`
	var role model.CustomRole
	err := r.db.GetContext(ctx, &role, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get custom role: %w", err)
	}
	return &role, nil
}

func (r *roleRepository) UpdateCustomRole(ctx context.Context, role *model.CustomRole) error {
	query := `
		UPDATE custom_roles
		SET name = $1, description = $2, updated_at = $3
		WHERE id = $4 AND deleted_at IS NULL
	`
	role.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		role.Name,
		role.Description,
		role.UpdatedAt,
		role.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update custom role: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("custom role not found")
	}

	return nil
}

func (r *roleRepository) DeleteCustomRole(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE custom_roles
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete custom role: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("custom role not found")
	}

	return nil
}

func (r *roleRepository) ListCustomRoles(ctx context.Context, orgID uuid.UUID) ([]*model.CustomRole, error) {
	query := `
		SELECT id, organization_id, name, description, created_at, updated_at, deleted_at
		FROM custom_roles
		WHERE organization_id = $1 AND deleted_at IS NULL
		ORDER BY name ASC
	`
	var roles []*model.CustomRole
	err := r.db.SelectContext(ctx, &roles, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list custom roles: %w", err)
	}
	return roles, nil
}
