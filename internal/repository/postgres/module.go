package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/orgconsole/admin-api/internal/model"
)

const moduleColumns = `id, key, name, is_active, depends_on, created_at, updated_at, deleted_at`

func (r *moduleRepository) Create(ctx context.Context, m *model.Module) error {
	query := `
		INSERT INTO modules (id, key, name, is_active, depends_on, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	m.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		m.Key,
		m.Name,
		m.IsActive,
		m.DependsOn,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create module: %w", err)
	}
	return nil
}

func (r *moduleRepository) Get(ctx context.Context, id uuid.UUID) (*model.Module, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM modules
		WHERE id = $1 AND deleted_at IS NULL
	`, moduleColumns)
	var m model.Module
	err := r.db.GetContext(ctx, &m, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get module: %w", err)
	}
	return &m, nil
}

func (r *moduleRepository) GetByKey(ctx context.Context, key string) (*model.Module, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM modules
		WHERE key = $1 AND deleted_at IS NULL
	`, moduleColumns)
	var m model.Module
	err := r.db.GetContext(ctx, &m, query, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get module by key: %w", err)
	}
	return &m, nil
}

func (r *moduleRepository) Update(ctx context.Context, m *model.Module) error {
	query := `
		UPDATE modules
		SET name = $1, is_active = $2, depends_on = $3, updated_at = $4
		WHERE id = $5 AND deleted_at IS NULL
	`
	m.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		m.Name,
		m.IsActive,
		m.DependsOn,
		m.UpdatedAt,
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update module: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("module not found")
	}

	return nil
}

func (r *moduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE modules
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete module: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("module not found")
	}

	return nil
}

func (r *moduleRepository) List(ctx context.Context) ([]*model.Module, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM modules
		WHERE deleted_at IS NULL
		ORDER BY name ASC
	`, moduleColumns)
	var modules []*model.Module
	err := r.db.SelectContext(ctx, &modules, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list modules: %w", err)
	}
	return modules, nil
}

func (r *moduleRepository) GetWorkspaceOverride(ctx context.Context, workspaceID, moduleID uuid.UUID) (*model.WorkspaceModule, error) {
	query := `
		SELECT workspace_id, module_id, is_enabled
		FROM workspace_modules
		WHERE workspace_id = $1 AND module_id = $2
	`
	var wm model.WorkspaceModule
	err := r.db.GetContext(ctx, &wm, query, workspaceID, moduleID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace module: %w", err)
	}
	return &wm, nil
}

func (r *moduleRepository) ListWorkspaceOverrides(ctx context.Context, workspaceID uuid.UUID) ([]*model.WorkspaceModule, error) {
	query := `
		SELECT workspace_id, module_id, is_enabled
		FROM workspace_modules
		WHERE workspace_id = $1
	`
	var overrides []*model.WorkspaceModule
	err := r.db.SelectContext(ctx, &overrides, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspace modules: %w", err)
	}
	return overrides, nil
}

func (r *moduleRepository) UpsertWorkspaceOverride(ctx context.Context, wm *model.WorkspaceModule) error {
	query := `
		INSERT INTO workspace_modules (workspace_id, module_id, is_enabled)
		VALUES ($1, $2, $3)
		ON CONFLICT (workspace_id, module_id)
		DO UPDATE SET is_enabled = EXCLUDED.is_enabled
	`
	_, err := r.db.ExecContext(ctx, query, wm.WorkspaceID, wm.ModuleID, wm.IsEnabled)
	if err != nil {
		return fmt.Errorf("failed to upsert workspace module: %w", err)
	}
	return nil
}

func (r *moduleRepository) ListRoleAccess(ctx context.Context, roles []model.RoleType) ([]*model.RoleModuleAccess, error) {
	if len(roles) == 0 {
		return nil, nil
	}
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}
	query := `
		SELECT id, role, module_id, can_view, can_edit, can_delete, can_admin, created_at, updated_at, deleted_at
		FROM role_module_access
		WHERE role = ANY($1) AND deleted_at IS NULL
	`
	var access []*model.RoleModuleAccess
	err := r.db.SelectContext(ctx, &access, query, pq.Array(names))
	if err != nil {
		return nil, fmt.Errorf("failed to list role module access: %w", err)
	}
	return access, nil
}

func (r *moduleRepository) UpsertRoleAccess(ctx context.Context, a *model.RoleModuleAccess) error {
	query := `
		INSERT INTO role_module_access (id, role, module_id, can_view, can_edit, can_delete, can_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (role, module_id)
		DO UPDATE SET can_view = EXCLUDED.can_view, can_edit = EXCLUDED.can_edit,
			can_delete = EXCLUDED.can_delete, can_admin = EXCLUDED.can_admin,
			updated_at = EXCLUDED.updated_at, deleted_at = NULL
	`
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
		a.CreatedAt = time.Now()
	}
	a.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.Role,
		a.ModuleID,
		a.CanView,
		a.CanEdit,
		a.CanDelete,
		a.CanAdmin,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert role module access: %w", err)
	}
	return nil
}

func (r *moduleRepository) ListCustomRoleAccess(ctx context.Context, customRoleIDs []uuid.UUID) ([]*model.CustomRoleModuleAccess, error) {
	if len(customRoleIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT id, custom_role_id, module_id, can_view, can_edit, can_delete, can_admin, created_at, updated_at, deleted_at
		FROM custom_role_module_access
		WHERE custom_role_id = ANY($1) AND deleted_at IS NULL
	`
	var access []*model.CustomRoleModuleAccess
	err := r.db.SelectContext(ctx, &access, query, pq.Array(customRoleIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to list custom role module access: %w", err)
	}
	return access, nil
}

func (r *moduleRepository) UpsertCustomRoleAccess(ctx context.Context, a *model.CustomRoleModuleAccess) error {
	query := `
		INSERT INTO custom_role_module_access (id, custom_role_id, module_id, can_view, can_edit, can_delete, can_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (custom_role_id, module_id)
		DO UPDATE SET can_view = EXCLUDED.can_view, can_edit = EXCLUDED.can_edit,
			can_delete = EXCLUDED.can_delete, can_admin = EXCLUDED.can_admin,
			updated_at = EXCLUDED.updated_at, deleted_at = NULL
	`
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
		a.CreatedAt = time.Now()
	}
	a.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.CustomRoleID,
		a.ModuleID,
		a.CanView,
		a.CanEdit,
		a.CanDelete,
		a.CanAdmin,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert custom role module access: %w", err)
	}
	return nil
}

func (r *moduleRepository) ListUserOverrides(ctx context.Context, userID uuid.UUID) ([]*model.UserModuleAccess, error) {
	query := `
		SELECT id, user_id, module_id, can_view, can_edit, can_delete, can_admin, created_at, updated_at, deleted_at
		FROM user_module_access
		WHERE user_id = $1 AND deleted_at IS NULL
	`
	var overrides []*model.UserModuleAccess
	err := r.db.SelectContext(ctx, &overrides, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user module access: %w", err)
	}
	return overrides, nil
}

func (r *moduleRepository) UpsertUserOverride(ctx context.Context, a *model.UserModuleAccess) error {
	query := `
		INSERT INTO user_module_access (id, user_id, module_id, can_view, can_edit, can_delete, can_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, module_id)
		DO UPDATE SET can_view = EXCLUDED.can_view, can_edit = EXCLUDED.can_edit,
			can_delete = EXCLUDED.can_delete, can_admin = EXCLUDED.can_admin,
			updated_at = EXCLUDED.updated_at, deleted_at = NULL
	`
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
		a.CreatedAt = time.Now()
	}
	a.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.UserID,
		a.ModuleID,
		a.CanView,
		a.CanEdit,
		a.CanDelete,
		a.CanAdmin,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user module access: %w", err)
	}
	return nil
}

func (r *moduleRepository) DeleteUserOverride(ctx context.Context, userID, moduleID uuid.UUID) error {
	query := `
		UPDATE user_module_access
		SET deleted_at = NOW()
		WHERE user_id = $1 AND module_id = $2 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, userID, moduleID)
	if err != nil {
		return fmt.Errorf("failed to delete user module access: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user module access not found")
	}

	return nil
}
