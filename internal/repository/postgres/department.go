package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/orgconsole/admin-api/internal/model"
)

const departmentColumns = `id, name, category, workspace_id, facility_id, parent_department_id, is_template, created_at, updated_at, deleted_at`

func (r *departmentRepository) Create(ctx context.Context, dept *model.Department) error {
	query := `
		INSERT INTO departments (id, name, category, workspace_id, facility_id, parent_department_id, is_template, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	dept.ID = uuid.New()
	dept.CreatedAt = time.Now()
	dept.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		dept.ID,
		dept.Name,
		dept.Category,
		dept.WorkspaceID,
		dept.FacilityID,
		dept.ParentDepartmentID,
		dept.IsTemplate,
		dept.CreatedAt,
		dept.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create department: %w", err)
	}
	return nil
}

func (r *departmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM departments
		WHERE id = $1 AND deleted_at IS NULL
	`, departmentColumns)
	var dept model.Department
	err := r.db.GetContext(ctx, &dept, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	return &dept, nil
}

func (r *departmentRepository) Update(ctx context.Context, dept *model.Department) error {
	query := `
		UPDATE departments
		SET name = $1, category = $2, updated_at = $3
		WHERE id = $4 AND deleted_at IS NULL
	`
	dept.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		dept.Name,
		dept.Category,
		dept.UpdatedAt,
		dept.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update department: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("department not found")
	}

	return nil
}

func (r *departmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE departments
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("department not found")
	}

	return nil
}

func (r *departmentRepository) ListByFacility(ctx context.Context, facilityID uuid.UUID) ([]*model.Department, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM departments
		WHERE facility_id = $1 AND deleted_at IS NULL
		ORDER BY name ASC
	`, departmentColumns)
	var depts []*model.Department
	err := r.db.SelectContext(ctx, &depts, query, facilityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return depts, nil
}

func (r *departmentRepository) ListTemplatesByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*model.Department, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM departments
		WHERE workspace_id = $1 AND is_template = TRUE AND deleted_at IS NULL
		ORDER BY name ASC
	`, departmentColumns)
	var depts []*model.Department
	err := r.db.SelectContext(ctx, &depts, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list template departments: %w", err)
	}
	return depts, nil
}

func (r *departmentRepository) ListAllTemplates(ctx context.Context) ([]*model.Department, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM departments
		WHERE is_template = TRUE AND deleted_at IS NULL
		ORDER BY category ASC, name ASC
	`, departmentColumns)
	var depts []*model.Department
	err := r.db.SelectContext(ctx, &depts, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list template departments: %w", err)
	}
	return depts, nil
}

func (r *departmentRepository) CountSubDepartments(ctx context.Context, id uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*) FROM departments
		WHERE parent_department_id = $1 AND deleted_at IS NULL
	`
	var count int
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return 0, fmt.Errorf("failed to count sub-departments: %w", err)
	}
	return count, nil
}

func (r *departmentRepository) CreateCategory(ctx context.Context, category *model.Category) error {
	query := `
		INSERT INTO categories (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	category.ID = uuid.New()
	category.CreatedAt = time.Now()
	category.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		category.ID,
		category.Name,
		category.Description,
		category.CreatedAt,
		category.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *departmentRepository) ListCategories(ctx context.Context) ([]*model.Category, error) {
	query := `
		SELECT id, name, description, created_at, updated_at, deleted_at
		FROM categories
		WHERE deleted_at IS NULL
		ORDER BY name ASC
	`
	var categories []*model.Category
	err := r.db.SelectContext(ctx, &categories, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (r *departmentRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE categories
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("category not found")
	}

	return nil
}
