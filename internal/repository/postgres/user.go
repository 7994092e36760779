package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/orgconsole/admin-api/internal/model"
)

const userColumns = `id, organization_id, email, password_hash, first_name, last_name, phone, status, email_verified, last_login_at, login_attempts, last_login_attempt, created_at, updated_at, deleted_at`

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, organization_id, email, password_hash, first_name, last_name, phone, status, email_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.OrganizationID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.Status,
		user.EmailVerified,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE id = $1 AND deleted_at IS NULL
	`, userColumns)
	var user model.User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, orgID uuid.UUID, email string) (*model.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE organization_id = $1 AND LOWER(email) = LOWER($2) AND deleted_at IS NULL
	`, userColumns)
	var user model.User
	err := r.db.GetContext(ctx, &user, query, orgID, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users
		SET email = $1, first_name = $2, last_name = $3, phone = $4, status = $5,
			email_verified = $6, last_login_at = $7, login_attempts = $8, last_login_attempt = $9, updated_at = $10
		WHERE id = $11 AND deleted_at IS NULL
	`
	user.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.Status,
		user.EmailVerified,
		user.LastLoginAt,
		user.LoginAttempts,
		user.LastLoginAttempt,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user not found")
	}

	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE users
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user not found")
	}

	return nil
}

func (r *userRepository) List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT u.id, u.organization_id, u.email, u.password_hash, u.first_name, u.last_name,
			u.phone, u.status, u.email_verified, u.last_login_at, u.login_attempts, u.last_login_attempt,
			u.created_at, u.updated_at, u.deleted_at
		FROM users u
		%s
		WHERE u.organization_id = $1 AND u.deleted_at IS NULL
	`, filterJoin(filters))

	args := []interface{}{filters.OrganizationID}
	idx := 2

	if filters.WorkspaceID != nil {
		query += fmt.Sprintf(" AND ra.workspace_id = $%d", idx)
		args = append(args, *filters.WorkspaceID)
		idx++
	}
	if filters.FacilityID != nil {
		query += fmt.Sprintf(" AND ra.facility_id = $%d", idx)
		args = append(args, *filters.FacilityID)
		idx++
	}
	if filters.DepartmentID != nil {
		query += fmt.Sprintf(" AND ra.department_id = $%d", idx)
		args = append(args, *filters.DepartmentID)
		idx++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND u.status = $%d", idx)
		args = append(args, filters.Status)
		idx++
	}
	if filters.SearchTerm != "" {
		query += fmt.Sprintf(" AND (u.email ILIKE $%d OR u.first_name ILIKE $%d OR u.last_name ILIKE $%d)", idx, idx, idx)
		args = append(args, "%"+filters.SearchTerm+"%")
		idx++
	}

	query += " ORDER BY u.last_name ASC, u.first_name ASC"

	var users []*model.User
	err := r.db.SelectContext(ctx, &users, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func filterJoin(filters *model.UserFilters) string {
	if filters.WorkspaceID != nil || filters.FacilityID != nil || filters.DepartmentID != nil {
		return "JOIN role_assignments ra ON ra.user_id = u.id AND ra.deleted_at IS NULL"
	}
	return ""
}

func (r *userRepository) ExistsByEmail(ctx context.Context, orgID uuid.UUID, email string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM users
			WHERE organization_id = $1 AND LOWER(email) = LOWER($2) AND deleted_at IS NULL
		)
	`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, orgID, email); err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// ListUserIDsForScope returns the ids of users holding any role assignment
// inside the given scope. Narrower fields tighten the match; nil fields are
// ignored.
func (r *userRepository) ListUserIDsForScope(ctx context.Context, orgID uuid.UUID, workspaceID, facilityID, departmentID *uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT u.id
		FROM users u
		LEFT JOIN role_assignments ra ON ra.user_id = u.id AND ra.deleted_at IS NULL
		WHERE u.organization_id = $1 AND u.deleted_at IS NULL
	`
	args := []interface{}{orgID}
	idx := 2

	if workspaceID != nil {
		query += fmt.Sprintf(" AND ra.workspace_id = $%d", idx)
		args = append(args, *workspaceID)
		idx++
	}
	if facilityID != nil {
		query += fmt.Sprintf(" AND ra.facility_id = $%d", idx)
		args = append(args, *facilityID)
		idx++
	}
	if departmentID != nil {
		query += fmt.Sprintf(" AND ra.department_id = $%d", idx)
		args = append(args, *departmentID)
		idx++
	}

	var ids []uuid.UUID
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list users for scope: %w", err)
	}
	return ids, nil
}
