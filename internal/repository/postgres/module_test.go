package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgconsole/admin-api/internal/model"
)

func TestModuleGetScansDependsOn(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewModuleRepository(db)

	id := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "key", "name", "is_active", "depends_on", "created_at", "updated_at", "deleted_at"}).
		AddRow(id, "payroll", "Payroll", true, "{user_management,reporting}", now, now, nil)

	mock.ExpectQuery(`SELECT id, key, name, is_active, depends_on`).
		WithArgs(id).
		WillReturnRows(rows)

	m, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "payroll", m.Key)
	assert.True(t, m.IsActive)
	assert.Equal(t, pq.StringArray{"user_management", "reporting"}, m.DependsOn)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetWorkspaceOverrideNoRows(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewModuleRepository(db)

	workspaceID := uuid.New()
	moduleID := uuid.New()
	mock.ExpectQuery(`SELECT workspace_id, module_id, is_enabled`).
		WithArgs(workspaceID, moduleID).
		WillReturnError(sql.ErrNoRows)

	override, err := repo.GetWorkspaceOverride(context.Background(), workspaceID, moduleID)
	require.NoError(t, err)
	assert.Nil(t, override)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetWorkspaceOverrideFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewModuleRepository(db)

	workspaceID := uuid.New()
	moduleID := uuid.New()
	rows := sqlmock.NewRows([]string{"workspace_id", "module_id", "is_enabled"}).
		AddRow(workspaceID, moduleID, false)

	mock.ExpectQuery(`SELECT workspace_id, module_id, is_enabled`).
		WithArgs(workspaceID, moduleID).
		WillReturnRows(rows)

	override, err := repo.GetWorkspaceOverride(context.Background(), workspaceID, moduleID)
	require.NoError(t, err)
	require.NotNil(t, override)
	assert.False(t, override.IsEnabled)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRoleAccessUsesArrayParam(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewModuleRepository(db)

	moduleID := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "role", "module_id", "can_view", "can_edit", "can_delete", "can_admin", "created_at", "updated_at", "deleted_at"}).
		AddRow(uuid.New(), "staff", moduleID, true, false, false, false, now, now, nil).
		AddRow(uuid.New(), "organization_admin", moduleID, true, true, true, true, now, now, nil)

	mock.ExpectQuery(`SELECT id, role, module_id, can_view`).
		WithArgs(pq.Array([]string{"staff", "organization_admin"})).
		WillReturnRows(rows)

	access, err := repo.ListRoleAccess(context.Background(), []model.RoleType{model.RoleStaff, model.RoleOrganizationAdmin})
	require.NoError(t, err)
	require.Len(t, access, 2)
	assert.Equal(t, model.RoleStaff, access[0].Role)
	assert.True(t, access[1].CanAdmin)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRoleAccessEmptyRolesSkipsQuery(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewModuleRepository(db)

	access, err := repo.ListRoleAccess(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, access)

	assert.NoError(t, mock.ExpectationsWereMet())
}
