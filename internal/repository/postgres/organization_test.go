package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgconsole/admin-api/internal/model"
)

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestOrganizationGet(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewOrganizationRepository(db)

	id := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "status", "max_facilities", "max_users", "created_at", "updated_at", "deleted_at"}).
		AddRow(id, "Acme Care", "active", 5, 100, now, now, nil)

	mock.ExpectQuery(`SELECT id, name, status, max_facilities, max_users`).
		WithArgs(id).
		WillReturnRows(rows)

	org, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, org.ID)
	assert.Equal(t, "Acme Care", org.Name)
	assert.Equal(t, model.OrganizationStatusActive, org.Status)
	assert.Equal(t, 5, org.MaxFacilities)
	assert.Equal(t, 100, org.MaxUsers)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrganizationCreateAssignsID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewOrganizationRepository(db)

	mock.ExpectExec(`INSERT INTO organizations`).
		WithArgs(sqlmock.AnyArg(), "Acme Care", model.OrganizationStatusActive, 5, 100, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	org := &model.Organization{
		Name:          "Acme Care",
		Status:        model.OrganizationStatusActive,
		MaxFacilities: 5,
		MaxUsers:      100,
	}
	require.NoError(t, repo.Create(context.Background(), org))
	assert.NotEqual(t, uuid.Nil, org.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrganizationUpdateNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewOrganizationRepository(db)

	mock.ExpectExec(`UPDATE organizations`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &model.Organization{Base: model.Base{ID: uuid.New()}, Name: "Gone"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrganizationDeleteIsSoft(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewOrganizationRepository(db)

	id := uuid.New()
	mock.ExpectExec(`UPDATE organizations\s+SET deleted_at = NOW\(\)`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrganizationCountWorkspaces(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewOrganizationRepository(db)

	orgID := uuid.New()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM workspaces`).
		WithArgs(orgID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountWorkspaces(context.Background(), orgID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	assert.NoError(t, mock.ExpectationsWereMet())
}
