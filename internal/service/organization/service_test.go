package organization

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgconsole/admin-api/internal/model"
	"github.com/orgconsole/admin-api/internal/repository"
	"github.com/orgconsole/admin-api/internal/service/audit"
	apperrors "github.com/orgconsole/admin-api/pkg/errors"
	"github.com/orgconsole/admin-api/pkg/logger"
)

type noopAuditRepo struct{}

func (noopAuditRepo) Create(ctx context.Context, log *model.AuditLog) error { return nil }
func (noopAuditRepo) List(ctx context.Context, filters map[string]interface{}) ([]*model.AuditLog, error) {
	return nil, nil
}
func (noopAuditRepo) DeleteBefore(ctx context.Context, cutoff time.Time) error { return nil }

type fakeOrgRepo struct {
	repository.OrganizationRepository
	workspaceCount int
	deleted        []uuid.UUID
	created        []*model.Organization
}

func (f *fakeOrgRepo) Create(ctx context.Context, org *model.Organization) error {
	f.created = append(f.created, org)
	return nil
}

func (f *fakeOrgRepo) CountWorkspaces(ctx context.Context, orgID uuid.UUID) (int, error) {
	return f.workspaceCount, nil
}

func (f *fakeOrgRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func newTestAuditor() *audit.AuditLogger {
	return audit.NewAuditLogger(audit.NewService(noopAuditRepo{}), logger.NewLogger(nil))
}

func TestCreateOrganizationRequiresName(t *testing.T) {
	svc := NewService(&fakeOrgRepo{}, newTestAuditor())

	err := svc.CreateOrganization(context.Background(), &model.Organization{})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
}

func TestCreateOrganizationDefaultsToActive(t *testing.T) {
	repo := &fakeOrgRepo{}
	svc := NewService(repo, newTestAuditor())

	org := &model.Organization{Name: "Acme Health"}
	require.NoError(t, svc.CreateOrganization(context.Background(), org))
	require.Len(t, repo.created, 1)
	assert.Equal(t, model.OrganizationStatusActive, repo.created[0].Status)
}

func TestDeleteOrganizationBlockedByWorkspaces(t *testing.T) {
	repo := &fakeOrgRepo{workspaceCount: 3}
	svc := NewService(repo, newTestAuditor())

	err := svc.DeleteOrganization(context.Background(), uuid.New())
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrBusinessRule, appErr.Code)
	assert.Contains(t, appErr.Message, "3 workspaces")
	assert.Empty(t, repo.deleted)
}

func TestDeleteOrganizationWithoutWorkspaces(t *testing.T) {
	repo := &fakeOrgRepo{workspaceCount: 0}
	svc := NewService(repo, newTestAuditor())

	id := uuid.New()
	require.NoError(t, svc.DeleteOrganization(context.Background(), id))
	assert.Equal(t, []uuid.UUID{id}, repo.deleted)
}
