package facility

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

func newTestAuditor() *audit.AuditLogger {
	return audit.NewAuditLogger(audit.NewService(noopAuditRepo{}), logger.NewLogger(nil))
}

type fakeFacilityRepo struct {
	repository.FacilityRepository
	count   int
	created []*model.Facility
}

func (f *fakeFacilityRepo) Create(ctx context.Context, facility *model.Facility) error {
	f.created = append(f.created, facility)
	return nil
}

func (f *fakeFacilityRepo) CountForOrganization(ctx context.Context, orgID uuid.UUID) (int, error) {
	return f.count, nil
}

type fakeWorkspaceRepo struct {
	repository.WorkspaceRepository
	workspace *model.Workspace
}

func (f *fakeWorkspaceRepo) Get(ctx context.Context, id uuid.UUID) (*model.Workspace, error) {
	return f.workspace, nil
}

type fakeOrgRepo struct {
	repository.OrganizationRepository
	org *model.Organization
}

func (f *fakeOrgRepo) Get(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	return f.org, nil
}

func fixtures(maxFacilities, existing int) (*Service, *fakeFacilityRepo, *model.Facility) {
	orgID := uuid.New()
	workspaceID := uuid.New()

	repo := &fakeFacilityRepo{count: existing}
	wsRepo := &fakeWorkspaceRepo{workspace: &model.Workspace{
		Base:           model.Base{ID: workspaceID},
		OrganizationID: orgID,
	}}
	orgRepo := &fakeOrgRepo{org: &model.Organization{
		Base:          model.Base{ID: orgID},
		Name:          "Acme Health",
		MaxFacilities: maxFacilities,
	}}

	svc := NewService(repo, wsRepo, orgRepo, newTestAuditor())
	facility := &model.Facility{WorkspaceID: workspaceID, Name: "Downtown Clinic"}
	return svc, repo, facility
}

func TestCreateFacilityUnderLimit(t *testing.T) {
	svc, repo, facility := fixtures(5, 4)

	require.NoError(t, svc.CreateFacility(context.Background(), facility))
	require.Len(t, repo.created, 1)
	assert.Equal(t, model.FacilityStatusActive, repo.created[0].Status)
}

func TestCreateFacilityAtLimit(t *testing.T) {
	svc, repo, facility := fixtures(5, 5)

	err := svc.CreateFacility(context.Background(), facility)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrBusinessRule, appErr.Code)
	assert.Contains(t, appErr.Message, "limit of 5")
	assert.Empty(t, repo.created)
}

func TestCreateFacilityZeroLimitIsUnlimited(t *testing.T) {
	svc, repo, facility := fixtures(0, 1000)

	require.NoError(t, svc.CreateFacility(context.Background(), facility))
	assert.Len(t, repo.created, 1)
}

func TestCreateFacilityRequiresName(t *testing.T) {
	svc, _, facility := fixtures(0, 0)
	facility.Name = ""

	err := svc.CreateFacility(context.Background(), facility)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
}
