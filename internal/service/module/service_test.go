package module

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
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

type fakeModuleRepo struct {
	repository.ModuleRepository
	modules   []*model.Module
	overrides []*model.WorkspaceModule
	upserted  []*model.WorkspaceModule
	updated   []*model.Module

	roleAccess   []*model.RoleModuleAccess
	customAccess []*model.CustomRoleModuleAccess
	userAccess   []*model.UserModuleAccess
}

func (f *fakeModuleRepo) Get(ctx context.Context, id uuid.UUID) (*model.Module, error) {
	for _, m := range f.modules {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, apperrors.NotFound("module", nil)
}

func (f *fakeModuleRepo) List(ctx context.Context) ([]*model.Module, error) {
	return f.modules, nil
}

func (f *fakeModuleRepo) ListWorkspaceOverrides(ctx context.Context, workspaceID uuid.UUID) ([]*model.WorkspaceModule, error) {
	return f.overrides, nil
}

func (f *fakeModuleRepo) UpsertWorkspaceOverride(ctx context.Context, override *model.WorkspaceModule) error {
	f.upserted = append(f.upserted, override)
	return nil
}

func (f *fakeModuleRepo) Update(ctx context.Context, m *model.Module) error {
	f.updated = append(f.updated, m)
	return nil
}

func (f *fakeModuleRepo) ListRoleAccess(ctx context.Context, roles []model.RoleType) ([]*model.RoleModuleAccess, error) {
	return f.roleAccess, nil
}

func (f *fakeModuleRepo) ListCustomRoleAccess(ctx context.Context, customRoleIDs []uuid.UUID) ([]*model.CustomRoleModuleAccess, error) {
	return f.customAccess, nil
}

func (f *fakeModuleRepo) ListUserOverrides(ctx context.Context, userID uuid.UUID) ([]*model.UserModuleAccess, error) {
	return f.userAccess, nil
}

type fakeRoleRepo struct {
	repository.RoleRepository
	assignments []*model.RoleAssignment
}

func (f *fakeRoleRepo) ListUserAssignments(ctx context.Context, userID uuid.UUID) ([]*model.RoleAssignment, error) {
	return f.assignments, nil
}

func newModule(key, name string, active bool, deps ...string) *model.Module {
	return &model.Module{
		Base:      model.Base{ID: uuid.New()},
		Key:       key,
		Name:      name,
		IsActive:  active,
		DependsOn: pq.StringArray(deps),
	}
}

func TestSetSystemActiveDeactivateBlockedByDependents(t *testing.T) {
	scheduling := newModule("scheduling", "Scheduling", true)
	payroll := newModule("payroll", "Payroll", true, "scheduling")
	repo := &fakeModuleRepo{modules: []*model.Module{scheduling, payroll}}
	svc := NewService(repo, &fakeRoleRepo{}, newTestAuditor())

	err := svc.SetSystemActive(context.Background(), scheduling.ID, false)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrBusinessRule, appErr.Code)
	assert.Contains(t, appErr.Message, "Payroll")
	assert.Empty(t, repo.updated)
}

func TestSetSystemActiveDeactivateWithInactiveDependent(t *testing.T) {
	scheduling := newModule("scheduling", "Scheduling", true)
	payroll := newModule("payroll", "Payroll", false, "scheduling")
	repo := &fakeModuleRepo{modules: []*model.Module{scheduling, payroll}}
	svc := NewService(repo, &fakeRoleRepo{}, newTestAuditor())

	require.NoError(t, svc.SetSystemActive(context.Background(), scheduling.ID, false))
	require.Len(t, repo.updated, 1)
	assert.False(t, repo.updated[0].IsActive)
}

func TestSetWorkspaceEnabledDisableBlockedByActiveDependent(t *testing.T) {
	scheduling := newModule("scheduling", "Scheduling", true)
	payroll := newModule("payroll", "Payroll", true, "scheduling")
	repo := &fakeModuleRepo{modules: []*model.Module{scheduling, payroll}}
	svc := NewService(repo, &fakeRoleRepo{}, newTestAuditor())

	err := svc.SetWorkspaceEnabled(context.Background(), uuid.New(), scheduling.ID, false)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Message, "Payroll")
	assert.Empty(t, repo.upserted)
}

func TestSetWorkspaceEnabledDisableWithRestrictedDependent(t *testing.T) {
	scheduling := newModule("scheduling", "Scheduling", true)
	payroll := newModule("payroll", "Payroll", true, "scheduling")
	workspaceID := uuid.New()
	repo := &fakeModuleRepo{
		modules: []*model.Module{scheduling, payroll},
		overrides: []*model.WorkspaceModule{
			{WorkspaceID: workspaceID, ModuleID: payroll.ID, IsEnabled: false},
		},
	}
	svc := NewService(repo, &fakeRoleRepo{}, newTestAuditor())

	require.NoError(t, svc.SetWorkspaceEnabled(context.Background(), workspaceID, scheduling.ID, false))
	require.Len(t, repo.upserted, 1)
	assert.False(t, repo.upserted[0].IsEnabled)
}

func TestSetWorkspaceEnabledRejectsInactiveModule(t *testing.T) {
	scheduling := newModule("scheduling", "Scheduling", false)
	repo := &fakeModuleRepo{modules: []*model.Module{scheduling}}
	svc := NewService(repo, &fakeRoleRepo{}, newTestAuditor())

	err := svc.SetWorkspaceEnabled(context.Background(), uuid.New(), scheduling.ID, true)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrBusinessRule, appErr.Code)
	assert.Contains(t, appErr.Message, "disabled system-wide")
	assert.Empty(t, repo.upserted)
}

func TestSetWorkspaceEnabledDisableInactiveModuleAllowed(t *testing.T) {
	scheduling := newModule("scheduling", "Scheduling", false)
	repo := &fakeModuleRepo{modules: []*model.Module{scheduling}}
	svc := NewService(repo, &fakeRoleRepo{}, newTestAuditor())

	require.NoError(t, svc.SetWorkspaceEnabled(context.Background(), uuid.New(), scheduling.ID, false))
	require.Len(t, repo.upserted, 1)
	assert.False(t, repo.upserted[0].IsEnabled)
}

func TestListWorkspaceAvailabilityStates(t *testing.T) {
	system := newModule("scheduling", "Scheduling", false)
	restricted := newModule("payroll", "Payroll", true)
	active := newModule("reports", "Reports", true)
	workspaceID := uuid.New()
	repo := &fakeModuleRepo{
		modules: []*model.Module{system, restricted, active},
		overrides: []*model.WorkspaceModule{
			{WorkspaceID: workspaceID, ModuleID: restricted.ID, IsEnabled: false},
		},
	}
	svc := NewService(repo, &fakeRoleRepo{}, newTestAuditor())

	availability, err := svc.ListWorkspaceAvailability(context.Background(), workspaceID)
	require.NoError(t, err)
	require.Len(t, availability, 3)

	states := map[string]model.ModuleState{}
	for _, a := range availability {
		states[a.Module.Key] = a.State
	}
	assert.Equal(t, model.ModuleStateSystemDisabled, states["scheduling"])
	assert.Equal(t, model.ModuleStateWorkspaceRestricted, states["payroll"])
	assert.Equal(t, model.ModuleStateActive, states["reports"])
}

func TestEffectiveCapabilitiesUnionAcrossRoles(t *testing.T) {
	moduleID := uuid.New()
	userID := uuid.New()
	repo := &fakeModuleRepo{
		roleAccess: []*model.RoleModuleAccess{
			{Role: model.RoleGeneralAdmin, ModuleID: moduleID, Capabilities: model.Capabilities{CanView: true}},
			{Role: model.RoleOrganizationAdmin, ModuleID: moduleID, Capabilities: model.Capabilities{CanEdit: true}},
		},
	}
	roleRepo := &fakeRoleRepo{assignments: []*model.RoleAssignment{
		{UserID: userID, Role: model.RoleGeneralAdmin},
		{UserID: userID, Role: model.RoleOrganizationAdmin},
	}}
	svc := NewService(repo, roleRepo, newTestAuditor())

	caps, err := svc.EffectiveCapabilities(context.Background(), userID, moduleID)
	require.NoError(t, err)
	assert.True(t, caps.CanView)
	assert.True(t, caps.CanEdit)
	assert.False(t, caps.CanDelete)
}

func TestEffectiveCapabilitiesUserOverrideReplaces(t *testing.T) {
	moduleID := uuid.New()
	userID := uuid.New()
	repo := &fakeModuleRepo{
		roleAccess: []*model.RoleModuleAccess{
			{Role: model.RoleGeneralAdmin, ModuleID: moduleID, Capabilities: model.Capabilities{CanView: true, CanEdit: true, CanDelete: true}},
		},
		userAccess: []*model.UserModuleAccess{
			{UserID: userID, ModuleID: moduleID, Capabilities: model.Capabilities{CanView: true}},
		},
	}
	roleRepo := &fakeRoleRepo{assignments: []*model.RoleAssignment{
		{UserID: userID, Role: model.RoleGeneralAdmin},
	}}
	svc := NewService(repo, roleRepo, newTestAuditor())

	caps, err := svc.EffectiveCapabilities(context.Background(), userID, moduleID)
	require.NoError(t, err)
	assert.True(t, caps.CanView)
	assert.False(t, caps.CanEdit)
	assert.False(t, caps.CanDelete)
}
