package access

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/orgconsole/admin-api/internal/model"
)

func roleGrant(role model.RoleType, moduleID uuid.UUID, caps model.Capabilities) *model.RoleModuleAccess {
	return &model.RoleModuleAccess{
		Base:         model.Base{ID: uuid.New()},
		Role:         role,
		ModuleID:     moduleID,
		Capabilities: caps,
	}
}

func customGrant(roleID, moduleID uuid.UUID, caps model.Capabilities) *model.CustomRoleModuleAccess {
	return &model.CustomRoleModuleAccess{
		Base:         model.Base{ID: uuid.New()},
		CustomRoleID: roleID,
		ModuleID:     moduleID,
		Capabilities: caps,
	}
}

func TestEffectiveCapabilitiesAdditiveAcrossRoles(t *testing.T) {
	moduleID := uuid.New()
	facID := uuid.New()
	wsID := uuid.New()
	customRoleID := uuid.New()

	assignments := []*model.RoleAssignment{
		assignment(model.RoleStaff, func(a *model.RoleAssignment) {
			a.FacilityID = &facID
			a.WorkspaceID = &wsID
		}),
		assignment(model.RoleTypeCustom, func(a *model.RoleAssignment) {
			a.CustomRoleID = &customRoleID
		}),
	}

	roleAccess := []*model.RoleModuleAccess{
		roleGrant(model.RoleStaff, moduleID, model.Capabilities{CanView: true}),
	}
	customAccess := []*model.CustomRoleModuleAccess{
		customGrant(customRoleID, moduleID, model.Capabilities{CanEdit: true}),
	}

	caps := EffectiveCapabilities(assignments, moduleID, roleAccess, customAccess, nil)
	assert.Equal(t, model.Capabilities{CanView: true, CanEdit: true}, caps)
}

func TestEffectiveCapabilitiesOverrideReplaces(t *testing.T) {
	moduleID := uuid.New()

	assignments := []*model.RoleAssignment{
		assignment(model.RoleOrganizationAdmin, nil),
	}
	roleAccess := []*model.RoleModuleAccess{
		roleGrant(model.RoleOrganizationAdmin, moduleID, model.Capabilities{
			CanView: true, CanEdit: true, CanDelete: true, CanAdmin: true,
		}),
	}
	overrides := []*model.UserModuleAccess{{
		Base:         model.Base{ID: uuid.New()},
		ModuleID:     moduleID,
		Capabilities: model.Capabilities{CanView: true},
	}}

	// Override wins even when it grants less than the roles do.
	caps := EffectiveCapabilities(assignments, moduleID, roleAccess, nil, overrides)
	assert.Equal(t, model.Capabilities{CanView: true}, caps)

	// An all-false override still replaces the role grants.
	overrides[0].Capabilities = model.Capabilities{}
	caps = EffectiveCapabilities(assignments, moduleID, roleAccess, nil, overrides)
	assert.Equal(t, model.Capabilities{}, caps)
}

func TestEffectiveCapabilitiesOverrideForOtherModuleIgnored(t *testing.T) {
	moduleID := uuid.New()
	otherModule := uuid.New()

	assignments := []*model.RoleAssignment{assignment(model.RoleStaff, nil)}
	roleAccess := []*model.RoleModuleAccess{
		roleGrant(model.RoleStaff, moduleID, model.Capabilities{CanView: true}),
	}
	overrides := []*model.UserModuleAccess{{
		Base:         model.Base{ID: uuid.New()},
		ModuleID:     otherModule,
		Capabilities: model.Capabilities{CanAdmin: true},
	}}

	caps := EffectiveCapabilities(assignments, moduleID, roleAccess, nil, overrides)
	assert.Equal(t, model.Capabilities{CanView: true}, caps)
}

func TestEffectiveCapabilitiesAbsentRows(t *testing.T) {
	caps := EffectiveCapabilities(
		[]*model.RoleAssignment{assignment(model.RoleStaff, nil)},
		uuid.New(), nil, nil, nil,
	)
	assert.Equal(t, model.Capabilities{}, caps)
}

func TestEffectiveCapabilitiesIgnoresUnheldRoles(t *testing.T) {
	moduleID := uuid.New()
	strangerRoleID := uuid.New()

	assignments := []*model.RoleAssignment{assignment(model.RoleStaff, nil)}
	roleAccess := []*model.RoleModuleAccess{
		roleGrant(model.RoleOrganizationAdmin, moduleID, model.Capabilities{CanAdmin: true}),
		roleGrant(model.RoleStaff, moduleID, model.Capabilities{CanView: true}),
	}
	customAccess := []*model.CustomRoleModuleAccess{
		customGrant(strangerRoleID, moduleID, model.Capabilities{CanDelete: true}),
	}

	caps := EffectiveCapabilities(assignments, moduleID, roleAccess, customAccess, nil)
	assert.Equal(t, model.Capabilities{CanView: true}, caps)
}

func TestEffectiveCapabilitiesDeterministic(t *testing.T) {
	moduleID := uuid.New()
	customRoleID := uuid.New()

	assignments := []*model.RoleAssignment{
		assignment(model.RoleStaff, nil),
		assignment(model.RoleTypeCustom, func(a *model.RoleAssignment) {
			a.CustomRoleID = &customRoleID
		}),
	}
	roleAccess := []*model.RoleModuleAccess{
		roleGrant(model.RoleStaff, moduleID, model.Capabilities{CanView: true}),
	}
	customAccess := []*model.CustomRoleModuleAccess{
		customGrant(customRoleID, moduleID, model.Capabilities{CanEdit: true}),
	}

	first := EffectiveCapabilities(assignments, moduleID, roleAccess, customAccess, nil)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, EffectiveCapabilities(assignments, moduleID, roleAccess, customAccess, nil))
	}
}

func TestHasCapability(t *testing.T) {
	caps := model.Capabilities{CanView: true, CanAdmin: true}
	assert.True(t, HasCapability(caps, "view"))
	assert.False(t, HasCapability(caps, "edit"))
	assert.False(t, HasCapability(caps, "delete"))
	assert.True(t, HasCapability(caps, "admin"))
	assert.False(t, HasCapability(caps, "owner"))
}
