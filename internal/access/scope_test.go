package access

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/orgconsole/admin-api/internal/model"
)

func assignment(role model.RoleType, mutate func(*model.RoleAssignment)) *model.RoleAssignment {
	a := &model.RoleAssignment{
		Base:   model.Base{ID: uuid.New()},
		UserID: uuid.New(),
		Role:   role,
	}
	if mutate != nil {
		mutate(a)
	}
	return a
}

func TestResolveScopePrecedence(t *testing.T) {
	orgID := uuid.New()
	wsID := uuid.New()
	facID := uuid.New()
	deptID := uuid.New()

	orgAdmin := assignment(model.RoleOrganizationAdmin, func(a *model.RoleAssignment) {
		a.OrganizationID = &orgID
	})
	supervisor := assignment(model.RoleFacilitySupervisor, func(a *model.RoleAssignment) {
		a.FacilityID = &facID
		a.WorkspaceID = &wsID
	})
	head := assignment(model.RoleDepartmentHead, func(a *model.RoleAssignment) {
		a.DepartmentID = &deptID
		a.FacilityID = &facID
		a.WorkspaceID = &wsID
	})

	scope := ResolveScope([]*model.RoleAssignment{head, supervisor, orgAdmin})
	assert.Equal(t, ScopeOrganization, scope.Type)
	assert.Equal(t, orgID, scope.OrganizationID)

	scope = ResolveScope([]*model.RoleAssignment{head, supervisor})
	assert.Equal(t, ScopeFacility, scope.Type)
	assert.Equal(t, facID, scope.FacilityID)
	assert.Equal(t, wsID, scope.WorkspaceID)
}

func TestResolveScopeOrderIndependent(t *testing.T) {
	orgID := uuid.New()
	wsID := uuid.New()

	a := assignment(model.RoleGeneralAdmin, func(ra *model.RoleAssignment) {
		ra.WorkspaceID = &wsID
	})
	b := assignment(model.RoleOrganizationAdmin, func(ra *model.RoleAssignment) {
		ra.OrganizationID = &orgID
	})
	c := assignment(model.RoleStaff, func(ra *model.RoleAssignment) {
		ra.WorkspaceID = &wsID
	})

	forward := ResolveScope([]*model.RoleAssignment{a, b, c})
	reversed := ResolveScope([]*model.RoleAssignment{c, b, a})
	assert.Equal(t, forward, reversed)
	assert.Equal(t, ScopeOrganization, forward.Type)
}

func TestResolveScopeSuperAdminWins(t *testing.T) {
	orgID := uuid.New()
	scope := ResolveScope([]*model.RoleAssignment{
		assignment(model.RoleOrganizationAdmin, func(a *model.RoleAssignment) { a.OrganizationID = &orgID }),
		assignment(model.RoleSuperAdmin, nil),
	})
	assert.Equal(t, ScopeGlobal, scope.Type)
	assert.Equal(t, uuid.Nil, scope.OrganizationID)
}

func TestResolveScopeDepartmentHeadKeepsLineage(t *testing.T) {
	wsID := uuid.New()
	facID := uuid.New()
	deptID := uuid.New()

	scope := ResolveScope([]*model.RoleAssignment{
		assignment(model.RoleDepartmentHead, func(a *model.RoleAssignment) {
			a.DepartmentID = &deptID
			a.FacilityID = &facID
			a.WorkspaceID = &wsID
		}),
	})
	assert.Equal(t, ScopeDepartment, scope.Type)
	assert.Equal(t, deptID, scope.DepartmentID)
	assert.Equal(t, facID, scope.FacilityID)
	assert.Equal(t, wsID, scope.WorkspaceID)
}

func TestResolveScopeNoAdministrativeRole(t *testing.T) {
	wsID := uuid.New()
	facID := uuid.New()

	scope := ResolveScope([]*model.RoleAssignment{
		assignment(model.RoleStaff, func(a *model.RoleAssignment) {
			a.WorkspaceID = &wsID
			a.FacilityID = &facID
		}),
	})
	assert.Equal(t, ScopeNone, scope.Type)

	scope = ResolveScope(nil)
	assert.Equal(t, ScopeNone, scope.Type)
}

func TestValidateAssignment(t *testing.T) {
	wsID := uuid.New()
	facID := uuid.New()
	customID := uuid.New()
	orgID := uuid.New()

	tests := []struct {
		name    string
		a       *model.RoleAssignment
		wantErr bool
	}{
		{"super admin needs nothing", assignment(model.RoleSuperAdmin, nil), false},
		{"org admin without org", assignment(model.RoleOrganizationAdmin, nil), true},
		{"staff without facility", assignment(model.RoleStaff, func(a *model.RoleAssignment) {
			a.WorkspaceID = &wsID
		}), true},
		{"staff complete", assignment(model.RoleStaff, func(a *model.RoleAssignment) {
			a.WorkspaceID = &wsID
			a.FacilityID = &facID
		}), false},
		{"custom without role id", assignment(model.RoleTypeCustom, func(a *model.RoleAssignment) {
			a.OrganizationID = &orgID
		}), true},
		{"custom complete", assignment(model.RoleTypeCustom, func(a *model.RoleAssignment) {
			a.CustomRoleID = &customID
			a.OrganizationID = &orgID
		}), false},
		{"unknown role", assignment(model.RoleType("auditor"), nil), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAssignment(tt.a)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
