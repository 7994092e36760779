package access

import (
	"github.com/google/uuid"

	"github.com/orgconsole/admin-api/internal/model"
)

// EffectiveCapabilities computes the four module capabilities for one user
// against one module. Role-derived grants are additive: any role granting a
// capability grants it to the user. A user override row for the module, when
// present, replaces the role-derived result entirely rather than merging
// with it. Absent rows yield all-false, never an error.
//
// roleAccess and customAccess may be the full catalogs; rows not matching
// the user's assignments or the module are ignored. overrides must already
// be the user's own rows.
func EffectiveCapabilities(
	assignments []*model.RoleAssignment,
	moduleID uuid.UUID,
	roleAccess []*model.RoleModuleAccess,
	customAccess []*model.CustomRoleModuleAccess,
	overrides []*model.UserModuleAccess,
) model.Capabilities {
	for _, o := range overrides {
		if o.ModuleID == moduleID {
			return o.Capabilities
		}
	}

	builtin := make(map[model.RoleType]bool, len(assignments))
	custom := make(map[uuid.UUID]bool)
	for _, a := range assignments {
		if a.Role == model.RoleTypeCustom {
			if a.CustomRoleID != nil {
				custom[*a.CustomRoleID] = true
			}
			continue
		}
		builtin[a.Role] = true
	}

	var caps model.Capabilities
	for _, r := range roleAccess {
		if r.ModuleID == moduleID && builtin[r.Role] {
			caps = orCapabilities(caps, r.Capabilities)
		}
	}
	for _, r := range customAccess {
		if r.ModuleID == moduleID && custom[r.CustomRoleID] {
			caps = orCapabilities(caps, r.Capabilities)
		}
	}
	return caps
}

func orCapabilities(a, b model.Capabilities) model.Capabilities {
	return model.Capabilities{
		CanView:   a.CanView || b.CanView,
		CanEdit:   a.CanEdit || b.CanEdit,
		CanDelete: a.CanDelete || b.CanDelete,
		CanAdmin:  a.CanAdmin || b.CanAdmin,
	}
}

// HasCapability reports whether the aggregated capabilities include the
// named one. Unknown names are false.
func HasCapability(caps model.Capabilities, name string) bool {
	switch name {
	case "view":
		return caps.CanView
	case "edit":
		return caps.CanEdit
	case "delete":
		return caps.CanDelete
	case "admin":
		return caps.CanAdmin
	}
	return false
}
