// Package access holds the pure permission and scoping computations shared
// by the admin screens: scope resolution, module capability aggregation,
// workspace module gating and department selection. Nothing in here touches
// the database; callers fetch the rows and pass them in.
package access

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/orgconsole/admin-api/internal/model"
)

// ScopeType discriminates the administrative boundary a user operates in.
type ScopeType string

const (
	ScopeGlobal       ScopeType = "global"
	ScopeOrganization ScopeType = "organization"
	ScopeWorkspace    ScopeType = "workspace"
	ScopeFacility     ScopeType = "facility"
	ScopeDepartment   ScopeType = "department"
	ScopeNone         ScopeType = "none"
)

// Scope is the resolved administrative boundary. Fields beyond the
// discriminating one are populated when the role retains them for lookups:
// a department head keeps its facility and workspace.
type Scope struct {
	Type           ScopeType `json:"type"`
	OrganizationID uuid.UUID `json:"organization_id,omitempty"`
	WorkspaceID    uuid.UUID `json:"workspace_id,omitempty"`
	FacilityID     uuid.UUID `json:"facility_id,omitempty"`
	DepartmentID   uuid.UUID `json:"department_id,omitempty"`
}

// rolePrecedence orders built-in roles from broadest to narrowest. Roles
// absent from this list (staff, custom) never confer an administrative
// scope of their own.
var rolePrecedence = []model.RoleType{
	model.RoleSuperAdmin,
	model.RoleOrganizationAdmin,
	model.RoleGeneralAdmin,
	model.RoleWorkplaceSupervisor,
	model.RoleFacilitySupervisor,
	model.RoleDepartmentHead,
}

// ResolveScope classifies a user's role assignments into the single broadest
// applicable scope. The result depends only on the set of assignments, not
// their order. No administrative role resolves to ScopeNone; callers treat
// that as "no accessible records", not as an error.
func ResolveScope(assignments []*model.RoleAssignment) Scope {
	for _, role := range rolePrecedence {
		for _, a := range assignments {
			if a.Role != role {
				continue
			}
			switch role {
			case model.RoleSuperAdmin:
				return Scope{Type: ScopeGlobal}
			case model.RoleOrganizationAdmin:
				if a.OrganizationID != nil {
					return Scope{Type: ScopeOrganization, OrganizationID: *a.OrganizationID}
				}
			case model.RoleGeneralAdmin, model.RoleWorkplaceSupervisor:
				if a.WorkspaceID != nil {
					s := Scope{Type: ScopeWorkspace, WorkspaceID: *a.WorkspaceID}
					if a.OrganizationID != nil {
						s.OrganizationID = *a.OrganizationID
					}
					return s
				}
			case model.RoleFacilitySupervisor:
				if a.FacilityID != nil {
					s := Scope{Type: ScopeFacility, FacilityID: *a.FacilityID}
					if a.WorkspaceID != nil {
						s.WorkspaceID = *a.WorkspaceID
					}
					return s
				}
			case model.RoleDepartmentHead:
				if a.DepartmentID != nil {
					s := Scope{Type: ScopeDepartment, DepartmentID: *a.DepartmentID}
					if a.FacilityID != nil {
						s.FacilityID = *a.FacilityID
					}
					if a.WorkspaceID != nil {
						s.WorkspaceID = *a.WorkspaceID
					}
					return s
				}
			}
		}
	}
	return Scope{Type: ScopeNone}
}

// ValidateAssignment checks that the scope fields a role requires are set.
// Extra fields are allowed; missing required ones are not.
func ValidateAssignment(a *model.RoleAssignment) error {
	switch a.Role {
	case model.RoleSuperAdmin:
		return nil
	case model.RoleOrganizationAdmin:
		if a.OrganizationID == nil {
			return fmt.Errorf("role %s requires an organization", a.Role)
		}
	case model.RoleGeneralAdmin, model.RoleWorkplaceSupervisor:
		if a.WorkspaceID == nil {
			return fmt.Errorf("role %s requires a workspace", a.Role)
		}
	case model.RoleFacilitySupervisor:
		if a.FacilityID == nil {
			return fmt.Errorf("role %s requires a facility", a.Role)
		}
	case model.RoleDepartmentHead:
		if a.DepartmentID == nil {
			return fmt.Errorf("role %s requires a department", a.Role)
		}
	case model.RoleStaff:
		if a.WorkspaceID == nil || a.FacilityID == nil {
			return fmt.Errorf("role %s requires a workspace and a facility", a.Role)
		}
	case model.RoleTypeCustom:
		if a.CustomRoleID == nil {
			return fmt.Errorf("custom role assignments require a custom role id")
		}
		if a.OrganizationID == nil {
			return fmt.Errorf("custom role assignments require an organization")
		}
	default:
		return fmt.Errorf("unknown role %q", a.Role)
	}
	return nil
}
