package model

import "github.com/google/uuid"

// RoleType identifies a built-in role. Custom roles use RoleTypeCustom plus
// a CustomRoleID on the assignment.
type RoleType string

const (
	RoleSuperAdmin          RoleType = "super_admin"
	RoleOrganizationAdmin   RoleType = "organization_admin"
	RoleGeneralAdmin        RoleType = "general_admin"
	RoleWorkplaceSupervisor RoleType = "workplace_supervisor"
	RoleFacilitySupervisor  RoleType = "facility_supervisor"
	RoleDepartmentHead      RoleType = "department_head"
	RoleStaff               RoleType = "staff"
	RoleTypeCustom          RoleType = "custom"
)

// RoleAssignment binds a user to a role within a scope. Which scope fields
// are required depends on the role; see access.ValidateAssignment.
type RoleAssignment struct {
	Base
	UserID         uuid.UUID  `db:"user_id" json:"user_id"`
	Role           RoleType   `db:"role" json:"role"`
	CustomRoleID   *uuid.UUID `db:"custom_role_id" json:"custom_role_id,omitempty"`
	OrganizationID *uuid.UUID `db:"organization_id" json:"organization_id,omitempty"`
	WorkspaceID    *uuid.UUID `db:"workspace_id" json:"workspace_id,omitempty"`
	FacilityID     *uuid.UUID `db:"facility_id" json:"facility_id,omitempty"`
	DepartmentID   *uuid.UUID `db:"department_id" json:"department_id,omitempty"`
	SpecialtyID    *uuid.UUID `db:"specialty_id" json:"specialty_id,omitempty"`
}

// CustomRole is an organization-defined role whose module grants live in
// CustomRoleModuleAccess rows.
type CustomRole struct {
	Base
	OrganizationID uuid.UUID `db:"organization_id" json:"organization_id"`
	Name           string    `db:"name" json:"name"`
	Description    string    `db:"description" json:"description"`
}

type CreateRoleAssignmentRequest struct {
	UserID         string  `json:"user_id" binding:"required,uuid"`
	Role           string  `json:"role" binding:"required"`
	CustomRoleID   *string `json:"custom_role_id" binding:"omitempty,uuid"`
	OrganizationID *string `json:"organization_id" binding:"omitempty,uuid"`
	WorkspaceID    *string `json:"workspace_id" binding:"omitempty,uuid"`
	FacilityID     *string `json:"facility_id" binding:"omitempty,uuid"`
	DepartmentID   *string `json:"department_id" binding:"omitempty,uuid"`
	SpecialtyID    *string `json:"specialty_id" binding:"omitempty,uuid"`
}

type CreateCustomRoleRequest struct {
	OrganizationID string `json:"organization_id" binding:"required,uuid"`
	Name           string `json:"name" binding:"required"`
	Description    string `json:"description"`
}

type UpdateCustomRoleRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}
