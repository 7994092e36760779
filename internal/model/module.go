package model

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Module is a feature area in the global catalog. IsActive=false disables
// the module everywhere regardless of workspace settings.
type Module struct {
	Base
	Key       string         `db:"key" json:"key"`
	Name      string         `db:"name" json:"name"`
	IsActive  bool           `db:"is_active" json:"is_active"`
	DependsOn pq.StringArray `db:"depends_on" json:"depends_on"`
}

// WorkspaceModule restricts a system-active module within one workspace.
// It never expands availability.
type WorkspaceModule struct {
	WorkspaceID uuid.UUID `db:"workspace_id" json:"workspace_id"`
	ModuleID    uuid.UUID `db:"module_id" json:"module_id"`
	IsEnabled   bool      `db:"is_enabled" json:"is_enabled"`
}

// ModuleState is the availability of a module inside one workspace.
type ModuleState string

const (
	ModuleStateActive              ModuleState = "active"
	ModuleStateWorkspaceRestricted ModuleState = "workspace_restricted"
	ModuleStateSystemDisabled      ModuleState = "system_disabled"
)

// Capabilities are the four independent grants. Admin does not imply view.
type Capabilities struct {
	CanView   bool `db:"can_view" json:"can_view"`
	CanEdit   bool `db:"can_edit" json:"can_edit"`
	CanDelete bool `db:"can_delete" json:"can_delete"`
	CanAdmin  bool `db:"can_admin" json:"can_admin"`
}

// RoleModuleAccess grants capabilities for a built-in role on a module.
type RoleModuleAccess struct {
	Base
	Role     RoleType  `db:"role" json:"role"`
	ModuleID uuid.UUID `db:"module_id" json:"module_id"`
	Capabilities
}

// CustomRoleModuleAccess grants capabilities for a custom role on a module.
type CustomRoleModuleAccess struct {
	Base
	CustomRoleID uuid.UUID `db:"custom_role_id" json:"custom_role_id"`
	ModuleID     uuid.UUID `db:"module_id" json:"module_id"`
	Capabilities
}

// UserModuleAccess is a per-user exception. When present it replaces the
// role-derived capabilities for that module entirely.
type UserModuleAccess struct {
	Base
	UserID   uuid.UUID `db:"user_id" json:"user_id"`
	ModuleID uuid.UUID `db:"module_id" json:"module_id"`
	Capabilities
}

// WorkspaceModuleAvailability pairs a catalog entry with its resolved state
// for listing endpoints.
type WorkspaceModuleAvailability struct {
	Module Module      `json:"module"`
	State  ModuleState `json:"state"`
}

type CreateModuleRequest struct {
	Key       string   `json:"key" binding:"required"`
	Name      string   `json:"name" binding:"required"`
	IsActive  bool     `json:"is_active"`
	DependsOn []string `json:"depends_on"`
}

type UpdateModuleRequest struct {
	Name      *string  `json:"name"`
	IsActive  *bool    `json:"is_active"`
	DependsOn []string `json:"depends_on"`
}

type SetWorkspaceModuleRequest struct {
	IsEnabled bool `json:"is_enabled"`
}

type GrantModuleAccessRequest struct {
	ModuleID  string `json:"module_id" binding:"required,uuid"`
	CanView   bool   `json:"can_view"`
	CanEdit   bool   `json:"can_edit"`
	CanDelete bool   `json:"can_delete"`
	CanAdmin  bool   `json:"can_admin"`
}
