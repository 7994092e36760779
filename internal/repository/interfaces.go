package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/orgconsole/admin-api/internal/model"
)

// All repository interfaces in one file
type (
	OrganizationRepository interface {
		Create(ctx context.Context, org *model.Organization) error
		Get(ctx context.Context, id uuid.UUID) (*model.Organization, error)
		Update(ctx context.Context, org *model.Organization) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.Organization, error)
		CountWorkspaces(ctx context.Context, orgID uuid.UUID) (int, error)
		CountUsers(ctx context.Context, orgID uuid.UUID) (int, error)
	}

	WorkspaceRepository interface {
		Create(ctx context.Context, ws *model.Workspace) error
		Get(ctx context.Context, id uuid.UUID) (*model.Workspace, error)
		Update(ctx context.Context, ws *model.Workspace) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, orgID uuid.UUID) ([]*model.Workspace, error)
		CountFacilities(ctx context.Context, workspaceID uuid.UUID) (int, error)
	}

	FacilityRepository interface {
		Create(ctx context.Context, facility *model.Facility) error
		Get(ctx context.Context, id uuid.UUID) (*model.Facility, error)
		Update(ctx context.Context, facility *model.Facility) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, workspaceID uuid.UUID) ([]*model.Facility, error)
		CountForOrganization(ctx context.Context, orgID uuid.UUID) (int, error)
	}

	DepartmentRepository interface {
		Create(ctx context.Context, dept *model.Department) error
		Get(ctx context.Context, id uuid.UUID) (*model.Department, error)
		Update(ctx context.Context, dept *model.Department) error
		Delete(ctx context.Context, id uuid.UUID) error
		ListByFacility(ctx context.Context, facilityID uuid.UUID) ([]*model.Department, error)
		ListTemplatesByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*model.Department, error)
		ListAllTemplates(ctx context.Context) ([]*model.Department, error)
		CountSubDepartments(ctx context.Context, id uuid.UUID) (int, error)
		CreateCategory(ctx context.Context, category *model.Category) error
		ListCategories(ctx context.Context) ([]*model.Category, error)
		DeleteCategory(ctx context.Context, id uuid.UUID) error
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, orgID uuid.UUID, email string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error)
		ExistsByEmail(ctx context.Context, orgID uuid.UUID, email string) (bool, error)
	}

	RoleRepository interface {
		CreateAssignment(ctx context.Context, a *model.RoleAssignment) error
		DeleteAssignment(ctx context.Context, id uuid.UUID) error
		ListUserAssignments(ctx context.Context, userID uuid.UUID) ([]*model.RoleAssignment, error)
		CreateCustomRole(ctx context.Context, role *model.CustomRole) error
		GetCustomRole(ctx context.Context, id uuid.UUID) (*model.CustomRole, error)
		UpdateCustomRole(ctx context.Context, role *model.CustomRole) error
		DeleteCustomRole(ctx context.Context, id uuid.UUID) error
		ListCustomRoles(ctx context.Context, orgID uuid.UUID) ([]*model.CustomRole, error)
	}

	ModuleRepository interface {
		Create(ctx context.Context, module *model.Module) error
		Get(ctx context.Context, id uuid.UUID) (*model.Module, error)
		GetByKey(ctx context.Context, key string) (*model.Module, error)
		Update(ctx context.Context, module *model.Module) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.Module, error)
		GetWorkspaceOverride(ctx context.Context, workspaceID, moduleID uuid.UUID) (*model.WorkspaceModule, error)
		ListWorkspaceOverrides(ctx context.Context, workspaceID uuid.UUID) ([]*model.WorkspaceModule, error)
		UpsertWorkspaceOverride(ctx context.Context, override *model.WorkspaceModule) error
		ListRoleAccess(ctx context.Context, roles []model.RoleType) ([]*model.RoleModuleAccess, error)
		UpsertRoleAccess(ctx context.Context, row *model.RoleModuleAccess) error
		ListCustomRoleAccess(ctx context.Context, customRoleIDs []uuid.UUID) ([]*model.CustomRoleModuleAccess, error)
		UpsertCustomRoleAccess(ctx context.Context, row *model.CustomRoleModuleAccess) error
		ListUserOverrides(ctx context.Context, userID uuid.UUID) ([]*model.UserModuleAccess, error)
		UpsertUserOverride(ctx context.Context, row *model.UserModuleAccess) error
		DeleteUserOverride(ctx context.Context, userID, moduleID uuid.UUID) error
	}

	TrainingEventRepository interface {
		Create(ctx context.Context, event *model.TrainingEvent) error
		Get(ctx context.Context, id uuid.UUID) (*model.TrainingEvent, error)
		Update(ctx context.Context, event *model.TrainingEvent) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.TrainingEventFilters) ([]*model.TrainingEvent, error)
		CreateAttendance(ctx context.Context, attendance *model.EventAttendance) error
		GetAttendance(ctx context.Context, eventID, userID uuid.UUID) (*model.EventAttendance, error)
		ListAttendance(ctx context.Context, eventID uuid.UUID) ([]*model.EventAttendance, error)
		UpdateAttendance(ctx context.Context, attendance *model.EventAttendance) error
	}

	NotificationRepository interface {
		Create(ctx context.Context, notification *model.Notification) error
		Update(ctx context.Context, notification *model.Notification) error
	}

	// ScopedUserRepository resolves recipients for scope-wide broadcasts.
	ScopedUserRepository interface {
		ListUserIDsForScope(ctx context.Context, orgID uuid.UUID, workspaceID, facilityID, departmentID *uuid.UUID) ([]uuid.UUID, error)
	}

	OutboxRepository interface {
		GetPendingEventsWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		Create(ctx context.Context, event *model.OutboxEvent) error
		BeginTx(ctx context.Context) (*sql.Tx, error)
		UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uuid.UUID, status string, errorMessage *string, retryAt *time.Time) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}

	AuditRepository interface {
		Create(ctx context.Context, log *model.AuditLog) error
		List(ctx context.Context, filters map[string]interface{}) ([]*model.AuditLog, error)
		DeleteBefore(ctx context.Context, cutoff time.Time) error
	}
)
