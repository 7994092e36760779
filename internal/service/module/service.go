package module

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/orgconsole/admin-api/internal/access"
	"github.com/orgconsole/admin-api/internal/model"
	"github.com/orgconsole/admin-api/internal/repository"
	"github.com/orgconsole/admin-api/internal/service/audit"
	apperrors "github.com/orgconsole/admin-api/pkg/errors"
)

const (
	catalogCacheKey      = "module_catalog"
	catalogCacheDuration = 5 * time.Minute
	cleanupInterval      = 15 * time.Minute
)

type ModuleServicer interface {
	CreateModule(ctx context.Context, m *model.Module) error
	GetModule(ctx context.Context, id uuid.UUID) (*model.Module, error)
	GetModuleByKey(ctx context.Context, key string) (*model.Module, error)
	UpdateModule(ctx context.Context, m *model.Module) error
	DeleteModule(ctx context.Context, id uuid.UUID) error
	ListModules(ctx context.Context) ([]*model.Module, error)
	SetSystemActive(ctx context.Context, id uuid.UUID, active bool) error
	SetWorkspaceEnabled(ctx context.Context, workspaceID, moduleID uuid.UUID, enabled bool) error
	ListWorkspaceAvailability(ctx context.Context, workspaceID uuid.UUID) ([]*model.WorkspaceModuleAvailability, error)
	ModuleAvailability(ctx context.Context, workspaceID, moduleID uuid.UUID) (model.ModuleState, error)
	EffectiveCapabilities(ctx context.Context, userID, moduleID uuid.UUID) (model.Capabilities, error)
	UpsertRoleAccess(ctx context.Context, row *model.RoleModuleAccess) error
	UpsertCustomRoleAccess(ctx context.Context, row *model.CustomRoleModuleAccess) error
	UpsertUserOverride(ctx context.Context, row *model.UserModuleAccess) error
	DeleteUserOverride(ctx context.Context, userID, moduleID uuid.UUID) error
}

type Service struct {
	repo     repository.ModuleRepository
	roleRepo repository.RoleRepository
	auditor  *audit.AuditLogger
	cache    *cache.Cache
}

func NewService(repo repository.ModuleRepository, roleRepo repository.RoleRepository, auditor *audit.AuditLogger) *Service {
	return &Service{
		repo:     repo,
		roleRepo: roleRepo,
		auditor:  auditor,
		cache:    cache.New(catalogCacheDuration, cleanupInterval),
	}
}

func (s *Service) CreateModule(ctx context.Context, m *model.Module) error {
	if m.Key == "" || m.Name == "" {
		return apperrors.BadRequest("module key and name are required", nil)
	}

	for _, dep := range m.DependsOn {
		if _, err := s.repo.GetByKey(ctx, dep); err != nil {
			return apperrors.BadRequest(fmt.Sprintf("unknown dependency %q", dep), err)
		}
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return fmt.Errorf("failed to create module: %w", err)
	}
	s.cache.Delete(catalogCacheKey)

	s.auditor.Log(ctx, uuid.Nil, uuid.Nil, model.AuditActionCreate, model.AuditEntityModule, m.ID, &audit.LogOptions{
		Changes: m,
	})
	return nil
}

func (s *Service) GetModule(ctx context.Context, id uuid.UUID) (*model.Module, error) {
	m, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("module", err)
	}
	return m, nil
}

func (s *Service) GetModuleByKey(ctx context.Context, key string) (*model.Module, error) {
	m, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		return nil, apperrors.NotFound("module", err)
	}
	return m, nil
}

func (s *Service) UpdateModule(ctx context.Context, m *model.Module) error {
	if err := s.repo.Update(ctx, m); err != nil {
		return fmt.Errorf("failed to update module: %w", err)
	}
	s.cache.Delete(catalogCacheKey)

	s.auditor.Log(ctx, uuid.Nil, uuid.Nil, model.AuditActionUpdate, model.AuditEntityModule, m.ID, &audit.LogOptions{
		Changes: m,
	})
	return nil
}

// DeleteModule removes a module from the catalog. Modules that others
// depend on must be deactivated first, which runs the same blocker check.
func (s *Service) DeleteModule(ctx context.Context, id uuid.UUID) error {
	m, err := s.repo.Get(ctx, id)
	if err != nil {
		return apperrors.NotFound("module", err)
	}

	catalog, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list modules: %w", err)
	}
	blockers := access.DisableBlockers(m, catalog, nil)
	if len(blockers) > 0 {
		return apperrors.BusinessRule(fmt.Sprintf("module is required by: %s", strings.Join(blockers, ", ")))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete module: %w", err)
	}
	s.cache.Delete(catalogCacheKey)

	s.auditor.Log(ctx, uuid.Nil, uuid.Nil, model.AuditActionDelete, model.AuditEntityModule, id, nil)
	return nil
}

func (s *Service) ListModules(ctx context.Context) ([]*model.Module, error) {
	return s.catalog(ctx)
}

func (s *Service) catalog(ctx context.Context) ([]*model.Module, error) {
	if cached, ok := s.cache.Get(catalogCacheKey); ok {
		return cached.([]*model.Module), nil
	}

	modules, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list modules: %w", err)
	}
	s.cache.Set(catalogCacheKey, modules, cache.DefaultExpiration)
	return modules, nil
}

// SetSystemActive toggles a module in the global catalog. Deactivation is
// refused while other system-active modules depend on the target.
func (s *Service) SetSystemActive(ctx context.Context, id uuid.UUID, active bool) error {
	m, err := s.repo.Get(ctx, id)
	if err != nil {
		return apperrors.NotFound("module", err)
	}

	if !active {
		catalog, err := s.repo.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list modules: %w", err)
		}
		blockers := access.DisableBlockers(m, catalog, nil)
		if len(blockers) > 0 {
			return apperrors.BusinessRule(fmt.Sprintf("module is required by: %s", strings.Join(blockers, ", ")))
		}
	}

	m.IsActive = active
	if err := s.repo.Update(ctx, m); err != nil {
		return fmt.Errorf("failed to update module: %w", err)
	}
	s.cache.Delete(catalogCacheKey)

	s.auditor.Log(ctx, uuid.Nil, uuid.Nil, model.AuditActionUpdate, model.AuditEntityModule, id, &audit.LogOptions{
		Metadata: map[string]interface{}{"is_active": active},
	})
	return nil
}

// SetWorkspaceEnabled toggles a module within one workspace. Enabling
// requires the module to be system-active. Disabling is refused while
// modules that are active in that workspace depend on the target. Only
// direct dependents block.
func (s *Service) SetWorkspaceEnabled(ctx context.Context, workspaceID, moduleID uuid.UUID, enabled bool) error {
	m, err := s.repo.Get(ctx, moduleID)
	if err != nil {
		return apperrors.NotFound("module", err)
	}

	if enabled && !m.IsActive {
		return apperrors.BusinessRule(fmt.Sprintf("module %s is disabled system-wide", m.Key))
	}

	if !enabled {
		catalog, err := s.catalog(ctx)
		if err != nil {
			return err
		}
		overrideRows, err := s.repo.ListWorkspaceOverrides(ctx, workspaceID)
		if err != nil {
			return fmt.Errorf("failed to list workspace modules: %w", err)
		}
		overrides := make(map[uuid.UUID]*model.WorkspaceModule, len(overrideRows))
		for _, o := range overrideRows {
			overrides[o.ModuleID] = o
		}
		blockers := access.DisableBlockers(m, catalog, overrides)
		if len(blockers) > 0 {
			return apperrors.BusinessRule(fmt.Sprintf("module is required by: %s", strings.Join(blockers, ", ")))
		}
	}

	wm := &model.WorkspaceModule{
		WorkspaceID: workspaceID,
		ModuleID:    moduleID,
		IsEnabled:   enabled,
	}
	if err := s.repo.UpsertWorkspaceOverride(ctx, wm); err != nil {
		return fmt.Errorf("failed to set workspace module: %w", err)
	}

	s.auditor.Log(ctx, uuid.Nil, uuid.Nil, model.AuditActionUpdate, model.AuditEntityModule, moduleID, &audit.LogOptions{
		Metadata: map[string]interface{}{"workspace_id": workspaceID, "is_enabled": enabled},
	})
	return nil
}

func (s *Service) ListWorkspaceAvailability(ctx context.Context, workspaceID uuid.UUID) ([]*model.WorkspaceModuleAvailability, error) {
	catalog, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	overrideRows, err := s.repo.ListWorkspaceOverrides(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspace modules: %w", err)
	}
	overrides := make(map[uuid.UUID]*model.WorkspaceModule, len(overrideRows))
	for _, o := range overrideRows {
		overrides[o.ModuleID] = o
	}

	result := make([]*model.WorkspaceModuleAvailability, 0, len(catalog))
	for _, m := range catalog {
		result = append(result, &model.WorkspaceModuleAvailability{
			Module: *m,
			State:  access.ModuleAvailability(m, overrides[m.ID]),
		})
	}
	return result, nil
}

func (s *Service) ModuleAvailability(ctx context.Context, workspaceID, moduleID uuid.UUID) (model.ModuleState, error) {
	m, err := s.repo.Get(ctx, moduleID)
	if err != nil {
		return "", apperrors.NotFound("module", err)
	}
	override, err := s.repo.GetWorkspaceOverride(ctx, workspaceID, moduleID)
	if err != nil {
		return "", fmt.Errorf("failed to get workspace module: %w", err)
	}
	return access.ModuleAvailability(m, override), nil
}

// EffectiveCapabilities aggregates the user's capabilities on one module
// from every role they hold, with a per-user override replacing the result
// entirely when present.
func (s *Service) EffectiveCapabilities(ctx context.Context, userID, moduleID uuid.UUID) (model.Capabilities, error) {
	assignments, err := s.roleRepo.ListUserAssignments(ctx, userID)
	if err != nil {
		return model.Capabilities{}, fmt.Errorf("failed to list assignments: %w", err)
	}

	roles := make([]model.RoleType, 0, len(assignments))
	customRoleIDs := make([]uuid.UUID, 0)
	for _, a := range assignments {
		if a.Role == model.RoleTypeCustom {
			if a.CustomRoleID != nil {
				customRoleIDs = append(customRoleIDs, *a.CustomRoleID)
			}
			continue
		}
		roles = append(roles, a.Role)
	}

	roleAccess, err := s.repo.ListRoleAccess(ctx, roles)
	if err != nil {
		return model.Capabilities{}, fmt.Errorf("failed to list role access: %w", err)
	}
	customAccess, err := s.repo.ListCustomRoleAccess(ctx, customRoleIDs)
	if err != nil {
		return model.Capabilities{}, fmt.Errorf("failed to list custom role access: %w", err)
	}
	overrides, err := s.repo.ListUserOverrides(ctx, userID)
	if err != nil {
		return model.Capabilities{}, fmt.Errorf("failed to list user overrides: %w", err)
	}

	return access.EffectiveCapabilities(assignments, moduleID, roleAccess, customAccess, overrides), nil
}

func (s *Service) UpsertRoleAccess(ctx context.Context, row *model.RoleModuleAccess) error {
	if err := s.repo.UpsertRoleAccess(ctx, row); err != nil {
		return fmt.Errorf("failed to upsert role access: %w", err)
	}
	return nil
}

func (s *Service) UpsertCustomRoleAccess(ctx context.Context, row *model.CustomRoleModuleAccess) error {
	if err := s.repo.UpsertCustomRoleAccess(ctx, row); err != nil {
		return fmt.Errorf("failed to upsert custom role access: %w", err)
	}
	return nil
}

func (s *Service) UpsertUserOverride(ctx context.Context, row *model.UserModuleAccess) error {
	if err := s.repo.UpsertUserOverride(ctx, row); err != nil {
		return fmt.Errorf("failed to upsert user override: %w", err)
	}
	return nil
}

func (s *Service) DeleteUserOverride(ctx context.Context, userID, moduleID uuid.UUID) error {
	if err := s.repo.DeleteUserOverride(ctx, userID, moduleID); err != nil {
		return fmt.Errorf("failed to delete user override: %w", err)
	}
	return nil
}
