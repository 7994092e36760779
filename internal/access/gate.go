package access

import (
	"github.com/google/uuid"

	"github.com/orgconsole/admin-api/internal/model"
)

// ModuleAvailability resolves the state of one module inside one workspace.
// A system-disabled module is off everywhere; the override can only restrict
// a system-active one. A missing override means the module is available.
func ModuleAvailability(m *model.Module, override *model.WorkspaceModule) model.ModuleState {
	if !m.IsActive {
		return model.ModuleStateSystemDisabled
	}
	if override != nil && !override.IsEnabled {
		return model.ModuleStateWorkspaceRestricted
	}
	return model.ModuleStateActive
}

// DisableBlockers returns the names of modules that are active in the
// workspace and declare a direct dependency on target. A non-empty result
// means the target must not be restricted. Only direct dependencies are
// scanned; nothing walks transitive chains.
func DisableBlockers(target *model.Module, catalog []*model.Module, overrides map[uuid.UUID]*model.WorkspaceModule) []string {
	var blockers []string
	for _, m := range catalog {
		if m.ID == target.ID {
			continue
		}
		if ModuleAvailability(m, overrides[m.ID]) != model.ModuleStateActive {
			continue
		}
		for _, dep := range m.DependsOn {
			if dep == target.Key {
				blockers = append(blockers, m.Name)
				break
			}
		}
	}
	return blockers
}
