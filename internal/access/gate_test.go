package access

import (
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/orgconsole/admin-api/internal/model"
)

func module(key, name string, active bool, deps ...string) *model.Module {
	return &model.Module{
		Base:      model.Base{ID: uuid.New()},
		Key:       key,
		Name:      name,
		IsActive:  active,
		DependsOn: pq.StringArray(deps),
	}
}

func TestModuleAvailability(t *testing.T) {
	m := module("scheduling", "Scheduling", true)

	assert.Equal(t, model.ModuleStateActive, ModuleAvailability(m, nil))

	enabled := &model.WorkspaceModule{ModuleID: m.ID, IsEnabled: true}
	assert.Equal(t, model.ModuleStateActive, ModuleAvailability(m, enabled))

	disabled := &model.WorkspaceModule{ModuleID: m.ID, IsEnabled: false}
	assert.Equal(t, model.ModuleStateWorkspaceRestricted, ModuleAvailability(m, disabled))

	// System flag beats any workspace override.
	m.IsActive = false
	assert.Equal(t, model.ModuleStateSystemDisabled, ModuleAvailability(m, enabled))
	assert.Equal(t, model.ModuleStateSystemDisabled, ModuleAvailability(m, nil))
}

func TestDisableBlockersActiveDependent(t *testing.T) {
	scheduling := module("scheduling", "Scheduling", true)
	payroll := module("payroll", "Payroll", true, "scheduling")
	reports := module("reports", "Reports", true, "scheduling")
	catalog := []*model.Module{scheduling, payroll, reports}

	blockers := DisableBlockers(scheduling, catalog, nil)
	assert.ElementsMatch(t, []string{"Payroll", "Reports"}, blockers)
}

func TestDisableBlockersRestrictedDependentDoesNotBlock(t *testing.T) {
	scheduling := module("scheduling", "Scheduling", true)
	payroll := module("payroll", "Payroll", true, "scheduling")
	catalog := []*model.Module{scheduling, payroll}

	overrides := map[uuid.UUID]*model.WorkspaceModule{
		payroll.ID: {ModuleID: payroll.ID, IsEnabled: false},
	}
	assert.Empty(t, DisableBlockers(scheduling, catalog, overrides))
}

func TestDisableBlockersSystemDisabledDependentDoesNotBlock(t *testing.T) {
	scheduling := module("scheduling", "Scheduling", true)
	payroll := module("payroll", "Payroll", false, "scheduling")
	catalog := []*model.Module{scheduling, payroll}

	assert.Empty(t, DisableBlockers(scheduling, catalog, nil))
}

func TestDisableBlockersSingleLevelOnly(t *testing.T) {
	// payroll depends on scheduling, reports depends on payroll. Disabling
	// scheduling is blocked only by payroll; the chain is not walked.
	scheduling := module("scheduling", "Scheduling", true)
	payroll := module("payroll", "Payroll", true, "scheduling")
	reports := module("reports", "Reports", true, "payroll")
	catalog := []*model.Module{scheduling, payroll, reports}

	blockers := DisableBlockers(scheduling, catalog, nil)
	assert.Equal(t, []string{"Payroll"}, blockers)
}

func TestDisableBlockersNoDependents(t *testing.T) {
	scheduling := module("scheduling", "Scheduling", true)
	messaging := module("messaging", "Messaging", true)
	catalog := []*model.Module{scheduling, messaging}

	assert.Empty(t, DisableBlockers(scheduling, catalog, nil))
}
