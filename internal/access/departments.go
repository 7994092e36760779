package access

import (
	"strings"

	"github.com/google/uuid"

	"github.com/orgconsole/admin-api/internal/model"
)

const facilitySuffix = " facility"

// SelectableDepartments builds the flattened department list offered when
// assigning a role at a facility. Facility-specific rows win; otherwise the
// workspace's own templates; otherwise the catalog templates whose category
// best-effort matches the facility name. Sub-departments are relabeled
// "Parent └─ Child" and the result is de-duplicated by id, so re-running
// with the same inputs yields the same list.
func SelectableDepartments(
	facilityName string,
	facilityDepts []*model.Department,
	workspaceTemplates []*model.Department,
	catalogTemplates []*model.Department,
	categories []*model.Category,
) []model.DepartmentOption {
	pool := facilityDepts
	if len(pool) == 0 {
		pool = workspaceTemplates
	}
	if len(pool) == 0 {
		if category, ok := MatchCategory(facilityName, categories); ok {
			for _, t := range catalogTemplates {
				if strings.EqualFold(t.Category, category) {
					pool = append(pool, t)
				}
			}
		}
	}
	return flatten(dedupe(pool))
}

// MatchCategory infers a category from a facility name: case-insensitive
// substring containment after stripping a trailing " facility". This is a
// best-effort heuristic carried over from the admin screens, not a
// guaranteed resolution; an unmatched facility simply gets no departments.
func MatchCategory(facilityName string, categories []*model.Category) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(facilityName))
	name = strings.TrimSuffix(name, facilitySuffix)
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	for _, c := range categories {
		cat := strings.ToLower(strings.TrimSpace(c.Name))
		if cat == "" {
			continue
		}
		if strings.Contains(name, cat) || strings.Contains(cat, name) {
			return c.Name, true
		}
	}
	return "", false
}

func dedupe(depts []*model.Department) []*model.Department {
	seen := make(map[uuid.UUID]bool, len(depts))
	out := make([]*model.Department, 0, len(depts))
	for _, d := range depts {
		if seen[d.ID] {
			continue
		}
		seen[d.ID] = true
		out = append(out, d)
	}
	return out
}

// flatten emits parents in input order, each immediately followed by its
// sub-departments. A sub-department whose parent is not in the pool keeps
// its plain name and trails the list.
func flatten(depts []*model.Department) []model.DepartmentOption {
	byID := make(map[uuid.UUID]*model.Department, len(depts))
	for _, d := range depts {
		byID[d.ID] = d
	}

	options := make([]model.DepartmentOption, 0, len(depts))
	var orphans []model.DepartmentOption
	for _, d := range depts {
		if d.ParentDepartmentID != nil {
			continue
		}
		options = append(options, model.DepartmentOption{ID: d.ID, Label: d.Name})
		for _, child := range depts {
			if child.ParentDepartmentID != nil && *child.ParentDepartmentID == d.ID {
				options = append(options, model.DepartmentOption{
					ID:    child.ID,
					Label: d.Name + " └─ " + child.Name,
				})
			}
		}
	}
	for _, d := range depts {
		if d.ParentDepartmentID == nil {
			continue
		}
		if _, ok := byID[*d.ParentDepartmentID]; !ok {
			orphans = append(orphans, model.DepartmentOption{ID: d.ID, Label: d.Name})
		}
	}
	return append(options, orphans...)
}
