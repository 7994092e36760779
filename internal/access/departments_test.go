package access

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/orgconsole/admin-api/internal/model"
)

func dept(name, category string, mutate func(*model.Department)) *model.Department {
	d := &model.Department{
		Base:     model.Base{ID: uuid.New()},
		Name:     name,
		Category: category,
	}
	if mutate != nil {
		mutate(d)
	}
	return d
}

func TestSelectableDepartmentsPrefersFacilityRows(t *testing.T) {
	facID := uuid.New()
	facilityDepts := []*model.Department{
		dept("Radiology", "imaging", func(d *model.Department) { d.FacilityID = &facID }),
	}
	templates := []*model.Department{
		dept("Template Radiology", "imaging", func(d *model.Department) { d.IsTemplate = true }),
	}

	options := SelectableDepartments("North Imaging Facility", facilityDepts, templates, nil, nil)
	assert.Len(t, options, 1)
	assert.Equal(t, "Radiology", options[0].Label)
}

func TestSelectableDepartmentsFallsBackToWorkspaceTemplates(t *testing.T) {
	templates := []*model.Department{
		dept("Cardiology", "clinical", func(d *model.Department) { d.IsTemplate = true }),
		dept("Oncology", "clinical", func(d *model.Department) { d.IsTemplate = true }),
	}

	options := SelectableDepartments("East Wing", nil, templates, nil, nil)
	assert.Len(t, options, 2)
	assert.Equal(t, "Cardiology", options[0].Label)
	assert.Equal(t, "Oncology", options[1].Label)
}

func TestSelectableDepartmentsCategoryHeuristic(t *testing.T) {
	categories := []*model.Category{
		{Base: model.Base{ID: uuid.New()}, Name: "Imaging"},
		{Base: model.Base{ID: uuid.New()}, Name: "Clinical"},
	}
	catalog := []*model.Department{
		dept("Radiology", "Imaging", func(d *model.Department) { d.IsTemplate = true }),
		dept("MRI", "Imaging", func(d *model.Department) { d.IsTemplate = true }),
		dept("Cardiology", "Clinical", func(d *model.Department) { d.IsTemplate = true }),
	}

	options := SelectableDepartments("Imaging Facility", nil, nil, catalog, categories)
	assert.Len(t, options, 2)
	labels := []string{options[0].Label, options[1].Label}
	assert.ElementsMatch(t, []string{"Radiology", "MRI"}, labels)
}

func TestSelectableDepartmentsUnmatchedFacilityYieldsNothing(t *testing.T) {
	categories := []*model.Category{
		{Base: model.Base{ID: uuid.New()}, Name: "Imaging"},
	}
	catalog := []*model.Department{
		dept("Radiology", "Imaging", func(d *model.Department) { d.IsTemplate = true }),
	}

	options := SelectableDepartments("Warehouse 12", nil, nil, catalog, categories)
	assert.Empty(t, options)
}

func TestSelectableDepartmentsRelabelsSubDepartments(t *testing.T) {
	parent := dept("Surgery", "clinical", nil)
	child := dept("Recovery", "clinical", func(d *model.Department) {
		d.ParentDepartmentID = &parent.ID
	})

	options := SelectableDepartments("Main", []*model.Department{child, parent}, nil, nil, nil)
	assert.Len(t, options, 2)
	assert.Equal(t, "Surgery", options[0].Label)
	assert.Equal(t, "Surgery └─ Recovery", options[1].Label)
}

func TestSelectableDepartmentsOrphanKeepsPlainLabel(t *testing.T) {
	missingParent := uuid.New()
	child := dept("Recovery", "clinical", func(d *model.Department) {
		d.ParentDepartmentID = &missingParent
	})

	options := SelectableDepartments("Main", []*model.Department{child}, nil, nil, nil)
	assert.Len(t, options, 1)
	assert.Equal(t, "Recovery", options[0].Label)
}

func TestSelectableDepartmentsIdempotentAndDeduplicated(t *testing.T) {
	parent := dept("Surgery", "clinical", nil)
	child := dept("Recovery", "clinical", func(d *model.Department) {
		d.ParentDepartmentID = &parent.ID
	})
	pool := []*model.Department{parent, child, parent, child}

	first := SelectableDepartments("Main", pool, nil, nil, nil)
	assert.Len(t, first, 2)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, SelectableDepartments("Main", pool, nil, nil, nil))
	}
}

func TestMatchCategory(t *testing.T) {
	categories := []*model.Category{
		{Base: model.Base{ID: uuid.New()}, Name: "Imaging"},
		{Base: model.Base{ID: uuid.New()}, Name: "Long Term Care"},
	}

	name, ok := MatchCategory("Imaging Facility", categories)
	assert.True(t, ok)
	assert.Equal(t, "Imaging", name)

	name, ok = MatchCategory("downtown long term care facility", categories)
	assert.True(t, ok)
	assert.Equal(t, "Long Term Care", name)

	_, ok = MatchCategory("Garage", categories)
	assert.False(t, ok)

	_, ok = MatchCategory("  facility ", categories)
	assert.False(t, ok)
}
