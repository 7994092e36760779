package model

import "github.com/google/uuid"

// Department is either a facility-scoped instance or a workspace-scoped
// template (IsTemplate=true, FacilityID nil). Nesting is one level deep:
// a sub-department references its parent and parents never do.
type Department struct {
	Base
	Name               string     `db:"name" json:"name"`
	Category           string     `db:"category" json:"category"`
	WorkspaceID        uuid.UUID  `db:"workspace_id" json:"workspace_id"`
	FacilityID         *uuid.UUID `db:"facility_id" json:"facility_id,omitempty"`
	ParentDepartmentID *uuid.UUID `db:"parent_department_id" json:"parent_department_id,omitempty"`
	IsTemplate         bool       `db:"is_template" json:"is_template"`
}

// Category is the catalog entry templates are grouped under.
type Category struct {
	Base
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
}

// DepartmentOption is a flattened entry for selection lists. Sub-departments
// carry a "Parent └─ Child" label.
type DepartmentOption struct {
	ID    uuid.UUID `json:"id"`
	Label string    `json:"label"`
}

type CreateDepartmentRequest struct {
	Name               string  `json:"name" binding:"required"`
	Category           string  `json:"category"`
	WorkspaceID        string  `json:"workspace_id" binding:"required,uuid"`
	FacilityID         *string `json:"facility_id" binding:"omitempty,uuid"`
	ParentDepartmentID *string `json:"parent_department_id" binding:"omitempty,uuid"`
	IsTemplate         bool    `json:"is_template"`
}

type UpdateDepartmentRequest struct {
	Name     *string `json:"name"`
	Category *string `json:"category"`
}

type CopyTemplatesRequest struct {
	FacilityID  string   `json:"facility_id" binding:"required,uuid"`
	TemplateIDs []string `json:"template_ids" binding:"required,min=1"`
}
