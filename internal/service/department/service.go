package department

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/orgconsole/admin-api/internal/access"
	"github.com/orgconsole/admin-api/internal/model"
	"github.com/orgconsole/admin-api/internal/repository"
	"github.com/orgconsole/admin-api/internal/service/audit"
	apperrors "github.com/orgconsole/admin-api/pkg/errors"
)

type DepartmentServicer interface {
	CreateDepartment(ctx context.Context, dept *model.Department) error
	GetDepartment(ctx context.Context, id uuid.UUID) (*model.Department, error)
	UpdateDepartment(ctx context.Context, dept *model.Department) error
	DeleteDepartment(ctx context.Context, id uuid.UUID) error
	ListByFacility(ctx context.Context, facilityID uuid.UUID) ([]*model.Department, error)
	ListTemplates(ctx context.Context, workspaceID uuid.UUID) ([]*model.Department, error)
	CopyTemplates(ctx context.Context, facilityID uuid.UUID, templateIDs []uuid.UUID) ([]*model.Department, error)
	SelectableDepartments(ctx context.Context, facilityID uuid.UUID) ([]model.DepartmentOption, error)
	CreateCategory(ctx context.Context, category *model.Category) error
	ListCategories(ctx context.Context) ([]*model.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo         repository.DepartmentRepository
	facilityRepo repository.FacilityRepository
	auditor      *audit.AuditLogger
}

func NewService(repo repository.DepartmentRepository, facilityRepo repository.FacilityRepository, auditor *audit.AuditLogger) *Service {
	return &Service{
		repo:         repo,
		facilityRepo: facilityRepo,
		auditor:      auditor,
	}
}

func (s *Service) CreateDepartment(ctx context.Context, dept *model.Department) error {
	if dept.Name == "" {
		return apperrors.BadRequest("department name is required", nil)
	}
	if dept.IsTemplate && dept.FacilityID != nil {
		return apperrors.BadRequest("templates cannot belong to a facility", nil)
	}
	if !dept.IsTemplate && dept.FacilityID == nil {
		return apperrors.BadRequest("facility_id is required for non-template departments", nil)
	}

	if dept.ParentDepartmentID != nil {
		parent, err := s.repo.Get(ctx, *dept.ParentDepartmentID)
		if err != nil {
			return apperrors.NotFound("parent department", err)
		}
		if parent.ParentDepartmentID != nil {
			return apperrors.BusinessRule("departments nest at most one level deep")
		}
	}

	if err := s.repo.Create(ctx, dept); err != nil {
		return fmt.Errorf("failed to create department: %w", err)
	}

	s.auditor.Log(ctx, uuid.Nil, uuid.Nil, model.AuditActionCreate, model.AuditEntityDepartment, dept.ID, &audit.LogOptions{
		Changes: dept,
	})
	return nil
}

func (s *Service) GetDepartment(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	dept, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("department", err)
	}
	return dept, nil
}

func (s *Service) UpdateDepartment(ctx context.Context, dept *model.Department) error {
	if dept.Name == "" {
		return apperrors.BadRequest("department name is required", nil)
	}

	if err := s.repo.Update(ctx, dept); err != nil {
		return fmt.Errorf("failed to update department: %w", err)
	}

	s.auditor.Log(ctx, uuid.Nil, uuid.Nil, model.AuditActionUpdate, model.AuditEntityDepartment, dept.ID, &audit.LogOptions{
		Changes: dept,
	})
	return nil
}

// DeleteDepartment refuses while sub-departments still point at the target.
func (s *Service) DeleteDepartment(ctx context.Context, id uuid.UUID) error {
	count, err := s.repo.CountSubDepartments(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count sub-departments: %w", err)
	}
	if count > 0 {
		return apperrors.BusinessRule(fmt.Sprintf("department still has %d sub-departments", count))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}

	s.auditor.Log(ctx, uuid.Nil, uuid.Nil, model.AuditActionDelete, model.AuditEntityDepartment, id, nil)
	return nil
}

func (s *Service) ListByFacility(ctx context.Context, facilityID uuid.UUID) ([]*model.Department, error) {
	depts, err := s.repo.ListByFacility(ctx, facilityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return depts, nil
}

func (s *Service) ListTemplates(ctx context.Context, workspaceID uuid.UUID) ([]*model.Department, error) {
	templates, err := s.repo.ListTemplatesByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

// CopyTemplates instantiates workspace templates as facility departments.
// Parents copy before children so the new parent IDs exist for remapping.
func (s *Service) CopyTemplates(ctx context.Context, facilityID uuid.UUID, templateIDs []uuid.UUID) ([]*model.Department, error) {
	facility, err := s.facilityRepo.Get(ctx, facilityID)
	if err != nil {
		return nil, apperrors.NotFound("facility", err)
	}

	templates := make([]*model.Department, 0, len(templateIDs))
	for _, id := range templateIDs {
		tpl, err := s.repo.Get(ctx, id)
		if err != nil {
			return nil, apperrors.NotFound("template", err)
		}
		if !tpl.IsTemplate {
			return nil, apperrors.BadRequest(fmt.Sprintf("department %s is not a template", tpl.Name), nil)
		}
		templates = append(templates, tpl)
	}

	newParents := make(map[uuid.UUID]uuid.UUID)
	copied := make([]*model.Department, 0, len(templates))

	for _, tpl := range templates {
		if tpl.ParentDepartmentID != nil {
			continue
		}
		dept := s.instantiate(tpl, facility, nil)
		if err := s.repo.Create(ctx, dept); err != nil {
			return nil, fmt.Errorf("failed to copy template %s: %w", tpl.Name, err)
		}
		newParents[tpl.ID] = dept.ID
		copied = append(copied, dept)
	}

	for _, tpl := range templates {
		if tpl.ParentDepartmentID == nil {
			continue
		}
		var parentID *uuid.UUID
		if id, ok := newParents[*tpl.ParentDepartmentID]; ok {
			parentID = &id
		}
		dept := s.instantiate(tpl, facility, parentID)
		if err := s.repo.Create(ctx, dept); err != nil {
			return nil, fmt.Errorf("failed to copy template %s: %w", tpl.Name, err)
		}
		copied = append(copied, dept)
	}

	s.auditor.Log(ctx, uuid.Nil, uuid.Nil, model.AuditActionCreate, model.AuditEntityDepartment, facilityID, &audit.LogOptions{
		Metadata: map[string]interface{}{"copied_templates": len(copied)},
	})
	return copied, nil
}

func (s *Service) instantiate(tpl *model.Department, facility *model.Facility, parentID *uuid.UUID) *model.Department {
	facilityID := facility.ID
	return &model.Department{
		Name:               tpl.Name,
		Category:           tpl.Category,
		WorkspaceID:        facility.WorkspaceID,
		FacilityID:         &facilityID,
		ParentDepartmentID: parentID,
		IsTemplate:         false,
	}
}

// SelectableDepartments builds the flattened picker list for a facility,
// falling back to workspace templates and then the category-matched catalog
// when the facility has no departments of its own.
func (s *Service) SelectableDepartments(ctx context.Context, facilityID uuid.UUID) ([]model.DepartmentOption, error) {
	facility, err := s.facilityRepo.Get(ctx, facilityID)
	if err != nil {
		return nil, apperrors.NotFound("facility", err)
	}

	facilityDepts, err := s.repo.ListByFacility(ctx, facilityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list facility departments: %w", err)
	}

	workspaceTemplates, err := s.repo.ListTemplatesByWorkspace(ctx, facility.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspace templates: %w", err)
	}

	catalogTemplates, err := s.repo.ListAllTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog templates: %w", err)
	}

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return access.SelectableDepartments(facility.Name, facilityDepts, workspaceTemplates, catalogTemplates, categories), nil
}

func (s *Service) CreateCategory(ctx context.Context, category *model.Category) error {
	if category.Name == "" {
		return apperrors.BadRequest("category name is required", nil)
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (s *Service) ListCategories(ctx context.Context) ([]*model.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}
