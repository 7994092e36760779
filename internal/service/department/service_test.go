package department

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgconsole/admin-api/internal/model"
	"github.com/orgconsole/admin-api/internal/repository"
	"github.com/orgconsole/admin-api/internal/service/audit"
	apperrors "github.com/orgconsole/admin-api/pkg/errors"
	"github.com/orgconsole/admin-api/pkg/logger"
)

type noopAuditRepo struct{}

func (noopAuditRepo) Create(ctx context.Context, log *model.AuditLog) error { return nil }
func (noopAuditRepo) List(ctx context.Context, filters map[string]interface{}) ([]*model.AuditLog, error) {
	return nil, nil
}
func (noopAuditRepo) DeleteBefore(ctx context.Context, cutoff time.Time) error { return nil }

func newTestAuditor() *audit.AuditLogger {
	return audit.NewAuditLogger(audit.NewService(noopAuditRepo{}), logger.NewLogger(nil))
}

type fakeDepartmentRepo struct {
	repository.DepartmentRepository
	departments map[uuid.UUID]*model.Department
	subCounts   map[uuid.UUID]int
	created     []*model.Department
	deleted     []uuid.UUID
}

func newFakeDepartmentRepo() *fakeDepartmentRepo {
	return &fakeDepartmentRepo{
		departments: map[uuid.UUID]*model.Department{},
		subCounts:   map[uuid.UUID]int{},
	}
}

func (f *fakeDepartmentRepo) add(dept *model.Department) *model.Department {
	if dept.ID == uuid.Nil {
		dept.ID = uuid.New()
	}
	f.departments[dept.ID] = dept
	return dept
}

func (f *fakeDepartmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	dept, ok := f.departments[id]
	if !ok {
		return nil, apperrors.NotFound("department", nil)
	}
	return dept, nil
}

func (f *fakeDepartmentRepo) Create(ctx context.Context, dept *model.Department) error {
	dept.ID = uuid.New()
	f.created = append(f.created, dept)
	return nil
}

func (f *fakeDepartmentRepo) CountSubDepartments(ctx context.Context, id uuid.UUID) (int, error) {
	return f.subCounts[id], nil
}

func (f *fakeDepartmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeFacilityRepo struct {
	repository.FacilityRepository
	facility *model.Facility
}

func (f *fakeFacilityRepo) Get(ctx context.Context, id uuid.UUID) (*model.Facility, error) {
	if f.facility == nil || f.facility.ID != id {
		return nil, apperrors.NotFound("facility", nil)
	}
	return f.facility, nil
}

func TestCreateDepartmentRejectsDeepNesting(t *testing.T) {
	repo := newFakeDepartmentRepo()
	facilityID := uuid.New()
	top := repo.add(&model.Department{Name: "Operations", FacilityID: &facilityID})
	mid := repo.add(&model.Department{Name: "Logistics", FacilityID: &facilityID, ParentDepartmentID: &top.ID})

	svc := NewService(repo, &fakeFacilityRepo{}, newTestAuditor())

	err := svc.CreateDepartment(context.Background(), &model.Department{
		Name:               "Dispatch",
		FacilityID:         &facilityID,
		ParentDepartmentID: &mid.ID,
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrBusinessRule, appErr.Code)
	assert.Empty(t, repo.created)
}

func TestCreateDepartmentUnderTopLevelParent(t *testing.T) {
	repo := newFakeDepartmentRepo()
	facilityID := uuid.New()
	top := repo.add(&model.Department{Name: "Operations", FacilityID: &facilityID})

	svc := NewService(repo, &fakeFacilityRepo{}, newTestAuditor())

	require.NoError(t, svc.CreateDepartment(context.Background(), &model.Department{
		Name:               "Logistics",
		FacilityID:         &facilityID,
		ParentDepartmentID: &top.ID,
	}))
	require.Len(t, repo.created, 1)
}

func TestCreateTemplateWithFacilityRejected(t *testing.T) {
	repo := newFakeDepartmentRepo()
	svc := NewService(repo, &fakeFacilityRepo{}, newTestAuditor())

	facilityID := uuid.New()
	err := svc.CreateDepartment(context.Background(), &model.Department{
		Name:       "Template",
		FacilityID: &facilityID,
		IsTemplate: true,
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
}

func TestDeleteDepartmentWithSubDepartments(t *testing.T) {
	repo := newFakeDepartmentRepo()
	id := uuid.New()
	repo.subCounts[id] = 2

	svc := NewService(repo, &fakeFacilityRepo{}, newTestAuditor())

	err := svc.DeleteDepartment(context.Background(), id)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrBusinessRule, appErr.Code)
	assert.Contains(t, appErr.Message, "2 sub-departments")
	assert.Empty(t, repo.deleted)
}

func TestDeleteLeafDepartment(t *testing.T) {
	repo := newFakeDepartmentRepo()
	id := uuid.New()

	svc := NewService(repo, &fakeFacilityRepo{}, newTestAuditor())

	require.NoError(t, svc.DeleteDepartment(context.Background(), id))
	assert.Equal(t, []uuid.UUID{id}, repo.deleted)
}

func TestCopyTemplatesRemapsParents(t *testing.T) {
	repo := newFakeDepartmentRepo()
	workspaceID := uuid.New()
	parent := repo.add(&model.Department{Name: "Care", WorkspaceID: workspaceID, IsTemplate: true})
	child := repo.add(&model.Department{Name: "Night Shift", WorkspaceID: workspaceID, IsTemplate: true, ParentDepartmentID: &parent.ID})

	facility := &model.Facility{Base: model.Base{ID: uuid.New()}, WorkspaceID: workspaceID, Name: "North Campus"}
	svc := NewService(repo, &fakeFacilityRepo{facility: facility}, newTestAuditor())

	copied, err := svc.CopyTemplates(context.Background(), facility.ID, []uuid.UUID{child.ID, parent.ID})
	require.NoError(t, err)
	require.Len(t, copied, 2)

	// parents are created first regardless of request order
	newParent := copied[0]
	newChild := copied[1]
	assert.Equal(t, "Care", newParent.Name)
	assert.Equal(t, "Night Shift", newChild.Name)
	assert.False(t, newParent.IsTemplate)
	assert.False(t, newChild.IsTemplate)
	require.NotNil(t, newChild.ParentDepartmentID)
	assert.Equal(t, newParent.ID, *newChild.ParentDepartmentID)
	require.NotNil(t, newParent.FacilityID)
	assert.Equal(t, facility.ID, *newParent.FacilityID)
}

func TestCopyTemplatesRejectsNonTemplate(t *testing.T) {
	repo := newFakeDepartmentRepo()
	facilityID := uuid.New()
	dept := repo.add(&model.Department{Name: "Operations", FacilityID: &facilityID})

	facility := &model.Facility{Base: model.Base{ID: facilityID}, WorkspaceID: uuid.New(), Name: "Main"}
	svc := NewService(repo, &fakeFacilityRepo{facility: facility}, newTestAuditor())

	_, err := svc.CopyTemplates(context.Background(), facilityID, []uuid.UUID{dept.ID})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
	assert.Empty(t, repo.created)
}
