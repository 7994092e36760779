package facility

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/orgconsole/admin-api/internal/model"
	"github.com/orgconsole/admin-api/internal/repository"
	"github.com/orgconsole/admin-api/internal/service/audit"
	apperrors "github.com/orgconsole/admin-api/pkg/errors"
)

type FacilityServicer interface {
	CreateFacility(ctx context.Context, facility *model.Facility) error
	GetFacility(ctx context.Context, id uuid.UUID) (*model.Facility, error)
	UpdateFacility(ctx context.Context, facility *model.Facility) error
	DeleteFacility(ctx context.Context, id uuid.UUID) error
	ListFacilities(ctx context.Context, workspaceID uuid.UUID) ([]*model.Facility, error)
}

type Service struct {
	repo          repository.FacilityRepository
	workspaceRepo repository.WorkspaceRepository
	orgRepo       repository.OrganizationRepository
	auditor       *audit.AuditLogger
}

func NewService(repo repository.FacilityRepository, workspaceRepo repository.WorkspaceRepository, orgRepo repository.OrganizationRepository, auditor *audit.AuditLogger) *Service {
	return &Service{
		repo:          repo,
		workspaceRepo: workspaceRepo,
		orgRepo:       orgRepo,
		auditor:       auditor,
	}
}

// CreateFacility enforces the organization's facility cap across all of its
// workspaces. A cap of zero means unlimited.
func (s *Service) CreateFacility(ctx context.Context, facility *model.Facility) error {
	if facility.Name == "" {
		return apperrors.BadRequest("facility name is required", nil)
	}

	ws, err := s.workspaceRepo.Get(ctx, facility.WorkspaceID)
	if err != nil {
		return apperrors.NotFound("workspace", err)
	}

	org, err := s.orgRepo.Get(ctx, ws.OrganizationID)
	if err != nil {
		return apperrors.NotFound("organization", err)
	}

	if org.MaxFacilities > 0 {
		count, err := s.repo.CountForOrganization(ctx, org.ID)
		if err != nil {
			return fmt.Errorf("failed to count facilities: %w", err)
		}
		if count >= org.MaxFacilities {
			return apperrors.BusinessRule(fmt.Sprintf("organization facility limit of %d reached", org.MaxFacilities))
		}
	}

	facility.Status = model.FacilityStatusActive
	if err := s.repo.Create(ctx, facility); err != nil {
		return fmt.Errorf("failed to create facility: %w", err)
	}

	s.auditor.Log(ctx, uuid.Nil, org.ID, model.AuditActionCreate, model.AuditEntityFacility, facility.ID, &audit.LogOptions{
		Changes: facility,
	})
	return nil
}

func (s *Service) GetFacility(ctx context.Context, id uuid.UUID) (*model.Facility, error) {
	facility, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("facility", err)
	}
	return facility, nil
}

func (s *Service) UpdateFacility(ctx context.Context, facility *model.Facility) error {
	if facility.Name == "" {
		return apperrors.BadRequest("facility name is required", nil)
	}

	if err := s.repo.Update(ctx, facility); err != nil {
		return fmt.Errorf("failed to update facility: %w", err)
	}

	s.auditor.Log(ctx, uuid.Nil, uuid.Nil, model.AuditActionUpdate, model.AuditEntityFacility, facility.ID, &audit.LogOptions{
		Changes: facility,
	})
	return nil
}

func (s *Service) DeleteFacility(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete facility: %w", err)
	}

	s.auditor.Log(ctx, uuid.Nil, uuid.Nil, model.AuditActionDelete, model.AuditEntityFacility, id, nil)
	return nil
}

func (s *Service) ListFacilities(ctx context.Context, workspaceID uuid.UUID) ([]*model.Facility, error) {
	facilities, err := s.repo.List(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list facilities: %w", err)
	}
	return facilities, nil
}
