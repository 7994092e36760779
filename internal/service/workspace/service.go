package workspace

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/orgconsole/admin-api/internal/model"
	"github.com/orgconsole/admin-api/internal/repository"
	"github.com/orgconsole/admin-api/internal/service/audit"
	apperrors "github.com/orgconsole/admin-api/pkg/errors"
)

type WorkspaceServicer interface {
	CreateWorkspace(ctx context.Context, ws *model.Workspace) error
	GetWorkspace(ctx context.Context, id uuid.UUID) (*model.Workspace, error)
	UpdateWorkspace(ctx context.Context, ws *model.Workspace) error
	DeleteWorkspace(ctx context.Context, id uuid.UUID) error
	ListWorkspaces(ctx context.Context, orgID uuid.UUID) ([]*model.Workspace, error)
}

type Service struct {
	repo    repository.WorkspaceRepository
	orgRepo repository.OrganizationRepository
	auditor *audit.AuditLogger
}

func NewService(repo repository.WorkspaceRepository, orgRepo repository.OrganizationRepository, auditor *audit.AuditLogger) *Service {
	return &Service{
		repo:    repo,
		orgRepo: orgRepo,
		auditor: auditor,
	}
}

func (s *Service) CreateWorkspace(ctx context.Context, ws *model.Workspace) error {
	if ws.Name == "" {
		return apperrors.BadRequest("workspace name is required", nil)
	}
	if _, err := s.orgRepo.Get(ctx, ws.OrganizationID); err != nil {
		return apperrors.NotFound("organization", err)
	}
	ws.Status = model.WorkspaceStatusActive

	if err := s.repo.Create(ctx, ws); err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}

	s.auditor.Log(ctx, uuid.Nil, ws.OrganizationID, model.AuditActionCreate, model.AuditEntityWorkspace, ws.ID, &audit.LogOptions{
		Changes: ws,
	})
	return nil
}

func (s *Service) GetWorkspace(ctx context.Context, id uuid.UUID) (*model.Workspace, error) {
	ws, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("workspace", err)
	}
	return ws, nil
}

func (s *Service) UpdateWorkspace(ctx context.Context, ws *model.Workspace) error {
	if ws.Name == "" {
		return apperrors.BadRequest("workspace name is required", nil)
	}

	if err := s.repo.Update(ctx, ws); err != nil {
		return fmt.Errorf("failed to update workspace: %w", err)
	}

	s.auditor.Log(ctx, uuid.Nil, ws.OrganizationID, model.AuditActionUpdate, model.AuditEntityWorkspace, ws.ID, &audit.LogOptions{
		Changes: ws,
	})
	return nil
}

// DeleteWorkspace refuses while facilities remain inside the workspace.
func (s *Service) DeleteWorkspace(ctx context.Context, id uuid.UUID) error {
	ws, err := s.repo.Get(ctx, id)
	if err != nil {
		return apperrors.NotFound("workspace", err)
	}

	count, err := s.repo.CountFacilities(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count facilities: %w", err)
	}
	if count > 0 {
		return apperrors.BusinessRule(fmt.Sprintf("workspace still has %d facilities", count))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}

	s.auditor.Log(ctx, uuid.Nil, ws.OrganizationID, model.AuditActionDelete, model.AuditEntityWorkspace, id, nil)
	return nil
}

func (s *Service) ListWorkspaces(ctx context.Context, orgID uuid.UUID) ([]*model.Workspace, error) {
	workspaces, err := s.repo.List(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	return workspaces, nil
}
