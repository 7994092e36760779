package organization

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/orgconsole/admin-api/internal/model"
	"github.com/orgconsole/admin-api/internal/repository"
	"github.com/orgconsole/admin-api/internal/service/audit"
	apperrors "github.com/orgconsole/admin-api/pkg/errors"
)

type OrganizationServicer interface {
	CreateOrganization(ctx context.Context, org *model.Organization) error
	GetOrganization(ctx context.Context, id uuid.UUID) (*model.Organization, error)
	UpdateOrganization(ctx context.Context, org *model.Organization) error
	DeleteOrganization(ctx context.Context, id uuid.UUID) error
	ListOrganizations(ctx context.Context) ([]*model.Organization, error)
}

type Service struct {
	repo    repository.OrganizationRepository
	auditor *audit.AuditLogger
}

func NewService(repo repository.OrganizationRepository, auditor *audit.AuditLogger) *Service {
	return &Service{
		repo:    repo,
		auditor: auditor,
	}
}

func (s *Service) CreateOrganization(ctx context.Context, org *model.Organization) error {
	if org.Name == "" {
		return apperrors.BadRequest("organization name is required", nil)
	}
	org.Status = model.OrganizationStatusActive

	if err := s.repo.Create(ctx, org); err != nil {
		return fmt.Errorf("failed to create organization: %w", err)
	}

	s.auditor.Log(ctx, uuid.Nil, org.ID, model.AuditActionCreate, model.AuditEntityOrganization, org.ID, &audit.LogOptions{
		Changes: org,
	})
	return nil
}

func (s *Service) GetOrganization(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	org, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("organization", err)
	}
	return org, nil
}

func (s *Service) UpdateOrganization(ctx context.Context, org *model.Organization) error {
	if org.Name == "" {
		return apperrors.BadRequest("organization name is required", nil)
	}

	if err := s.repo.Update(ctx, org); err != nil {
		return fmt.Errorf("failed to update organization: %w", err)
	}

	s.auditor.Log(ctx, uuid.Nil, org.ID, model.AuditActionUpdate, model.AuditEntityOrganization, org.ID, &audit.LogOptions{
		Changes: org,
	})
	return nil
}

// DeleteOrganization refuses while the organization still owns workspaces.
func (s *Service) DeleteOrganization(ctx context.Context, id uuid.UUID) error {
	count, err := s.repo.CountWorkspaces(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count workspaces: %w", err)
	}
	if count > 0 {
		return apperrors.BusinessRule(fmt.Sprintf("organization still has %d workspaces", count))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}

	s.auditor.Log(ctx, uuid.Nil, id, model.AuditActionDelete, model.AuditEntityOrganization, id, nil)
	return nil
}

func (s *Service) ListOrganizations(ctx context.Context) ([]*model.Organization, error) {
	orgs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	return orgs, nil
}
