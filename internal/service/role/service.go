package role

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

type RoleServicer interface {
	AssignRole(ctx context.Context, assignment *model.RoleAssignment) error
	RevokeAssignment(ctx context.Context, id uuid.UUID) error
	ListUserAssignments(ctx context.Context, userID uuid.UUID) ([]*model.RoleAssignment, error)
	ResolveScope(ctx context.Context, userID uuid.UUID) (access.Scope, error)
	CreateCustomRole(ctx context.Context, role *model.CustomRole) error
	GetCustomRole(ctx context.Context, id uuid.UUID) (*model.CustomRole, error)
	UpdateCustomRole(ctx context.Context, role *model.CustomRole) error
	DeleteCustomRole(ctx context.Context, id uuid.UUID) error
	ListCustomRoles(ctx context.Context, orgID uuid.UUID) ([]*model.CustomRole, error)
}

type Service struct {
	repo     repository.RoleRepository
	userRepo repository.UserRepository
	auditor  *audit.AuditLogger
}

func NewService(repo repository.RoleRepository, userRepo repository.UserRepository, auditor *audit.AuditLogger) *Service {
	return &Service{
		repo:     repo,
		userRepo: userRepo,
		auditor:  auditor,
	}
}

// AssignRole validates the scope fields the role requires before persisting.
func (s *Service) AssignRole(ctx context.Context, assignment *model.RoleAssignment) error {
	if _, err := s.userRepo.Get(ctx, assignment.UserID); err != nil {
		return apperrors.NotFound("user", err)
	}

	if err := access.ValidateAssignment(assignment); err != nil {
		return apperrors.BadRequest(err.Error(), err)
	}

	if assignment.Role == model.RoleTypeCustom {
		if _, err := s.repo.GetCustomRole(ctx, *assignment.CustomRoleID); err != nil {
			return apperrors.NotFound("custom role", err)
		}
	}

	if err := s.repo.CreateAssignment(ctx, assignment); err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}

	orgID := uuid.Nil
	if assignment.OrganizationID != nil {
		orgID = *assignment.OrganizationID
	}
	s.auditor.Log(ctx, assignment.UserID, orgID, model.AuditActionCreate, model.AuditEntityRole, assignment.ID, &audit.LogOptions{
		Changes: assignment,
	})
	return nil
}

func (s *Service) RevokeAssignment(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteAssignment(ctx, id); err != nil {
		return fmt.Errorf("failed to revoke assignment: %w", err)
	}

	s.auditor.Log(ctx, uuid.Nil, uuid.Nil, model.AuditActionDelete, model.AuditEntityRole, id, nil)
	return nil
}

func (s *Service) ListUserAssignments(ctx context.Context, userID uuid.UUID) ([]*model.RoleAssignment, error) {
	assignments, err := s.repo.ListUserAssignments(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}

// ResolveScope computes the user's effective administrative scope from all
// of their current role assignments.
func (s *Service) ResolveScope(ctx context.Context, userID uuid.UUID) (access.Scope, error) {
	assignments, err := s.repo.ListUserAssignments(ctx, userID)
	if err != nil {
		return access.Scope{}, fmt.Errorf("failed to list assignments: %w", err)
	}
	return access.ResolveScope(assignments), nil
}

func (s *Service) CreateCustomRole(ctx context.Context, role *model.CustomRole) error {
	if role.Name == "" {
		return apperrors.BadRequest("role name is required", nil)
	}

	if err := s.repo.CreateCustomRole(ctx, role); err != nil {
		return fmt.Errorf("failed to create custom role: %w", err)
	}

	s.auditor.Log(ctx, uuid.Nil, role.OrganizationID, model.AuditActionCreate, model.AuditEntityRole, role.ID, &audit.LogOptions{
		Changes: role,
	})
	return nil
}

func (s *Service) GetCustomRole(ctx context.Context, id uuid.UUID) (*model.CustomRole, error) {
	role, err := s.repo.GetCustomRole(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("custom role", err)
	}
	return role, nil
}

func (s *Service) UpdateCustomRole(ctx context.Context, role *model.CustomRole) error {
	if role.Name == "" {
		return apperrors.BadRequest("role name is required", nil)
	}

	if err := s.repo.UpdateCustomRole(ctx, role); err != nil {
		return fmt.Errorf("failed to update custom role: %w", err)
	}

	s.auditor.Log(ctx, uuid.Nil, role.OrganizationID, model.AuditActionUpdate, model.AuditEntityRole, role.ID, &audit.LogOptions{
		Changes: role,
	})
	return nil
}

func (s *Service) DeleteCustomRole(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteCustomRole(ctx, id); err != nil {
		return fmt.Errorf("failed to delete custom role: %w", err)
	}

	s.auditor.Log(ctx, uuid.Nil, uuid.Nil, model.AuditActionDelete, model.AuditEntityRole, id, nil)
	return nil
}

func (s *Service) ListCustomRoles(ctx context.Context, orgID uuid.UUID) ([]*model.CustomRole, error) {
	roles, err := s.repo.ListCustomRoles(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list custom roles: %w", err)
	}
	return roles, nil
}
