package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/orgconsole/admin-api/internal/email"
	"github.com/orgconsole/admin-api/internal/model"
	"github.com/orgconsole/admin-api/internal/repository"
	"github.com/orgconsole/admin-api/internal/service/audit"
	apperrors "github.com/orgconsole/admin-api/pkg/errors"
	"github.com/orgconsole/admin-api/pkg/logger"
)

type UserServicer interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
	ListUsers(ctx context.Context, filters *model.UserFilters) ([]*model.User, error)
	BulkProvision(ctx context.Context, opts BulkProvisionOptions, fileBytes []byte) (*model.BulkUploadResult, error)
}

type Service struct {
	repo     repository.UserRepository
	orgRepo  repository.OrganizationRepository
	roleRepo repository.RoleRepository
	emailSvc email.Service
	auditor  *audit.AuditLogger
	logger   *logger.Logger
}

func NewService(repo repository.UserRepository, orgRepo repository.OrganizationRepository, roleRepo repository.RoleRepository, emailSvc email.Service, auditor *audit.AuditLogger, logger *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		orgRepo:  orgRepo,
		roleRepo: roleRepo,
		emailSvc: emailSvc,
		auditor:  auditor,
		logger:   logger,
	}
}

// CreateUser enforces the organization user cap and per-organization email
// uniqueness. A cap of zero means unlimited.
func (s *Service) CreateUser(ctx context.Context, user *model.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Email == "" {
		return apperrors.BadRequest("email is required", nil)
	}

	org, err := s.orgRepo.Get(ctx, user.OrganizationID)
	if err != nil {
		return apperrors.NotFound("organization", err)
	}

	if org.MaxUsers > 0 {
		count, err := s.orgRepo.CountUsers(ctx, org.ID)
		if err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}
		if count >= org.MaxUsers {
			return apperrors.BusinessRule(fmt.Sprintf("organization user limit of %d reached", org.MaxUsers))
		}
	}

	exists, err := s.repo.ExistsByEmail(ctx, user.OrganizationID, user.Email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return apperrors.Conflict(fmt.Sprintf("email %s already exists", user.Email), nil)
	}

	if user.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
		user.Password = ""
	}
	if user.Status == "" {
		user.Status = model.UserStatusPending
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	s.auditor.Log(ctx, user.ID, user.OrganizationID, model.AuditActionCreate, model.AuditEntityUser, user.ID, &audit.LogOptions{
		Changes: map[string]interface{}{"email": user.Email, "status": user.Status},
	})
	return nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("user", err)
	}
	return user, nil
}

func (s *Service) UpdateUser(ctx context.Context, user *model.User) error {
	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	s.auditor.Log(ctx, user.ID, user.OrganizationID, model.AuditActionUpdate, model.AuditEntityUser, user.ID, &audit.LogOptions{
		Changes: user,
	})
	return nil
}

func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return apperrors.NotFound("user", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.auditor.Log(ctx, id, user.OrganizationID, model.AuditActionDelete, model.AuditEntityUser, id, nil)
	return nil
}

func (s *Service) ListUsers(ctx context.Context, filters *model.UserFilters) ([]*model.User, error) {
	users, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
