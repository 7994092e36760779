package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/orgconsole/admin-api/internal/repository"
)

type organizationRepository struct {
	db *sqlx.DB
}

type workspaceRepository struct {
	db *sqlx.DB
}

type facilityRepository struct {
	db *sqlx.DB
}

type departmentRepository struct {
	db *sqlx.DB
}

type userRepository struct {
	db *sqlx.DB
}

type roleRepository struct {
	db *sqlx.DB
}

type moduleRepository struct {
	db *sqlx.DB
}

type trainingEventRepository struct {
	db *sqlx.DB
}

type notificationRepository struct {
	db *sqlx.DB
}

type auditRepository struct {
	db *sqlx.DB
}

func NewOrganizationRepository(db *sqlx.DB) repository.OrganizationRepository {
	return &organizationRepository{db: db}
}

func NewWorkspaceRepository(db *sqlx.DB) repository.WorkspaceRepository {
	return &workspaceRepository{db: db}
}

func NewFacilityRepository(db *sqlx.DB) repository.FacilityRepository {
	return &facilityRepository{db: db}
}

func NewDepartmentRepository(db *sqlx.DB) repository.DepartmentRepository {
	return &departmentRepository{db: db}
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func NewScopedUserRepository(db *sqlx.DB) repository.ScopedUserRepository {
	return &userRepository{db: db}
}

func NewRoleRepository(db *sqlx.DB) repository.RoleRepository {
	return &roleRepository{db: db}
}

func NewModuleRepository(db *sqlx.DB) repository.ModuleRepository {
	return &moduleRepository{db: db}
}

func NewTrainingEventRepository(db *sqlx.DB) repository.TrainingEventRepository {
	return &trainingEventRepository{db: db}
}

func NewNotificationRepository(db *sqlx.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func NewAuditRepository(db *sqlx.DB) repository.AuditRepository {
	return &auditRepository{db: db}
}
