package model

import (
	"time"

	"github.com/google/uuid"
)

// User status constants
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
	UserStatusPending  = "pending"
	UserStatusLocked   = "locked"
)

// User represents a provisioned console user
type User struct {
	Base
	OrganizationID   uuid.UUID  `json:"organization_id" db:"organization_id"`
	Email            string     `json:"email" db:"email"`
	Password         string     `json:"password,omitempty" db:"-"`
	PasswordHash     string     `json:"-" db:"password_hash"`
	FirstName        string     `json:"first_name" db:"first_name"`
	LastName         string     `json:"last_name" db:"last_name"`
	Phone            *string    `json:"phone" db:"phone"`
	Status           string     `json:"status" db:"status"`
	EmailVerified    bool       `json:"email_verified" db:"email_verified"`
	LastLoginAt      *time.Time `json:"last_login_at" db:"last_login_at"`
	LoginAttempts    int        `json:"login_attempts" db:"login_attempts"`
	LastLoginAttempt time.Time  `json:"last_login_attempt" db:"last_login_attempt"`
}

// CreateUserRequest represents user creation parameters
type CreateUserRequest struct {
	OrganizationID string `json:"organization_id" binding:"required,uuid"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=8"`
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	Phone          string `json:"phone"`
}

// UpdateUserRequest represents user update parameters
type UpdateUserRequest struct {
	Email     *string `json:"email" binding:"omitempty,email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Status    *string `json:"status" binding:"omitempty,oneof=active inactive pending locked"`
}

type UserFilters struct {
	OrganizationID uuid.UUID
	WorkspaceID    *uuid.UUID
	FacilityID     *uuid.UUID
	DepartmentID   *uuid.UUID
	Status         string
	SearchTerm     string
}

// BulkUploadRow is one parsed spreadsheet row.
type BulkUploadRow struct {
	Row       int
	Email     string
	FirstName string
	LastName  string
	Phone     string
	Role      string
}

// BulkRowError carries the source row number so failures can be shown next
// to the upload.
type BulkRowError struct {
	Row     int    `json:"row"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// BulkUploadResult aggregates per-row outcomes. Valid rows commit even when
// others fail.
type BulkUploadResult struct {
	Success int            `json:"success"`
	Failed  int            `json:"failed"`
	Errors  []BulkRowError `json:"errors"`
}
