package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationStatus string

const (
	NotificationStatusPending  NotificationStatus = "pending"
	NotificationStatusSent     NotificationStatus = "sent"
	NotificationStatusFailed   NotificationStatus = "failed"
	NotificationStatusRetrying NotificationStatus = "retrying"
)

type Notification struct {
	ID             uuid.UUID          `db:"id" json:"id"`
	UserID         uuid.UUID          `db:"user_id" json:"user_id"`
	OrganizationID uuid.UUID          `db:"organization_id" json:"organization_id"`
	Channel        string             `db:"channel" json:"channel"`
	Subject        string             `db:"subject" json:"subject"`
	Content        string             `db:"content" json:"content"`
	Recipient      string             `db:"recipient" json:"recipient"`
	Status         NotificationStatus `db:"status" json:"status"`
	RetryCount     int                `db:"retry_count" json:"retry_count"`
	LastError      string             `db:"last_error" json:"last_error,omitempty"`
	NextRetryAt    time.Time          `db:"next_retry_at" json:"next_retry_at"`
	SentAt         time.Time          `db:"sent_at" json:"sent_at"`
	CreatedAt      time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `db:"updated_at" json:"updated_at"`
}

type NotificationEvent struct {
	ID             uuid.UUID `json:"id"`
	NotificationID uuid.UUID `json:"notification_id"`
	UserID         uuid.UUID `json:"user_id"`
	Type           string    `json:"type"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// BroadcastRequest fans a message out to an explicit user list, or to every
// user inside a scope when UserIDs is empty.
type BroadcastRequest struct {
	OrganizationID string   `json:"organization_id" binding:"required,uuid"`
	WorkspaceID    *string  `json:"workspace_id" binding:"omitempty,uuid"`
	FacilityID     *string  `json:"facility_id" binding:"omitempty,uuid"`
	DepartmentID   *string  `json:"department_id" binding:"omitempty,uuid"`
	UserIDs        []string `json:"user_ids" binding:"omitempty,dive,uuid"`
	Channel        string   `json:"channel" binding:"required,oneof=email in_app"`
	Subject        string   `json:"subject" binding:"required"`
	Content        string   `json:"content" binding:"required"`
}

// BroadcastResult reports fan-out totals back to the caller.
type BroadcastResult struct {
	Recipients int `json:"recipients"`
	Queued     int `json:"queued"`
	Failed     int `json:"failed"`
}
