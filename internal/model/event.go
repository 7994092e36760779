package model

import (
	"time"

	"github.com/google/uuid"
)

type TrainingEventStatus string

const (
	TrainingEventStatusScheduled TrainingEventStatus = "scheduled"
	TrainingEventStatusCancelled TrainingEventStatus = "cancelled"
	TrainingEventStatusCompleted TrainingEventStatus = "completed"
)

type AttendanceStatus string

const (
	AttendanceStatusRegistered AttendanceStatus = "registered"
	AttendanceStatusCheckedIn  AttendanceStatus = "checked_in"
)

// TrainingEvent is a scheduled session users register for and check in to.
type TrainingEvent struct {
	Base
	WorkspaceID uuid.UUID           `db:"workspace_id" json:"workspace_id"`
	FacilityID  *uuid.UUID          `db:"facility_id" json:"facility_id,omitempty"`
	Title       string              `db:"title" json:"title"`
	Description string              `db:"description" json:"description"`
	Location    string              `db:"location" json:"location"`
	StartTime   time.Time           `db:"start_time" json:"start_time"`
	EndTime     time.Time           `db:"end_time" json:"end_time"`
	Capacity    int                 `db:"capacity" json:"capacity"`
	Status      TrainingEventStatus `db:"status" json:"status"`
}

// EventAttendance tracks one user's registration and check-in for an event.
type EventAttendance struct {
	Base
	EventID     uuid.UUID        `db:"event_id" json:"event_id"`
	UserID      uuid.UUID        `db:"user_id" json:"user_id"`
	Status      AttendanceStatus `db:"status" json:"status"`
	CheckedInAt *time.Time       `db:"checked_in_at" json:"checked_in_at,omitempty"`
}

// AttendanceStats is the per-event roll-up shown on the schedule screen.
type AttendanceStats struct {
	Registered      int     `json:"registered"`
	CheckedIn       int     `json:"checked_in"`
	CheckInRate     float64 `json:"check_in_rate"`
	CapacityUsedPct float64 `json:"capacity_used_pct"`
}

type CreateTrainingEventRequest struct {
	WorkspaceID string    `json:"workspace_id" binding:"required,uuid"`
	FacilityID  *string   `json:"facility_id" binding:"omitempty,uuid"`
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
	Capacity    int       `json:"capacity" binding:"omitempty,min=0"`
}

type UpdateTrainingEventRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	Capacity    *int       `json:"capacity" binding:"omitempty,min=0"`
}

type TrainingEventFilters struct {
	WorkspaceID uuid.UUID
	FacilityID  *uuid.UUID
	Status      string
	From        time.Time
	To          time.Time
}
