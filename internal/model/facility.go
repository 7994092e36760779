package model

import "github.com/google/uuid"

type FacilityStatus string

const (
	FacilityStatusActive   FacilityStatus = "active"
	FacilityStatusInactive FacilityStatus = "inactive"
)

// Facility is a physical site within a workspace.
type Facility struct {
	Base
	WorkspaceID uuid.UUID      `db:"workspace_id" json:"workspace_id"`
	Name        string         `db:"name" json:"name"`
	Address     string         `db:"address" json:"address"`
	Phone       string         `db:"phone" json:"phone"`
	Status      FacilityStatus `db:"status" json:"status"`
}

type CreateFacilityRequest struct {
	WorkspaceID string `json:"workspace_id" binding:"required,uuid"`
	Name        string `json:"name" binding:"required"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
}

type UpdateFacilityRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	Status  *string `json:"status" binding:"omitempty,oneof=active inactive"`
}
