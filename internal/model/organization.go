package model

type OrganizationStatus string

const (
	OrganizationStatusActive   OrganizationStatus = "active"
	OrganizationStatusInactive OrganizationStatus = "inactive"
)

// Organization is the top-level tenant boundary. Plan limits are enforced
// at creation time of the resources they cover, not retroactively.
type Organization struct {
	Base
	Name          string             `db:"name" json:"name"`
	Status        OrganizationStatus `db:"status" json:"status"`
	MaxFacilities int                `db:"max_facilities" json:"max_facilities"`
	MaxUsers      int                `db:"max_users" json:"max_users"`
}

type CreateOrganizationRequest struct {
	Name          string `json:"name" binding:"required"`
	MaxFacilities int    `json:"max_facilities" binding:"omitempty,min=0"`
	MaxUsers      int    `json:"max_users" binding:"omitempty,min=0"`
}

type UpdateOrganizationRequest struct {
	Name          *string `json:"name"`
	Status        *string `json:"status" binding:"omitempty,oneof=active inactive"`
	MaxFacilities *int    `json:"max_facilities" binding:"omitempty,min=0"`
	MaxUsers      *int    `json:"max_users" binding:"omitempty,min=0"`
}
