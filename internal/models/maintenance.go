package models

import "time"

type MaintenanceStatus string

const (
	MaintenancePending    MaintenanceStatus = "PENDING"
	MaintenanceInProgress MaintenanceStatus = "IN_PROGRESS"
	MaintenanceCompleted  MaintenanceStatus = "COMPLETED"
)

// Next returns the only status a request may move to from s.
func (s MaintenanceStatus) Next() (MaintenanceStatus, bool) {
	switch s {
	case MaintenancePending:
		return MaintenanceInProgress, true
	case MaintenanceInProgress:
		return MaintenanceCompleted, true
	}
	return "", false
}

type MaintenanceRequest struct {
	ID          int               `json:"id"`
	TenantID    int               `json:"tenant_id"`
	RoomID      *int              `json:"room_id,omitempty"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      MaintenanceStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type CreateMaintenanceRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
}

type UpdateMaintenanceStatusRequest struct {
	Status MaintenanceStatus `json:"status" validate:"required,oneof=PENDING IN_PROGRESS COMPLETED"`
}
