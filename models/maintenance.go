package models

import (
	"time"

	"gorm.io/gorm"
)

// MaintenanceRequest is a customer's request for work on an existing installation
type MaintenanceRequest struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	CustomerID           uint       `gorm:"not null;index:idx_maintenance_customer_status,priority:1" json:"customer" validate:"required"`
	InstallationID       uint       `gorm:"not null;index" json:"installation" validate:"required"`
	RequestType          string     `gorm:"not null" json:"requestType" validate:"required,oneof=routine repair inspection cleaning upgrade"`
	Description          string     `gorm:"type:text;not null" json:"description" validate:"required,max=1000"`
	Priority             string     `gorm:"not null" json:"priority" validate:"required,oneof=low medium high urgent"`
	Status               string     `gorm:"not null;index:idx_maintenance_customer_status,priority:2;index:idx_maintenance_technician_status,priority:2" json:"status" validate:"required,oneof=requested scheduled in_progress completed cancelled"`
	RequestedDate        time.Time  `json:"requestedDate"`
	ScheduledDate        *time.Time `json:"scheduledDate,omitempty"`
	CompletedDate        *time.Time `json:"completedDate,omitempty"`
	AssignedTechnicianID *uint      `gorm:"index:idx_maintenance_technician_status,priority:1" json:"assignedTechnician,omitempty"`
	EstimatedDuration    *float64   `json:"estimatedDuration,omitempty" validate:"omitempty,gte=0.5"` // hours
	ActualDuration       *float64   `json:"actualDuration,omitempty" validate:"omitempty,gte=0"`      // hours
	Cost                 float64    `gorm:"not null" json:"cost" validate:"gte=0"`
	Notes                string     `gorm:"type:text" json:"notes,omitempty" validate:"max=1000"`
	CreatedAt            time.Time  `json:"createdAt"`
}

// TableName specifies the table name for the MaintenanceRequest model
func (MaintenanceRequest) TableName() string {
	return "maintenance_requests"
}

// BeforeSave applies defaults and validates
func (m *MaintenanceRequest) BeforeSave(tx *gorm.DB) error {
	if m.Priority == "" {
		m.Priority = PriorityMedium
	}
	if m.Status == "" {
		m.Status = MaintenanceRequested
	}
	if m.RequestedDate.IsZero() {
		m.RequestedDate = time.Now()
	}
	return Validate(m)
}
