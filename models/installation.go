package models

import (
	"time"

	"gorm.io/gorm"
)

// Installation is a customer's request for a solar system installation
type Installation struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	CustomerID           uint       `gorm:"not null;index:idx_installation_customer_status,priority:1" json:"customer" validate:"required"`
	Address              Address    `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	SystemSize           float64    `gorm:"not null" json:"systemSize" validate:"gte=1"` // kW
	PanelType            string     `gorm:"not null" json:"panelType" validate:"required,oneof=monocrystalline polycrystalline thin-film"`
	NumberOfPanels       int        `gorm:"not null" json:"numberOfPanels" validate:"gte=1"`
	EstimatedCost        float64    `gorm:"not null" json:"estimatedCost" validate:"gte=0"`
	Status               string     `gorm:"not null;index:idx_installation_customer_status,priority:2;index:idx_installation_technician_status,priority:2" json:"status" validate:"required,oneof=requested approved scheduled in_progress completed cancelled"`
	RequestedDate        time.Time  `json:"requestedDate"`
	ScheduledDate        *time.Time `json:"scheduledDate,omitempty"`
	CompletedDate        *time.Time `json:"completedDate,omitempty"`
	AssignedTechnicianID *uint      `gorm:"index:idx_installation_technician_status,priority:1" json:"assignedTechnician,omitempty"`
	ApprovedByID         *uint      `json:"approvedBy,omitempty"`
	Notes                string     `gorm:"type:text" json:"notes,omitempty" validate:"max=1000"`
	SitePhotoKey         *string    `json:"sitePhotoKey,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
}

// TableName specifies the table name for the Installation model
func (Installation) TableName() string {
	return "installations"
}

// BeforeSave applies defaults and validates
func (i *Installation) BeforeSave(tx *gorm.DB) error {
	if i.Status == "" {
		i.Status = InstallationRequested
	}
	if i.RequestedDate.IsZero() {
		i.RequestedDate = time.Now()
	}
	i.Address.trim()
	return Validate(i)
}
