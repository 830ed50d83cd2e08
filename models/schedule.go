package models

import (
	"time"

	"gorm.io/gorm"
)

// Schedule books a technician into one time slot of one day
type Schedule struct {
	ID                    uint       `gorm:"primaryKey" json:"id"`
	TechnicianID          uint       `gorm:"not null;uniqueIndex:idx_schedule_slot,priority:1;index:idx_schedule_technician_date,priority:1" json:"technician" validate:"required"`
	Date                  time.Time  `gorm:"not null;uniqueIndex:idx_schedule_slot,priority:2;index:idx_schedule_technician_date,priority:2;index:idx_schedule_status_date,priority:2" json:"date" validate:"required"`
	TimeSlot              string     `gorm:"not null;uniqueIndex:idx_schedule_slot,priority:3" json:"timeSlot" validate:"required,oneof=08:00-12:00 12:00-16:00 16:00-20:00"`
	JobType               string     `gorm:"not null" json:"jobType" validate:"required,oneof=installation maintenance inspection repair"`
	RelatedInstallationID *uint      `json:"relatedInstallation,omitempty"`
	RelatedMaintenanceID  *uint      `json:"relatedMaintenance,omitempty"`
	Status                string     `gorm:"not null;index:idx_schedule_status_date,priority:1" json:"status" validate:"required,oneof=scheduled in_progress completed cancelled rescheduled"`
	Location              Address    `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	EstimatedDuration     float64    `gorm:"not null" json:"estimatedDuration" validate:"gt=0"` // hours
	ActualStartTime       *time.Time `json:"actualStartTime,omitempty"`
	ActualEndTime         *time.Time `json:"actualEndTime,omitempty"`
	Notes                 string     `gorm:"type:text" json:"notes,omitempty" validate:"max=500"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

// TableName specifies the table name for the Schedule model
func (Schedule) TableName() string {
	return "schedules"
}

// NormalizeDate truncates t to midnight UTC of its calendar day
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// BeforeSave normalises the date, applies defaults and validates
func (s *Schedule) BeforeSave(tx *gorm.DB) error {
	if !s.Date.IsZero() {
		s.Date = NormalizeDate(s.Date)
	}
	if s.Status == "" {
		s.Status = ScheduleScheduled
	}
	s.Location.trim()
	return Validate(s)
}
