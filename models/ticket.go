package models

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	ticketPrefix       = "TICKET-"
	ticketSuffixLength = 6
	base36Upper        = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// ServiceTicket is a support ticket raised by any user
type ServiceTicket struct {
	ID                    uint       `gorm:"primaryKey" json:"id"`
	TicketNumber          string     `gorm:"uniqueIndex;not null" json:"ticketNumber"`
	Title                 string     `gorm:"not null" json:"title" validate:"required,max=200"`
	Description           string     `gorm:"type:text;not null" json:"description" validate:"required,max=2000"`
	Category              string     `gorm:"not null" json:"category" validate:"required,oneof=technical billing general emergency warranty"`
	Priority              string     `gorm:"not null" json:"priority" validate:"required,oneof=low medium high urgent"`
	Status                string     `gorm:"not null;index;index:idx_ticket_creator_status,priority:2;index:idx_ticket_assignee_status,priority:2" json:"status" validate:"required,oneof=open assigned in_progress resolved closed"`
	CreatedByID           uint       `gorm:"not null;index;index:idx_ticket_creator_status,priority:1" json:"createdBy" validate:"required"`
	AssignedToID          *uint      `gorm:"index:idx_ticket_assignee_status,priority:1" json:"assignedTo,omitempty"`
	RelatedInstallationID *uint      `json:"relatedInstallation,omitempty"`
	RelatedMaintenanceID  *uint      `json:"relatedMaintenance,omitempty"`
	Resolution            string     `gorm:"type:text" json:"resolution,omitempty" validate:"max=2000"`
	ClosedAt              *time.Time `json:"closedAt,omitempty"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

// TableName specifies the table name for the ServiceTicket model
func (ServiceTicket) TableName() string {
	return "service_tickets"
}

// BeforeSave applies defaults and validates
func (t *ServiceTicket) BeforeSave(tx *gorm.DB) error {
	t.Title = strings.TrimSpace(t.Title)
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.Status == "" {
		t.Status = TicketOpen
	}
	return Validate(t)
}

// BeforeCreate assigns the ticket number on first save
func (t *ServiceTicket) BeforeCreate(tx *gorm.DB) error {
	if t.TicketNumber != "" {
		return nil
	}
	number, err := NewTicketNumber(time.Now())
	if err != nil {
		return err
	}
	t.TicketNumber = number
	return nil
}

// Close marks the ticket closed at now, recording resolution when given.
// Closing an already closed ticket overwrites resolution and closedAt.
func (t *ServiceTicket) Close(resolution string, now time.Time) {
	t.Status = TicketClosed
	if resolution != "" {
		t.Resolution = resolution
	}
	t.ClosedAt = &now
}

// NewTicketNumber returns "TICKET-<base36 epoch millis>-<6 random base36 chars>".
// Uniqueness is probabilistic; the unique index rejects the rare collision.
func NewTicketNumber(now time.Time) (string, error) {
	suffix := make([]byte, ticketSuffixLength)
	max := big.NewInt(int64(len(base36Upper)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate ticket number: %w", err)
		}
		suffix[i] = base36Upper[n.Int64()]
	}
	return ticketPrefix + strconv.FormatInt(now.UnixMilli(), 36) + "-" + string(suffix), nil
}
