package models

// User roles
const (
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleTechnician = "technician"
	RoleCustomer   = "customer"
)

// Installation status
const (
	InstallationRequested  = "requested"
	InstallationApproved   = "approved"
	InstallationScheduled  = "scheduled"
	InstallationInProgress = "in_progress"
	InstallationCompleted  = "completed"
	InstallationCancelled  = "cancelled"
)

// Maintenance status
const (
	MaintenanceRequested  = "requested"
	MaintenanceScheduled  = "scheduled"
	MaintenanceInProgress = "in_progress"
	MaintenanceCompleted  = "completed"
	MaintenanceCancelled  = "cancelled"
)

// Priority levels shared by maintenance requests and tickets
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Ticket status
const (
	TicketOpen       = "open"
	TicketAssigned   = "assigned"
	TicketInProgress = "in_progress"
	TicketResolved   = "resolved"
	TicketClosed     = "closed"
)

// Equipment categories
const (
	CategorySolarPanel = "solar_panel"
	CategoryInverter   = "inverter"
	CategoryBattery    = "battery"
	CategoryMounting   = "mounting"
	CategoryWiring     = "wiring"
	CategoryMonitoring = "monitoring"
	CategoryTools      = "tools"
)

// Schedule time slots
const (
	SlotMorning   = "08:00-12:00"
	SlotAfternoon = "12:00-16:00"
	SlotEvening   = "16:00-20:00"
)

// Schedule status
const (
	ScheduleScheduled   = "scheduled"
	ScheduleInProgress  = "in_progress"
	ScheduleCompleted   = "completed"
	ScheduleCancelled   = "cancelled"
	ScheduleRescheduled = "rescheduled"
)

// Roles lists every role in privilege order
var Roles = []string{RoleAdmin, RoleManager, RoleTechnician, RoleCustomer}

// IsValidRole reports whether role is one of Roles
func IsValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}
