package population

import "github.com/sunserve/sunserve-api/models"

// The reference fields of each view reuse the JSON key of the embedded
// id field, so the expanded projection replaces the bare id.

// InstallationView is an installation with its user references expanded
type InstallationView struct {
	models.Installation
	Customer           *UserRef `json:"customer"`
	AssignedTechnician *UserRef `json:"assignedTechnician"`
	ApprovedBy         *UserRef `json:"approvedBy"`
}

// MaintenanceView is a maintenance request with its references expanded
type MaintenanceView struct {
	models.MaintenanceRequest
	Customer           *UserRef         `json:"customer"`
	Installation       *InstallationRef `json:"installation"`
	AssignedTechnician *UserRef         `json:"assignedTechnician"`
}

// TicketView is a service ticket with its references expanded
type TicketView struct {
	models.ServiceTicket
	CreatedBy           *UserRef         `json:"createdBy"`
	AssignedTo          *UserRef         `json:"assignedTo"`
	RelatedInstallation *InstallationRef `json:"relatedInstallation"`
	RelatedMaintenance  *MaintenanceRef  `json:"relatedMaintenance"`
}

// ScheduleView is a booking with its references expanded
type ScheduleView struct {
	models.Schedule
	Technician          *UserRef         `json:"technician"`
	RelatedInstallation *InstallationRef `json:"relatedInstallation"`
	RelatedMaintenance  *MaintenanceRef  `json:"relatedMaintenance"`
}

// Installations expands installation references
func (l *Loader) Installations(rows []models.Installation, level Level) ([]InstallationView, error) {
	users := idSet{}
	for i := range rows {
		users.add(rows[i].CustomerID)
		users.addPtr(rows[i].AssignedTechnicianID)
		users.addPtr(rows[i].ApprovedByID)
	}
	if err := l.loadUsers(users); err != nil {
		return nil, err
	}

	customer, technician, approver := contactFull, contact, nameOnly
	if level == Detail {
		customer, technician, approver = contactAddress, contactFull, contact
	}

	views := make([]InstallationView, len(rows))
	for i, row := range rows {
		views[i] = InstallationView{
			Installation:       row,
			Customer:           l.user(row.CustomerID, customer),
			AssignedTechnician: l.userPtr(row.AssignedTechnicianID, technician),
			ApprovedBy:         l.userPtr(row.ApprovedByID, approver),
		}
	}
	return views, nil
}

// Maintenance expands maintenance request references
func (l *Loader) Maintenance(rows []models.MaintenanceRequest, level Level) ([]MaintenanceView, error) {
	users, installations := idSet{}, idSet{}
	for i := range rows {
		users.add(rows[i].CustomerID)
		users.addPtr(rows[i].AssignedTechnicianID)
		installations.add(rows[i].InstallationID)
	}
	if err := l.loadUsers(users); err != nil {
		return nil, err
	}
	if err := l.loadInstallations(installations); err != nil {
		return nil, err
	}

	customer, technician := contactFull, contact
	installation := installationAddress | installationSize
	if level == Detail {
		customer, technician = contactAddress, contactFull
		installation |= installationPanels
	}

	views := make([]MaintenanceView, len(rows))
	for i, row := range rows {
		installationID := row.InstallationID
		views[i] = MaintenanceView{
			MaintenanceRequest: row,
			Customer:           l.user(row.CustomerID, customer),
			Installation:       l.installation(&installationID, installation),
			AssignedTechnician: l.userPtr(row.AssignedTechnicianID, technician),
		}
	}
	return views, nil
}

// Tickets expands service ticket references
func (l *Loader) Tickets(rows []models.ServiceTicket, level Level) ([]TicketView, error) {
	users, installations, maintenance := idSet{}, idSet{}, idSet{}
	for i := range rows {
		users.add(rows[i].CreatedByID)
		users.addPtr(rows[i].AssignedToID)
		installations.addPtr(rows[i].RelatedInstallationID)
		maintenance.addPtr(rows[i].RelatedMaintenanceID)
	}
	if err := l.loadUsers(users); err != nil {
		return nil, err
	}
	if err := l.loadInstallations(installations); err != nil {
		return nil, err
	}
	if err := l.loadMaintenance(maintenance); err != nil {
		return nil, err
	}

	people := contact
	installation := installationAddress
	if level == Detail {
		people = contactFull
		installation = installationAddress | installationSize | installationPanels | installationStatus
	}

	views := make([]TicketView, len(rows))
	for i, row := range rows {
		views[i] = TicketView{
			ServiceTicket:       row,
			CreatedBy:           l.user(row.CreatedByID, people),
			AssignedTo:          l.userPtr(row.AssignedToID, people),
			RelatedInstallation: l.installation(row.RelatedInstallationID, installation),
			RelatedMaintenance:  l.maintenanceRef(row.RelatedMaintenanceID, level == Detail),
		}
	}
	return views, nil
}

// Schedules expands booking references
func (l *Loader) Schedules(rows []models.Schedule, level Level) ([]ScheduleView, error) {
	users, installations, maintenance := idSet{}, idSet{}, idSet{}
	for i := range rows {
		users.add(rows[i].TechnicianID)
		installations.addPtr(rows[i].RelatedInstallationID)
		maintenance.addPtr(rows[i].RelatedMaintenanceID)
	}
	if err := l.loadUsers(users); err != nil {
		return nil, err
	}
	if err := l.loadInstallations(installations); err != nil {
		return nil, err
	}
	if err := l.loadMaintenance(maintenance); err != nil {
		return nil, err
	}

	technician := contact
	installation := installationAddress
	if level == Detail {
		technician = contactFull
		installation |= installationStatus
	}

	views := make([]ScheduleView, len(rows))
	for i, row := range rows {
		views[i] = ScheduleView{
			Schedule:            row,
			Technician:          l.user(row.TechnicianID, technician),
			RelatedInstallation: l.installation(row.RelatedInstallationID, installation),
			RelatedMaintenance:  l.maintenanceRef(row.RelatedMaintenanceID, level == Detail),
		}
	}
	return views, nil
}
