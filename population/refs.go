package population

import "github.com/sunserve/sunserve-api/models"

// UserRef is the public projection of a referenced user
type UserRef struct {
	ID      uint            `json:"id"`
	Name    string          `json:"name"`
	Email   string          `json:"email,omitempty"`
	Phone   string          `json:"phone,omitempty"`
	Address *models.Address `json:"address,omitempty"`
}

// InstallationRef is the projection of a referenced installation
type InstallationRef struct {
	ID         uint            `json:"id"`
	Address    *models.Address `json:"address,omitempty"`
	SystemSize *float64        `json:"systemSize,omitempty"`
	PanelType  string          `json:"panelType,omitempty"`
	Status     string          `json:"status,omitempty"`
}

// MaintenanceRef is the projection of a referenced maintenance request
type MaintenanceRef struct {
	ID          uint   `json:"id"`
	Description string `json:"description"`
	RequestType string `json:"requestType,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Status      string `json:"status,omitempty"`
}

// userFields selects which user attributes a projection carries beyond the name
type userFields uint8

const (
	withEmail userFields = 1 << iota
	withPhone
	withAddress
)

const (
	nameOnly       userFields = 0
	contact                   = withEmail
	contactFull               = withEmail | withPhone
	contactAddress            = withEmail | withPhone | withAddress
)

func projectUser(u *models.User, fields userFields) *UserRef {
	if u == nil {
		return nil
	}
	ref := &UserRef{ID: u.ID, Name: u.Name}
	if fields&withEmail != 0 {
		ref.Email = u.Email
	}
	if fields&withPhone != 0 {
		ref.Phone = u.Phone
	}
	if fields&withAddress != 0 {
		address := u.Address
		ref.Address = &address
	}
	return ref
}

type installationFields uint8

const (
	installationAddress installationFields = 1 << iota
	installationSize
	installationPanels
	installationStatus
)

func projectInstallation(i *models.Installation, fields installationFields) *InstallationRef {
	if i == nil {
		return nil
	}
	ref := &InstallationRef{ID: i.ID}
	if fields&installationAddress != 0 {
		address := i.Address
		ref.Address = &address
	}
	if fields&installationSize != 0 {
		size := i.SystemSize
		ref.SystemSize = &size
	}
	if fields&installationPanels != 0 {
		ref.PanelType = i.PanelType
	}
	if fields&installationStatus != 0 {
		ref.Status = i.Status
	}
	return ref
}

func projectMaintenance(m *models.MaintenanceRequest, detail bool) *MaintenanceRef {
	if m == nil {
		return nil
	}
	ref := &MaintenanceRef{ID: m.ID, Description: m.Description}
	if detail {
		ref.RequestType = m.RequestType
		ref.Priority = m.Priority
		ref.Status = m.Status
	}
	return ref
}
