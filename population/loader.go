// Package population expands reference ids on stored records into display
// projections of the referenced rows. References whose row no longer
// exists render as null.
package population

import (
	"context"
	"fmt"

	"github.com/sunserve/sunserve-api/models"
	"gorm.io/gorm"
)

// Level selects how much of each reference is rendered
type Level int

const (
	// List is the compact projection used by list endpoints
	List Level = iota
	// Detail is the fuller projection used by get endpoints
	Detail
)

// Loader batches reference lookups for a set of records
type Loader struct {
	db            *gorm.DB
	users         map[uint]*models.User
	installations map[uint]*models.Installation
	maintenance   map[uint]*models.MaintenanceRequest
}

// NewLoader returns a Loader reading through db with the request context
func NewLoader(ctx context.Context, db *gorm.DB) *Loader {
	return &Loader{
		db:            db.WithContext(ctx),
		users:         map[uint]*models.User{},
		installations: map[uint]*models.Installation{},
		maintenance:   map[uint]*models.MaintenanceRequest{},
	}
}

type idSet map[uint]struct{}

func (s idSet) add(id uint) {
	if id != 0 {
		s[id] = struct{}{}
	}
}

func (s idSet) addPtr(id *uint) {
	if id != nil {
		s.add(*id)
	}
}

func (s idSet) list() []uint {
	out := make([]uint, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	return out
}

func (l *Loader) loadUsers(ids idSet) error {
	if len(ids) == 0 {
		return nil
	}
	var users []models.User
	if err := l.db.Where("id IN ?", ids.list()).Find(&users).Error; err != nil {
		return fmt.Errorf("failed to load referenced users: %w", err)
	}
	for i := range users {
		l.users[users[i].ID] = &users[i]
	}
	return nil
}

func (l *Loader) loadInstallations(ids idSet) error {
	if len(ids) == 0 {
		return nil
	}
	var rows []models.Installation
	if err := l.db.Where("id IN ?", ids.list()).Find(&rows).Error; err != nil {
		return fmt.Errorf("failed to load referenced installations: %w", err)
	}
	for i := range rows {
		l.installations[rows[i].ID] = &rows[i]
	}
	return nil
}

func (l *Loader) loadMaintenance(ids idSet) error {
	if len(ids) == 0 {
		return nil
	}
	var rows []models.MaintenanceRequest
	if err := l.db.Where("id IN ?", ids.list()).Find(&rows).Error; err != nil {
		return fmt.Errorf("failed to load referenced maintenance requests: %w", err)
	}
	for i := range rows {
		l.maintenance[rows[i].ID] = &rows[i]
	}
	return nil
}

func (l *Loader) user(id uint, fields userFields) *UserRef {
	return projectUser(l.users[id], fields)
}

func (l *Loader) userPtr(id *uint, fields userFields) *UserRef {
	if id == nil {
		return nil
	}
	return l.user(*id, fields)
}

func (l *Loader) installation(id *uint, fields installationFields) *InstallationRef {
	if id == nil {
		return nil
	}
	return projectInstallation(l.installations[*id], fields)
}

func (l *Loader) maintenanceRef(id *uint, detail bool) *MaintenanceRef {
	if id == nil {
		return nil
	}
	return projectMaintenance(l.maintenance[*id], detail)
}
