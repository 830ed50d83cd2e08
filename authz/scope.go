package authz

import (
	"github.com/sunserve/sunserve-api/models"
	"gorm.io/gorm"
)

// ownership names the owner and assignee columns of a resource
type ownership struct {
	owner    string
	assignee string
}

var owners = map[string]ownership{
	Installations: {owner: "customer_id", assignee: "assigned_technician_id"},
	Maintenance:   {owner: "customer_id", assignee: "assigned_technician_id"},
	Tickets:       {owner: "created_by_id", assignee: "assigned_to_id"},
	Schedules:     {assignee: "technician_id"},
}

// Scope restricts a list query on resource to the rows caller may see:
// customers their own rows, technicians rows assigned to them, and
// admins and managers everything. A role with no column on the resource
// sees nothing.
func Scope(resource string, caller Caller) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		cols, scoped := owners[resource]
		if !scoped {
			return db
		}

		switch caller.Role {
		case models.RoleAdmin, models.RoleManager:
			return db
		case models.RoleCustomer:
			if cols.owner != "" {
				return db.Where(cols.owner+" = ?", caller.ID)
			}
		case models.RoleTechnician:
			if cols.assignee != "" {
				return db.Where(cols.assignee+" = ?", caller.ID)
			}
		}
		return db.Where("1 = 0")
	}
}

// Owns reports whether caller is the owner of a row whose owner id is ownerID
func Owns(caller Caller, ownerID uint) bool {
	return caller.ID != 0 && caller.ID == ownerID
}
