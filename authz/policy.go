// Package authz holds the role policy for every resource action and the
// row scopes that restrict list queries to what a caller may see.
package authz

import (
	"github.com/sunserve/sunserve-api/models"
)

// Resource names
const (
	Installations = "installations"
	Maintenance   = "maintenance"
	Tickets       = "tickets"
	Equipment     = "equipment"
	Schedules     = "schedules"
	Users         = "users"
)

// Actions
const (
	ActionList       = "list"
	ActionCreate     = "create"
	ActionGet        = "get"
	ActionUpdate     = "update"
	ActionDelete     = "delete"
	ActionClose      = "close"
	ActionLowStock   = "lowstock"
	ActionExport     = "export"
	ActionListByRole = "listByRole"
	ActionUpload     = "upload"
)

// Caller is the authenticated principal a decision is made for
type Caller struct {
	ID   uint
	Role string
}

// CallerOf builds a Caller from a loaded user
func CallerOf(u *models.User) Caller {
	return Caller{ID: u.ID, Role: u.Role}
}

type rule struct {
	resource string
	action   string
}

var (
	adminOnly        = roles(models.RoleAdmin)
	staff            = roles(models.RoleAdmin, models.RoleManager)
	staffAndTech     = roles(models.RoleAdmin, models.RoleManager, models.RoleTechnician)
	customerOnly     = roles(models.RoleCustomer)
	everyoneWithRole = roles(models.Roles...)
)

// policy maps (resource, action) to the roles allowed to perform it.
// Actions absent from the table are open to any authenticated caller.
var policy = map[rule]map[string]bool{
	{Installations, ActionCreate}: customerOnly,
	{Installations, ActionUpdate}: staff,
	{Installations, ActionDelete}: adminOnly,
	{Installations, ActionUpload}: everyoneWithRole,

	{Maintenance, ActionCreate}: customerOnly,
	{Maintenance, ActionUpdate}: staffAndTech,
	{Maintenance, ActionDelete}: adminOnly,

	{Tickets, ActionClose}:  staffAndTech,
	{Tickets, ActionDelete}: adminOnly,

	{Equipment, ActionCreate}:   staff,
	{Equipment, ActionUpdate}:   staff,
	{Equipment, ActionDelete}:   adminOnly,
	{Equipment, ActionLowStock}: staff,
	{Equipment, ActionExport}:   staff,

	{Schedules, ActionList}:   staffAndTech,
	{Schedules, ActionCreate}: staff,
	{Schedules, ActionUpdate}: staffAndTech,
	{Schedules, ActionDelete}: adminOnly,

	{Users, ActionList}:       adminOnly,
	{Users, ActionListByRole}: staff,
	{Users, ActionDelete}:     adminOnly,
}

func roles(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// Allowed reports whether role may perform action on resource
func Allowed(resource, action, role string) bool {
	allowed, ok := policy[rule{resource, action}]
	if !ok {
		return models.IsValidRole(role)
	}
	return allowed[role]
}

// AllowedRoles returns the roles permitted for (resource, action),
// or nil when the action is open to every role
func AllowedRoles(resource, action string) []string {
	allowed, ok := policy[rule{resource, action}]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(allowed))
	for _, r := range models.Roles {
		if allowed[r] {
			out = append(out, r)
		}
	}
	return out
}
