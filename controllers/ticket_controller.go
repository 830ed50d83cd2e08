package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sunserve/sunserve-api/authz"
	"github.com/sunserve/sunserve-api/config"
	"github.com/sunserve/sunserve-api/middleware"
	"github.com/sunserve/sunserve-api/models"
	"github.com/sunserve/sunserve-api/population"
)

var (
	ticketCreateFields = []string{
		"title", "description", "category", "priority", "relatedInstallation", "relatedMaintenance",
	}
	ticketUpdateFields = []string{
		"title", "description", "category", "priority", "status", "assignedTo", "resolution",
	}
	ticketList = listOptions{
		defaultLimit: 25,
		maxLimit:     100,
		defaultSort:  "-createdAt",
		sortable: map[string]string{
			"createdAt":    "created_at",
			"updatedAt":    "updated_at",
			"ticketNumber": "ticket_number",
			"status":       "status",
			"priority":     "priority",
			"category":     "category",
		},
		filters: []filter{
			{param: "status", column: "status"},
			{param: "priority", column: "priority"},
			{param: "category", column: "category"},
			{param: "assignedTo", column: "assigned_to_id", kind: filterID},
		},
	}
)

// CreateTicket handles POST /api/tickets
func CreateTicket(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var ticket models.ServiceTicket
	if _, err := bindAllowed(c, ticketCreateFields, &ticket); err != nil {
		respondError(c, err)
		return
	}
	ticket.CreatedByID = user.ID

	if err := config.GetDB().WithContext(c.Request.Context()).Create(&ticket).Error; err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Service ticket created", ticket)
}

// GetTickets handles GET /api/tickets
func GetTickets(c *gin.Context) {
	caller, err := middleware.GetCaller(c)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	query := config.GetDB().WithContext(ctx).
		Model(&models.ServiceTicket{}).
		Scopes(authz.Scope(authz.Tickets, caller))

	var rows []models.ServiceTicket
	count, p, err := ticketList.list(c, query, &rows)
	if err != nil {
		respondError(c, err)
		return
	}

	views, err := population.NewLoader(ctx, config.GetDB()).Tickets(rows, population.List)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, count, p, len(views), views)
}

// GetTicket handles GET /api/tickets/:id
func GetTicket(c *gin.Context) {
	ticket, ok := loadTicket(c)
	if !ok {
		return
	}
	respondTicket(c, "", ticket)
}

// UpdateTicket handles PUT /api/tickets/:id.
// Moving a ticket into "closed" stamps closedAt.
func UpdateTicket(c *gin.Context) {
	ticket, ok := loadTicket(c)
	if !ok {
		return
	}

	previous := ticket.Status
	if _, err := bindAllowed(c, ticketUpdateFields, ticket); err != nil {
		respondError(c, err)
		return
	}
	if ticket.Status == models.TicketClosed && previous != models.TicketClosed {
		now := time.Now()
		ticket.ClosedAt = &now
	}

	if err := config.GetDB().WithContext(c.Request.Context()).Save(ticket).Error; err != nil {
		respondError(c, err)
		return
	}

	respondTicket(c, "Service ticket updated", ticket)
}

// CloseTicket handles POST /api/tickets/:id/close. The resolution is read
// from "resolution", falling back to "note".
func CloseTicket(c *gin.Context) {
	ticket, ok := loadTicket(c)
	if !ok {
		return
	}

	resolution := rawString(c, "resolution")
	if resolution == "" {
		resolution = rawString(c, "note")
	}
	ticket.Close(resolution, time.Now())

	if err := config.GetDB().WithContext(c.Request.Context()).Save(ticket).Error; err != nil {
		respondError(c, err)
		return
	}

	respondTicket(c, "Service ticket closed", ticket)
}

// DeleteTicket handles DELETE /api/tickets/:id
func DeleteTicket(c *gin.Context) {
	ticket, ok := loadTicket(c)
	if !ok {
		return
	}

	if err := config.GetDB().WithContext(c.Request.Context()).Delete(ticket).Error; err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Service ticket deleted", gin.H{})
}

func loadTicket(c *gin.Context) (*models.ServiceTicket, bool) {
	id, err := parseID(c, "Service ticket")
	if err != nil {
		respondError(c, err)
		return nil, false
	}

	var ticket models.ServiceTicket
	if err := findByID(c, &ticket, id, "Service ticket"); err != nil {
		respondError(c, err)
		return nil, false
	}
	return &ticket, true
}

func respondTicket(c *gin.Context, message string, ticket *models.ServiceTicket) {
	views, err := population.NewLoader(c.Request.Context(), config.GetDB()).
		Tickets([]models.ServiceTicket{*ticket}, population.Detail)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, message, views[0])
}
