package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sunserve/sunserve-api/apperror"
	"github.com/sunserve/sunserve-api/authz"
	"github.com/sunserve/sunserve-api/config"
	"github.com/sunserve/sunserve-api/middleware"
	"github.com/sunserve/sunserve-api/models"
	"github.com/sunserve/sunserve-api/population"
	"gorm.io/gorm"
)

var (
	maintenanceCreateFields = []string{
		"installation", "requestType", "description", "priority", "estimatedDuration", "notes",
	}
	maintenanceUpdateFields = []string{
		"requestType", "description", "priority", "status", "scheduledDate", "completedDate",
		"assignedTechnician", "estimatedDuration", "actualDuration", "cost", "notes",
	}
	maintenanceList = listOptions{
		defaultLimit: 50,
		maxLimit:     100,
		defaultSort:  "-createdAt",
		sortable: map[string]string{
			"createdAt":     "created_at",
			"requestedDate": "requested_date",
			"scheduledDate": "scheduled_date",
			"status":        "status",
			"priority":      "priority",
			"requestType":   "request_type",
		},
		filters: []filter{
			{param: "status", column: "status"},
			{param: "priority", column: "priority"},
			{param: "requestType", column: "request_type"},
		},
	}
)

// CreateMaintenance handles POST /api/maintenance.
// The installation must exist and, for customers, belong to the caller.
func CreateMaintenance(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var request models.MaintenanceRequest
	if _, err := bindAllowed(c, maintenanceCreateFields, &request); err != nil {
		respondError(c, err)
		return
	}
	request.CustomerID = user.ID

	db := config.GetDB().WithContext(c.Request.Context())
	if request.InstallationID != 0 {
		var installation models.Installation
		err := db.First(&installation, request.InstallationID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, apperror.Validation("Installation %d does not exist", request.InstallationID))
			return
		}
		if err != nil {
			respondError(c, err)
			return
		}
		if user.Role == models.RoleCustomer && !authz.Owns(authz.CallerOf(user), installation.CustomerID) {
			respondError(c, apperror.Validation("Installation %d does not belong to you", request.InstallationID))
			return
		}
	}

	if err := db.Create(&request).Error; err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Maintenance request created successfully", request)
}

// GetMaintenanceRequests handles GET /api/maintenance
func GetMaintenanceRequests(c *gin.Context) {
	caller, err := middleware.GetCaller(c)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	query := config.GetDB().WithContext(ctx).
		Model(&models.MaintenanceRequest{}).
		Scopes(authz.Scope(authz.Maintenance, caller))

	var rows []models.MaintenanceRequest
	count, p, err := maintenanceList.list(c, query, &rows)
	if err != nil {
		respondError(c, err)
		return
	}

	views, err := population.NewLoader(ctx, config.GetDB()).Maintenance(rows, population.List)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, count, p, len(views), views)
}

// GetMaintenanceRequest handles GET /api/maintenance/:id
func GetMaintenanceRequest(c *gin.Context) {
	request, ok := loadMaintenance(c)
	if !ok {
		return
	}
	respondMaintenance(c, "", request)
}

// UpdateMaintenance handles PUT /api/maintenance/:id
func UpdateMaintenance(c *gin.Context) {
	request, ok := loadMaintenance(c)
	if !ok {
		return
	}

	if _, err := bindAllowed(c, maintenanceUpdateFields, request); err != nil {
		respondError(c, err)
		return
	}
	if err := config.GetDB().WithContext(c.Request.Context()).Save(request).Error; err != nil {
		respondError(c, err)
		return
	}

	respondMaintenance(c, "Maintenance request updated successfully", request)
}

// DeleteMaintenance handles DELETE /api/maintenance/:id
func DeleteMaintenance(c *gin.Context) {
	request, ok := loadMaintenance(c)
	if !ok {
		return
	}

	if err := config.GetDB().WithContext(c.Request.Context()).Delete(request).Error; err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Maintenance request deleted successfully", gin.H{})
}

func loadMaintenance(c *gin.Context) (*models.MaintenanceRequest, bool) {
	id, err := parseID(c, "Maintenance request")
	if err != nil {
		respondError(c, err)
		return nil, false
	}

	var request models.MaintenanceRequest
	if err := findByID(c, &request, id, "Maintenance request"); err != nil {
		respondError(c, err)
		return nil, false
	}
	return &request, true
}

func respondMaintenance(c *gin.Context, message string, request *models.MaintenanceRequest) {
	views, err := population.NewLoader(c.Request.Context(), config.GetDB()).
		Maintenance([]models.MaintenanceRequest{*request}, population.Detail)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, message, views[0])
}
