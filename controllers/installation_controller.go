package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sunserve/sunserve-api/authz"
	"github.com/sunserve/sunserve-api/config"
	"github.com/sunserve/sunserve-api/middleware"
	"github.com/sunserve/sunserve-api/models"
	"github.com/sunserve/sunserve-api/population"
)

var (
	installationCreateFields = []string{
		"address", "systemSize", "panelType", "numberOfPanels", "estimatedCost", "notes",
	}
	installationUpdateFields = []string{
		"address", "systemSize", "panelType", "numberOfPanels", "estimatedCost", "status",
		"scheduledDate", "completedDate", "assignedTechnician", "approvedBy", "notes",
	}
	installationList = listOptions{
		defaultLimit: 50,
		maxLimit:     100,
		defaultSort:  "-createdAt",
		sortable: map[string]string{
			"createdAt":     "created_at",
			"requestedDate": "requested_date",
			"scheduledDate": "scheduled_date",
			"status":        "status",
			"systemSize":    "system_size",
			"estimatedCost": "estimated_cost",
		},
		filters: []filter{{param: "status", column: "status"}},
	}
)

// CreateInstallation handles POST /api/installations.
// The requesting customer always becomes the owner.
func CreateInstallation(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var installation models.Installation
	if _, err := bindAllowed(c, installationCreateFields, &installation); err != nil {
		respondError(c, err)
		return
	}
	installation.CustomerID = user.ID

	if err := config.GetDB().WithContext(c.Request.Context()).Create(&installation).Error; err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Installation request created successfully", installation)
}

// GetInstallations handles GET /api/installations
func GetInstallations(c *gin.Context) {
	caller, err := middleware.GetCaller(c)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	query := config.GetDB().WithContext(ctx).
		Model(&models.Installation{}).
		Scopes(authz.Scope(authz.Installations, caller))

	var rows []models.Installation
	count, p, err := installationList.list(c, query, &rows)
	if err != nil {
		respondError(c, err)
		return
	}

	views, err := population.NewLoader(ctx, config.GetDB()).Installations(rows, population.List)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, count, p, len(views), views)
}

// GetInstallation handles GET /api/installations/:id
func GetInstallation(c *gin.Context) {
	installation, ok := loadInstallation(c)
	if !ok {
		return
	}
	respondInstallation(c, "", installation)
}

// UpdateInstallation handles PUT /api/installations/:id
func UpdateInstallation(c *gin.Context) {
	installation, ok := loadInstallation(c)
	if !ok {
		return
	}

	if _, err := bindAllowed(c, installationUpdateFields, installation); err != nil {
		respondError(c, err)
		return
	}
	if err := config.GetDB().WithContext(c.Request.Context()).Save(installation).Error; err != nil {
		respondError(c, err)
		return
	}

	respondInstallation(c, "Installation updated successfully", installation)
}

// DeleteInstallation handles DELETE /api/installations/:id
func DeleteInstallation(c *gin.Context) {
	installation, ok := loadInstallation(c)
	if !ok {
		return
	}

	if err := config.GetDB().WithContext(c.Request.Context()).Delete(installation).Error; err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Installation deleted successfully", gin.H{})
}

// loadInstallation fetches the :id installation, aborting the request when it cannot
func loadInstallation(c *gin.Context) (*models.Installation, bool) {
	id, err := parseID(c, "Installation")
	if err != nil {
		respondError(c, err)
		return nil, false
	}

	var installation models.Installation
	if err := findByID(c, &installation, id, "Installation"); err != nil {
		respondError(c, err)
		return nil, false
	}
	return &installation, true
}

func respondInstallation(c *gin.Context, message string, installation *models.Installation) {
	views, err := population.NewLoader(c.Request.Context(), config.GetDB()).
		Installations([]models.Installation{*installation}, population.Detail)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, message, views[0])
}
