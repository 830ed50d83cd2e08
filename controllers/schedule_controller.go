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
	scheduleCreateFields = []string{
		"technician", "date", "timeSlot", "jobType", "relatedInstallation", "relatedMaintenance",
		"location", "estimatedDuration", "notes",
	}
	scheduleUpdateFields = []string{
		"technician", "date", "timeSlot", "jobType", "status", "location", "estimatedDuration",
		"actualStartTime", "actualEndTime", "notes",
	}
	scheduleList = listOptions{
		defaultLimit: 50,
		maxLimit:     100,
		defaultSort:  "-createdAt",
		sortable: map[string]string{
			"createdAt": "created_at",
			"date":      "date",
			"timeSlot":  "time_slot",
			"status":    "status",
			"jobType":   "job_type",
		},
		filters: []filter{
			{param: "status", column: "status"},
			{param: "technician", column: "technician_id", kind: filterID},
			{param: "jobType", column: "job_type"},
			{param: "timeSlot", column: "time_slot"},
			{param: "date", column: "date", kind: filterDate},
		},
	}
)

// ErrSlotTaken is reported when a technician already has a booking in the slot
var ErrSlotTaken = apperror.Conflict("Technician is already booked for this date and time slot")

// CreateSchedule handles POST /api/schedules
func CreateSchedule(c *gin.Context) {
	var schedule models.Schedule
	if _, err := bindAllowed(c, scheduleCreateFields, &schedule); err != nil {
		respondError(c, err)
		return
	}
	if err := saveSchedule(c, &schedule, true); err != nil {
		respondError(c, err)
		return
	}
	respondSchedule(c, http.StatusCreated, "Schedule created", &schedule)
}

// GetSchedules handles GET /api/schedules
func GetSchedules(c *gin.Context) {
	caller, err := middleware.GetCaller(c)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	query := config.GetDB().WithContext(ctx).
		Model(&models.Schedule{}).
		Scopes(authz.Scope(authz.Schedules, caller))

	var rows []models.Schedule
	count, p, err := scheduleList.list(c, query, &rows)
	if err != nil {
		respondError(c, err)
		return
	}

	views, err := population.NewLoader(ctx, config.GetDB()).Schedules(rows, population.List)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, count, p, len(views), views)
}

// GetSchedule handles GET /api/schedules/:id
func GetSchedule(c *gin.Context) {
	schedule, ok := loadSchedule(c)
	if !ok {
		return
	}
	respondSchedule(c, http.StatusOK, "", schedule)
}

// UpdateSchedule handles PUT /api/schedules/:id
func UpdateSchedule(c *gin.Context) {
	schedule, ok := loadSchedule(c)
	if !ok {
		return
	}

	present, err := bindAllowed(c, scheduleUpdateFields, schedule)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := saveSchedule(c, schedule, present["technician"]); err != nil {
		respondError(c, err)
		return
	}
	respondSchedule(c, http.StatusOK, "Schedule updated", schedule)
}

// DeleteSchedule handles DELETE /api/schedules/:id
func DeleteSchedule(c *gin.Context) {
	schedule, ok := loadSchedule(c)
	if !ok {
		return
	}

	if err := config.GetDB().WithContext(c.Request.Context()).Delete(schedule).Error; err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Schedule deleted", gin.H{})
}

// saveSchedule persists schedule, optionally checking that the booked user
// is a technician. A clash on the slot index becomes ErrSlotTaken.
func saveSchedule(c *gin.Context, schedule *models.Schedule, checkTechnician bool) error {
	db := config.GetDB().WithContext(c.Request.Context())

	if checkTechnician && schedule.TechnicianID != 0 {
		var technician models.User
		err := db.Select("id", "role").First(&technician, schedule.TechnicianID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && technician.Role != models.RoleTechnician) {
			return apperror.Validation("technician must reference a user with the technician role")
		}
		if err != nil {
			return err
		}
	}

	err := db.Save(schedule).Error
	if err != nil && apperror.Normalize(err).Kind == apperror.KindConflict {
		return ErrSlotTaken
	}
	return err
}

func loadSchedule(c *gin.Context) (*models.Schedule, bool) {
	id, err := parseID(c, "Schedule")
	if err != nil {
		respondError(c, err)
		return nil, false
	}

	var schedule models.Schedule
	if err := findByID(c, &schedule, id, "Schedule"); err != nil {
		respondError(c, err)
		return nil, false
	}
	return &schedule, true
}

func respondSchedule(c *gin.Context, status int, message string, schedule *models.Schedule) {
	views, err := population.NewLoader(c.Request.Context(), config.GetDB()).
		Schedules([]models.Schedule{*schedule}, population.Detail)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, status, message, views[0])
}
