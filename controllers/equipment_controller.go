package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sunserve/sunserve-api/config"
	"github.com/sunserve/sunserve-api/models"
)

var (
	equipmentCreateFields = []string{
		"name", "category", "manufacturer", "model", "specifications", "quantity",
		"minimumStock", "unitPrice", "supplier", "location", "notes",
	}
	equipmentUpdateFields = append(append([]string{}, equipmentCreateFields...), "isActive")
	equipmentList         = listOptions{
		defaultLimit: 50,
		maxLimit:     200,
		defaultSort:  "name",
		sortable: map[string]string{
			"name":          "name",
			"category":      "category",
			"manufacturer":  "manufacturer",
			"quantity":      "quantity",
			"minimumStock":  "minimum_stock",
			"unitPrice":     "unit_price",
			"lastRestocked": "last_restocked",
			"createdAt":     "created_at",
			"updatedAt":     "updated_at",
		},
		filters: []filter{
			{param: "category", column: "category"},
			{param: "isActive", column: "is_active", kind: filterBool},
		},
	}
)

// CreateEquipment handles POST /api/equipment
func CreateEquipment(c *gin.Context) {
	equipment := models.NewEquipment()
	if _, err := bindAllowed(c, equipmentCreateFields, equipment); err != nil {
		respondError(c, err)
		return
	}
	equipment.Restock(0, time.Now())

	if err := config.GetDB().WithContext(c.Request.Context()).Create(equipment).Error; err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Equipment added", equipment)
}

// GetEquipment handles GET /api/equipment
func GetEquipment(c *gin.Context) {
	query := config.GetDB().WithContext(c.Request.Context()).Model(&models.Equipment{})

	var rows []models.Equipment
	count, p, err := equipmentList.list(c, query, &rows)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, count, p, len(rows), rows)
}

// GetEquipmentItem handles GET /api/equipment/:id
func GetEquipmentItem(c *gin.Context) {
	equipment, ok := loadEquipment(c)
	if !ok {
		return
	}
	respond(c, http.StatusOK, "", equipment)
}

// UpdateEquipment handles PUT /api/equipment/:id.
// A quantity increase stamps lastRestocked.
func UpdateEquipment(c *gin.Context) {
	equipment, ok := loadEquipment(c)
	if !ok {
		return
	}

	previous := equipment.Quantity
	if _, err := bindAllowed(c, equipmentUpdateFields, equipment); err != nil {
		respondError(c, err)
		return
	}
	equipment.Restock(previous, time.Now())

	if err := config.GetDB().WithContext(c.Request.Context()).Save(equipment).Error; err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Equipment updated", equipment)
}

// DeleteEquipment handles DELETE /api/equipment/:id
func DeleteEquipment(c *gin.Context) {
	equipment, ok := loadEquipment(c)
	if !ok {
		return
	}

	if err := config.GetDB().WithContext(c.Request.Context()).Delete(equipment).Error; err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Equipment deleted", gin.H{})
}

// GetLowStockEquipment handles GET /api/equipment/lowstock: every active
// item whose quantity is at or below its minimum stock
func GetLowStockEquipment(c *gin.Context) {
	var rows []models.Equipment
	err := config.GetDB().WithContext(c.Request.Context()).
		Where("is_active = ? AND quantity <= minimum_stock", true).
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		respondError(c, fmt.Errorf("failed to list low stock equipment: %w", err))
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Success:  true,
		Count:    int64(len(rows)),
		PageSize: len(rows),
		Data:     rows,
	})
}

func loadEquipment(c *gin.Context) (*models.Equipment, bool) {
	id, err := parseID(c, "Equipment")
	if err != nil {
		respondError(c, err)
		return nil, false
	}

	var equipment models.Equipment
	if err := findByID(c, &equipment, id, "Equipment"); err != nil {
		respondError(c, err)
		return nil, false
	}
	return &equipment, true
}
