package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sunserve/sunserve-api/config"
	"github.com/sunserve/sunserve-api/models"
	"github.com/xuri/excelize/v2"
)

const (
	inventorySheet = "Inventory"
	xlsxMediaType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var inventoryHeader = []any{
	"Name", "Category", "Manufacturer", "Model", "Quantity", "Minimum Stock",
	"Unit Price", "Location", "Supplier", "Active", "Low Stock", "Last Restocked",
}

// ExportEquipment handles GET /api/equipment/export. It honours the list
// filters (category, isActive) and always sorts by name.
func ExportEquipment(c *gin.Context) {
	query, err := equipmentList.where(c, config.GetDB().WithContext(c.Request.Context()).Model(&models.Equipment{}))
	if err != nil {
		respondError(c, err)
		return
	}

	var rows []models.Equipment
	if err := query.Order("name ASC").Find(&rows).Error; err != nil {
		respondError(c, fmt.Errorf("failed to list equipment for export: %w", err))
		return
	}

	buf, err := writeInventory(rows)
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("inventory-%s.xlsx", time.Now().UTC().Format(dateOnly))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxMediaType, buf.Bytes())
}

// writeInventory renders rows as a single-sheet workbook with a header row
func writeInventory(rows []models.Equipment) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", inventorySheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(inventorySheet, "A1", &inventoryHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, e := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		restocked := ""
		if e.LastRestocked != nil {
			restocked = e.LastRestocked.UTC().Format(time.RFC3339)
		}
		row := []any{
			e.Name, e.Category, e.Manufacturer, e.Model, e.Quantity, e.MinimumStock,
			e.UnitPrice, e.Location, e.Supplier.Name, yesNo(e.IsActive), yesNo(e.IsLowStock()), restocked,
		}
		if err := f.SetSheetRow(inventorySheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf, nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
