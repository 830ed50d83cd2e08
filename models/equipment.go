package models

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Equipment defaults
const (
	DefaultMinimumStock = 10
	DefaultLocation     = "Main Warehouse"
)

// Specifications are optional technical figures of an equipment item
type Specifications struct {
	Power      *float64 `json:"power,omitempty"`   // W
	Voltage    *float64 `json:"voltage,omitempty"` // V
	Dimensions string   `json:"dimensions,omitempty"`
	Weight     *float64 `json:"weight,omitempty"`     // kg
	Warranty   *float64 `json:"warranty,omitempty"`   // years
	Efficiency *float64 `json:"efficiency,omitempty"` // percent
}

// Supplier identifies where an equipment item is sourced from
type Supplier struct {
	Name    string `gorm:"not null" json:"name" validate:"required"`
	Contact string `json:"contact,omitempty"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
}

// Equipment is an inventory item held in a warehouse
type Equipment struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"not null;index" json:"name" validate:"required,max=200"`
	Category       string         `gorm:"not null;index:idx_equipment_category_active,priority:1" json:"category" validate:"required,oneof=solar_panel inverter battery mounting wiring monitoring tools"`
	Manufacturer   string         `gorm:"not null" json:"manufacturer" validate:"required,max=100"`
	Model          string         `gorm:"not null" json:"model" validate:"required,max=100"`
	Specifications Specifications `gorm:"embedded;embeddedPrefix:spec_" json:"specifications"`
	Quantity       int            `gorm:"not null" json:"quantity" validate:"gte=0"`
	MinimumStock   int            `gorm:"not null" json:"minimumStock" validate:"gte=0"`
	UnitPrice      float64        `gorm:"not null" json:"unitPrice" validate:"gte=0"`
	Supplier       Supplier       `gorm:"embedded;embeddedPrefix:supplier_" json:"supplier"`
	Location       string         `json:"location"`
	IsActive       bool           `gorm:"not null;index:idx_equipment_category_active,priority:2" json:"isActive"`
	LastRestocked  *time.Time     `json:"lastRestocked,omitempty"`
	Notes          string         `gorm:"type:text" json:"notes,omitempty" validate:"max=500"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// NewEquipment returns an item carrying the inventory defaults
func NewEquipment() *Equipment {
	return &Equipment{
		MinimumStock: DefaultMinimumStock,
		Location:     DefaultLocation,
		IsActive:     true,
	}
}

// TableName specifies the table name for the Equipment model
func (Equipment) TableName() string {
	return "equipment"
}

// IsLowStock reports whether quantity has fallen to the minimum stock level
func (e Equipment) IsLowStock() bool {
	return e.Quantity <= e.MinimumStock
}

// Restock records a quantity change, stamping lastRestocked when stock grows
func (e *Equipment) Restock(previous int, now time.Time) {
	if e.Quantity > previous {
		e.LastRestocked = &now
	}
}

// MarshalJSON adds the derived isLowStock flag
func (e Equipment) MarshalJSON() ([]byte, error) {
	type equipment Equipment
	return json.Marshal(struct {
		equipment
		IsLowStock bool `json:"isLowStock"`
	}{equipment(e), e.IsLowStock()})
}

// BeforeSave applies defaults and validates
func (e *Equipment) BeforeSave(tx *gorm.DB) error {
	e.Name = strings.TrimSpace(e.Name)
	if strings.TrimSpace(e.Location) == "" {
		e.Location = DefaultLocation
	}
	return Validate(e)
}
