package models

import "strings"

// Address is a postal address embedded in users, installations and schedules
type Address struct {
	Street  string `gorm:"not null" json:"street" validate:"required"`
	City    string `gorm:"not null" json:"city" validate:"required"`
	State   string `gorm:"not null" json:"state" validate:"required"`
	ZipCode string `gorm:"not null" json:"zipCode" validate:"required"`
}

func (a *Address) trim() {
	a.Street = strings.TrimSpace(a.Street)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.ZipCode = strings.TrimSpace(a.ZipCode)
}
