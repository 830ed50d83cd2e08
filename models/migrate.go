package models

import "gorm.io/gorm"

// All lists every persisted model in dependency order
func All() []any {
	return []any{
		&User{},
		&Installation{},
		&MaintenanceRequest{},
		&ServiceTicket{},
		&Equipment{},
		&Schedule{},
	}
}

// Migrate creates or updates the tables and indexes of every model
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
