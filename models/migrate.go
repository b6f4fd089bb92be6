package models

import "gorm.io/gorm"

// AutoMigrate creates or updates the schema for all domain models. It runs
// on startup before the catalog seed and is safe to call on an already
// migrated database.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&UserSession{},
		&Vehicle{},
		&PriceTrend{},
		&SavedVehicle{},
		&AuditLog{},
	)
}
