package database

import "marketplace/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
// Owners come before the rows that reference them.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Listing{},
	}
}
