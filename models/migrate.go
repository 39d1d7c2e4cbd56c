// billing-api/models/migrate.go
package models

import (
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AutoMigrate creates or updates the schema for all entities.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Client{}, &Invoice{}, &Platform{}, &Transaction{})
}

// SeedPlatforms inserts the payment platform lookup rows if they are not
// present yet. Re-running is harmless.
func SeedPlatforms(db *gorm.DB) {
	for _, name := range []string{"Nequi", "Daviplata"} {
		platform := Platform{Name: name}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&platform).Error; err != nil {
			slog.Error("Failed to seed platform", "platform", name, "error", err)
		}
	}
}
