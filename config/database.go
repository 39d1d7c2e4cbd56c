// billing-api/config/database.go

package config

import (
	"log/slog"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		slog.Error("Fatal: DB_URL environment variable is not set.")
		os.Exit(1)
	}

	// TranslateError so duplicate-key violations surface as gorm.ErrDuplicatedKey
	// regardless of driver.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}

	DB = db
	slog.Info("Database connected successfully")
}
