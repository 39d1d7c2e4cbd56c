package handlers

import (
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"billing-api/config"
	"billing-api/models"
)

// setupTest points the global connection at a throwaway sqlite database and
// returns a router with the routes under test registered.
func setupTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	models.SeedPlatforms(db)
	config.DB = db

	r := gin.New()
	api := r.Group("/api")
	{
		clients := api.Group("/clients")
		clients.GET("", ListClientsHandler)
		clients.POST("", CreateClientHandler)
		clients.GET("/:id", GetClientHandler)
		clients.PUT("/:id", UpdateClientHandler)
		clients.DELETE("/:id", DeleteClientHandler)

		invoices := api.Group("/invoices")
		invoices.GET("", ListInvoicesHandler)
		invoices.POST("", CreateInvoiceHandler)
		invoices.GET("/:id", GetInvoiceHandler)

		transactions := api.Group("/transactions")
		transactions.POST("", CreateTransactionHandler)

		api.GET("/platforms", ListPlatformsHandler)
		api.POST("/upload-csv", BulkUploadHandler)
		api.GET("/reports/customer-payments", CustomerPaymentsReportHandler)
	}
	return r
}
