// billing-api/internal/routes/api_routes.go
package routes

import (
	"billing-api/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes registers every /api route.
func RegisterAPIRoutes(r *gin.Engine) {
	apiGroup := r.Group("/api")
	{
		// --- CLIENTS ---
		clients := apiGroup.Group("/clients")
		{
			clients.GET("", handlers.ListClientsHandler)
			clients.POST("", handlers.CreateClientHandler)
			clients.GET("/:id", handlers.GetClientHandler)
			clients.PUT("/:id", handlers.UpdateClientHandler)
			clients.DELETE("/:id", handlers.DeleteClientHandler)
		}

		// --- INVOICES ---
		invoices := apiGroup.Group("/invoices")
		{
			invoices.GET("", handlers.ListInvoicesHandler)
			invoices.POST("", handlers.CreateInvoiceHandler)
			invoices.GET("/:id", handlers.GetInvoiceHandler)
			invoices.PUT("/:id", handlers.UpdateInvoiceHandler)
			invoices.DELETE("/:id", handlers.DeleteInvoiceHandler)
		}

		// --- TRANSACTIONS ---
		transactions := apiGroup.Group("/transactions")
		{
			transactions.GET("", handlers.ListTransactionsHandler)
			transactions.POST("", handlers.CreateTransactionHandler)
			transactions.GET("/:id", handlers.GetTransactionHandler)
			transactions.DELETE("/:id", handlers.DeleteTransactionHandler)
		}

		// --- PLATFORMS (read-only lookup) ---
		apiGroup.GET("/platforms", handlers.ListPlatformsHandler)

		// --- BULK CSV LOAD ---
		apiGroup.POST("/upload-csv", handlers.BulkUploadHandler)

		// --- REPORTS ---
		reports := apiGroup.Group("/reports")
		{
			reports.GET("/customer-payments", handlers.CustomerPaymentsReportHandler)
			reports.GET("/customer-payments/export", handlers.ExportCustomerPaymentsHandler)
			reports.GET("/pending-invoices", handlers.PendingInvoicesReportHandler)
			reports.GET("/transactions-by-platform", handlers.TransactionsByPlatformReportHandler)
		}
	}
}
