// billing-api/cmd/serve.go
package cmd

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"billing-api/config"
	"billing-api/internal/routes"
	"billing-api/models"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Run: func(cmd *cobra.Command, args []string) {
		config.ConnectDB()
		config.ConnectRedis()

		if err := models.AutoMigrate(config.DB); err != nil {
			slog.Error("Database migration failed", "error", err)
			os.Exit(1)
		}
		models.SeedPlatforms(config.DB)

		r := gin.Default()
		routes.SetupRoutes(r)

		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}

		slog.Info("Server running", "port", port)
		if err := r.Run(":" + port); err != nil {
			slog.Error("Server stopped", "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
