// billing-api/cmd/root.go
package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "billing-api",
	Short: "Billing management backend: REST API plus bulk CSV loading",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env is optional; real deployments set environment variables
		// directly.
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			slog.Warn("Could not load .env file", "error", err)
		}
	},
}

// Execute runs the CLI. Called once, from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
