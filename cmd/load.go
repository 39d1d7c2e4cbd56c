// billing-api/cmd/load.go
package cmd

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"billing-api/config"
	"billing-api/internal/importer"
	"billing-api/models"
)

var loadDir string

// loadCmd seeds the database from per-entity CSV files (clients.csv,
// invoices.csv, transactions.csv). Each insert uses ON CONFLICT DO NOTHING,
// so re-running the command never creates duplicates.
var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Seed the database from per-entity CSV files",
	Run: func(cmd *cobra.Command, args []string) {
		config.ConnectDB()

		if err := models.AutoMigrate(config.DB); err != nil {
			slog.Error("Database migration failed", "error", err)
			os.Exit(1)
		}
		models.SeedPlatforms(config.DB)

		loadClients(config.DB)
		loadInvoices(config.DB)
		loadTransactions(config.DB)
	},
}

func init() {
	loadCmd.Flags().StringVar(&loadDir, "dir", ".", "directory containing the CSV files")
	rootCmd.AddCommand(loadCmd)
}

func readCSV(name string) []importer.RawRecord {
	path := filepath.Join(loadDir, name)
	f, err := os.Open(path)
	if err != nil {
		slog.Warn("Skipping file", "file", path, "error", err)
		return nil
	}
	defer f.Close()

	records, err := importer.ReadRecords(f)
	if err != nil {
		slog.Error("Failed to parse file", "file", path, "error", err)
		return nil
	}
	return records
}

func loadClients(db *gorm.DB) {
	records := readCSV("clients.csv")
	loaded := 0
	for _, r := range records {
		email := strings.TrimSpace(r["email"])
		if email == "" {
			continue
		}
		client := models.Client{
			Name:             strings.TrimSpace(r["name"]),
			DocumentNumber:   strings.TrimSpace(r["document_number"]),
			Address:          strings.TrimSpace(r["address"]),
			City:             strings.TrimSpace(r["city"]),
			Phone:            strings.TrimSpace(r["phone"]),
			Email:            email,
			RegistrationDate: strings.TrimSpace(r["registration_date"]),
		}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).Create(&client).Error
		if err != nil {
			slog.Error("Failed to load client", "email", email, "error", err)
			continue
		}
		loaded++
	}
	slog.Info("Clients loaded", "count", loaded)
}

func loadInvoices(db *gorm.DB) {
	records := readCSV("invoices.csv")
	loaded := 0
	for _, r := range records {
		number := strings.TrimSpace(r["invoice_number"])
		if number == "" {
			continue
		}

		var client models.Client
		if err := db.Where("email = ?", strings.TrimSpace(r["client_email"])).First(&client).Error; err != nil {
			slog.Warn("Skipping invoice without client", "invoice", number)
			continue
		}

		total, err := decimal.NewFromString(strings.TrimSpace(r["total_amount"]))
		if err != nil {
			slog.Warn("Skipping invoice with invalid total", "invoice", number)
			continue
		}
		paid := decimal.Zero
		if v := strings.TrimSpace(r["paid_amount"]); v != "" {
			if paid, err = decimal.NewFromString(v); err != nil {
				slog.Warn("Skipping invoice with invalid paid amount", "invoice", number)
				continue
			}
		}

		invoice := models.Invoice{
			ClientID:      client.ID,
			InvoiceNumber: number,
			BillingPeriod: strings.TrimSpace(r["billing_period"]),
			TotalAmount:   total,
			PaidAmount:    paid,
			Status:        strings.TrimSpace(r["status"]),
			IssueDate:     strings.TrimSpace(r["issue_date"]),
			DueDate:       strings.TrimSpace(r["due_date"]),
			Description:   strings.TrimSpace(r["description"]),
		}
		err = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "invoice_number"}},
			DoNothing: true,
		}).Create(&invoice).Error
		if err != nil {
			slog.Error("Failed to load invoice", "invoice", number, "error", err)
			continue
		}
		loaded++
	}
	slog.Info("Invoices loaded", "count", loaded)
}

func loadTransactions(db *gorm.DB) {
	records := readCSV("transactions.csv")
	loaded := 0
	for _, r := range records {
		reference := strings.TrimSpace(r["transaction_reference"])
		if reference == "" {
			continue
		}

		var invoice models.Invoice
		if err := db.Where("invoice_number = ?", strings.TrimSpace(r["invoice_number"])).First(&invoice).Error; err != nil {
			slog.Warn("Skipping transaction without invoice", "reference", reference)
			continue
		}
		var platform models.Platform
		if err := db.Where("LOWER(name) = LOWER(?)", strings.TrimSpace(r["platform_name"])).First(&platform).Error; err != nil {
			slog.Warn("Skipping transaction with unknown platform", "reference", reference)
			continue
		}

		amount, err := decimal.NewFromString(strings.TrimSpace(r["amount"]))
		if err != nil {
			slog.Warn("Skipping transaction with invalid amount", "reference", reference)
			continue
		}

		transaction := models.Transaction{
			InvoiceID:  invoice.ID,
			PlatformID: platform.ID,
			Reference:  reference,
			Amount:     amount,
			Date:       strings.TrimSpace(r["date"]),
			Status:     strings.TrimSpace(r["status"]),
			Notes:      strings.TrimSpace(r["notes"]),
		}
		err = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "reference"}},
			DoNothing: true,
		}).Create(&transaction).Error
		if err != nil {
			slog.Error("Failed to load transaction", "reference", reference, "error", err)
			continue
		}
		loaded++
	}
	slog.Info("Transactions loaded", "count", loaded)
}
