// billing-api/internal/handlers/report_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"billing-api/config"
)

const reportCacheTTL = 60 * time.Second

// CustomerPaymentRow is one line of the "total paid per customer" report.
// Amounts scan into decimal.Decimal like the model columns they come from,
// so aggregated values serialize without float noise.
type CustomerPaymentRow struct {
	ClientID      uint            `json:"clientId"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	TotalPaid     decimal.Decimal `json:"totalPaid"`
	TotalInvoices int64           `json:"totalInvoices"`
}

type PendingInvoiceRow struct {
	InvoiceID          uint            `json:"invoiceId"`
	InvoiceNumber      string          `json:"invoiceNumber"`
	TotalAmount        decimal.Decimal `json:"totalAmount"`
	PaidAmount         decimal.Decimal `json:"paidAmount"`
	PendingAmount      decimal.Decimal `json:"pendingAmount"`
	DueDate            string          `json:"dueDate"`
	CustomerName       string          `json:"customerName"`
	Email              string          `json:"email"`
	Phone              string          `json:"phone"`
	RecentTransactions string          `json:"recentTransactions"`
}

type PlatformTransactionRow struct {
	TransactionID uint            `json:"transactionId"`
	Reference     string          `json:"reference"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date"`
	Status        string          `json:"status"`
	PlatformName  string          `json:"platformName"`
	CustomerName  string          `json:"customerName"`
	Email         string          `json:"email"`
	InvoiceNumber string          `json:"invoiceNumber"`
	InvoiceTotal  decimal.Decimal `json:"invoiceTotal"`
	Notes         string          `json:"notes"`
}

// serveCachedReport answers the request from the redis cache when possible,
// otherwise runs fetch and stores the result. A nil redis client disables
// caching entirely; it never fails a request.
func serveCachedReport(c *gin.Context, cacheKey string, fetch func() (interface{}, error)) {
	if config.RDB != nil {
		cached, err := config.RDB.Get(config.Ctx, cacheKey).Result()
		if err == nil {
			c.Data(http.StatusOK, "application/json", []byte(cached))
			return
		}
		if err != redis.Nil {
			slog.Error("Redis GET command failed", "key", cacheKey, "error", err)
		}
	}

	data, err := fetch()
	if err != nil {
		slog.Error("Report query failed", "key", cacheKey, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to build report"})
		return
	}

	payload, err := json.Marshal(gin.H{"success": true, "data": data})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to encode report"})
		return
	}

	if config.RDB != nil {
		if err := config.RDB.Set(config.Ctx, cacheKey, payload, reportCacheTTL).Err(); err != nil {
			slog.Warn("Failed to cache report", "key", cacheKey, "error", err)
		}
	}

	c.Data(http.StatusOK, "application/json", payload)
}

func fetchCustomerPayments() ([]CustomerPaymentRow, error) {
	var rows []CustomerPaymentRow
	err := config.DB.Table("clients").
		Select(`
			clients.id as client_id,
			clients.name,
			clients.email,
			COALESCE(SUM(invoices.paid_amount), 0) as total_paid,
			COUNT(invoices.id) as total_invoices
		`).
		Joins("LEFT JOIN invoices ON invoices.client_id = clients.id AND invoices.deleted_at IS NULL").
		Where("clients.deleted_at IS NULL").
		Group("clients.id, clients.name, clients.email").
		Order("total_paid DESC").
		Scan(&rows).Error
	if rows == nil {
		rows = make([]CustomerPaymentRow, 0)
	}
	return rows, err
}

// CustomerPaymentsReportHandler reports the total paid and invoice count per
// client.
func CustomerPaymentsReportHandler(c *gin.Context) {
	serveCachedReport(c, "report:customer-payments", func() (interface{}, error) {
		rows, err := fetchCustomerPayments()
		return rows, err
	})
}

// PendingInvoicesReportHandler lists unpaid and partially paid invoices with
// client contact data and their completed transactions.
func PendingInvoicesReportHandler(c *gin.Context) {
	serveCachedReport(c, "report:pending-invoices", func() (interface{}, error) {
		var rows []PendingInvoiceRow
		err := config.DB.Table("invoices i").
			Select(`
				i.id as invoice_id,
				i.invoice_number,
				i.total_amount,
				i.paid_amount,
				(i.total_amount - i.paid_amount) as pending_amount,
				i.due_date,
				c.name as customer_name,
				c.email,
				c.phone,
				COALESCE(STRING_AGG(p.name || ': $' || t.amount::text, '; ' ORDER BY t.date DESC), '') as recent_transactions
			`).
			Joins("INNER JOIN clients c ON i.client_id = c.id").
			Joins("LEFT JOIN transactions t ON t.invoice_id = i.id AND t.status = 'completed' AND t.deleted_at IS NULL").
			Joins("LEFT JOIN platforms p ON t.platform_id = p.id").
			Where("i.status IN ('pending', 'partial', 'overdue')").
			Where("i.deleted_at IS NULL").
			Group("i.id, i.invoice_number, i.total_amount, i.paid_amount, i.due_date, c.name, c.email, c.phone").
			Order("i.due_date ASC").
			Scan(&rows).Error
		if rows == nil {
			rows = make([]PendingInvoiceRow, 0)
		}
		return rows, err
	})
}

// TransactionsByPlatformReportHandler lists transactions with their platform,
// invoice and client context. An optional ?platform= query filters by
// platform name, case-insensitively.
func TransactionsByPlatformReportHandler(c *gin.Context) {
	platform := c.Query("platform")
	cacheKey := "report:transactions-by-platform"
	if platform != "" {
		cacheKey = fmt.Sprintf("%s:%s", cacheKey, platform)
	}

	serveCachedReport(c, cacheKey, func() (interface{}, error) {
		var rows []PlatformTransactionRow
		query := config.DB.Table("transactions t").
			Select(`
				t.id as transaction_id,
				t.reference,
				t.amount,
				t.date,
				t.status,
				p.name as platform_name,
				c.name as customer_name,
				c.email,
				i.invoice_number,
				i.total_amount as invoice_total,
				t.notes
			`).
			Joins("INNER JOIN platforms p ON t.platform_id = p.id").
			Joins("INNER JOIN invoices i ON t.invoice_id = i.id").
			Joins("INNER JOIN clients c ON i.client_id = c.id").
			Where("t.deleted_at IS NULL")

		if platform != "" {
			query = query.Where("LOWER(p.name) = LOWER(?)", platform)
		}

		err := query.Order("t.date DESC").Scan(&rows).Error
		if rows == nil {
			rows = make([]PlatformTransactionRow, 0)
		}
		return rows, err
	})
}

// ExportCustomerPaymentsHandler streams the customer payments report as an
// XLSX workbook.
func ExportCustomerPaymentsHandler(c *gin.Context) {
	rows, err := fetchCustomerPayments()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch data for export"})
		return
	}

	f := excelize.NewFile()
	sheetName := "Customer payments"
	index, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Client ID", "Name", "Email", "Total paid", "Total invoices"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, r := range rows {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.ClientID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), r.Email)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), r.TotalPaid.String())
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), r.TotalInvoices)
	}

	fileName := fmt.Sprintf("customer_payments_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to write Excel file"})
	}
}
