// billing-api/internal/handlers/invoice_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"billing-api/config"
	"billing-api/models"
)

type InvoiceRequest struct {
	ClientID      uint            `json:"clientId" binding:"required"`
	InvoiceNumber string          `json:"invoiceNumber" binding:"required"`
	BillingPeriod string          `json:"billingPeriod"`
	TotalAmount   decimal.Decimal `json:"totalAmount" binding:"required"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	Status        string          `json:"status"`
	IssueDate     string          `json:"issueDate"`
	DueDate       string          `json:"dueDate"`
	Description   string          `json:"description"`
}

func ListInvoicesHandler(c *gin.Context) {
	var invoices []models.Invoice
	var totalRows int64

	baseQuery := config.DB.Model(&models.Invoice{})

	if status := c.Query("status"); status != "" {
		baseQuery = baseQuery.Where("status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		baseQuery = baseQuery.Where("LOWER(invoice_number) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	if err := baseQuery.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to count invoices"})
		return
	}

	if err := baseQuery.Preload("Client").Scopes(Paginate(c)).Order("created_at DESC").Find(&invoices).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch invoices"})
		return
	}

	c.JSON(http.StatusOK, CreatePaginatedResponse(c, invoices, totalRows))
}

func GetInvoiceHandler(c *gin.Context) {
	var invoice models.Invoice
	err := config.DB.Preload("Client").Preload("Transactions").First(&invoice, c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Invoice not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch invoice"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": invoice})
}

func CreateInvoiceHandler(c *gin.Context) {
	var req InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	var client models.Client
	if err := config.DB.First(&client, req.ClientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Client does not exist"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to look up client"})
		return
	}

	invoice := models.Invoice{
		ClientID:      req.ClientID,
		InvoiceNumber: req.InvoiceNumber,
		BillingPeriod: req.BillingPeriod,
		TotalAmount:   req.TotalAmount,
		PaidAmount:    req.PaidAmount,
		Status:        req.Status,
		IssueDate:     req.IssueDate,
		DueDate:       req.DueDate,
		Description:   req.Description,
	}

	if err := config.DB.Create(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invoice number already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create invoice"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": invoice})
}

func UpdateInvoiceHandler(c *gin.Context) {
	var invoice models.Invoice
	if err := config.DB.First(&invoice, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Invoice not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch invoice"})
		return
	}

	var req InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	invoice.ClientID = req.ClientID
	invoice.InvoiceNumber = req.InvoiceNumber
	invoice.BillingPeriod = req.BillingPeriod
	invoice.TotalAmount = req.TotalAmount
	invoice.PaidAmount = req.PaidAmount
	invoice.Status = req.Status
	invoice.IssueDate = req.IssueDate
	invoice.DueDate = req.DueDate
	invoice.Description = req.Description

	if err := config.DB.Save(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invoice number already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update invoice"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": invoice})
}

func DeleteInvoiceHandler(c *gin.Context) {
	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to start transaction"})
		return
	}

	if err := tx.Unscoped().Where("invoice_id = ?", c.Param("id")).Delete(&models.Transaction{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to delete invoice transactions"})
		return
	}

	result := tx.Unscoped().Delete(&models.Invoice{}, c.Param("id"))
	if result.Error != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to delete invoice"})
		return
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Invoice not found"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Invoice deleted successfully"})
}
