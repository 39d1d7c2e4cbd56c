// billing-api/internal/handlers/transaction_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"billing-api/config"
	"billing-api/models"
)

type TransactionRequest struct {
	InvoiceID  uint            `json:"invoiceId" binding:"required"`
	PlatformID uint            `json:"platformId" binding:"required"`
	Reference  string          `json:"reference" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Date       string          `json:"date"`
	Status     string          `json:"status"`
	Notes      string          `json:"notes"`
}

func ListTransactionsHandler(c *gin.Context) {
	var transactions []models.Transaction
	var totalRows int64

	baseQuery := config.DB.Model(&models.Transaction{})

	if status := c.Query("status"); status != "" {
		baseQuery = baseQuery.Where("status = ?", status)
	}

	if err := baseQuery.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to count transactions"})
		return
	}

	err := baseQuery.Preload("Invoice").Preload("Platform").
		Scopes(Paginate(c)).Order("created_at DESC").Find(&transactions).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch transactions"})
		return
	}

	c.JSON(http.StatusOK, CreatePaginatedResponse(c, transactions, totalRows))
}

func GetTransactionHandler(c *gin.Context) {
	var transaction models.Transaction
	err := config.DB.Preload("Invoice").Preload("Platform").First(&transaction, c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Transaction not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch transaction"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": transaction})
}

func CreateTransactionHandler(c *gin.Context) {
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if err := config.DB.First(&models.Invoice{}, req.InvoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invoice does not exist"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to look up invoice"})
		return
	}
	if err := config.DB.First(&models.Platform{}, req.PlatformID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Platform does not exist"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to look up platform"})
		return
	}

	transaction := models.Transaction{
		InvoiceID:  req.InvoiceID,
		PlatformID: req.PlatformID,
		Reference:  req.Reference,
		Amount:     req.Amount,
		Date:       req.Date,
		Status:     req.Status,
		Notes:      req.Notes,
	}

	if err := config.DB.Create(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Transaction reference already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create transaction"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": transaction})
}

func DeleteTransactionHandler(c *gin.Context) {
	result := config.DB.Unscoped().Delete(&models.Transaction{}, c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to delete transaction"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Transaction not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Transaction deleted successfully"})
}
