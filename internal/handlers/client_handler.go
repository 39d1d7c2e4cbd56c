// billing-api/internal/handlers/client_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"billing-api/config"
	"billing-api/models"
)

// --- request structures for CLIENTS ---

type ClientRequest struct {
	Name             string `json:"name" binding:"required"`
	DocumentNumber   string `json:"documentNumber"`
	Address          string `json:"address"`
	City             string `json:"city"`
	Phone            string `json:"phone"`
	Email            string `json:"email" binding:"required,email"`
	RegistrationDate string `json:"registrationDate"`
}

// --- handlers for CLIENTS ---

func ListClientsHandler(c *gin.Context) {
	var clients []models.Client
	var totalRows int64

	baseQuery := config.DB.Model(&models.Client{})

	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		baseQuery = baseQuery.Where(
			"LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(document_number) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	if err := baseQuery.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to count clients"})
		return
	}

	if err := baseQuery.Scopes(Paginate(c)).Order("created_at DESC").Find(&clients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch clients"})
		return
	}

	c.JSON(http.StatusOK, CreatePaginatedResponse(c, clients, totalRows))
}

func GetClientHandler(c *gin.Context) {
	var client models.Client
	if err := config.DB.First(&client, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Client not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch client"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": client})
}

func CreateClientHandler(c *gin.Context) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	client := models.Client{
		Name:             req.Name,
		DocumentNumber:   req.DocumentNumber,
		Address:          req.Address,
		City:             req.City,
		Phone:            req.Phone,
		Email:            req.Email,
		RegistrationDate: req.RegistrationDate,
	}

	if err := config.DB.Create(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Email already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create client"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": client})
}

func UpdateClientHandler(c *gin.Context) {
	var client models.Client
	if err := config.DB.First(&client, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Client not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch client"})
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	client.Name = req.Name
	client.DocumentNumber = req.DocumentNumber
	client.Address = req.Address
	client.City = req.City
	client.Phone = req.Phone
	client.Email = req.Email
	client.RegistrationDate = req.RegistrationDate

	if err := config.DB.Save(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Email already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update client"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": client})
}

// DeleteClientHandler removes a client together with its invoices and their
// transactions, in one transaction, so no orphan rows are left behind.
// Deletes are hard: the email, invoice numbers and transaction references
// must be free for re-creation or re-import afterwards.
func DeleteClientHandler(c *gin.Context) {
	clientID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid client ID"})
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to start transaction"})
		return
	}

	if err := tx.Unscoped().Where("invoice_id IN (?)",
		tx.Unscoped().Model(&models.Invoice{}).Select("id").Where("client_id = ?", clientID),
	).Delete(&models.Transaction{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to delete client transactions"})
		return
	}

	if err := tx.Unscoped().Where("client_id = ?", clientID).Delete(&models.Invoice{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to delete client invoices"})
		return
	}

	result := tx.Unscoped().Delete(&models.Client{}, clientID)
	if result.Error != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to delete client"})
		return
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Client not found"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Client and all associated data deleted successfully"})
}
