// billing-api/internal/handlers/platform_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"billing-api/config"
	"billing-api/models"
)

// ListPlatformsHandler returns the payment platform lookup table. Platforms
// are seeded at startup and never written by the API.
func ListPlatformsHandler(c *gin.Context) {
	var platforms []models.Platform
	if err := config.DB.Order("name ASC").Find(&platforms).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch platforms"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": platforms})
}
