// billing-api/internal/handlers/upload_handler.go
package handlers

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"billing-api/config"
	"billing-api/internal/importer"
)

// uploadsBaseDir returns the directory for temporary CSV uploads.
// Defaults to ./uploads when UPLOADS_DIR is not set.
func uploadsBaseDir() string {
	if v := os.Getenv("UPLOADS_DIR"); v != "" {
		return v
	}
	return "./uploads"
}

// BulkUploadHandler accepts a CSV file upload and runs the bulk loader over
// it. Infrastructure failures map to a 5xx response; everything else returns
// 200 with the row-by-row summary. The temporary file is removed on every
// exit path.
func BulkUploadHandler(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "CSV file is required"})
		return
	}

	dir := uploadsBaseDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		slog.Error("Failed to create uploads directory", "dir", dir, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to store uploaded file"})
		return
	}

	tmpPath := filepath.Join(dir, uuid.New().String()+".csv")
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		slog.Error("Failed to save uploaded file", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to store uploaded file"})
		return
	}
	defer func() {
		if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
			slog.Warn("Failed to remove temporary upload", "path", tmpPath, "error", err)
		}
	}()

	f, err := os.Open(tmpPath)
	if err != nil {
		slog.Error("Failed to reopen uploaded file", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to read uploaded file"})
		return
	}
	defer f.Close()

	records, err := importer.ReadRecords(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	result, err := importer.Run(config.DB, records)
	if err != nil {
		slog.Error("Bulk load aborted", "file", file.Filename, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	slog.Info("Bulk load finished", "file", file.Filename, "processed", result.Processed, "errors", result.Errors)
	c.JSON(http.StatusOK, result)
}
