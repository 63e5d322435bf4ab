package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/notegen-api/internal/logger"
	"github.com/Conceptual-Machines/notegen-api/internal/metrics"
	"github.com/Conceptual-Machines/notegen-api/internal/services"
)

// maxImportSize caps uploaded import files at 8 MiB.
const maxImportSize = 8 << 20

type ImportExportHandler struct {
	service *services.ImportExportService
	metrics *metrics.Client
}

func NewImportExportHandler(service *services.ImportExportService, m *metrics.Client) *ImportExportHandler {
	return &ImportExportHandler{service: service, metrics: m}
}

// Export streams a collection as a JSON or CSV attachment
func (h *ImportExportHandler) Export(c *gin.Context) {
	collection := c.Param("collection")
	format := c.DefaultQuery("format", services.FormatJSON)

	var buf bytes.Buffer
	filename, err := h.service.Export(c.Request.Context(), collection, format, &buf)
	if err != nil {
		if errors.Is(err, services.ErrUnknownCollection) || errors.Is(err, services.ErrUnknownFormat) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Export failed", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Export failed"})
		return
	}

	contentType := "application/json"
	if format == services.FormatCSV {
		contentType = "text/csv"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// Import reads an uploaded JSON or CSV file into a collection. Bad
// records are skipped and reported; the response always carries the
// full batch report.
func (h *ImportExportHandler) Import(c *gin.Context) {
	collection := c.Param("collection")
	if !services.ValidCollection(collection) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown collection: " + collection})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file upload required"})
		return
	}
	if fileHeader.Size > maxImportSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	format := strings.TrimPrefix(filepath.Ext(fileHeader.Filename), ".")
	if format != services.FormatJSON && format != services.FormatCSV {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file must be .json or .csv"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not open upload"})
		return
	}
	defer file.Close()

	report, err := h.service.Import(c.Request.Context(), collection, format, file)
	if err != nil {
		logger.Error("Import failed", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Import failed"})
		return
	}

	h.metrics.RecordImport(collection, report.Imported, report.Skipped)
	c.JSON(http.StatusOK, report)
}

// Stats returns per-collection document counts
func (h *ImportExportHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		logger.Error("Stats query failed", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to gather stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"collections": stats})
}

// PatternsList returns every stored pattern name, grouped by collection
func (h *ImportExportHandler) PatternsList(c *gin.Context) {
	names, err := h.service.PatternNames(c.Request.Context())
	if err != nil {
		logger.Error("Pattern list query failed", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list patterns"})
		return
	}
	c.JSON(http.StatusOK, names)
}
