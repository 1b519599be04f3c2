package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CSVHandler handles tabular directory export requests
type CSVHandler struct {
	service CSVService
}

// Service interface for dependency injection
type CSVService interface {
	Generate(ctx context.Context) ([]byte, error)
}

// NewCSVHandler creates a new CSV handler
func NewCSVHandler(svc CSVService) *CSVHandler {
	return &CSVHandler{service: svc}
}

// ExportCSV handles GET /api/export-csv requests
func (h *CSVHandler) ExportCSV(c *gin.Context) {
	csvBytes, err := h.service.Generate(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate CSV"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="international_locations.csv"`)
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Data(http.StatusOK, "text/csv", csvBytes)
}
