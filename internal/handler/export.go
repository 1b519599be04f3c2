package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"mailbox-directory-api/internal/models"
	"mailbox-directory-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ExportHandler handles PDF export requests
type ExportHandler struct {
	service ExportService
}

// Service interface for dependency injection
type ExportService interface {
	ExportCountry(ctx context.Context, name string, opts service.ExportOptions) ([]byte, error)
	ExportAllInternational(ctx context.Context, opts service.ExportOptions) ([]byte, error)
}

// NewExportHandler creates a new export handler
func NewExportHandler(svc ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

type exportRequest struct {
	Name          string `json:"name"`
	RichMap       *bool  `json:"rich_map"`
	PriceIncluded *bool  `json:"price_included"`
}

func (r exportRequest) options() service.ExportOptions {
	opts := service.ExportOptions{RichMap: true, PriceIncluded: true}
	if r.RichMap != nil {
		opts.RichMap = *r.RichMap
	}
	if r.PriceIncluded != nil {
		opts.PriceIncluded = *r.PriceIncluded
	}
	return opts
}

// ExportPDF handles POST /api/export-pdf requests for one country or US state
func (h *ExportHandler) ExportPDF(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required field 'name'"})
		return
	}

	pdfBytes, err := h.service.ExportCountry(c.Request.Context(), req.Name, req.options())
	if err != nil {
		writeExportError(c, err)
		return
	}

	writePDF(c, pdfBytes, "mailbox_directory_"+fileSlug(req.Name)+".pdf")
}

// ExportAllPDF handles POST /api/export-all-pdf requests covering every
// international country
func (h *ExportHandler) ExportAllPDF(c *gin.Context) {
	// The body is optional here; an empty body means default options.
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	pdfBytes, err := h.service.ExportAllInternational(c.Request.Context(), req.options())
	if err != nil {
		writeExportError(c, err)
		return
	}

	writePDF(c, pdfBytes, "mailbox_directory_all_international.pdf")
}

func writePDF(c *gin.Context, pdfBytes []byte, filename string) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// writeExportError maps error kinds to HTTP responses: missing data is a 404,
// a print timeout is a 408 with a hint to retry without the remote map
// strategy, everything else is a 500.
func writeExportError(c *gin.Context, err error) {
	var notFound *models.NotFoundError
	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.Is(err, models.ErrRenderTimeout) || errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusRequestTimeout, gin.H{
			"error":   "PDF generation timed out. Retry with rich_map=false or try again later.",
			"details": err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to generate PDF",
			"details": err.Error(),
		})
	}
}

func fileSlug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}
