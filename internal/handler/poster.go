package handler

import (
	"context"

	"github.com/gin-gonic/gin"
)

// PosterHandler handles the overview map-poster export requests
type PosterHandler struct {
	service PosterService
}

// Service interface for dependency injection
type PosterService interface {
	USMapPDF(ctx context.Context) ([]byte, error)
	WorldMapPDF(ctx context.Context) ([]byte, error)
}

// NewPosterHandler creates a new poster handler
func NewPosterHandler(svc PosterService) *PosterHandler {
	return &PosterHandler{service: svc}
}

// USMapPDF handles POST /api/generate-us-map-pdf requests
func (h *PosterHandler) USMapPDF(c *gin.Context) {
	pdfBytes, err := h.service.USMapPDF(c.Request.Context())
	if err != nil {
		writeExportError(c, err)
		return
	}
	writePDF(c, pdfBytes, "us-locations-map.pdf")
}

// WorldMapPDF handles POST /api/generate-world-map-pdf requests
func (h *PosterHandler) WorldMapPDF(c *gin.Context) {
	pdfBytes, err := h.service.WorldMapPDF(c.Request.Context())
	if err != nil {
		writeExportError(c, err)
		return
	}
	writePDF(c, pdfBytes, "world-locations-heatmap.pdf")
}
