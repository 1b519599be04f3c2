package handler

import (
	"context"
	"net/http"

	"mailbox-directory-api/internal/repository"

	"github.com/gin-gonic/gin"
)

// ValidateHandler handles source-corpus validation requests
type ValidateHandler struct {
	service ValidateService
}

// Service interface for dependency injection
type ValidateService interface {
	ValidateCorpus(ctx context.Context) []repository.FileReport
}

// NewValidateHandler creates a new validate handler
func NewValidateHandler(svc ValidateService) *ValidateHandler {
	return &ValidateHandler{service: svc}
}

// Validate handles GET /api/validate requests
func (h *ValidateHandler) Validate(c *gin.Context) {
	results := h.service.ValidateCorpus(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"results": results})
}
