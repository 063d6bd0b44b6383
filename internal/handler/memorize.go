package handler

import (
	"net/http"

	"daily-bread/internal/model"
	"daily-bread/internal/service"

	"github.com/gin-gonic/gin"
)

type MemorizeHandler struct {
	memorize *service.MemorizeService
}

func NewMemorizeHandler(memorize *service.MemorizeService) *MemorizeHandler {
	return &MemorizeHandler{memorize: memorize}
}

// POST /api/memorize/validate
func (h *MemorizeHandler) Validate(c *gin.Context) {
	var req model.ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	// Validate degrades to a fail-safe result internally, never an error.
	v := h.memorize.Validate(c.Request.Context(), req.OriginalText, req.UserText, req.Reference)
	c.JSON(http.StatusOK, v)
}
