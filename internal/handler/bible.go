package handler

import (
	"errors"
	"net/http"
	"strconv"

	"daily-bread/internal/service"

	"github.com/gin-gonic/gin"
)

type BibleHandler struct {
	bible *service.BibleService
}

func NewBibleHandler(bible *service.BibleService) *BibleHandler {
	return &BibleHandler{bible: bible}
}

// GET /api/bible/:book/:chapter
func (h *BibleHandler) Chapter(c *gin.Context) {
	book := c.Param("book")
	chapter, err := strconv.Atoi(c.Param("chapter"))
	if err != nil || chapter < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chapter"})
		return
	}

	ch, err := h.bible.GetChapter(c.Request.Context(), book, chapter)
	if errors.Is(err, service.ErrUpstreamExhausted) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "scripture providers unavailable, try again later"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "scripture lookup failed"})
		return
	}
	c.JSON(http.StatusOK, ch)
}
