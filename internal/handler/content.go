package handler

import (
	"errors"
	"net/http"

	"daily-bread/internal/calendar"
	"daily-bread/internal/logger"
	"daily-bread/internal/service"

	"github.com/gin-gonic/gin"
)

type ContentHandler struct {
	content     *service.ContentService
	completions *service.CompletionService
	resolver    *calendar.Resolver
}

func NewContentHandler(content *service.ContentService, completions *service.CompletionService, resolver *calendar.Resolver) *ContentHandler {
	return &ContentHandler{content: content, completions: completions, resolver: resolver}
}

// GET /api/today
func (h *ContentHandler) Today(c *gin.Context) {
	h.respondForDay(c, h.resolver.Today())
}

// GET /api/content/:date
func (h *ContentHandler) ForDate(c *gin.Context) {
	day, err := calendar.ParseDay(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}
	h.respondForDay(c, day)
}

func (h *ContentHandler) respondForDay(c *gin.Context, day calendar.Day) {
	uid := c.GetInt("user_id")
	ctx := c.Request.Context()

	content, err := h.content.ForDay(ctx, day)
	if errors.Is(err, service.ErrNoContent) {
		// expected: content not authored yet, render an empty state
		c.JSON(http.StatusNotFound, gin.H{"day": day.String(), "error": "no content assigned"})
		return
	}
	if err != nil {
		logger.Error("content lookup failed", "day", day.String(), "err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "content temporarily unavailable"})
		return
	}

	state, err := h.completions.DayState(ctx, uid, day)
	if err != nil {
		logger.Error("day state failed", "uid", uid, "day", day.String(), "err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "progress temporarily unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"day":     day.String(),
		"content": content,
		"state":   state,
	})
}
