package handler

import (
	"errors"
	"net/http"
	"sort"

	"daily-bread/internal/calendar"
	"daily-bread/internal/logger"
	"daily-bread/internal/model"
	"daily-bread/internal/service"

	"github.com/gin-gonic/gin"
)

type CompletionHandler struct {
	completions *service.CompletionService
	badges      *service.BadgeService
	resolver    *calendar.Resolver
}

func NewCompletionHandler(completions *service.CompletionService, badges *service.BadgeService, resolver *calendar.Resolver) *CompletionHandler {
	return &CompletionHandler{completions: completions, badges: badges, resolver: resolver}
}

// POST /api/completions
func (h *CompletionHandler) Record(c *gin.Context) {
	var req model.CompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	uid := c.GetInt("user_id")
	ctx := c.Request.Context()

	rec, err := h.completions.Record(ctx, uid, req.ContentUnitID, service.CompletionFields{
		ElapsedSeconds: req.ElapsedSeconds,
		Reflection:     req.Reflection,
		Application:    req.Application,
	})
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	case errors.Is(err, service.ErrNoContent):
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown content unit"})
		return
	case err != nil:
		logger.Error("record completion failed", "uid", uid, "unit", req.ContentUnitID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not record completion"})
		return
	}

	awarded, err := h.badges.EvaluateAfterCompletion(ctx, uid)
	if err != nil {
		// the completion itself is durable; badge evaluation reruns next time
		logger.Warn("badge evaluation failed", "uid", uid, "err", err)
	}

	c.JSON(http.StatusOK, gin.H{"completion": rec, "new_badges": awarded})
}

// GET /api/progress/day/:date
func (h *CompletionHandler) DayProgress(c *gin.Context) {
	day, err := calendar.ParseDay(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	uid := c.GetInt("user_id")
	state, err := h.completions.DayState(c.Request.Context(), uid, day)
	if err != nil {
		logger.Error("day state failed", "uid", uid, "day", day.String(), "err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "progress temporarily unavailable"})
		return
	}
	c.JSON(http.StatusOK, state)
}

// GET /api/progress/week
func (h *CompletionHandler) WeekProgress(c *gin.Context) {
	uid := c.GetInt("user_id")
	bounds := h.resolver.ThisWeek()

	days, err := h.completions.WeekMap(c.Request.Context(), uid, bounds)
	if err != nil {
		logger.Error("week map failed", "uid", uid, "err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "progress temporarily unavailable"})
		return
	}

	indices := make([]int, 0, len(days))
	for wd := range days {
		indices = append(indices, int(wd))
	}
	sort.Ints(indices)

	c.JSON(http.StatusOK, gin.H{
		"week_start": bounds.Start.Format("2006-01-02"),
		"week_end":   bounds.End.Format("2006-01-02"),
		"days":       indices,
	})
}
