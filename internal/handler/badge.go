package handler

import (
	"net/http"

	"daily-bread/internal/logger"
	"daily-bread/internal/service"

	"github.com/gin-gonic/gin"
)

type BadgeHandler struct {
	badges *service.BadgeService
}

func NewBadgeHandler(badges *service.BadgeService) *BadgeHandler {
	return &BadgeHandler{badges: badges}
}

// GET /api/badges returns the full catalog plus which ones this user earned.
func (h *BadgeHandler) List(c *gin.Context) {
	uid := c.GetInt("user_id")
	earned, err := h.badges.ListForUser(c.Request.Context(), uid)
	if err != nil {
		logger.Error("list badges failed", "uid", uid, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load badges"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"catalog": service.BadgeCatalog,
		"earned":  earned,
	})
}
