package handler

import (
	"net/http"

	"daily-bread/internal/logger"
	"daily-bread/internal/model"
	"daily-bread/internal/service"

	"github.com/gin-gonic/gin"
)

type DeviceHandler struct {
	push *service.PushService
}

func NewDeviceHandler(push *service.PushService) *DeviceHandler {
	return &DeviceHandler{push: push}
}

// POST /api/devices
func (h *DeviceHandler) Register(c *gin.Context) {
	var req model.RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	uid := c.GetInt("user_id")
	if err := h.push.RegisterDevice(c.Request.Context(), uid, req.Token, req.Platform); err != nil {
		logger.Error("register device failed", "uid", uid, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not register device"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
