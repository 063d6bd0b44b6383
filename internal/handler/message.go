package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"daily-bread/internal/logger"
	"daily-bread/internal/model"
	"daily-bread/internal/service"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messages *service.MessageService
	hub      *service.Hub
}

func NewMessageHandler(messages *service.MessageService, hub *service.Hub) *MessageHandler {
	return &MessageHandler{messages: messages, hub: hub}
}

// POST /api/messages
func (h *MessageHandler) Send(c *gin.Context) {
	var req model.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	uid := c.GetInt("user_id")
	msg, err := h.messages.Send(c.Request.Context(), uid, req.ToUserID, req.Body)
	if err != nil {
		logger.Error("send message failed", "from", uid, "to", req.ToUserID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send message"})
		return
	}
	c.JSON(http.StatusOK, msg)
}

// GET /api/messages/:peer
func (h *MessageHandler) Conversation(c *gin.Context) {
	peerID, err := strconv.Atoi(c.Param("peer"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid peer id"})
		return
	}

	uid := c.GetInt("user_id")
	msgs, err := h.messages.Conversation(c.Request.Context(), uid, peerID, 200)
	if err != nil {
		logger.Error("conversation failed", "uid", uid, "peer", peerID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load conversation"})
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// POST /api/messages/:id/read
func (h *MessageHandler) MarkRead(c *gin.Context) {
	msgID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	uid := c.GetInt("user_id")
	err = h.messages.MarkRead(c.Request.Context(), uid, msgID)
	if errors.Is(err, service.ErrNotRecipient) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your message"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not mark read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GET /api/events streams message and badge events for the session over SSE.
func (h *MessageHandler) Events(c *gin.Context) {
	uid := c.GetInt("user_id")
	id, ch := h.hub.Subscribe(uid)
	defer h.hub.Unsubscribe(uid, id)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	fmt.Fprintf(c.Writer, "event: ready\ndata: {}\n\n")
	flusher.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, open := <-ch:
			if !open {
				return
			}
			data, _ := json.Marshal(ev.Payload)
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", ev.Type, data)
			flusher.Flush()
		}
	}
}
