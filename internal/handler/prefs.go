package handler

import (
	"net/http"
	"strconv"

	"daily-bread/internal/calendar"
	"daily-bread/internal/service"

	"github.com/gin-gonic/gin"
)

type PrefsHandler struct {
	prefs    *service.PrefsService
	resolver *calendar.Resolver
}

func NewPrefsHandler(prefs *service.PrefsService, resolver *calendar.Resolver) *PrefsHandler {
	return &PrefsHandler{prefs: prefs, resolver: resolver}
}

// GET /api/prefs/:name
func (h *PrefsHandler) GetPref(c *gin.Context) {
	uid := c.GetInt("user_id")
	name := c.Param("name")

	value, ok, err := h.prefs.Pref(c.Request.Context(), uid, name)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "preferences unavailable"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not set"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": name, "value": value})
}

// PUT /api/prefs/:name
func (h *PrefsHandler) PutPref(c *gin.Context) {
	var req struct {
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	uid := c.GetInt("user_id")
	if err := h.prefs.SetPref(c.Request.Context(), uid, c.Param("name"), req.Value); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "preferences unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Drafts are scoped to (unit, day); the day defaults to today and may be
// overridden with ?date=YYYY-MM-DD.
func (h *PrefsHandler) draftScope(c *gin.Context) (userID, unitID int, day calendar.Day, ok bool) {
	unitID, err := strconv.Atoi(c.Param("unit"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid unit id"})
		return 0, 0, calendar.Day{}, false
	}
	day = h.resolver.Today()
	if ds := c.Query("date"); ds != "" {
		day, err = calendar.ParseDay(ds)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return 0, 0, calendar.Day{}, false
		}
	}
	return c.GetInt("user_id"), unitID, day, true
}

// GET /api/drafts/:unit
func (h *PrefsHandler) GetDraft(c *gin.Context) {
	uid, unitID, day, ok := h.draftScope(c)
	if !ok {
		return
	}

	text, found, err := h.prefs.Draft(c.Request.Context(), uid, unitID, day)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "drafts unavailable"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no draft"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text, "day": day.String()})
}

// PUT /api/drafts/:unit
func (h *PrefsHandler) PutDraft(c *gin.Context) {
	uid, unitID, day, ok := h.draftScope(c)
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.prefs.SaveDraft(c.Request.Context(), uid, unitID, day, req.Text); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "drafts unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DELETE /api/drafts/:unit
func (h *PrefsHandler) DeleteDraft(c *gin.Context) {
	uid, unitID, day, ok := h.draftScope(c)
	if !ok {
		return
	}
	if err := h.prefs.ClearDraft(c.Request.Context(), uid, unitID, day); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "drafts unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
