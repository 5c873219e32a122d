package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetHistory handles GET /api/history
func (h *Handlers) GetHistory(c *gin.Context) {
	RespondList(c, h.store.All())
}

// LoadHistory handles POST /api/history/:id/load
func (h *Handlers) LoadHistory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondBadRequest(c, "Invalid history id")
		return
	}

	if h.store.Get(id) == nil {
		RespondNotFound(c, "History record not found")
		return
	}

	if err := h.session.LoadRecord(id); err != nil {
		respondSessionError(c, err)
		return
	}
	RespondData(c, h.session.State())
}

// GetHistoryRecord handles GET /api/history/:id
func (h *Handlers) GetHistoryRecord(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondBadRequest(c, "Invalid history id")
		return
	}

	rec := h.store.Get(id)
	if rec == nil {
		RespondNotFound(c, "History record not found")
		return
	}
	RespondData(c, *rec)
}

// ClearHistory handles DELETE /api/history
func (h *Handlers) ClearHistory(c *gin.Context) {
	if err := h.store.Clear(); err != nil {
		RespondInternalError(c, "Failed to clear history")
		return
	}
	h.notifs.Publish("history-changed", nil)
	RespondNoContent(c)
}
