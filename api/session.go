package api

import (
	"github.com/gin-gonic/gin"
)

// GetSession handles GET /api/session
func (h *Handlers) GetSession(c *gin.Context) {
	RespondData(c, h.session.State())
}

// SetCode handles POST /api/session/code. Rapid consecutive edits collapse
// into a single undo step after the commit window.
func (h *Handlers) SetCode(c *gin.Context) {
	var body struct {
		Code string `json:"code"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondBadRequest(c, "Invalid request body")
		return
	}
	h.session.SetDocument(body.Code)
	RespondNoContent(c)
}

// SetCSS handles POST /api/session/css
func (h *Handlers) SetCSS(c *gin.Context) {
	var body struct {
		CSS string `json:"css"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondBadRequest(c, "Invalid request body")
		return
	}
	h.session.SetCustomCSS(body.CSS)
	RespondNoContent(c)
}

// Undo handles POST /api/session/undo
func (h *Handlers) Undo(c *gin.Context) {
	moved := h.session.Undo()
	RespondData(c, gin.H{"moved": moved, "document": h.session.Document()})
}

// Redo handles POST /api/session/redo
func (h *Handlers) Redo(c *gin.Context) {
	moved := h.session.Redo()
	RespondData(c, gin.H{"moved": moved, "document": h.session.Document()})
}

// Save handles POST /api/session/save
func (h *Handlers) Save(c *gin.Context) {
	if err := h.session.Save(); err != nil {
		respondSessionError(c, err)
		return
	}
	RespondNoContent(c)
}

// NewProject handles POST /api/session/new
func (h *Handlers) NewProject(c *gin.Context) {
	if err := h.session.NewProject(); err != nil {
		respondSessionError(c, err)
		return
	}
	RespondNoContent(c)
}

// SetCustomizeMode handles POST /api/session/customize
func (h *Handlers) SetCustomizeMode(c *gin.Context) {
	var body struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondBadRequest(c, "Invalid request body")
		return
	}
	h.session.SetCustomizeMode(body.Enabled)
	RespondNoContent(c)
}

// EditElement handles POST /api/session/element
func (h *Handlers) EditElement(c *gin.Context) {
	var body struct {
		ID       string `json:"id"`
		Property string `json:"property"`
		Value    string `json:"value"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.ID == "" || body.Property == "" {
		RespondBadRequest(c, "Invalid request body")
		return
	}
	if err := h.session.ApplyElementEdit(body.ID, body.Property, body.Value); err != nil {
		respondSessionError(c, err)
		return
	}
	RespondData(c, gin.H{"document": h.session.Document()})
}
