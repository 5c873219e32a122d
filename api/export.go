package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zecrev/codez/export"
	"github.com/zecrev/codez/log"
	"github.com/zecrev/codez/preview"
)

// ExportHTML handles GET /api/export/html. The download carries the custom
// stylesheet baked in but never the inspector.
func (h *Handlers) ExportHTML(c *gin.Context) {
	doc := h.session.Document()
	if doc == "" {
		RespondBadRequest(c, "No document to export")
		return
	}

	out := preview.ComposePlain(doc, h.session.CustomCSS())

	c.Header("Content-Disposition", `attachment; filename="zecrev-codez-site.html"`)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(out))
}

// ExportZip handles POST /api/export/zip. The body carries the full-stack
// markdown; every file block becomes one archive entry.
func (h *Handlers) ExportZip(c *gin.Context) {
	var body struct {
		Markdown string `json:"markdown"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Markdown) == "" {
		RespondBadRequest(c, "Invalid request body")
		return
	}

	project := export.ParseProject(body.Markdown)
	if len(project.Files) == 0 {
		RespondBadRequest(c, "No file blocks found in markdown")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="zecrev-codez-project.zip"`)
	c.Header("Content-Type", "application/zip")
	c.Status(http.StatusOK)

	if err := export.Zip(c.Request.Context(), c.Writer, project); err != nil {
		// Headers are already sent; all we can do is log and drop the stream
		log.Error().Err(err).Msg("failed to build archive")
	}
}

// ParseFullStack handles POST /api/export/parse, returning the structured
// view of a full-stack markdown response
func (h *Handlers) ParseFullStack(c *gin.Context) {
	var body struct {
		Markdown string `json:"markdown"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondBadRequest(c, "Invalid request body")
		return
	}
	RespondData(c, export.ParseProject(body.Markdown))
}
