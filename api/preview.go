package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zecrev/codez/log"
	"github.com/zecrev/codez/preview"
)

// Preview handles GET /preview: the composed document with the custom
// stylesheet and the element inspector injected.
func (h *Handlers) Preview(c *gin.Context) {
	doc := h.session.Document()
	if doc == "" {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(emptyPreview))
		return
	}

	out := preview.Compose(doc, h.session.CustomCSS())

	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(out))
}

// Bridge handles GET /api/bridge: the preview's WebSocket connection.
// The HTTP logger must not touch the hijacked connection afterwards.
func (h *Handlers) Bridge(c *gin.Context) {
	log.MarkHijacked(c)
	h.bridge.Serve(c.Writer, c.Request)
}

const emptyPreview = `<!DOCTYPE html>
<html>
<head><title>Preview</title></head>
<body style="font-family: sans-serif; color: #6b7280; display: flex; align-items: center; justify-content: center; height: 100vh; margin: 0;">
<p>Nothing to preview yet. Generate a website to get started.</p>
</body>
</html>`
