package api

import (
	"github.com/gin-gonic/gin"
)

// StreamingPaths lists every route whose response must bypass compression.
// Gzip output is buffered, so SSE fragments would sit in the compressor
// until the handler returns instead of reaching the client as they arrive;
// the WebSocket upgrade bypasses the normal response writer entirely.
var StreamingPaths = []string{
	"/api/generate",
	"/api/regenerate",
	"/api/image",
	"/api/chat",
	"/api/theme",
	"/api/idea/expand",
	"/api/idea/roadmap",
	"/api/fullstack",
	"/api/events",
	"/api/bridge",
}

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, h *Handlers) {
	// Auth routes (never gated)
	r.POST("/api/auth/login", h.Login)
	r.POST("/api/auth/logout", h.Logout)
	r.GET("/api/auth/mode", h.AuthMode)

	// Everything else sits behind the auth gate
	api := r.Group("/api", RequireAuth())

	// Synthesis (SSE)
	api.POST("/generate", h.Generate)
	api.POST("/regenerate", h.Regenerate)
	api.POST("/image", h.ImageToCode)
	api.POST("/chat", h.Chat)
	api.POST("/theme", h.Theme)
	api.POST("/refactor", h.Refactor)

	// Idea tooling
	api.POST("/idea/expand", h.ExpandIdea)
	api.POST("/idea/roadmap", h.Roadmap)
	api.POST("/idea/mockup", h.Mockup)
	api.POST("/fullstack", h.FullStack)

	// Session
	api.GET("/session", h.GetSession)
	api.POST("/session/code", h.SetCode)
	api.POST("/session/css", h.SetCSS)
	api.POST("/session/undo", h.Undo)
	api.POST("/session/redo", h.Redo)
	api.POST("/session/save", h.Save)
	api.POST("/session/new", h.NewProject)
	api.POST("/session/customize", h.SetCustomizeMode)
	api.POST("/session/element", h.EditElement)

	// Project history
	api.GET("/history", h.GetHistory)
	api.GET("/history/:id", h.GetHistoryRecord)
	api.POST("/history/:id/load", h.LoadHistory)
	api.DELETE("/history", h.ClearHistory)

	// Export
	api.GET("/export/html", h.ExportHTML)
	api.POST("/export/zip", h.ExportZip)
	api.POST("/export/parse", h.ParseFullStack)

	// Notifications (SSE)
	api.GET("/events", h.Events)

	// Preview bridge (WebSocket)
	api.GET("/bridge", h.Bridge)

	// Composed preview page
	r.GET("/preview", RequireAuth(), h.Preview)
}
