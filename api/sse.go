package api

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zecrev/codez/log"
	"github.com/zecrev/codez/notifications"
)

// sseWriter streams synthesis chunks as server-sent events. Headers are
// written lazily on the first chunk, so errors raised before any output
// can still use a plain JSON status response.
type sseWriter struct {
	c       *gin.Context
	started bool
}

func newSSEWriter(c *gin.Context) *sseWriter {
	return &sseWriter{c: c}
}

func (w *sseWriter) begin() {
	if w.started {
		return
	}
	w.started = true
	w.c.Header("Content-Type", "text/event-stream")
	w.c.Header("Cache-Control", "no-cache")
	w.c.Header("Connection", "keep-alive")
	w.c.Header("X-Accel-Buffering", "no") // Disable nginx buffering
	w.c.Writer.Flush()
}

// Chunk sends one streamed text fragment
func (w *sseWriter) Chunk(text string) {
	w.begin()
	w.event("chunk", gin.H{"text": text})
}

// Done closes the stream with the finalized payload
func (w *sseWriter) Done(payload any) {
	w.begin()
	w.event("done", payload)
}

// Fail reports a stream-level failure. Started reports whether any SSE
// output was already written; callers fall back to JSON when it is false.
func (w *sseWriter) Fail(message string) {
	w.event("error", gin.H{"message": message})
}

func (w *sseWriter) Started() bool {
	return w.started
}

func (w *sseWriter) event(name string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal SSE payload")
		return
	}
	fmt.Fprintf(w.c.Writer, "event: %s\ndata: %s\n\n", name, data)
	w.c.Writer.Flush()
}

// Events handles GET /api/events (SSE)
func (h *Handlers) Events(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	events, unsubscribe := h.notifs.Subscribe()
	defer unsubscribe()

	sendEvent(c, notifications.Event{
		Type:      notifications.EventConnected,
		Timestamp: time.Now().UnixMilli(),
	})

	log.Debug().Msg("client connected to event stream")

	// Heartbeat ticker
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			sendEvent(c, event)

		case <-ticker.C:
			fmt.Fprintf(c.Writer, ": heartbeat\n\n")
			c.Writer.Flush()

		case <-c.Request.Context().Done():
			log.Debug().Msg("client disconnected from event stream")
			return
		}
	}
}

func sendEvent(c *gin.Context, event notifications.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal event")
		return
	}
	fmt.Fprintf(c.Writer, "data: %s\n\n", data)
	c.Writer.Flush()
}
