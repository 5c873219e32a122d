package api

import (
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zecrev/codez/log"
	"github.com/zecrev/codez/session"
	"github.com/zecrev/codez/synth"
)

// Generate handles POST /api/generate (SSE)
// Prompts starting with "clone:" are treated as website clone requests.
func (h *Handlers) Generate(c *gin.Context) {
	var body struct {
		Prompt string `json:"prompt"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondBadRequest(c, "Invalid request body")
		return
	}

	w := newSSEWriter(c)
	err := h.session.Generate(c.Request.Context(), body.Prompt, w.Chunk)
	h.finishStream(c, w, err, func() any {
		return gin.H{"document": h.session.Document()}
	})
}

// Regenerate handles POST /api/regenerate (SSE)
func (h *Handlers) Regenerate(c *gin.Context) {
	w := newSSEWriter(c)
	err := h.session.Regenerate(c.Request.Context(), w.Chunk)
	h.finishStream(c, w, err, func() any {
		return gin.H{"document": h.session.Document()}
	})
}

// ImageToCode handles POST /api/image (multipart, SSE)
func (h *Handlers) ImageToCode(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		RespondBadRequest(c, "Missing image file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		RespondBadRequest(c, "Failed to read image file")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || !strings.HasPrefix(mimeType, "image/") {
		RespondBadRequest(c, "File must be an image")
		return
	}

	w := newSSEWriter(c)
	err = h.session.GenerateFromImage(c.Request.Context(), mimeType, data, w.Chunk)
	h.finishStream(c, w, err, func() any {
		return gin.H{"document": h.session.Document()}
	})
}

// Chat handles POST /api/chat (SSE)
func (h *Handlers) Chat(c *gin.Context) {
	var body struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondBadRequest(c, "Invalid request body")
		return
	}

	w := newSSEWriter(c)
	err := h.session.Chat(c.Request.Context(), body.Message, w.Chunk)
	h.finishStream(c, w, err, func() any {
		return gin.H{"document": h.session.Document()}
	})
}

// Theme handles POST /api/theme (SSE)
func (h *Handlers) Theme(c *gin.Context) {
	var body struct {
		Prompt string `json:"prompt"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondBadRequest(c, "Invalid request body")
		return
	}

	w := newSSEWriter(c)
	err := h.session.ApplyTheme(c.Request.Context(), body.Prompt, w.Chunk)
	h.finishStream(c, w, err, func() any {
		return gin.H{"document": h.session.Document()}
	})
}

// Refactor handles POST /api/refactor. The transformed snippet comes back as
// plain JSON; the document or stylesheet is updated server-side.
func (h *Handlers) Refactor(c *gin.Context) {
	var body struct {
		Snippet string `json:"snippet"`
		Action  string `json:"action"`
		Target  string `json:"target"`
		Start   int    `json:"start"`
		End     int    `json:"end"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondBadRequest(c, "Invalid request body")
		return
	}

	switch body.Action {
	case "refactor", "optimize", "comment", "explain":
	default:
		RespondBadRequest(c, "Unknown refactor action")
		return
	}

	result, err := h.session.Refactor(c.Request.Context(), body.Snippet, body.Action, body.Target, body.Start, body.End)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	RespondData(c, gin.H{"result": result})
}

// ExpandIdea handles POST /api/idea/expand (SSE)
func (h *Handlers) ExpandIdea(c *gin.Context) {
	h.streamStateless(c, func(idea string) (synth.Stream, error) {
		return h.synth.ExpandIdea(c.Request.Context(), idea)
	})
}

// Roadmap handles POST /api/idea/roadmap (SSE)
func (h *Handlers) Roadmap(c *gin.Context) {
	h.streamStateless(c, func(idea string) (synth.Stream, error) {
		return h.synth.GenerateRoadmap(c.Request.Context(), idea)
	})
}

// Mockup handles POST /api/idea/mockup. Returns the generated mockup image
// base64-encoded. Non-streaming, but still holds the action slot.
func (h *Handlers) Mockup(c *gin.Context) {
	var body struct {
		Idea string `json:"idea"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Idea) == "" {
		RespondBadRequest(c, "Invalid request body")
		return
	}

	if err := h.session.BeginAction(session.ActionIdeaToImage); err != nil {
		respondSessionError(c, err)
		return
	}

	image, err := h.synth.GenerateMockup(c.Request.Context(), body.Idea)
	if err != nil {
		h.session.EndAction("Failed to generate mockup. Please try again.")
		respondSessionError(c, err)
		return
	}
	h.session.EndAction("")

	RespondData(c, gin.H{"image": image, "mimeType": "image/png"})
}

// FullStack handles POST /api/fullstack (SSE). The accumulated markdown is
// returned parsed in the done event so clients can render file tabs directly.
func (h *Handlers) FullStack(c *gin.Context) {
	var body struct {
		Idea string `json:"idea"`
		Tech string `json:"tech"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Idea) == "" {
		RespondBadRequest(c, "Invalid request body")
		return
	}
	if body.Tech == "" {
		body.Tech = "nodejs-express"
	}

	if err := h.session.BeginAction(session.ActionFullStack); err != nil {
		respondSessionError(c, err)
		return
	}

	stream, err := h.synth.GenerateFullStack(c.Request.Context(), body.Idea, body.Tech)
	if err != nil {
		h.session.EndAction("Failed to generate project. Please try again.")
		respondSessionError(c, err)
		return
	}
	defer stream.Close()

	w := newSSEWriter(c)
	markdown, err := pumpStream(stream, w)
	if err != nil {
		h.session.EndAction("Failed to generate project. Please try again.")
		if w.Started() {
			w.Fail("Failed to generate project. Please try again.")
		} else {
			RespondInternalError(c, "Failed to generate project. Please try again.")
		}
		return
	}
	h.session.EndAction("")

	w.Done(gin.H{"markdown": markdown})
}

// streamStateless runs a synthesis stream that does not touch the document
// or the session action slot, so it works while another action is running.
func (h *Handlers) streamStateless(c *gin.Context, open func(string) (synth.Stream, error)) {
	var body struct {
		Idea string `json:"idea"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Idea) == "" {
		RespondBadRequest(c, "Invalid request body")
		return
	}

	stream, err := open(body.Idea)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	defer stream.Close()

	w := newSSEWriter(c)
	text, err := pumpStream(stream, w)
	if err != nil {
		if w.Started() {
			w.Fail("Failed to get a response from the AI model.")
		} else {
			RespondInternalError(c, "Failed to get a response from the AI model.")
		}
		return
	}
	w.Done(gin.H{"text": strings.TrimSpace(text)})
}

// pumpStream forwards every chunk and returns the accumulated text
func pumpStream(stream synth.Stream, w *sseWriter) (string, error) {
	var buf strings.Builder
	for {
		chunk, err := stream.Recv()
		if err == io.EOF {
			return buf.String(), nil
		}
		if err != nil {
			log.Error().Err(err).Msg("synthesis stream failed")
			return "", err
		}
		buf.WriteString(chunk)
		w.Chunk(chunk)
	}
}

// finishStream terminates a session synthesis SSE response. Errors raised
// before any chunk was written become plain JSON statuses.
func (h *Handlers) finishStream(c *gin.Context, w *sseWriter, err error, done func() any) {
	if err != nil {
		if w.Started() {
			w.Fail(err.Error())
			return
		}
		respondSessionError(c, err)
		return
	}
	w.Done(done())
}
