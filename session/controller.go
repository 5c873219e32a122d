package session

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/zecrev/codez/db"
	"github.com/zecrev/codez/log"
	"github.com/zecrev/codez/synth"
	"github.com/zecrev/codez/visualedit"
)

// User-facing error banners. The underlying cause goes to the log; the
// session surface carries only these.
const (
	bannerGenerate = "Failed to generate code. Please try again."
	bannerChat     = "Failed to get response from chat. Please try again."
	bannerTheme    = "Failed to apply new theme. Please try again."
	bannerRefactor = "Failed to refactor code. Please try again."
	bannerImage    = "Failed to generate code from the image. Please try again."
)

// Transcript seed lines after a successful generation.
const (
	seedGenerated = "Here is the code I generated. How can I help you improve it?"
	seedFromImage = "Here is the code I generated from your image. How can I help you improve it?"
	seedChanged   = "Here are the requested changes."
)

// Synthesizer is the model surface the controller drives. *synth.Client
// satisfies it; tests substitute a fake.
type Synthesizer interface {
	GenerateSite(ctx context.Context, prompt string) (synth.Stream, error)
	GenerateFromImage(ctx context.Context, mimeType string, data []byte) (synth.Stream, error)
	ContinueChat(ctx context.Context, conv *synth.Conversation, message string) (synth.Stream, error)
	ContinueTheme(ctx context.Context, conv *synth.Conversation, themePrompt string) (synth.Stream, error)
	RefactorSnippet(ctx context.Context, snippet, action string) (synth.Stream, error)
}

// Events receives session change notifications for the SSE feed
type Events interface {
	Publish(event string, payload any)
}

// Bridge pushes host-side state into connected preview pages
type Bridge interface {
	SetCustomizeMode(enabled bool)
}

type noEvents struct{}

func (noEvents) Publish(string, any) {}

type noBridge struct{}

func (noBridge) SetCustomizeMode(bool) {}

// Deps wires a Controller. Synth and Store are required; Events, Bridge
// and Debounce fall back to no-op and the default delay.
type Deps struct {
	Synth    Synthesizer
	Store    *db.HistoryStore
	Events   Events
	Bridge   Bridge
	Debounce time.Duration
}

// Controller owns the editing session: the live document, its undo history,
// the conversation transcript, and the single in-flight action slot.
type Controller struct {
	mu sync.Mutex

	doc           string
	customCSS     string
	prompt        string
	transcript    []ChatMessage
	conv          *synth.Conversation
	action        Action
	lastError     string
	customizeMode bool
	selected      *visualedit.SelectedElement

	history  *DocumentHistory
	debounce *commitDebouncer

	synth  Synthesizer
	store  *db.HistoryStore
	events Events
	bridge Bridge
}

// State is the read snapshot of a session returned to clients
type State struct {
	Document      string                       `json:"document"`
	CustomCSS     string                       `json:"customCss"`
	Prompt        string                       `json:"prompt"`
	Transcript    []ChatMessage                `json:"transcript"`
	Action        string                       `json:"action"`
	CanUndo       bool                         `json:"canUndo"`
	CanRedo       bool                         `json:"canRedo"`
	CustomizeMode bool                         `json:"customizeMode"`
	Selected      *visualedit.SelectedElement  `json:"selected,omitempty"`
	Error         string                       `json:"error,omitempty"`
}

// NewController builds a session controller from its dependencies
func NewController(deps Deps) *Controller {
	if deps.Events == nil {
		deps.Events = noEvents{}
	}
	if deps.Bridge == nil {
		deps.Bridge = noBridge{}
	}
	if deps.Debounce <= 0 {
		deps.Debounce = 450 * time.Millisecond
	}
	return &Controller{
		history:  NewDocumentHistory(),
		debounce: newCommitDebouncer(deps.Debounce),
		synth:    deps.Synth,
		store:    deps.Store,
		events:   deps.Events,
		bridge:   deps.Bridge,
	}
}

// State returns a copy of the current session state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	transcript := make([]ChatMessage, len(c.transcript))
	copy(transcript, c.transcript)

	var selected *visualedit.SelectedElement
	if c.selected != nil {
		sel := *c.selected
		selected = &sel
	}

	return State{
		Document:      c.doc,
		CustomCSS:     c.customCSS,
		Prompt:        c.prompt,
		Transcript:    transcript,
		Action:        c.action.String(),
		CanUndo:       c.history.CanUndo(),
		CanRedo:       c.history.CanRedo(),
		CustomizeMode: c.customizeMode,
		Selected:      selected,
		Error:         c.lastError,
	}
}

// Document returns the current document text
func (c *Controller) Document() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc
}

// CustomCSS returns the current custom stylesheet
func (c *Controller) CustomCSS() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.customCSS
}

// BeginAction claims the single action slot, or returns ErrBusy.
// Stateless long-running operations (mockups, full-stack generation) use it
// so their progress shows up in the session state.
func (c *Controller) BeginAction(action Action) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.action.Active() {
		return ErrBusy
	}
	c.action = action
	c.lastError = ""
	return nil
}

// EndAction releases the action slot. banner, when non-empty, becomes the
// session error surfaced to clients.
func (c *Controller) EndAction(banner string) {
	c.mu.Lock()
	c.action = ActionNone
	c.lastError = banner
	c.mu.Unlock()

	if banner != "" {
		c.events.Publish("generation-error", map[string]string{"message": banner})
	}
}

// Generate streams a brand-new document for the prompt. A prompt starting
// with "clone:" is rewritten into a clone instruction and recorded in the
// project history under "Cloned URL: <url>".
func (c *Controller) Generate(ctx context.Context, prompt string, emit func(string)) error {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return ErrEmptyInput
	}

	action := ActionGenerate
	promptForAI := trimmed
	storedPrompt := trimmed
	if url, ok := strings.CutPrefix(trimmed, "clone:"); ok {
		url = strings.TrimSpace(url)
		if url == "" {
			return ErrEmptyInput
		}
		action = ActionClone
		promptForAI = synth.CloneInstruction(url)
		storedPrompt = "Cloned URL: " + url
	}

	if err := c.BeginAction(action); err != nil {
		return err
	}
	c.debounce.Cancel()

	c.mu.Lock()
	// Clone requests clear the held prompt: regeneration replays typed
	// prompts only
	if action == ActionClone {
		c.prompt = ""
	} else {
		c.prompt = trimmed
	}
	c.resetForGeneration()
	c.mu.Unlock()

	final, err := c.runStream(ctx, emit, func() (synth.Stream, error) {
		return c.synth.GenerateSite(ctx, promptForAI)
	})
	if err != nil {
		c.EndAction(bannerGenerate)
		return err
	}

	c.commitGeneration(storedPrompt, promptForAI, final, seedGenerated)
	return nil
}

// GenerateFromImage streams a document converted from an uploaded mockup image
func (c *Controller) GenerateFromImage(ctx context.Context, mimeType string, data []byte, emit func(string)) error {
	if len(data) == 0 {
		return ErrEmptyInput
	}

	if err := c.BeginAction(ActionImageToCode); err != nil {
		return err
	}
	c.debounce.Cancel()

	c.mu.Lock()
	c.prompt = ""
	c.resetForGeneration()
	c.mu.Unlock()

	final, err := c.runStream(ctx, emit, func() (synth.Stream, error) {
		return c.synth.GenerateFromImage(ctx, mimeType, data)
	})
	if err != nil {
		c.EndAction(bannerImage)
		return err
	}

	c.commitGeneration("Generated from Image", "", final, seedFromImage)
	return nil
}

// resetForGeneration clears the stale state a fresh generation replaces.
// Caller holds c.mu.
func (c *Controller) resetForGeneration() {
	c.doc = ""
	c.customCSS = ""
	c.transcript = nil
	c.conv = nil
	c.selected = nil
}

// commitGeneration installs a finished generation: single-snapshot undo
// history, a fresh project history record, and a seeded conversation.
func (c *Controller) commitGeneration(storedPrompt, promptForAI, final, seed string) {
	c.mu.Lock()
	c.doc = final
	c.history.Reset()
	c.history.Push(final)
	c.conv = synth.NewConversation()
	if promptForAI != "" {
		c.conv.AddUser(promptForAI)
	}
	c.conv.AddAssistant(final)
	c.transcript = []ChatMessage{{Role: RoleModel, Text: seed}}
	c.action = ActionNone
	c.mu.Unlock()

	if _, err := c.store.Prepend(storedPrompt, final); err != nil {
		log.Error().Err(err).Msg("failed to persist history record")
	}

	c.events.Publish("document-updated", nil)
	c.events.Publish("history-changed", nil)
}

// Chat streams a conversational edit over the current document. The user
// message stays in the transcript even when the model call fails; the
// rolled-back conversation turn does not.
func (c *Controller) Chat(ctx context.Context, message string, emit func(string)) error {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return ErrEmptyInput
	}

	c.mu.Lock()
	if c.conv == nil {
		c.mu.Unlock()
		return ErrNoConversation
	}
	if c.action.Active() {
		c.mu.Unlock()
		return ErrBusy
	}
	c.action = ActionChat
	c.lastError = ""
	conv := c.conv
	c.transcript = append(c.transcript, ChatMessage{Role: RoleUser, Text: trimmed})
	c.mu.Unlock()

	c.debounce.Cancel()

	final, err := c.runStream(ctx, emit, func() (synth.Stream, error) {
		return c.synth.ContinueChat(ctx, conv, trimmed)
	})
	if err != nil {
		conv.DropLast()
		c.EndAction(bannerChat)
		return err
	}

	c.commitRevision(conv, final, true)
	return nil
}

// ApplyTheme streams a restyled document. Theme changes share the chat
// conversation but do not appear in the transcript.
func (c *Controller) ApplyTheme(ctx context.Context, themePrompt string, emit func(string)) error {
	trimmed := strings.TrimSpace(themePrompt)
	if trimmed == "" {
		return ErrEmptyInput
	}

	c.mu.Lock()
	if c.conv == nil {
		c.mu.Unlock()
		return ErrNoConversation
	}
	if c.action.Active() {
		c.mu.Unlock()
		return ErrBusy
	}
	c.action = ActionTheme
	c.lastError = ""
	conv := c.conv
	c.mu.Unlock()

	c.debounce.Cancel()

	final, err := c.runStream(ctx, emit, func() (synth.Stream, error) {
		return c.synth.ContinueTheme(ctx, conv, trimmed)
	})
	if err != nil {
		conv.DropLast()
		c.EndAction(bannerTheme)
		return err
	}

	c.commitRevision(conv, final, false)
	return nil
}

// commitRevision installs a successful conversational edit
func (c *Controller) commitRevision(conv *synth.Conversation, final string, announce bool) {
	c.mu.Lock()
	c.doc = final
	c.history.Push(final)
	conv.AddAssistant(final)
	if announce {
		c.transcript = append(c.transcript, ChatMessage{Role: RoleModel, Text: seedChanged})
	}
	c.action = ActionNone
	c.mu.Unlock()

	if err := c.store.UpdateLatestCode(final); err != nil {
		log.Error().Err(err).Msg("failed to persist revised code")
	}

	c.events.Publish("document-updated", nil)
	c.events.Publish("history-changed", nil)
}

// runStream opens the stream, accumulates chunks, republishes the growing
// document, and returns the finalized text. The caller holds the action slot.
func (c *Controller) runStream(ctx context.Context, emit func(string), open func() (synth.Stream, error)) (string, error) {
	return c.pump(ctx, emit, open, true)
}

// collectStream accumulates without touching the document. Used by snippet
// refactoring, whose output is not a full document.
func (c *Controller) collectStream(ctx context.Context, open func() (synth.Stream, error)) (string, error) {
	return c.pump(ctx, nil, open, false)
}

func (c *Controller) pump(ctx context.Context, emit func(string), open func() (synth.Stream, error), publish bool) (string, error) {
	stream, err := open()
	if err != nil {
		return "", err
	}
	defer stream.Close()

	var buf strings.Builder
	for {
		chunk, err := stream.Recv()
		if err != nil {
			if err == io.EOF {
				break
			}
			return "", err
		}
		buf.WriteString(chunk)
		if emit != nil {
			emit(chunk)
		}

		if publish {
			c.mu.Lock()
			c.doc = buf.String()
			c.mu.Unlock()
			c.events.Publish("document-updated", nil)
		}
	}

	return synth.Finalize(buf.String()), nil
}

// Refactor transforms a selected snippet in place. target selects the text
// the snippet came from: "html" for the document, "css" for the custom
// stylesheet. start and end are the selection's byte offsets in that text;
// when they do not address the snippet (stale selection), the snippet's
// first occurrence is edited instead. The "explain" action returns prose and
// leaves both untouched. The refactored text is returned so callers can
// show it directly.
func (c *Controller) Refactor(ctx context.Context, snippet, action, target string, start, end int) (string, error) {
	if strings.TrimSpace(snippet) == "" {
		return "", ErrEmptyInput
	}

	if err := c.BeginAction(ActionRefactor); err != nil {
		return "", err
	}
	c.debounce.Cancel()

	raw, err := c.collectStream(ctx, func() (synth.Stream, error) {
		return c.synth.RefactorSnippet(ctx, snippet, action)
	})
	if err != nil {
		c.EndAction(bannerRefactor)
		return "", err
	}
	result := strings.TrimSpace(raw)

	if action == "explain" {
		c.EndAction("")
		return result, nil
	}

	c.mu.Lock()
	switch target {
	case "css":
		if updated, ok := splice(c.customCSS, snippet, result, start, end); ok {
			c.customCSS = updated
		} else {
			c.customCSS = result
		}
		c.action = ActionNone
		c.mu.Unlock()
		c.events.Publish("document-updated", nil)
	default:
		updated, ok := splice(c.doc, snippet, result, start, end)
		if !ok {
			// Nothing changed, so no snapshot to record
			c.action = ActionNone
			c.mu.Unlock()
			return result, nil
		}
		c.doc = updated
		c.history.Push(updated)
		c.action = ActionNone
		c.mu.Unlock()
		if err := c.store.UpdateLatestCode(updated); err != nil {
			log.Error().Err(err).Msg("failed to persist refactored code")
		}
		c.events.Publish("document-updated", nil)
		c.events.Publish("history-changed", nil)
	}

	return result, nil
}

// splice replaces text[start:end] when those offsets address the snippet,
// falling back to the snippet's first occurrence. Reports false when the
// snippet is nowhere in the text.
func splice(text, snippet, replacement string, start, end int) (string, bool) {
	if start >= 0 && start <= end && end <= len(text) && text[start:end] == snippet {
		return text[:start] + replacement + text[end:], true
	}
	if i := strings.Index(text, snippet); i >= 0 {
		return text[:i] + replacement + text[i+len(snippet):], true
	}
	return text, false
}

// Regenerate replays the last entered prompt
func (c *Controller) Regenerate(ctx context.Context, emit func(string)) error {
	c.mu.Lock()
	prompt := c.prompt
	c.mu.Unlock()

	if prompt == "" {
		return ErrNoPrompt
	}
	return c.Generate(ctx, prompt, emit)
}

// Save commits the current document to the project history as a manual save.
// Any edit still inside the debounce window is pushed onto the undo history
// first, so the persisted text and the latest snapshot agree. Refused while
// a synthesis action holds the slot: the record would snapshot a
// half-streamed document.
func (c *Controller) Save() error {
	c.debounce.Cancel()

	c.mu.Lock()
	if c.action.Active() {
		c.mu.Unlock()
		return ErrBusy
	}
	doc := c.doc
	if doc != "" && doc != c.history.Current() {
		c.history.Push(doc)
	}
	c.mu.Unlock()

	if doc == "" {
		return ErrNoDocument
	}
	if err := c.store.MarkLatestSaved(doc); err != nil {
		return err
	}
	c.events.Publish("history-changed", nil)
	return nil
}

// SetDocument accepts a manual edit from the code editor. The snapshot and
// the history record are committed after the debounce window, so rapid
// keystrokes collapse into one undo step.
func (c *Controller) SetDocument(doc string) {
	c.mu.Lock()
	c.doc = doc
	c.mu.Unlock()

	c.events.Publish("document-updated", nil)
	c.debounce.Arm(c.flushEdit)
}

func (c *Controller) flushEdit() {
	c.mu.Lock()
	doc := c.doc
	if doc == c.history.Current() {
		c.mu.Unlock()
		return
	}
	c.history.Push(doc)
	c.mu.Unlock()

	if err := c.store.UpdateLatestCode(doc); err != nil {
		log.Error().Err(err).Msg("failed to persist edited code")
	}
	c.events.Publish("history-changed", nil)
}

// SetCustomCSS replaces the injected custom stylesheet
func (c *Controller) SetCustomCSS(css string) {
	c.mu.Lock()
	c.customCSS = css
	c.mu.Unlock()
	c.events.Publish("document-updated", nil)
}

// Undo steps the document back one snapshot. Returns false at the boundary.
func (c *Controller) Undo() bool {
	c.debounce.Cancel()

	c.mu.Lock()
	snapshot, ok := c.history.Undo()
	if ok {
		c.doc = snapshot
	}
	c.mu.Unlock()

	if ok {
		c.events.Publish("document-updated", nil)
	}
	return ok
}

// Redo steps the document forward one snapshot. Returns false at the boundary.
func (c *Controller) Redo() bool {
	c.debounce.Cancel()

	c.mu.Lock()
	snapshot, ok := c.history.Redo()
	if ok {
		c.doc = snapshot
	}
	c.mu.Unlock()

	if ok {
		c.events.Publish("document-updated", nil)
	}
	return ok
}

// NewProject clears the session. Persisted project history records survive.
func (c *Controller) NewProject() error {
	c.mu.Lock()
	if c.action.Active() {
		c.mu.Unlock()
		return ErrBusy
	}
	c.doc = ""
	c.customCSS = ""
	c.prompt = ""
	c.transcript = nil
	c.conv = nil
	c.lastError = ""
	c.selected = nil
	c.customizeMode = false
	c.history.Reset()
	c.mu.Unlock()

	c.debounce.Cancel()
	c.bridge.SetCustomizeMode(false)
	c.events.Publish("document-updated", nil)
	return nil
}

// LoadRecord restores a persisted history record into the session. Synthetic
// prompts ("Cloned URL: ...", "(Saved) ...") are not restored into the prompt
// box. Loading does not resume the original conversation.
func (c *Controller) LoadRecord(id int64) error {
	rec := c.store.Get(id)
	if rec == nil {
		return ErrNoDocument
	}

	c.mu.Lock()
	if c.action.Active() {
		c.mu.Unlock()
		return ErrBusy
	}
	c.doc = rec.Code
	c.history.Reset()
	c.history.Push(rec.Code)
	c.conv = nil
	c.transcript = nil
	c.lastError = ""
	if strings.HasPrefix(rec.Prompt, "Cloned URL:") || strings.HasPrefix(rec.Prompt, "(Saved)") {
		c.prompt = ""
	} else {
		c.prompt = rec.Prompt
	}
	c.mu.Unlock()

	c.debounce.Cancel()
	c.events.Publish("document-updated", nil)
	return nil
}

// SetCustomizeMode toggles visual editing and mirrors the flag into every
// connected preview. Leaving customize mode drops the current selection.
func (c *Controller) SetCustomizeMode(enabled bool) {
	c.mu.Lock()
	c.customizeMode = enabled
	if !enabled {
		c.selected = nil
	}
	c.mu.Unlock()

	c.bridge.SetCustomizeMode(enabled)
	c.events.Publish("selection-changed", nil)
}

// SetSelectedElement records an element inspection reported by a preview
func (c *Controller) SetSelectedElement(sel visualedit.SelectedElement) {
	c.mu.Lock()
	c.selected = &sel
	c.mu.Unlock()

	c.events.Publish("selection-changed", sel)
}

// ApplyElementEdit mutates one property of the selected element directly in
// the document. The change commits through the same debounce window as
// manual edits.
func (c *Controller) ApplyElementEdit(id, property, value string) error {
	c.mu.Lock()
	doc := c.doc
	c.mu.Unlock()

	if doc == "" {
		return ErrNoDocument
	}

	updated, err := visualedit.ApplyEdit(doc, id, property, value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.doc = updated
	if c.selected != nil && c.selected.ID == id {
		if property == "textContent" {
			c.selected.TextContent = value
		} else {
			c.selected.Styles.Set(property, value)
		}
	}
	c.mu.Unlock()

	c.events.Publish("document-updated", nil)
	c.debounce.Arm(c.flushEdit)
	return nil
}
