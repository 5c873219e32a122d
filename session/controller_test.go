package session

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/zecrev/codez/db"
	"github.com/zecrev/codez/synth"
)

type fakeStream struct {
	chunks []string
	err    error
	pos    int
}

func (s *fakeStream) Recv() (string, error) {
	if s.pos < len(s.chunks) {
		chunk := s.chunks[s.pos]
		s.pos++
		return chunk, nil
	}
	if s.err != nil {
		return "", s.err
	}
	return "", io.EOF
}

func (s *fakeStream) Close() error { return nil }

type fakeSynth struct {
	lastPrompt  string
	lastMessage string
	chunks      []string
	streamErr   error
	openErr     error
}

func (f *fakeSynth) open() (synth.Stream, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return &fakeStream{chunks: f.chunks, err: f.streamErr}, nil
}

func (f *fakeSynth) GenerateSite(_ context.Context, prompt string) (synth.Stream, error) {
	f.lastPrompt = prompt
	return f.open()
}

func (f *fakeSynth) GenerateFromImage(context.Context, string, []byte) (synth.Stream, error) {
	return f.open()
}

func (f *fakeSynth) ContinueChat(_ context.Context, conv *synth.Conversation, message string) (synth.Stream, error) {
	f.lastMessage = message
	conv.AddUser(message)
	return f.open()
}

func (f *fakeSynth) ContinueTheme(_ context.Context, conv *synth.Conversation, themePrompt string) (synth.Stream, error) {
	conv.AddUser(themePrompt)
	return f.open()
}

func (f *fakeSynth) RefactorSnippet(context.Context, string, string) (synth.Stream, error) {
	return f.open()
}

func newTestController(fake *fakeSynth) (*Controller, *db.HistoryStore) {
	store := db.NewMemoryHistoryStore()
	ctrl := NewController(Deps{
		Synth:    fake,
		Store:    store,
		Debounce: 20 * time.Millisecond,
	})
	return ctrl, store
}

func TestController_Generate(t *testing.T) {
	fake := &fakeSynth{chunks: []string{"```html\n<html>", "<body>hi</body>", "</html>\n```"}}
	ctrl, store := newTestController(fake)

	var streamed strings.Builder
	emit := func(chunk string) { streamed.WriteString(chunk) }
	if err := ctrl.Generate(context.Background(), "a landing page", emit); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	want := "<html><body>hi</body></html>"
	if got := ctrl.Document(); got != want {
		t.Errorf("expected finalized document %q, got %q", want, got)
	}
	if streamed.Len() == 0 {
		t.Error("expected chunks to be emitted")
	}

	records := store.All()
	if len(records) != 1 {
		t.Fatalf("expected 1 history record, got %d", len(records))
	}
	if records[0].Prompt != "a landing page" || records[0].Code != want {
		t.Errorf("unexpected history record: %+v", records[0])
	}

	state := ctrl.State()
	if state.Action != "none" {
		t.Errorf("expected idle action, got %q", state.Action)
	}
	if state.CanUndo {
		t.Error("fresh generation should start with a single snapshot")
	}
	if len(state.Transcript) != 1 || state.Transcript[0].Role != RoleModel {
		t.Errorf("expected seeded transcript, got %+v", state.Transcript)
	}
}

func TestController_GenerateClonePrompt(t *testing.T) {
	fake := &fakeSynth{chunks: []string{"<html></html>"}}
	ctrl, store := newTestController(fake)

	if err := ctrl.Generate(context.Background(), "clone: https://example.com", nil); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if !strings.Contains(fake.lastPrompt, "https://example.com") {
		t.Errorf("clone instruction should carry the URL, got %q", fake.lastPrompt)
	}
	if strings.HasPrefix(fake.lastPrompt, "clone:") {
		t.Error("raw clone prefix must not reach the model")
	}

	records := store.All()
	if len(records) != 1 || records[0].Prompt != "Cloned URL: https://example.com" {
		t.Errorf("expected synthetic clone prompt in history, got %+v", records)
	}

	// Clones clear the held prompt, so regeneration has nothing to replay
	if err := ctrl.Regenerate(context.Background(), nil); !errors.Is(err, ErrNoPrompt) {
		t.Errorf("expected ErrNoPrompt after clone, got %v", err)
	}
}

func TestController_GenerateClearsStaleState(t *testing.T) {
	fake := &fakeSynth{chunks: []string{"<html>v1</html>"}}
	ctrl, _ := newTestController(fake)

	if err := ctrl.Generate(context.Background(), "site", nil); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	ctrl.SetCustomCSS("body { margin: 0; }")

	fake.chunks = []string{"<html>v2</html>"}
	if err := ctrl.Generate(context.Background(), "another site", nil); err != nil {
		t.Fatalf("second generate failed: %v", err)
	}

	state := ctrl.State()
	if state.CustomCSS != "" {
		t.Errorf("fresh generation must clear custom css, got %q", state.CustomCSS)
	}
	if len(state.Transcript) != 1 {
		t.Errorf("fresh generation must reset the transcript, got %d entries", len(state.Transcript))
	}
}

func TestController_GenerateEmptyPrompt(t *testing.T) {
	ctrl, _ := newTestController(&fakeSynth{})

	if err := ctrl.Generate(context.Background(), "   ", nil); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestController_BusyRejectsSecondAction(t *testing.T) {
	fake := &fakeSynth{chunks: []string{"<html></html>"}}
	ctrl, _ := newTestController(fake)

	if err := ctrl.BeginAction(ActionGenerate); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if err := ctrl.Generate(context.Background(), "second", nil); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}
	ctrl.EndAction("")

	// Slot released, the next action goes through
	if err := ctrl.Generate(context.Background(), "third", nil); err != nil {
		t.Errorf("expected generation after release, got %v", err)
	}
}

func TestController_ChatThenUndo(t *testing.T) {
	fake := &fakeSynth{chunks: []string{"<html>v1</html>"}}
	ctrl, _ := newTestController(fake)

	if err := ctrl.Generate(context.Background(), "site", nil); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	fake.chunks = []string{"<html>v2</html>"}
	if err := ctrl.Chat(context.Background(), "make it blue", nil); err != nil {
		t.Fatalf("chat failed: %v", err)
	}

	if ctrl.Document() != "<html>v2</html>" {
		t.Errorf("expected chat revision, got %q", ctrl.Document())
	}

	state := ctrl.State()
	// seeded model line + user message + model confirmation
	if len(state.Transcript) != 3 {
		t.Errorf("expected 3 transcript entries, got %d", len(state.Transcript))
	}

	if !ctrl.Undo() {
		t.Fatal("expected undo to succeed")
	}
	if ctrl.Document() != "<html>v1</html>" {
		t.Errorf("expected undo back to v1, got %q", ctrl.Document())
	}
	if !ctrl.State().CanRedo {
		t.Error("expected redo to be available after undo")
	}
}

func TestController_ChatWithoutConversation(t *testing.T) {
	ctrl, _ := newTestController(&fakeSynth{})

	if err := ctrl.Chat(context.Background(), "hello", nil); !errors.Is(err, ErrNoConversation) {
		t.Errorf("expected ErrNoConversation, got %v", err)
	}
}

func TestController_FailedChatKeepsUserMessage(t *testing.T) {
	fake := &fakeSynth{chunks: []string{"<html>v1</html>"}}
	ctrl, _ := newTestController(fake)

	if err := ctrl.Generate(context.Background(), "site", nil); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	fake.chunks = nil
	fake.streamErr = errors.New("model unavailable")
	if err := ctrl.Chat(context.Background(), "break things", nil); err == nil {
		t.Fatal("expected chat to fail")
	}

	state := ctrl.State()
	last := state.Transcript[len(state.Transcript)-1]
	if last.Role != RoleUser || last.Text != "break things" {
		t.Errorf("expected the user message to survive, got %+v", last)
	}
	if state.Error == "" {
		t.Error("expected a session error banner")
	}
	if state.Action != "none" {
		t.Errorf("expected action slot released, got %q", state.Action)
	}

	// The rolled-back conversation still accepts the next chat
	fake.streamErr = nil
	fake.chunks = []string{"<html>v2</html>"}
	if err := ctrl.Chat(context.Background(), "try again", nil); err != nil {
		t.Errorf("expected recovery chat to succeed, got %v", err)
	}
}

func TestController_SaveMarksLatestRecord(t *testing.T) {
	fake := &fakeSynth{chunks: []string{"<html>v1</html>"}}
	ctrl, store := newTestController(fake)

	if err := ctrl.Generate(context.Background(), "site", nil); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	ctrl.SetDocument("<html>edited</html>")
	if err := ctrl.Save(); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	records := store.All()
	if records[0].Prompt != "(Saved) site" {
		t.Errorf("expected saved prefix, got %q", records[0].Prompt)
	}
	if records[0].Code != "<html>edited</html>" {
		t.Errorf("expected edited code persisted, got %q", records[0].Code)
	}

	// Saving again must not stack the prefix
	if err := ctrl.Save(); err != nil {
		t.Fatalf("second save failed: %v", err)
	}
	if got := store.All()[0].Prompt; got != "(Saved) site" {
		t.Errorf("expected single saved prefix, got %q", got)
	}
}

func TestController_SaveFlushesPendingEdit(t *testing.T) {
	fake := &fakeSynth{chunks: []string{"<html>v1</html>"}}
	ctrl, store := newTestController(fake)

	if err := ctrl.Generate(context.Background(), "site", nil); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	// Save inside the debounce window: the edit must still become an
	// undoable snapshot
	ctrl.SetDocument("<html>edited</html>")
	if err := ctrl.Save(); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if !ctrl.State().CanUndo {
		t.Fatal("expected the pending edit pushed onto the undo history")
	}
	if !ctrl.Undo() || ctrl.Document() != "<html>v1</html>" {
		t.Errorf("expected undo back to the generated code, got %q", ctrl.Document())
	}
	if !ctrl.Redo() || ctrl.Document() != "<html>edited</html>" {
		t.Errorf("expected redo to the saved edit, got %q", ctrl.Document())
	}
	if store.All()[0].Code != "<html>edited</html>" {
		t.Errorf("expected the edit persisted, got %q", store.All()[0].Code)
	}

	// Saving again without changes must not add a snapshot
	if err := ctrl.Save(); err != nil {
		t.Fatalf("second save failed: %v", err)
	}
	if !ctrl.Undo() {
		t.Fatal("expected undo after second save")
	}
	if ctrl.Document() != "<html>v1</html>" {
		t.Errorf("expected a single edit snapshot, got %q", ctrl.Document())
	}
}

func TestController_SaveWithoutDocument(t *testing.T) {
	ctrl, _ := newTestController(&fakeSynth{})

	if err := ctrl.Save(); !errors.Is(err, ErrNoDocument) {
		t.Errorf("expected ErrNoDocument, got %v", err)
	}
}

func TestController_ManualEditDebounce(t *testing.T) {
	fake := &fakeSynth{chunks: []string{"<html>v1</html>"}}
	ctrl, store := newTestController(fake)

	if err := ctrl.Generate(context.Background(), "site", nil); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	ctrl.SetDocument("<html>a</html>")
	ctrl.SetDocument("<html>ab</html>")
	ctrl.SetDocument("<html>abc</html>")

	time.Sleep(60 * time.Millisecond)

	// Rapid edits collapse into one undo step
	if !ctrl.Undo() {
		t.Fatal("expected undo to succeed")
	}
	if ctrl.Document() != "<html>v1</html>" {
		t.Errorf("expected undo back to the generated code, got %q", ctrl.Document())
	}
	if store.All()[0].Code != "<html>abc</html>" {
		t.Errorf("expected the final edit persisted, got %q", store.All()[0].Code)
	}
}

func TestController_RegenerateWithoutPrompt(t *testing.T) {
	ctrl, _ := newTestController(&fakeSynth{})

	if err := ctrl.Regenerate(context.Background(), nil); !errors.Is(err, ErrNoPrompt) {
		t.Errorf("expected ErrNoPrompt, got %v", err)
	}
}

func TestController_LoadRecord(t *testing.T) {
	fake := &fakeSynth{chunks: []string{"<html>v1</html>"}}
	ctrl, store := newTestController(fake)

	if err := ctrl.Generate(context.Background(), "site", nil); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	rec := store.All()[0]

	if err := ctrl.NewProject(); err != nil {
		t.Fatalf("new project failed: %v", err)
	}
	if ctrl.Document() != "" {
		t.Error("expected empty document after new project")
	}
	if store.Len() != 1 {
		t.Error("new project must not clear persisted history")
	}

	if err := ctrl.LoadRecord(rec.ID); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	state := ctrl.State()
	if state.Document != "<html>v1</html>" {
		t.Errorf("expected restored document, got %q", state.Document)
	}
	if state.Prompt != "site" {
		t.Errorf("expected restored prompt, got %q", state.Prompt)
	}

	// Chat requires a fresh generation after loading
	if err := ctrl.Chat(context.Background(), "hi", nil); !errors.Is(err, ErrNoConversation) {
		t.Errorf("expected ErrNoConversation after load, got %v", err)
	}
}

func TestController_LoadRecordSyntheticPrompt(t *testing.T) {
	ctrl, store := newTestController(&fakeSynth{})

	rec, err := store.Prepend("Cloned URL: https://example.com", "<html></html>")
	if err != nil {
		t.Fatalf("prepend failed: %v", err)
	}

	if err := ctrl.LoadRecord(rec.ID); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got := ctrl.State().Prompt; got != "" {
		t.Errorf("synthetic prompts must not be restored, got %q", got)
	}
}

func TestController_RefactorReplacesSnippet(t *testing.T) {
	fake := &fakeSynth{chunks: []string{"<html><b>hello</b></html>"}}
	ctrl, store := newTestController(fake)

	if err := ctrl.Generate(context.Background(), "site", nil); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	fake.chunks = []string{"<strong>hello</strong>"}
	result, err := ctrl.Refactor(context.Background(), "<b>hello</b>", "refactor", "html", 6, 18)
	if err != nil {
		t.Fatalf("refactor failed: %v", err)
	}
	if result != "<strong>hello</strong>" {
		t.Errorf("unexpected refactor result %q", result)
	}
	if ctrl.Document() != "<html><strong>hello</strong></html>" {
		t.Errorf("expected snippet replaced in document, got %q", ctrl.Document())
	}
	if store.All()[0].Code != ctrl.Document() {
		t.Error("expected refactored document persisted")
	}
}

func TestController_RefactorCSSTarget(t *testing.T) {
	ctrl, _ := newTestController(&fakeSynth{chunks: []string{"body { color: red; }"}})

	ctrl.SetCustomCSS("body { color: blue; }")
	result, err := ctrl.Refactor(context.Background(), "body { color: blue; }", "optimize", "css", 0, 21)
	if err != nil {
		t.Fatalf("refactor failed: %v", err)
	}
	if ctrl.CustomCSS() != result {
		t.Errorf("expected custom css replaced, got %q", ctrl.CustomCSS())
	}
	if ctrl.Document() != "" {
		t.Error("css refactor must not touch the document")
	}
}

func TestController_RefactorEditsSelectedOccurrence(t *testing.T) {
	doc := "<html><p>hi</p><p>hi</p></html>"
	fake := &fakeSynth{chunks: []string{doc}}
	ctrl, _ := newTestController(fake)

	if err := ctrl.Generate(context.Background(), "site", nil); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	start := strings.LastIndex(doc, "<p>hi</p>")
	fake.chunks = []string{"<p>bye</p>"}
	if _, err := ctrl.Refactor(context.Background(), "<p>hi</p>", "refactor", "html", start, start+len("<p>hi</p>")); err != nil {
		t.Fatalf("refactor failed: %v", err)
	}
	if ctrl.Document() != "<html><p>hi</p><p>bye</p></html>" {
		t.Errorf("expected the second occurrence replaced, got %q", ctrl.Document())
	}
}

func TestController_RefactorMissingSnippetKeepsDocument(t *testing.T) {
	fake := &fakeSynth{chunks: []string{"<html>v1</html>"}}
	ctrl, store := newTestController(fake)

	if err := ctrl.Generate(context.Background(), "site", nil); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	fake.chunks = []string{"<div>other</div>"}
	result, err := ctrl.Refactor(context.Background(), "<span>gone</span>", "refactor", "html", -1, -1)
	if err != nil {
		t.Fatalf("refactor failed: %v", err)
	}
	if result != "<div>other</div>" {
		t.Errorf("unexpected refactor result %q", result)
	}
	if ctrl.Document() != "<html>v1</html>" {
		t.Errorf("document changed despite missing snippet, got %q", ctrl.Document())
	}
	if ctrl.State().CanUndo {
		t.Error("no-op refactor must not record an undo snapshot")
	}
	if store.All()[0].Code != "<html>v1</html>" {
		t.Error("no-op refactor must not rewrite the stored record")
	}
}
