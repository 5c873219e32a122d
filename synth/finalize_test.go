package synth

import "testing"

func TestFinalize_StripsCodeFences(t *testing.T) {
	in := "```html\n<html><body>hi</body></html>\n```"
	want := "<html><body>hi</body></html>"

	if got := Finalize(in); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFinalize_PlainDocumentUnchanged(t *testing.T) {
	in := "<html><body>hi</body></html>"
	if got := Finalize(in); got != in {
		t.Errorf("expected unchanged document, got %q", got)
	}
}

func TestFinalize_Idempotent(t *testing.T) {
	in := "```html\n<html></html>\n```"
	once := Finalize(in)
	twice := Finalize(once)

	if once != twice {
		t.Errorf("finalize must be idempotent: %q vs %q", once, twice)
	}
}

func TestFinalize_TrimsWhitespace(t *testing.T) {
	if got := Finalize("\n\n  <html></html>  \n"); got != "<html></html>" {
		t.Errorf("expected trimmed document, got %q", got)
	}
}

func TestConversation_DropLast(t *testing.T) {
	conv := NewConversation()
	conv.AddUser("build a site")
	conv.AddAssistant("<html></html>")
	conv.AddUser("make it blue")

	conv.DropLast()
	if conv.Len() != 2 {
		t.Errorf("expected 2 turns after rollback, got %d", conv.Len())
	}

	// The system instruction is never dropped
	conv.DropLast()
	conv.DropLast()
	conv.DropLast()
	if conv.Len() != 0 {
		t.Errorf("expected 0 turns, got %d", conv.Len())
	}
}
