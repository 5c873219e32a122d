package visualedit

import (
	"errors"
	"strings"
	"testing"
)

const testDoc = `<html><head></head><body><div><h1>Title</h1><p class="x">Hello <span>world</span></p></div></body></html>`

func TestApplyEdit_BackgroundColor(t *testing.T) {
	// zecrev-0 div, zecrev-1 h1, zecrev-2 p, zecrev-3 span
	out, err := ApplyEdit(testDoc, "zecrev-1", "backgroundColor", "rgb(255, 0, 0)")
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	if !strings.Contains(out, `style="background-color: rgb(255, 0, 0)"`) {
		t.Errorf("expected inline style on h1, got %q", out)
	}
	if !strings.Contains(out, "<h1") || !strings.Contains(out, "Title") {
		t.Errorf("document structure must survive the edit, got %q", out)
	}
}

func TestApplyEdit_PreservesOtherDeclarations(t *testing.T) {
	doc := `<html><body><p style="color: blue; margin: 4px">hi</p></body></html>`

	out, err := ApplyEdit(doc, "zecrev-0", "color", "green")
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	if !strings.Contains(out, "margin: 4px") {
		t.Errorf("unrelated declarations must survive, got %q", out)
	}
	if !strings.Contains(out, "color: green") {
		t.Errorf("expected new color, got %q", out)
	}
	if strings.Contains(out, "color: blue") {
		t.Errorf("old declaration must be replaced, got %q", out)
	}
}

func TestApplyEdit_TextContentReplacesFirstTextNode(t *testing.T) {
	out, err := ApplyEdit(testDoc, "zecrev-2", "textContent", "Goodbye ")
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	if !strings.Contains(out, "Goodbye ") {
		t.Errorf("expected replaced text, got %q", out)
	}
	// Nested children are untouched
	if !strings.Contains(out, "<span") || !strings.Contains(out, "world") {
		t.Errorf("nested markup must survive a text edit, got %q", out)
	}
	if strings.Contains(out, "Hello ") {
		t.Errorf("old text must be gone, got %q", out)
	}
}

func TestApplyEdit_TextContentOnEmptyElement(t *testing.T) {
	doc := `<html><body><div></div></body></html>`

	out, err := ApplyEdit(doc, "zecrev-0", "textContent", "filled")
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if !strings.Contains(out, ">filled</div>") {
		t.Errorf("expected inserted text node, got %q", out)
	}
}

func TestApplyEdit_UnknownID(t *testing.T) {
	_, err := ApplyEdit(testDoc, "zecrev-99", "color", "red")
	if !errors.Is(err, ErrElementNotFound) {
		t.Errorf("expected ErrElementNotFound, got %v", err)
	}
}

func TestApplyEdit_UnsupportedProperty(t *testing.T) {
	if _, err := ApplyEdit(testDoc, "zecrev-0", "transform", "scale(2)"); err == nil {
		t.Error("expected error for unsupported property")
	}
}

func TestApplyEdit_RespectsExistingIDs(t *testing.T) {
	doc := `<html><body><div data-zecrev-id="zecrev-7">a</div><p>b</p></body></html>`

	// The p is the first unassigned element and becomes zecrev-0
	out, err := ApplyEdit(doc, "zecrev-0", "color", "red")
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if !strings.Contains(out, `<p data-zecrev-id="zecrev-0" style="color: red">`) {
		t.Errorf("expected edit on the p element, got %q", out)
	}
	if !strings.Contains(out, `data-zecrev-id="zecrev-7"`) {
		t.Errorf("existing ids must be kept, got %q", out)
	}
}

func TestApplyEdit_NumberingIsStable(t *testing.T) {
	// Editing twice addresses the same elements: the first edit persists the
	// assigned ids into the document
	out1, err := ApplyEdit(testDoc, "zecrev-3", "color", "red")
	if err != nil {
		t.Fatalf("first apply failed: %v", err)
	}

	out2, err := ApplyEdit(out1, "zecrev-3", "color", "green")
	if err != nil {
		t.Fatalf("second apply failed: %v", err)
	}
	if !strings.Contains(out2, "color: green") || strings.Contains(out2, "color: red") {
		t.Errorf("expected the same span re-addressed, got %q", out2)
	}
}
