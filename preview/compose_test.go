package preview

import (
	"strings"
	"testing"
)

func TestCompose_InjectsStylesheetBeforeHead(t *testing.T) {
	doc := "<html><head><title>t</title></head><body></body></html>"
	out := Compose(doc, "body { color: red; }")

	want := "<style>body { color: red; }</style></head>"
	if !strings.Contains(out, want) {
		t.Errorf("expected stylesheet before </head>, got %q", out)
	}
}

func TestCompose_InjectsInspectorBeforeBody(t *testing.T) {
	doc := "<html><head></head><body><p>hi</p></body></html>"
	out := Compose(doc, "")

	idx := strings.Index(out, "data-zecrev-id")
	end := strings.Index(out, "</body>")
	if idx < 0 {
		t.Fatal("expected inspector script in output")
	}
	if end < idx {
		t.Error("expected inspector script before </body>")
	}
}

func TestCompose_AppendsInspectorWithoutBody(t *testing.T) {
	doc := "<p>fragment</p>"
	out := Compose(doc, "")

	if !strings.HasPrefix(out, doc) {
		t.Errorf("original fragment must lead the output, got %q", out)
	}
	if !strings.Contains(out, "INSPECT_ELEMENT_STYLE") {
		t.Error("expected inspector script appended")
	}
}

func TestCompose_NoStylesheetWithoutCSS(t *testing.T) {
	doc := "<html><head></head><body></body></html>"
	out := Compose(doc, "")

	if strings.Contains(out, "<style>") {
		t.Error("no stylesheet should be injected without custom css")
	}
}

func TestCompose_DocumentUnmodifiedOtherwise(t *testing.T) {
	doc := "<html><head></head><body><p>keep me</p></body></html>"
	out := Compose(doc, "h1 { margin: 0; }")

	stripped := strings.Replace(out, inspectorScript, "", 1)
	stripped = strings.Replace(stripped, "<style>h1 { margin: 0; }</style>", "", 1)
	if stripped != doc {
		t.Errorf("composition must only inject, got %q", stripped)
	}
}

func TestComposePlain_NoInspector(t *testing.T) {
	doc := "<html><head></head><body></body></html>"
	out := ComposePlain(doc, "body { margin: 0; }")

	if strings.Contains(out, "INSPECT_ELEMENT_STYLE") {
		t.Error("exported documents must not carry the inspector")
	}
	if !strings.Contains(out, "<style>body { margin: 0; }</style>") {
		t.Error("expected stylesheet baked into export")
	}
}
