package visualedit

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// ErrElementNotFound is returned when no element carries the requested id
var ErrElementNotFound = errors.New("element not found")

// IDAttr is the document attribute carrying an element's stable identifier.
// The inspector script assigns identifiers lazily in document order; the
// same numbering is reproduced here so edits can locate elements in the
// authoritative document string, and the assignment is persisted into the
// document on the first edit.
const IDAttr = "data-zecrev-id"

// Editable style properties, keyed by the inspection payload field names
var styleProperties = map[string]string{
	"backgroundColor": "background-color",
	"color":           "color",
	"padding":         "padding",
	"margin":          "margin",
}

// ApplyEdit applies one visual edit against the document string and returns
// the re-rendered document. property is "textContent" or one of the style
// keys (backgroundColor, color, padding, margin). Only the addressed element
// is altered; a text edit replaces the element's first direct text node, or
// inserts one at the front when none exists.
func ApplyEdit(doc string, id, property, value string) (string, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return "", fmt.Errorf("failed to parse document: %w", err)
	}

	ensureIDs(root)

	target := findByID(root, id)
	if target == nil {
		return "", fmt.Errorf("%w: %s=%q", ErrElementNotFound, IDAttr, id)
	}

	if property == "textContent" {
		setFirstTextNode(target, value)
	} else {
		cssName, ok := styleProperties[property]
		if !ok {
			return "", fmt.Errorf("unsupported style property %q", property)
		}
		setInlineStyle(target, cssName, value)
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return "", fmt.Errorf("failed to render document: %w", err)
	}
	return buf.String(), nil
}

// ensureIDs mirrors the inspector script's lazy assignment: body descendants
// are numbered in document order, skipping elements that already carry an id
func ensureIDs(root *html.Node) {
	body := findElement(root, "body")
	if body == nil {
		return
	}

	counter := 0
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.ElementNode {
				if getAttr(child, IDAttr) == "" {
					child.Attr = append(child.Attr, html.Attribute{
						Key: IDAttr,
						Val: fmt.Sprintf("zecrev-%d", counter),
					})
					counter++
				}
			}
			walk(child)
		}
	}
	walk(body)
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findElement(child, tag); found != nil {
			return found
		}
	}
	return nil
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && getAttr(n, IDAttr) == id {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findByID(child, id); found != nil {
			return found
		}
	}
	return nil
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// setFirstTextNode replaces the element's first direct text node, to avoid
// corrupting nested child markup. When the element has no text node, the
// new text is inserted at the front of its content.
func setFirstTextNode(el *html.Node, value string) {
	for child := el.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			child.Data = value
			return
		}
	}

	textNode := &html.Node{Type: html.TextNode, Data: value}
	if el.FirstChild != nil {
		el.InsertBefore(textNode, el.FirstChild)
	} else {
		el.AppendChild(textNode)
	}
}

// setInlineStyle rewrites one declaration of the element's style attribute,
// leaving the remaining declarations untouched
func setInlineStyle(el *html.Node, cssName, value string) {
	existing := getAttr(el, "style")

	var decls []string
	for _, decl := range strings.Split(existing, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		name, _, ok := strings.Cut(decl, ":")
		if ok && strings.TrimSpace(name) == cssName {
			continue // replaced below
		}
		decls = append(decls, decl)
	}
	decls = append(decls, cssName+": "+value)
	style := strings.Join(decls, "; ")

	for i, a := range el.Attr {
		if a.Key == "style" {
			el.Attr[i].Val = style
			return
		}
	}
	el.Attr = append(el.Attr, html.Attribute{Key: "style", Val: style})
}
