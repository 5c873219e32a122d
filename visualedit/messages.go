package visualedit

import "encoding/json"

// Message types crossing the sandbox boundary. The host and the sandboxed
// preview each own their own state and synchronize only through these
// envelopes; anything from an unknown origin or with an unknown type is
// ignored.
const (
	// TypeSetCustomizeMode is host-to-sandbox: payload is a boolean flag
	TypeSetCustomizeMode = "SET_CUSTOMIZE_MODE"

	// TypeInspectElement is sandbox-to-host: payload is a SelectedElement
	TypeInspectElement = "INSPECT_ELEMENT_STYLE"
)

// Envelope is the tagged union carrying one bridge message
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ElementStyles is the computed styles subset extracted on inspection
type ElementStyles struct {
	BackgroundColor string `json:"backgroundColor"`
	Color           string `json:"color"`
	Padding         string `json:"padding"`
	Margin          string `json:"margin"`
}

// Set updates the style field matching a bridge property name. Unknown
// properties and textContent are ignored.
func (s *ElementStyles) Set(property, value string) {
	switch property {
	case "backgroundColor":
		s.BackgroundColor = value
	case "color":
		s.Color = value
	case "padding":
		s.Padding = value
	case "margin":
		s.Margin = value
	}
}

// SelectedElement describes one inspected DOM node from inside the preview.
// It exists only while the style panel is open.
type SelectedElement struct {
	ID          string        `json:"id"`
	TagName     string        `json:"tagName"`
	TextContent string        `json:"textContent"`
	Styles      ElementStyles `json:"styles"`
}

// NewCustomizeModeMessage builds a host-to-sandbox customize-mode envelope
func NewCustomizeModeMessage(enabled bool) Envelope {
	payload, _ := json.Marshal(enabled)
	return Envelope{Type: TypeSetCustomizeMode, Payload: payload}
}
