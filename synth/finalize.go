package synth

import "strings"

// Finalize strips the code-fence markers the model sometimes emits despite
// instructions not to, and trims surrounding whitespace. Idempotent: running
// it on already-finalized text yields the same text.
func Finalize(text string) string {
	out := strings.TrimSpace(text)
	out = strings.ReplaceAll(out, "```html", "")
	out = strings.ReplaceAll(out, "```", "")
	return strings.TrimSpace(out)
}
