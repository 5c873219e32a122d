// Package preview assembles the document served to the sandboxed preview:
// the generated HTML with the custom stylesheet and the element inspector
// injected. The stored document itself is never modified.
package preview

import "strings"

// Compose injects the custom stylesheet before </head> and the inspector
// script before </body>. A document without </head> gets no stylesheet; a
// document without </body> gets the script appended at the end.
func Compose(doc, customCSS string) string {
	out := doc
	if customCSS != "" {
		out = strings.Replace(out, "</head>", "<style>"+customCSS+"</style></head>", 1)
	}
	if strings.Contains(out, "</body>") {
		return strings.Replace(out, "</body>", inspectorScript+"</body>", 1)
	}
	return out + inspectorScript
}

// ComposePlain injects only the stylesheet, for exported documents that
// must not carry the inspector.
func ComposePlain(doc, customCSS string) string {
	if customCSS == "" {
		return doc
	}
	return strings.Replace(doc, "</head>", "<style>"+customCSS+"</style></head>", 1)
}
