// Package export turns synthesized output into downloadable artifacts: a
// standalone HTML file, or a zip archive built from the per-file markdown
// layout of a full-stack generation.
package export

import (
	"regexp"
	"strings"
)

// ProjectFile is one code file extracted from a full-stack markdown response
type ProjectFile struct {
	Name string `json:"name"`
	Lang string `json:"lang"`
	Code string `json:"code"`
}

// Project is the parsed result of a full-stack generation
type Project struct {
	Instructions string        `json:"instructions"`
	Files        []ProjectFile `json:"files"`
}

var (
	instructionsRe = regexp.MustCompile(`### Setup Instructions([\s\S]*?)###`)
	fileBlockRe    = regexp.MustCompile("### `(.*?)`\\s*```(\\w+)\\s*([\\s\\S]*?)```")
)

// ParseProject extracts the setup instructions and every file block from the
// generated markdown. A file block is a heading of the form "### `name`"
// followed by a fenced code block whose info string names the language.
func ParseProject(markdown string) Project {
	p := Project{Instructions: "Could not parse instructions."}

	if m := instructionsRe.FindStringSubmatch(markdown); m != nil {
		p.Instructions = strings.TrimSpace(m[1])
	}

	for _, m := range fileBlockRe.FindAllStringSubmatch(markdown, -1) {
		p.Files = append(p.Files, ProjectFile{
			Name: strings.TrimSpace(m[1]),
			Lang: strings.TrimSpace(m[2]),
			Code: strings.TrimSpace(m[3]),
		})
	}

	return p
}
