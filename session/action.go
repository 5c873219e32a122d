package session

// Action identifies which long-running operation currently owns the session.
// At most one action may be active at a time.
type Action string

const (
	ActionNone        Action = ""
	ActionGenerate    Action = "generate"
	ActionClone       Action = "clone"
	ActionChat        Action = "chat"
	ActionTheme       Action = "theme"
	ActionImageToCode Action = "image-to-code"
	ActionIdeaToImage Action = "idea-to-image"
	ActionRefactor    Action = "refactor"
	ActionFullStack   Action = "full-stack"
)

func (a Action) String() string {
	if a == ActionNone {
		return "none"
	}
	return string(a)
}

// Active reports whether an operation currently holds the slot
func (a Action) Active() bool {
	return a != ActionNone
}
