package session

// Role marks who authored a transcript entry
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ChatMessage is one entry of the session transcript shown alongside the editor
type ChatMessage struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}
