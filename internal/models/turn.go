package models

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatTurn captures one role-tagged message in a session's history.
type ChatTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
