package models

// Role tags a chat turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether r is user, assistant or system.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// Turn is one message of a conversation. Conversations are not persisted.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
