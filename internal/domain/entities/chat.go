package entities

// ChatRole is the author of a conversation turn
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is one turn of the assistant conversation as sent by the client
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}
