package assistant

// Role represents the author of a thread message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)
