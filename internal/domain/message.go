package domain

// Roles de una conversación estilo chat-completions.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message es un turno transitorio de la conversación; nunca se persiste.
// El cliente envía la conversación completa en cada submission.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
