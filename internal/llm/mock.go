package llm

import (
	"context"

	"chat-exchange/internal/domain"
)

// MockClient permite tests sin llamar a un LLM real.
type MockClient struct {
	Response     string
	Err          error
	LastMessages []domain.Message
}

func (m *MockClient) Complete(ctx context.Context, messages []domain.Message) (string, error) {
	m.LastMessages = messages
	return m.Response, m.Err
}
