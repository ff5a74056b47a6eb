package llm

import (
	"context"
	"fmt"

	"chat-exchange/internal/domain"
)

// FallbackResponse se devuelve cuando el proveedor responde sin contenido
// utilizable. No es un error: es una normalización deliberada.
const FallbackResponse = "No response"

// CompletionClient define la interfaz para completar conversaciones con un LLM.
type CompletionClient interface {
	Complete(ctx context.Context, messages []domain.Message) (string, error)
}

// ProviderError representa un error reportado explícitamente por el proveedor
// (cuota, request inválido, etc). Su mensaje se expone al caller del API;
// cualquier otra falla del gateway se trata como error de transporte genérico.
type ProviderError struct {
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("llm provider error: %s", e.Message)
}
