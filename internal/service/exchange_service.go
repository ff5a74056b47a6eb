package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chat-exchange/internal/domain"
	"chat-exchange/internal/llm"
	"chat-exchange/internal/repository"
)

var (
	ErrExchangeServiceNotConfigured = errors.New("exchange service not configured")
	ErrExchangeInvalidInput         = errors.New("exchange invalid input")
)

// ExchangeService orquesta el pipeline validar -> completar -> persistir y
// las lecturas de historial. ownerScoping decide entre el modo scoped (token
// obligatorio, historial filtrado) y el modo legacy (sin filtro); una sola
// política por deployment, nunca mezcladas.
type ExchangeService struct {
	gateway      llm.CompletionClient
	repo         repository.ExchangeRepository
	ownerScoping bool
}

func NewExchangeService(gateway llm.CompletionClient, repo repository.ExchangeRepository, ownerScoping bool) *ExchangeService {
	return &ExchangeService{
		gateway:      gateway,
		repo:         repo,
		ownerScoping: ownerScoping,
	}
}

// Submit valida la conversación, llama al proveedor con la secuencia completa
// y persiste el par prompt/respuesta. Cualquier falla del gateway aborta la
// operación sin persistir nada.
func (s *ExchangeService) Submit(ctx context.Context, messages []domain.Message, ownerID string) (domain.Exchange, error) {
	if s == nil || s.gateway == nil || s.repo == nil {
		return domain.Exchange{}, ErrExchangeServiceNotConfigured
	}

	ownerID = strings.TrimSpace(ownerID)
	if len(messages) == 0 {
		return domain.Exchange{}, ErrExchangeInvalidInput
	}
	if s.ownerScoping && ownerID == "" {
		return domain.Exchange{}, ErrExchangeInvalidInput
	}

	text, err := s.gateway.Complete(ctx, messages)
	if err != nil {
		return domain.Exchange{}, fmt.Errorf("complete: %w", err)
	}

	if !s.ownerScoping {
		ownerID = ""
	}

	ex, err := s.repo.Append(ctx, lastUserContent(messages), text, ownerID)
	if err != nil {
		return domain.Exchange{}, fmt.Errorf("append exchange: %w", err)
	}
	return ex, nil
}

// History devuelve el historial del owner, newest-first. En modo scoped, un
// owner vacío devuelve lista vacía: guardia de privacidad para no exponer la
// tabla completa a un caller sin token.
func (s *ExchangeService) History(ctx context.Context, ownerID string) ([]domain.Exchange, error) {
	if s == nil || s.repo == nil {
		return nil, ErrExchangeServiceNotConfigured
	}

	if !s.ownerScoping {
		return s.repo.ListAll(ctx)
	}

	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return []domain.Exchange{}, nil
	}
	return s.repo.ListByOwner(ctx, ownerID)
}

// lastUserContent busca desde el final el último mensaje con rol user; si no
// hay ninguno el prompt persistido queda vacío (no es un error: el proveedor
// recibe la secuencia completa, no solo el último mensaje).
func lastUserContent(messages []domain.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == domain.RoleUser {
			return messages[i].Content
		}
	}
	return ""
}
