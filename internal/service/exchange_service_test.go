package service

import (
	"context"
	"errors"
	"testing"

	"chat-exchange/internal/domain"
	"chat-exchange/internal/llm"
	"chat-exchange/internal/repository"
)

func TestExchangeServiceSubmit_PersistsLastUserPrompt(t *testing.T) {
	repo := repository.NewMemoryExchangeRepository()
	gateway := &llm.MockClient{Response: "respuesta generada"}
	svc := NewExchangeService(gateway, repo, true)

	messages := []domain.Message{
		{Role: domain.RoleSystem, Content: "eres un asistente"},
		{Role: domain.RoleUser, Content: "primera pregunta"},
		{Role: domain.RoleAssistant, Content: "primera respuesta"},
		{Role: domain.RoleUser, Content: "segunda pregunta"},
	}

	ex, err := svc.Submit(context.Background(), messages, "owner-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ex.Prompt != "segunda pregunta" {
		t.Fatalf("expected last user message as prompt, got %q", ex.Prompt)
	}
	if ex.Response != "respuesta generada" {
		t.Fatalf("expected gateway text as response, got %q", ex.Response)
	}
	if ex.OwnerID != "owner-1" {
		t.Fatalf("expected owner-1, got %q", ex.OwnerID)
	}
	if ex.ID == 0 || ex.CreatedAt.IsZero() {
		t.Fatalf("expected assigned id and timestamp, got id=%d created_at=%v", ex.ID, ex.CreatedAt)
	}
	if len(gateway.LastMessages) != 4 {
		t.Fatalf("expected full conversation sent to gateway, got %d messages", len(gateway.LastMessages))
	}
}

func TestExchangeServiceSubmit_NoUserRoleMeansEmptyPrompt(t *testing.T) {
	repo := repository.NewMemoryExchangeRepository()
	gateway := &llm.MockClient{Response: "ok"}
	svc := NewExchangeService(gateway, repo, true)

	messages := []domain.Message{
		{Role: domain.RoleSystem, Content: "setup"},
		{Role: domain.RoleAssistant, Content: "hola"},
	}

	ex, err := svc.Submit(context.Background(), messages, "owner-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ex.Prompt != "" {
		t.Fatalf("expected empty prompt, got %q", ex.Prompt)
	}
}

func TestExchangeServiceSubmit_Validation(t *testing.T) {
	repo := repository.NewMemoryExchangeRepository()
	gateway := &llm.MockClient{Response: "ok"}
	svc := NewExchangeService(gateway, repo, true)

	_, err := svc.Submit(context.Background(), nil, "owner-1")
	if !errors.Is(err, ErrExchangeInvalidInput) {
		t.Fatalf("expected invalid input for empty messages, got %v", err)
	}

	_, err = svc.Submit(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: "hola"}}, "   ")
	if !errors.Is(err, ErrExchangeInvalidInput) {
		t.Fatalf("expected invalid input for missing owner, got %v", err)
	}

	if repo.Len() != 0 {
		t.Fatalf("expected no writes on validation failure, got %d", repo.Len())
	}
	if gateway.LastMessages != nil {
		t.Fatalf("expected no gateway call on validation failure")
	}
}

func TestExchangeServiceSubmit_GatewayFailureNotPersisted(t *testing.T) {
	repo := repository.NewMemoryExchangeRepository()
	gateway := &llm.MockClient{Err: &llm.ProviderError{Message: "quota exceeded"}}
	svc := NewExchangeService(gateway, repo, true)

	_, err := svc.Submit(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: "hola"}}, "owner-1")

	var provErr *llm.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected provider error to propagate, got %v", err)
	}
	if provErr.Message != "quota exceeded" {
		t.Fatalf("expected provider message, got %q", provErr.Message)
	}
	if repo.Len() != 0 {
		t.Fatalf("expected nothing persisted after gateway failure, got %d", repo.Len())
	}
}

func TestExchangeServiceSubmit_LegacyModeIgnoresOwner(t *testing.T) {
	repo := repository.NewMemoryExchangeRepository()
	gateway := &llm.MockClient{Response: "ok"}
	svc := NewExchangeService(gateway, repo, false)

	ex, err := svc.Submit(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: "hola"}}, "")
	if err != nil {
		t.Fatalf("expected no error without owner in legacy mode, got %v", err)
	}
	if ex.OwnerID != "" {
		t.Fatalf("expected empty owner in legacy mode, got %q", ex.OwnerID)
	}
}

func TestExchangeServiceHistory_FiltersByOwnerNewestFirst(t *testing.T) {
	repo := repository.NewMemoryExchangeRepository()
	gateway := &llm.MockClient{Response: "ok"}
	svc := NewExchangeService(gateway, repo, true)

	submit := func(owner, content string) {
		t.Helper()
		_, err := svc.Submit(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: content}}, owner)
		if err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}
	submit("owner-a", "a1")
	submit("owner-a", "a2")
	submit("owner-b", "b1")

	history, err := svc.History(context.Background(), "owner-a")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 exchanges for owner-a, got %d", len(history))
	}
	if history[0].Prompt != "a2" || history[1].Prompt != "a1" {
		t.Fatalf("expected newest-first order, got %q then %q", history[0].Prompt, history[1].Prompt)
	}
	for _, ex := range history {
		if ex.OwnerID != "owner-a" {
			t.Fatalf("expected only owner-a exchanges, got %q", ex.OwnerID)
		}
	}
}

func TestExchangeServiceHistory_EmptyOwnerGuard(t *testing.T) {
	repo := repository.NewMemoryExchangeRepository()
	gateway := &llm.MockClient{Response: "ok"}
	svc := NewExchangeService(gateway, repo, true)

	_, err := svc.Submit(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: "hola"}}, "owner-a")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	history, err := svc.History(context.Background(), "   ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history without owner, got %d", len(history))
	}
}

func TestExchangeServiceHistory_LegacyModeReturnsAll(t *testing.T) {
	repo := repository.NewMemoryExchangeRepository()
	gateway := &llm.MockClient{Response: "ok"}
	svc := NewExchangeService(gateway, repo, false)

	for _, content := range []string{"uno", "dos"} {
		if _, err := svc.Submit(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: content}}, ""); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}

	history, err := svc.History(context.Background(), "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected all exchanges in legacy mode, got %d", len(history))
	}
	if history[0].Prompt != "dos" {
		t.Fatalf("expected newest first, got %q", history[0].Prompt)
	}
}

func TestExchangeServiceNilReceiver(t *testing.T) {
	var svc *ExchangeService

	if _, err := svc.Submit(context.Background(), nil, ""); !errors.Is(err, ErrExchangeServiceNotConfigured) {
		t.Fatalf("expected not configured error, got %v", err)
	}
	if _, err := svc.History(context.Background(), "x"); !errors.Is(err, ErrExchangeServiceNotConfigured) {
		t.Fatalf("expected not configured error, got %v", err)
	}
}
