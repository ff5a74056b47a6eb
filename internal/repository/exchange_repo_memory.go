package repository

import (
	"context"
	"sync"
	"time"

	"chat-exchange/internal/domain"
)

// MemoryExchangeRepository es un store en memoria para desarrollo y tests.
type MemoryExchangeRepository struct {
	mu     sync.Mutex
	nextID int64
	items  []domain.Exchange
}

func NewMemoryExchangeRepository() *MemoryExchangeRepository {
	return &MemoryExchangeRepository{}
}

func (r *MemoryExchangeRepository) Append(_ context.Context, prompt, response, ownerID string) (domain.Exchange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	ex := domain.Exchange{
		ID:        r.nextID,
		Prompt:    prompt,
		Response:  response,
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}
	r.items = append(r.items, ex)
	return ex, nil
}

func (r *MemoryExchangeRepository) ListByOwner(_ context.Context, ownerID string) ([]domain.Exchange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	exchanges := []domain.Exchange{}
	if ownerID == "" {
		return exchanges, nil
	}
	// items está en orden de inserción; se recorre al revés para newest-first
	// (empates de created_at quedan resueltos por id descendente).
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].OwnerID == ownerID {
			exchanges = append(exchanges, r.items[i])
		}
	}
	return exchanges, nil
}

func (r *MemoryExchangeRepository) ListAll(_ context.Context) ([]domain.Exchange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	exchanges := []domain.Exchange{}
	for i := len(r.items) - 1; i >= 0; i-- {
		exchanges = append(exchanges, r.items[i])
	}
	return exchanges, nil
}

// Len devuelve la cantidad de exchanges guardados; útil en tests.
func (r *MemoryExchangeRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
