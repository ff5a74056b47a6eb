package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"chat-exchange/internal/domain"
)

// ExchangeRepository es un store append-only de exchanges. No expone update
// ni delete: un Exchange es inmutable desde su creación.
type ExchangeRepository interface {
	Append(ctx context.Context, prompt, response, ownerID string) (domain.Exchange, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Exchange, error)
	ListAll(ctx context.Context) ([]domain.Exchange, error)
}

type PgExchangeRepository struct {
	pool *pgxpool.Pool
}

func NewPgExchangeRepository(pool *pgxpool.Pool) *PgExchangeRepository {
	return &PgExchangeRepository{pool: pool}
}

func (r *PgExchangeRepository) Append(ctx context.Context, prompt, response, ownerID string) (domain.Exchange, error) {
	const query = `
		INSERT INTO exchanges (prompt, response, owner_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	// owner_id vacío se guarda como NULL (modo legacy sin scoping).
	var owner interface{}
	if ownerID != "" {
		owner = ownerID
	}

	ex := domain.Exchange{
		Prompt:    prompt,
		Response:  response,
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}

	err := r.pool.QueryRow(ctx, query, ex.Prompt, ex.Response, owner, ex.CreatedAt).Scan(&ex.ID)
	if err != nil {
		return domain.Exchange{}, err
	}
	return ex, nil
}

func (r *PgExchangeRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Exchange, error) {
	if ownerID == "" {
		return []domain.Exchange{}, nil
	}

	const query = `
		SELECT id, prompt, response, owner_id, created_at
		FROM exchanges
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`
	return r.queryExchanges(ctx, query, ownerID)
}

func (r *PgExchangeRepository) ListAll(ctx context.Context) ([]domain.Exchange, error) {
	const query = `
		SELECT id, prompt, response, owner_id, created_at
		FROM exchanges
		ORDER BY created_at DESC, id DESC
	`
	return r.queryExchanges(ctx, query)
}

func (r *PgExchangeRepository) queryExchanges(ctx context.Context, query string, args ...interface{}) ([]domain.Exchange, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exchanges := []domain.Exchange{}
	for rows.Next() {
		var ex domain.Exchange
		var ownerValue *string

		err = rows.Scan(&ex.ID, &ex.Prompt, &ex.Response, &ownerValue, &ex.CreatedAt)
		if err != nil {
			return nil, err
		}
		if ownerValue != nil {
			ex.OwnerID = *ownerValue
		}
		exchanges = append(exchanges, ex)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return exchanges, nil
}
