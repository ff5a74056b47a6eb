package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"chat-exchange/internal/domain"
)

// redisCommander abstrae los comandos usados, para poder mockear en tests.
type redisCommander interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
}

// RedisExchangeRepository implementa el store append-only sobre Redis:
// un contador INCR para ids y listas LPUSH por owner (newest-first).
type RedisExchangeRepository struct {
	client redisCommander
	prefix string
}

func NewRedisExchangeRepository(client *redis.Client) *RedisExchangeRepository {
	return &RedisExchangeRepository{client: client, prefix: "exchanges:"}
}

func (r *RedisExchangeRepository) idKey() string  { return r.prefix + "next_id" }
func (r *RedisExchangeRepository) allKey() string { return r.prefix + "all" }
func (r *RedisExchangeRepository) ownerKey(ownerID string) string {
	return r.prefix + "owner:" + ownerID
}

func (r *RedisExchangeRepository) Append(ctx context.Context, prompt, response, ownerID string) (domain.Exchange, error) {
	id, err := r.client.Incr(ctx, r.idKey()).Result()
	if err != nil {
		return domain.Exchange{}, fmt.Errorf("redis incr: %w", err)
	}

	ex := domain.Exchange{
		ID:        id,
		Prompt:    prompt,
		Response:  response,
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(ex)
	if err != nil {
		return domain.Exchange{}, fmt.Errorf("marshal exchange: %w", err)
	}

	if err := r.client.LPush(ctx, r.allKey(), payload).Err(); err != nil {
		return domain.Exchange{}, fmt.Errorf("redis lpush: %w", err)
	}
	if ownerID != "" {
		if err := r.client.LPush(ctx, r.ownerKey(ownerID), payload).Err(); err != nil {
			return domain.Exchange{}, fmt.Errorf("redis lpush owner: %w", err)
		}
	}

	return ex, nil
}

func (r *RedisExchangeRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Exchange, error) {
	if ownerID == "" {
		return []domain.Exchange{}, nil
	}
	return r.listKey(ctx, r.ownerKey(ownerID))
}

func (r *RedisExchangeRepository) ListAll(ctx context.Context) ([]domain.Exchange, error) {
	return r.listKey(ctx, r.allKey())
}

// listKey devuelve la lista completa de una key; LPUSH deja el elemento más
// nuevo al frente, así que el orden ya es newest-first.
func (r *RedisExchangeRepository) listKey(ctx context.Context, key string) ([]domain.Exchange, error) {
	raw, err := r.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange: %w", err)
	}

	exchanges := []domain.Exchange{}
	for _, item := range raw {
		var ex domain.Exchange
		if err := json.Unmarshal([]byte(item), &ex); err != nil {
			return nil, fmt.Errorf("unmarshal exchange: %w", err)
		}
		exchanges = append(exchanges, ex)
	}
	return exchanges, nil
}
