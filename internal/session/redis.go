package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/markjakearzadon/rxmate-checkout/internal/models"
)

const transactionKeyPrefix = "checkout:txn:"

// RedisStore keeps each context as a JSON value with a TTL, shared by every
// instance of the service.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, tc models.TransactionContext) error {
	value, err := json.Marshal(tc)
	if err != nil {
		return fmt.Errorf("encode transaction context: %w", err)
	}
	return s.client.Set(ctx, transactionKeyPrefix+sessionID, value, s.ttl).Err()
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (*models.TransactionContext, error) {
	value, err := s.client.Get(ctx, transactionKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var tc models.TransactionContext
	if err := json.Unmarshal(value, &tc); err != nil {
		return nil, fmt.Errorf("decode transaction context: %w", err)
	}
	return &tc, nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, transactionKeyPrefix+sessionID).Err()
}
