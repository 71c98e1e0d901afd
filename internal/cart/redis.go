package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gnat1923/ecommerce/internal/domain/models"
	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "cart:"

// RedisStore хранит корзину как redis-список JSON-строк. Каждое добавление продлевает TTL.
type RedisStore struct {
	client    redis.Cmdable
	keyPrefix string
	ttl       time.Duration
}

func NewRedisStore(client redis.Cmdable, keyPrefix string, ttl time.Duration) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisStore{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

func (s *RedisStore) key(sessionID string) string {
	return s.keyPrefix + sessionID
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) ([]models.StagedItem, error) {
	raw, err := s.client.LRange(ctx, s.key(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	items := make([]models.StagedItem, 0, len(raw))
	for _, r := range raw {
		var item models.StagedItem
		if err := json.Unmarshal([]byte(r), &item); err != nil {
			return nil, fmt.Errorf("failed to decode cart item: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *RedisStore) Append(ctx context.Context, sessionID string, item models.StagedItem) ([]models.StagedItem, error) {
	payload, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cart item: %w", err)
	}

	key := s.key(sessionID)
	if err := s.client.RPush(ctx, key, string(payload)).Err(); err != nil {
		return nil, fmt.Errorf("failed to append cart item: %w", err)
	}
	if s.ttl > 0 {
		if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
			return nil, fmt.Errorf("failed to refresh cart ttl: %w", err)
		}
	}
	return s.Load(ctx, sessionID)
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

var (
	_ Store = (*RedisStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
