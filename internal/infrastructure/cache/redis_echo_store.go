package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ledgerlink/backend/internal/domain/sync"
)

// RedisEchoStore implements sync.EchoSuppressor using Redis. Suitable
// for distributed deployments where the webhook endpoint and the job
// workers run in different processes and must share suppression state.
type RedisEchoStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisEchoStore creates a new Redis-backed echo suppression store
func NewRedisEchoStore(client *redis.Client, keyPrefix string) *RedisEchoStore {
	if keyPrefix == "" {
		keyPrefix = "sync:echo:"
	}
	return &RedisEchoStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Register marks (resourceID, category) as a self-originated write
func (s *RedisEchoStore) Register(ctx context.Context, resourceID string, category sync.EventCategory, ttl time.Duration) error {
	key := s.keyPrefix + sync.EchoKey(resourceID, category)

	if err := s.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to register echo suppression entry: %w", err)
	}
	return nil
}

// IsSuppressed reports whether an inbound event for the pair should be
// discarded as an echo of our own write
func (s *RedisEchoStore) IsSuppressed(ctx context.Context, resourceID string, category sync.EventCategory) (bool, error) {
	key := s.keyPrefix + sync.EchoKey(resourceID, category)

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check echo suppression entry: %w", err)
	}
	return exists > 0, nil
}

// Close closes the Redis client
func (s *RedisEchoStore) Close() error {
	return s.client.Close()
}

// Ensure RedisEchoStore implements EchoSuppressor
var _ sync.EchoSuppressor = (*RedisEchoStore)(nil)
