package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ledgerlink/backend/internal/domain/sync"
	"github.com/ledgerlink/backend/internal/infrastructure/config"
)

// NewEchoSuppressor builds the echo suppression store from configuration:
// Redis when enabled (shared across instances), in-memory otherwise. The
// returned client is nil in the in-memory case.
func NewEchoSuppressor(cfg *config.RedisConfig, logger *zap.Logger) (sync.EchoSuppressor, *redis.Client, error) {
	if !cfg.Enabled {
		logger.Info("using in-memory echo suppression store")
		return NewInMemoryEchoStore(), nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("using Redis echo suppression store", zap.String("addr", cfg.Addr()))
	return NewRedisEchoStore(client, ""), client, nil
}
