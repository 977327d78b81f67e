package cache

import (
	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewIdempotencyStore returns a Redis-backed store when client is non-nil
// and an in-memory store otherwise. The in-memory store does not share
// state between server instances.
func NewIdempotencyStore(client *redis.Client, logger *zap.Logger) shared.IdempotencyStore {
	if client != nil {
		logger.Info("Using Redis idempotency store")
		return NewRedisIdempotencyStore(client, "")
	}
	logger.Warn("Redis disabled, using in-memory idempotency store; redelivered events may be forwarded twice across instances")
	return NewInMemoryIdempotencyStore()
}
