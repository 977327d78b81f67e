package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisJobLock runs periodic jobs on at most one server instance at a time
type RedisJobLock struct {
	locker *redislock.Client
	logger *zap.Logger
}

// NewRedisJobLock creates a job lock on an existing client
func NewRedisJobLock(client *redis.Client, logger *zap.Logger) *RedisJobLock {
	return &RedisJobLock{
		locker: redislock.New(client),
		logger: logger.Named("job_lock"),
	}
}

// RunExclusive obtains key for ttl and runs job while holding it. It returns
// false without running job when another instance holds the key.
func (l *RedisJobLock) RunExclusive(ctx context.Context, key string, ttl time.Duration, job func(context.Context)) (bool, error) {
	lock, err := l.locker.Obtain(ctx, key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to obtain lock %s: %w", key, err)
	}
	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.logger.Warn("Failed to release lock", zap.String("key", key), zap.Error(err))
		}
	}()

	job(ctx)
	return true, nil
}
