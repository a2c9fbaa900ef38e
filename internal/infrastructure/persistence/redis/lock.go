package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yuzvak/storefront-service/internal/infrastructure/monitoring"
	"github.com/yuzvak/storefront-service/internal/pkg/logger"
)

type Locker struct {
	client *redis.Client
	logger *logger.Logger
}

func NewLocker(conn *Connection, log *logger.Logger) *Locker {
	return &Locker{client: conn.GetClient(), logger: log}
}

func (l *Locker) DistributedLock(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	metrics := monitoring.NewDistributedLockMetrics(key)
	metrics.RecordAttempt()

	lockKey := fmt.Sprintf("lock:%s", key)
	result, err := l.client.SetNX(ctx, lockKey, "1", expiration).Result()
	if err != nil {
		metrics.RecordFailure("redis_error")
		return false, err
	}
	if !result {
		metrics.RecordFailure("already_locked")
		return false, nil
	}

	metrics.RecordSuccess()
	return true, nil
}

func (l *Locker) ReleaseLock(ctx context.Context, key string) error {
	lockKey := fmt.Sprintf("lock:%s", key)
	if err := l.client.Del(ctx, lockKey).Err(); err != nil {
		l.logger.Warn("Failed to release lock", "lock_key", lockKey, "error", err)
		return err
	}
	return nil
}
