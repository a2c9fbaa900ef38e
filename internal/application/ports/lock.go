package ports

import (
	"context"
	"time"
)

// Locker is a best-effort distributed mutex. DistributedLock reports false
// when someone else holds key.
type Locker interface {
	DistributedLock(ctx context.Context, key string, expiration time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
}
