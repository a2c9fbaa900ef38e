package redis

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// CartStore keeps serialized carts as plain string values. Each save
// overwrites the whole value and refreshes its TTL.
type CartStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCartStore(conn *Connection, ttl time.Duration) *CartStore {
	return &CartStore{client: conn.GetClient(), ttl: ttl}
}

func (s *CartStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	blob, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return blob, true, nil
}

func (s *CartStore) Save(ctx context.Context, key string, blob []byte) error {
	return s.client.Set(ctx, key, blob, s.ttl).Err()
}

// CompareAndSave sets key to blob only if it still holds expected (nil means
// absent), using WATCH so a write from another instance between the read and
// the SET aborts the transaction.
func (s *CartStore) CompareAndSave(ctx context.Context, key string, expected, blob []byte) (bool, error) {
	swapped := false
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			if expected != nil {
				return nil
			}
		case err != nil:
			return err
		case expected == nil || !bytes.Equal(current, expected):
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, blob, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		swapped = true
		return nil
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return swapped, nil
}
