package memory

import (
	"bytes"
	"context"
	"sync"
	"time"
)

// BlobStore keeps cart blobs in process memory. Used when no Redis address
// is configured and in tests.
type BlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewBlobStore() *BlobStore {
	return &BlobStore{blobs: make(map[string][]byte)}
}

func (s *BlobStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blob, ok := s.blobs[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), blob...), true, nil
}

func (s *BlobStore) Save(_ context.Context, key string, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = append([]byte(nil), blob...)
	return nil
}

// CompareAndSave writes blob only if key still holds expected; a nil
// expected requires the key to be absent.
func (s *BlobStore) CompareAndSave(_ context.Context, key string, expected, blob []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.blobs[key]
	if ok != (expected != nil) || !bytes.Equal(current, expected) {
		return false, nil
	}
	s.blobs[key] = append([]byte(nil), blob...)
	return true, nil
}

// Locker is the single-process counterpart of the Redis lock.
type Locker struct {
	mu    sync.Mutex
	locks map[string]time.Time
	now   func() time.Time
}

func NewLocker() *Locker {
	return &Locker{locks: make(map[string]time.Time), now: time.Now}
}

func (l *Locker) DistributedLock(_ context.Context, key string, expiration time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if until, held := l.locks[key]; held && l.now().Before(until) {
		return false, nil
	}
	l.locks[key] = l.now().Add(expiration)
	return true, nil
}

func (l *Locker) ReleaseLock(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.locks, key)
	return nil
}
