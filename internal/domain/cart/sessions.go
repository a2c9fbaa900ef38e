package cart

import (
	"context"
	"sync"
	"time"
)

// StorageKey is where a session's cart blob lives.
func StorageKey(sessionID string) string {
	return "cart:" + sessionID + ":cartItems"
}

// Sessions hands out one Store per cart session and keeps it for the life of
// the process, until it goes idle and Evict drops it.
type Sessions struct {
	blobs   BlobStore
	pricing Pricing
	opts    []Option
	built   options

	mu     sync.Mutex
	stores map[string]*Store
}

func NewSessions(blobs BlobStore, pricing Pricing, opts ...Option) *Sessions {
	return &Sessions{
		blobs:   blobs,
		pricing: pricing,
		opts:    opts,
		built:   buildOptions(opts),
		stores:  make(map[string]*Store),
	}
}

// Get returns the session's store, restored from storage on first use.
func (s *Sessions) Get(ctx context.Context, sessionID string) *Store {
	s.mu.Lock()
	store, ok := s.stores[sessionID]
	if !ok {
		store = NewStore(StorageKey(sessionID), s.blobs, s.pricing, s.opts...)
		s.stores[sessionID] = store
	}
	s.mu.Unlock()

	store.Initialize(ctx)
	store.touch()
	return store
}

// Evict drops stores unused for longer than idleFor and returns how many went.
func (s *Sessions) Evict(idleFor time.Duration) int {
	cutoff := s.built.clock.Now().Add(-idleFor)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, store := range s.stores {
		if store.LastUsed().Before(cutoff) {
			delete(s.stores, id)
			evicted++
		}
	}
	return evicted
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stores)
}

func (s *Sessions) Pricing() Pricing {
	return s.pricing
}
