package cart

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	domainErrors "github.com/yuzvak/storefront-service/internal/domain/errors"
	"github.com/yuzvak/storefront-service/internal/pkg/clock"
	"github.com/yuzvak/storefront-service/internal/pkg/logger"
)

const (
	loadTimeout       = 5 * time.Second
	maxCommitAttempts = 3
)

type Option func(*options)

type options struct {
	log      *logger.Logger
	observer Observer
	clock    clock.Clock
}

func WithLogger(log *logger.Logger) Option {
	return func(o *options) { o.log = log }
}

func WithObserver(observer Observer) Option {
	return func(o *options) { o.observer = observer }
}

func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

func buildOptions(opts []Option) options {
	o := options{
		log:      logger.NewNop(),
		observer: nopObserver{},
		clock:    clock.NewRealClock(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Snapshot is an immutable view of the cart handed to checkout.
type Snapshot struct {
	Items  []LineItem `json:"items"`
	Totals Totals     `json:"totals"`
}

func (s Snapshot) IsEmpty() bool {
	return len(s.Items) == 0
}

// Store owns one cart. Every mutation runs to completion under mu and is
// saved (full overwrite) before mu is released, so saves never reorder.
type Store struct {
	key     string
	blobs   BlobStore
	pricing Pricing
	opts    options

	initMu sync.Mutex
	ready  atomic.Bool

	mu       sync.Mutex
	items    []LineItem
	stored   []byte
	lastUsed time.Time
}

func NewStore(key string, blobs BlobStore, pricing Pricing, opts ...Option) *Store {
	o := buildOptions(opts)
	return &Store{
		key:      key,
		blobs:    blobs,
		pricing:  pricing,
		opts:     o,
		items:    []LineItem{},
		lastUsed: o.clock.Now(),
	}
}

func (s *Store) Key() string {
	return s.key
}

// Initialize restores the cart from the blob store and reports whether the
// store is ready. A missing or corrupt blob leaves the cart empty and ready.
// A failed read leaves it not ready and the next call tries again; until a
// read succeeds, mutations are refused and nothing is saved.
func (s *Store) Initialize(ctx context.Context) bool {
	if s.ready.Load() {
		return true
	}

	s.initMu.Lock()
	defer s.initMu.Unlock()
	if s.ready.Load() {
		return true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, outcome, err := s.fetch(ctx)
	switch outcome {
	case LoadFailed:
		s.opts.log.Warn("Failed to load cart, will retry", "key", s.key, "error", err)
		s.opts.observer.ObserveLoad(LoadFailed)
		return false
	case LoadCorrupt:
		s.opts.log.Warn("Stored cart is corrupt, starting empty", "key", s.key, "error", err)
	}
	s.items = items
	s.ready.Store(true)
	s.opts.observer.ObserveLoad(outcome)
	return true
}

// Ready reports whether the cart has been read from storage.
func (s *Store) Ready() bool {
	return s.ready.Load()
}

// Refresh re-reads the stored blob, picking up saves made by another
// process sharing the blob store. A corrupt blob empties the cart.
func (s *Store) Refresh(ctx context.Context) error {
	if !s.Initialize(ctx) {
		return domainErrors.ErrCartUnavailable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, outcome, err := s.fetch(ctx)
	if outcome == LoadFailed {
		s.opts.log.Warn("Failed to refresh cart", "key", s.key, "error", err)
		return fmt.Errorf("%w: %v", domainErrors.ErrCartUnavailable, err)
	}
	s.items = items
	return nil
}

// fetch reads and parses the stored blob and remembers it as the version
// the next conditional save expects. Callers hold mu. The read is detached
// from ctx cancellation so an abandoned request cannot fail it.
func (s *Store) fetch(ctx context.Context) ([]LineItem, string, error) {
	loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
	defer cancel()

	blob, found, err := s.blobs.Load(loadCtx, s.key)
	if err != nil {
		return nil, LoadFailed, err
	}
	if !found {
		s.stored = nil
		return []LineItem{}, LoadEmpty, nil
	}
	if blob == nil {
		blob = []byte{}
	}
	s.stored = blob

	items, err := Parse(blob)
	if err != nil {
		return []LineItem{}, LoadCorrupt, err
	}
	return items, LoadRestored, nil
}

// AddItem puts quantity units of item in the cart. Quantities below 1 count
// as 1 and a line never holds more than MaxLineQuantity. The catalog item is
// copied, so later catalog edits do not leak in.
func (s *Store) AddItem(ctx context.Context, item CatalogItem, quantity int) error {
	quantity = clampQuantity(quantity)

	return s.mutate(ctx, "add", func(items []LineItem) []LineItem {
		for i := range items {
			if items[i].ID == item.ID {
				items[i].Quantity = addQuantity(items[i].Quantity, quantity)
				return items
			}
		}
		return append(items, LineItem{CatalogItem: item.Clone(), Quantity: quantity})
	})
}

// SetQuantity replaces the quantity of id, capped at MaxLineQuantity. A
// quantity of 0 or less removes the line; an unknown id is ignored.
func (s *Store) SetQuantity(ctx context.Context, id ItemID, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, id)
	}
	quantity = clampQuantity(quantity)

	return s.mutate(ctx, "set_quantity", func(items []LineItem) []LineItem {
		for i := range items {
			if items[i].ID == id {
				items[i].Quantity = quantity
				break
			}
		}
		return items
	})
}

func (s *Store) RemoveItem(ctx context.Context, id ItemID) error {
	return s.mutate(ctx, "remove", func(items []LineItem) []LineItem {
		for i := range items {
			if items[i].ID == id {
				return append(items[:i], items[i+1:]...)
			}
		}
		return items
	})
}

// Clear empties the cart. Call it only after an order has been recorded.
func (s *Store) Clear(ctx context.Context) error {
	return s.mutate(ctx, "clear", func([]LineItem) []LineItem {
		return []LineItem{}
	})
}

func (s *Store) mutate(ctx context.Context, op string, apply func([]LineItem) []LineItem) error {
	if !s.Initialize(ctx) {
		s.opts.observer.ObserveMutation(op, domainErrors.ErrCartUnavailable)
		return domainErrors.ErrCartUnavailable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastUsed = s.opts.clock.Now()
	err := s.commit(ctx, apply)
	if err != nil {
		s.opts.log.Error("Failed to persist cart", "key", s.key, "op", op, "error", err)
	}
	s.opts.observer.ObserveMutation(op, err)
	return err
}

// commit applies the mutation and saves the result. A failed save keeps the
// change in memory. When the blob store supports conditional saves, a save
// only lands over the blob this Store last read or wrote; if another writer
// got there first the mutation is replayed on the newer cart.
func (s *Store) commit(ctx context.Context, apply func([]LineItem) []LineItem) error {
	next := apply(s.copyItems())
	defer func() { s.items = next }()

	cas, ok := s.blobs.(ConditionalBlobStore)
	if !ok {
		blob, err := Serialize(next)
		if err != nil {
			return fmt.Errorf("%w: %v", domainErrors.ErrCartPersistence, err)
		}
		if err := s.blobs.Save(ctx, s.key, blob); err != nil {
			return fmt.Errorf("%w: %v", domainErrors.ErrCartPersistence, err)
		}
		s.stored = blob
		return nil
	}

	for attempt := 1; ; attempt++ {
		blob, err := Serialize(next)
		if err != nil {
			return fmt.Errorf("%w: %v", domainErrors.ErrCartPersistence, err)
		}
		swapped, err := cas.CompareAndSave(ctx, s.key, s.stored, blob)
		if err != nil {
			return fmt.Errorf("%w: %v", domainErrors.ErrCartPersistence, err)
		}
		if swapped {
			s.stored = blob
			return nil
		}
		if attempt == maxCommitAttempts {
			return fmt.Errorf("%w: cart changed concurrently", domainErrors.ErrCartPersistence)
		}

		current, outcome, err := s.fetch(ctx)
		if outcome == LoadFailed {
			return fmt.Errorf("%w: %v", domainErrors.ErrCartPersistence, err)
		}
		next = apply(current)
	}
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []LineItem {
	s.Initialize(context.Background())

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyItems()
}

// Derive recomputes the totals from the current items.
func (s *Store) Derive() Totals {
	s.Initialize(context.Background())

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pricing.Calculate(s.items)
}

func (s *Store) Snapshot() Snapshot {
	s.Initialize(context.Background())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = s.opts.clock.Now()
	items := s.copyItems()
	return Snapshot{Items: items, Totals: s.pricing.Calculate(items)}
}

func (s *Store) Pricing() Pricing {
	return s.pricing
}

func (s *Store) touch() {
	s.mu.Lock()
	s.lastUsed = s.opts.clock.Now()
	s.mu.Unlock()
}

func (s *Store) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

func (s *Store) copyItems() []LineItem {
	out := make([]LineItem, len(s.items))
	for i, item := range s.items {
		out[i] = item.Clone()
	}
	return out
}
