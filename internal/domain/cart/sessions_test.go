package cart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuzvak/storefront-service/internal/pkg/clock"
)

func TestStorageKey(t *testing.T) {
	assert.Equal(t, "cart:abc:cartItems", StorageKey("abc"))
}

func TestSessionsGetReturnsSameStore(t *testing.T) {
	ctx := context.Background()
	blobs := newFakeBlobStore()
	sessions := NewSessions(blobs, DefaultPricing())

	first := sessions.Get(ctx, "s1")
	second := sessions.Get(ctx, "s1")
	other := sessions.Get(ctx, "s2")

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
	assert.Equal(t, StorageKey("s1"), first.Key())
	assert.Equal(t, 2, sessions.Len())
	assert.Equal(t, 2, blobs.loads)
}

func TestSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessions(newFakeBlobStore(), DefaultPricing())

	require.NoError(t, sessions.Get(ctx, "s1").AddItem(ctx, tee(), 2))

	assert.Len(t, sessions.Get(ctx, "s1").Items(), 1)
	assert.Empty(t, sessions.Get(ctx, "s2").Items())
}

func TestSessionsRestoreAfterEviction(t *testing.T) {
	ctx := context.Background()
	mock := clock.NewMockClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	blobs := newFakeBlobStore()
	sessions := NewSessions(blobs, DefaultPricing(), WithClock(mock))

	require.NoError(t, sessions.Get(ctx, "s1").AddItem(ctx, tee(), 3))

	mock.Advance(31 * time.Minute)
	assert.Equal(t, 1, sessions.Evict(30*time.Minute))
	assert.Equal(t, 0, sessions.Len())

	restored := sessions.Get(ctx, "s1")
	items := restored.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestSessionsEvictKeepsActive(t *testing.T) {
	ctx := context.Background()
	mock := clock.NewMockClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	sessions := NewSessions(newFakeBlobStore(), DefaultPricing(), WithClock(mock))

	sessions.Get(ctx, "idle")
	mock.Advance(20 * time.Minute)
	sessions.Get(ctx, "active")
	mock.Advance(15 * time.Minute)

	assert.Equal(t, 1, sessions.Evict(30*time.Minute))
	assert.Equal(t, 1, sessions.Len())
	assert.Equal(t, 0, sessions.Evict(30*time.Minute))
}
