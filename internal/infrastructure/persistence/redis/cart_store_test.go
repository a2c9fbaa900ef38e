package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuzvak/storefront-service/internal/domain/cart"
	"github.com/yuzvak/storefront-service/internal/pkg/logger"
)

// Runs against a live server when STOREFRONT_TEST_REDIS_ADDR is set.
func testConnection(t *testing.T) *Connection {
	t.Helper()
	addr := os.Getenv("STOREFRONT_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("STOREFRONT_TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	require.NoError(t, client.Ping(context.Background()).Err())
	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})
	return NewConnectionFromClient(client)
}

func TestCartStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewCartStore(testConnection(t), time.Hour)
	key := cart.StorageKey("integration")

	_, found, err := store.Load(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	s := cart.NewStore(key, store, cart.DefaultPricing())
	require.NoError(t, s.AddItem(ctx, cart.CatalogItem{ID: "1", Title: "Tee", Price: cart.FromMajor(500)}, 2))

	restored := cart.NewStore(key, store, cart.DefaultPricing())
	items := restored.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestCartStoreMergesWritesFromTwoInstances(t *testing.T) {
	ctx := context.Background()
	store := NewCartStore(testConnection(t), time.Hour)
	key := cart.StorageKey("replicas")

	first := cart.NewStore(key, store, cart.DefaultPricing())
	second := cart.NewStore(key, store, cart.DefaultPricing())
	first.Initialize(ctx)
	second.Initialize(ctx)

	require.NoError(t, first.AddItem(ctx, cart.CatalogItem{ID: "1", Title: "Tee", Price: cart.FromMajor(500)}, 1))
	require.NoError(t, second.AddItem(ctx, cart.CatalogItem{ID: "2", Title: "Cap", Price: cart.FromMajor(250)}, 1))

	items := cart.NewStore(key, store, cart.DefaultPricing()).Items()
	require.Len(t, items, 2)
	assert.Equal(t, cart.ItemID("1"), items[0].ID)
	assert.Equal(t, cart.ItemID("2"), items[1].ID)
}

func TestLockerExcludes(t *testing.T) {
	ctx := context.Background()
	locker := NewLocker(testConnection(t), logger.NewNop())

	ok, err := locker.DistributedLock(ctx, "checkout:s1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = locker.DistributedLock(ctx, "checkout:s1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, locker.ReleaseLock(ctx, "checkout:s1"))
	ok, err = locker.DistributedLock(ctx, "checkout:s1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}
