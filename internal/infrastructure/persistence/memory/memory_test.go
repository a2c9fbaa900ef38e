package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuzvak/storefront-service/internal/domain/cart"
	domainErrors "github.com/yuzvak/storefront-service/internal/domain/errors"
	"github.com/yuzvak/storefront-service/internal/domain/order"
	"github.com/yuzvak/storefront-service/internal/domain/user"
)

var created = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newOrder(t *testing.T, id, uid string) *order.Order {
	t.Helper()
	items := []cart.LineItem{{CatalogItem: cart.CatalogItem{ID: "1", Title: "Tee", Price: cart.FromMajor(500)}, Quantity: 1}}
	o, err := order.NewOrder(id, uid,
		cart.Snapshot{Items: items, Totals: cart.DefaultPricing().Calculate(items)},
		order.Billing{FirstName: "Asha", LastName: "Rao", Email: "asha@example.com", Address: "12 MG Road"},
		"cod", created)
	require.NoError(t, err)
	return o
}

func TestBlobStoreCopiesOnLoadAndSave(t *testing.T) {
	ctx := context.Background()
	s := NewBlobStore()

	_, found, err := s.Load(ctx, "cart:a:cartItems")
	require.NoError(t, err)
	assert.False(t, found)

	blob := []byte(`[{"id":"1"}]`)
	require.NoError(t, s.Save(ctx, "cart:a:cartItems", blob))
	blob[0] = 'X'

	got, found, err := s.Load(ctx, "cart:a:cartItems")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, `[{"id":"1"}]`, string(got))

	got[0] = 'Y'
	again, _, _ := s.Load(ctx, "cart:a:cartItems")
	assert.Equal(t, byte('['), again[0])
}

func TestBlobStoreCompareAndSave(t *testing.T) {
	ctx := context.Background()
	s := NewBlobStore()
	key := "cart:a:cartItems"

	swapped, err := s.CompareAndSave(ctx, key, []byte("[]"), []byte(`[{"id":"1"}]`))
	require.NoError(t, err)
	assert.False(t, swapped, "absent key must not match a non-nil expected")

	swapped, err = s.CompareAndSave(ctx, key, nil, []byte("[]"))
	require.NoError(t, err)
	assert.True(t, swapped)

	swapped, err = s.CompareAndSave(ctx, key, nil, []byte(`[{"id":"2"}]`))
	require.NoError(t, err)
	assert.False(t, swapped, "present key must not match a nil expected")

	swapped, err = s.CompareAndSave(ctx, key, []byte("[]"), []byte(`[{"id":"1"}]`))
	require.NoError(t, err)
	assert.True(t, swapped)

	got, _, err := s.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, string(got))
}

func TestLockerHoldsUntilReleaseOrExpiry(t *testing.T) {
	ctx := context.Background()
	now := created
	l := NewLocker()
	l.now = func() time.Time { return now }

	ok, err := l.DistributedLock(ctx, "checkout:s1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = l.DistributedLock(ctx, "checkout:s1", time.Minute)
	assert.False(t, ok)

	ok, _ = l.DistributedLock(ctx, "checkout:s2", time.Minute)
	assert.True(t, ok)

	require.NoError(t, l.ReleaseLock(ctx, "checkout:s1"))
	ok, _ = l.DistributedLock(ctx, "checkout:s1", time.Minute)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	ok, _ = l.DistributedLock(ctx, "checkout:s2", time.Minute)
	assert.True(t, ok)
}

func TestOrderRepositoryIsolatesStoredOrders(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()

	o := newOrder(t, "ORD-1", "uid-1")
	require.NoError(t, repo.CreateOrder(ctx, o))
	assert.ErrorIs(t, repo.CreateOrder(ctx, o), domainErrors.ErrTransactionFailed)

	o.Status = order.StatusCancelled
	stored, err := repo.GetOrderByID(ctx, "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, order.StatusPlaced, stored.Status)

	require.NoError(t, repo.CreateOrder(ctx, newOrder(t, "ORD-2", "uid-2")))
	mine, err := repo.ListOrdersByUser(ctx, "uid-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "ORD-1", mine[0].ID)

	all, err := repo.ListOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = repo.GetOrderByID(ctx, "ORD-9")
	assert.ErrorIs(t, err, domainErrors.ErrOrderNotFound)
	assert.ErrorIs(t, repo.UpdateOrder(ctx, newOrder(t, "ORD-9", "uid-1")), domainErrors.ErrOrderNotFound)
}

func TestOrderRepositoryCreateReturn(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()
	o := newOrder(t, "ORD-1", "uid-1")
	require.NoError(t, repo.CreateOrder(ctx, o))

	require.NoError(t, o.SetStatus(order.StatusDelivered, created))
	req, err := order.NewReturnRequest("RET-1", o, []string{"Tee"}, order.ActionReplace, "wrong size", "", created)
	require.NoError(t, err)
	require.NoError(t, o.MarkReturnRequested(created))
	require.NoError(t, repo.CreateReturn(ctx, req, o))

	req.Items[0] = "changed"
	returns, err := repo.ListReturnsByOrder(ctx, "ORD-1")
	require.NoError(t, err)
	require.Len(t, returns, 1)
	assert.Equal(t, []string{"Tee"}, returns[0].Items)

	stored, err := repo.GetOrderByID(ctx, "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, order.StatusReturnRequested, stored.Status)
}

func TestUserRepositoryAdminFlag(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	assert.ErrorIs(t, repo.SetAdmin(ctx, "uid-1", true), domainErrors.ErrUserNotFound)

	require.NoError(t, repo.SaveProfile(ctx, &user.Profile{UID: "uid-1", FirstName: "Asha", LastName: "Rao"}))
	require.NoError(t, repo.SetAdmin(ctx, "uid-1", true))

	require.NoError(t, repo.SaveProfile(ctx, &user.Profile{UID: "uid-1", FirstName: "Asha", LastName: "R", IsAdmin: false}))
	p, err := repo.GetProfile(ctx, "uid-1")
	require.NoError(t, err)
	assert.True(t, p.IsAdmin)
	assert.Equal(t, "R", p.LastName)
}
