package use_cases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuzvak/storefront-service/internal/application/ports"
	"github.com/yuzvak/storefront-service/internal/domain/cart"
	"github.com/yuzvak/storefront-service/internal/domain/catalog"
	domainErrors "github.com/yuzvak/storefront-service/internal/domain/errors"
	"github.com/yuzvak/storefront-service/internal/domain/order"
	"github.com/yuzvak/storefront-service/internal/infrastructure/persistence/memory"
	"github.com/yuzvak/storefront-service/internal/pkg/clock"
	"github.com/yuzvak/storefront-service/internal/pkg/generator"
	"github.com/yuzvak/storefront-service/internal/pkg/logger"
)

var testNow = time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)

type failingOrders struct {
	*memory.OrderRepository
}

func (failingOrders) CreateOrder(context.Context, *order.Order) error {
	return errors.New("connection reset")
}

type recordingNotifier struct {
	sent []string
	err  error
}

func (n *recordingNotifier) OrderPlaced(_ context.Context, o *order.Order) error {
	n.sent = append(n.sent, o.ID)
	return n.err
}

type unreadableBlobs struct {
	*memory.BlobStore
}

func (unreadableBlobs) Load(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("redis: connection refused")
}

type heldLocker struct{}

func (heldLocker) DistributedLock(context.Context, string, time.Duration) (bool, error) {
	return false, nil
}

func (heldLocker) ReleaseLock(context.Context, string) error {
	return nil
}

func testCatalog() *catalog.Catalog {
	return catalog.New([]cart.CatalogItem{
		{ID: "1", Title: "Tee", Price: cart.FromMajor(500), Category: "Men"},
		{ID: "2", Title: "Cap", Price: cart.FromMajor(250), Category: "Accessories"},
	})
}

func validBilling() order.Billing {
	return order.Billing{FirstName: "Asha", LastName: "Rao", Email: "asha@example.com", Address: "12 MG Road"}
}

type checkoutFixture struct {
	blobs    *memory.BlobStore
	sessions *cart.Sessions
	carts    *CartUseCase
	orders   *memory.OrderRepository
	notifier *recordingNotifier
}

func newCheckoutFixture() *checkoutFixture {
	blobs := memory.NewBlobStore()
	sessions := cart.NewSessions(blobs, cart.DefaultPricing())
	return &checkoutFixture{
		blobs:    blobs,
		sessions: sessions,
		carts:    NewCartUseCase(sessions, testCatalog()),
		orders:   memory.NewOrderRepository(),
		notifier: &recordingNotifier{},
	}
}

func (f *checkoutFixture) useCase(orders ports.OrderRepository) *CheckoutUseCase {
	return NewCheckoutUseCase(f.sessions, orders, memory.NewLocker(), f.notifier,
		generator.NewCodeGenerator(), clock.NewMockClock(testNow), logger.NewNop())
}

func view(t *testing.T, f *checkoutFixture, sessionID string) cart.Snapshot {
	t.Helper()
	snap, err := f.carts.View(context.Background(), sessionID)
	require.NoError(t, err)
	return snap
}

func TestCheckoutPlacesOrderAndClearsCart(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()

	_, err := f.carts.AddItem(ctx, "s1", "1", 2)
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, "s1", "2", 1)
	require.NoError(t, err)

	placed, err := f.useCase(f.orders).ExecuteCheckout(ctx, CheckoutRequest{
		SessionID:     "s1",
		UserID:        "uid-1",
		Billing:       validBilling(),
		PaymentMethod: "card",
	})
	require.NoError(t, err)

	assert.Equal(t, order.StatusPlaced, placed.Status)
	assert.Equal(t, cart.FromMajor(1575), placed.Total)
	assert.Equal(t, testNow, placed.CreatedAt)
	assert.Len(t, placed.Items, 2)

	stored, err := f.orders.GetOrderByID(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, placed.Total, stored.Total)

	assert.True(t, view(t, f, "s1").IsEmpty())
	assert.Equal(t, []string{placed.ID}, f.notifier.sent)
}

func TestCheckoutFailureLeavesCartUntouched(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()

	_, err := f.carts.AddItem(ctx, "s1", "1", 3)
	require.NoError(t, err)

	_, err = f.useCase(failingOrders{f.orders}).ExecuteCheckout(ctx, CheckoutRequest{
		SessionID: "s1",
		UserID:    "uid-1",
		Billing:   validBilling(),
	})
	require.ErrorIs(t, err, domainErrors.ErrTransactionFailed)

	snap := view(t, f, "s1")
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 3, snap.Items[0].Quantity)
	assert.Empty(t, f.notifier.sent)
}

func TestCheckoutRejectsEmptyCartAndBadBilling(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()
	uc := f.useCase(f.orders)

	_, err := uc.ExecuteCheckout(ctx, CheckoutRequest{SessionID: "s1", UserID: "uid-1", Billing: validBilling()})
	assert.ErrorIs(t, err, domainErrors.ErrEmptyCart)

	_, err = f.carts.AddItem(ctx, "s1", "1", 1)
	require.NoError(t, err)

	_, err = uc.ExecuteCheckout(ctx, CheckoutRequest{SessionID: "s1", UserID: "uid-1", Billing: order.Billing{}})
	assert.ErrorIs(t, err, domainErrors.ErrInvalidBilling)
	assert.False(t, view(t, f, "s1").IsEmpty())
}

func TestCheckoutBusyWhenLockHeld(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()
	uc := f.useCase(f.orders)
	uc.locker = heldLocker{}

	_, err := f.carts.AddItem(ctx, "s1", "1", 1)
	require.NoError(t, err)

	_, err = uc.ExecuteCheckout(ctx, CheckoutRequest{SessionID: "s1", UserID: "uid-1", Billing: validBilling()})
	assert.ErrorIs(t, err, domainErrors.ErrCheckoutBusy)
	assert.False(t, view(t, f, "s1").IsEmpty())
}

func TestCheckoutSurvivesNotifierFailure(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()
	f.notifier.err = errors.New("smtp down")

	_, err := f.carts.AddItem(ctx, "s1", "1", 1)
	require.NoError(t, err)

	placed, err := f.useCase(f.orders).ExecuteCheckout(ctx, CheckoutRequest{SessionID: "s1", UserID: "uid-1", Billing: validBilling()})
	require.NoError(t, err)
	assert.NotEmpty(t, placed.ID)
	assert.True(t, view(t, f, "s1").IsEmpty())
}

func TestCartUseCaseUnknownProduct(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()

	_, err := f.carts.AddItem(ctx, "s1", "missing", 1)
	assert.ErrorIs(t, err, domainErrors.ErrProductNotFound)
	assert.True(t, view(t, f, "s1").IsEmpty())
}

func TestCartUseCaseMutations(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()

	snap, err := f.carts.AddItem(ctx, "s1", "1", 0)
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 1, snap.Items[0].Quantity)

	snap, err = f.carts.SetQuantity(ctx, "s1", "1", 4)
	require.NoError(t, err)
	assert.Equal(t, cart.Money(0), snap.Totals.ShippingFee)

	snap, err = f.carts.RemoveItem(ctx, "s1", "1")
	require.NoError(t, err)
	assert.True(t, snap.IsEmpty())

	_, err = f.carts.AddItem(ctx, "s1", "2", 2)
	require.NoError(t, err)
	snap, err = f.carts.Clear(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, snap.IsEmpty())
}

func TestCheckoutUsesCartSavedByAnotherInstance(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()
	assert.True(t, view(t, f, "s1").IsEmpty())

	other := NewCartUseCase(cart.NewSessions(f.blobs, cart.DefaultPricing()), testCatalog())
	_, err := other.AddItem(ctx, "s1", "2", 2)
	require.NoError(t, err)

	placed, err := f.useCase(f.orders).ExecuteCheckout(ctx, CheckoutRequest{SessionID: "s1", UserID: "uid-1", Billing: validBilling()})
	require.NoError(t, err)
	require.Len(t, placed.Items, 1)
	assert.Equal(t, cart.ItemID("2"), placed.Items[0].ID)
	assert.Equal(t, 2, placed.Items[0].Quantity)

	blob, found, err := f.blobs.Load(ctx, cart.StorageKey("s1"))
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, "[]", string(blob))
}

func TestCheckoutRefusesUnreadableCart(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()
	f.sessions = cart.NewSessions(unreadableBlobs{f.blobs}, cart.DefaultPricing())
	f.carts = NewCartUseCase(f.sessions, testCatalog())

	_, err := f.carts.View(ctx, "s1")
	assert.ErrorIs(t, err, domainErrors.ErrCartUnavailable)

	_, err = f.carts.AddItem(ctx, "s1", "1", 1)
	assert.ErrorIs(t, err, domainErrors.ErrCartUnavailable)

	_, err = f.useCase(f.orders).ExecuteCheckout(ctx, CheckoutRequest{SessionID: "s1", UserID: "uid-1", Billing: validBilling()})
	assert.ErrorIs(t, err, domainErrors.ErrCartUnavailable)
	orders, err := f.orders.ListOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}
