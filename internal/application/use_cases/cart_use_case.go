package use_cases

import (
	"context"

	"github.com/yuzvak/storefront-service/internal/domain/cart"
	"github.com/yuzvak/storefront-service/internal/domain/catalog"
	domainErrors "github.com/yuzvak/storefront-service/internal/domain/errors"
)

// CartUseCase resolves catalog ids and forwards to the session's cart.
type CartUseCase struct {
	sessions *cart.Sessions
	catalog  *catalog.Catalog
}

func NewCartUseCase(sessions *cart.Sessions, catalog *catalog.Catalog) *CartUseCase {
	return &CartUseCase{sessions: sessions, catalog: catalog}
}

// View returns the cart, or ErrCartUnavailable while its saved copy cannot
// be read.
func (uc *CartUseCase) View(ctx context.Context, sessionID string) (cart.Snapshot, error) {
	store := uc.sessions.Get(ctx, sessionID)
	if !store.Ready() {
		return cart.Snapshot{}, domainErrors.ErrCartUnavailable
	}
	return store.Snapshot(), nil
}

func (uc *CartUseCase) AddItem(ctx context.Context, sessionID string, id cart.ItemID, quantity int) (cart.Snapshot, error) {
	item, ok := uc.catalog.ByID(id)
	if !ok {
		return cart.Snapshot{}, domainErrors.ErrProductNotFound
	}

	store := uc.sessions.Get(ctx, sessionID)
	err := store.AddItem(ctx, item, quantity)
	return store.Snapshot(), err
}

func (uc *CartUseCase) SetQuantity(ctx context.Context, sessionID string, id cart.ItemID, quantity int) (cart.Snapshot, error) {
	store := uc.sessions.Get(ctx, sessionID)
	err := store.SetQuantity(ctx, id, quantity)
	return store.Snapshot(), err
}

func (uc *CartUseCase) RemoveItem(ctx context.Context, sessionID string, id cart.ItemID) (cart.Snapshot, error) {
	store := uc.sessions.Get(ctx, sessionID)
	err := store.RemoveItem(ctx, id)
	return store.Snapshot(), err
}

func (uc *CartUseCase) Clear(ctx context.Context, sessionID string) (cart.Snapshot, error) {
	store := uc.sessions.Get(ctx, sessionID)
	err := store.Clear(ctx)
	return store.Snapshot(), err
}
