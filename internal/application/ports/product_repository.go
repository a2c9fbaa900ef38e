package ports

import (
	"context"

	"github.com/yuzvak/storefront-service/internal/domain/cart"
)

type ProductRepository interface {
	ListProducts(ctx context.Context) ([]cart.CatalogItem, error)
	UpsertProducts(ctx context.Context, items []cart.CatalogItem) error
}
