package ports

import (
	"context"

	"github.com/yuzvak/storefront-service/internal/domain/order"
)

type Notifier interface {
	OrderPlaced(ctx context.Context, o *order.Order) error
}
