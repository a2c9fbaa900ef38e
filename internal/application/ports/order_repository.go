package ports

import (
	"context"

	"github.com/yuzvak/storefront-service/internal/domain/order"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, o *order.Order) error
	GetOrderByID(ctx context.Context, id string) (*order.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]*order.Order, error)
	ListOrders(ctx context.Context) ([]*order.Order, error)
	UpdateOrder(ctx context.Context, o *order.Order) error

	// CreateReturn records req and saves o (now Return Requested) atomically.
	CreateReturn(ctx context.Context, req *order.ReturnRequest, o *order.Order) error
	ListReturnsByOrder(ctx context.Context, orderID string) ([]*order.ReturnRequest, error)
}
