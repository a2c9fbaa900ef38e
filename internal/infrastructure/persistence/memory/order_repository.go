package memory

import (
	"context"
	"encoding/json"
	"sync"

	domainErrors "github.com/yuzvak/storefront-service/internal/domain/errors"
	"github.com/yuzvak/storefront-service/internal/domain/order"
)

type OrderRepository struct {
	mu      sync.RWMutex
	orders  map[string][]byte
	seq     []string
	returns map[string][]*order.ReturnRequest
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders:  make(map[string][]byte),
		returns: make(map[string][]*order.ReturnRequest),
	}
}

func (r *OrderRepository) CreateOrder(_ context.Context, o *order.Order) error {
	data, err := json.Marshal(o)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[o.ID]; exists {
		return domainErrors.ErrTransactionFailed
	}
	r.orders[o.ID] = data
	r.seq = append(r.seq, o.ID)
	return nil
}

func (r *OrderRepository) GetOrderByID(_ context.Context, id string) (*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.decode(id)
}

func (r *OrderRepository) ListOrdersByUser(_ context.Context, userID string) ([]*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*order.Order{}
	for _, id := range r.seq {
		o, err := r.decode(id)
		if err != nil {
			return nil, err
		}
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *OrderRepository) ListOrders(_ context.Context) ([]*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*order.Order, 0, len(r.seq))
	for _, id := range r.seq {
		o, err := r.decode(id)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *OrderRepository) UpdateOrder(_ context.Context, o *order.Order) error {
	data, err := json.Marshal(o)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[o.ID]; !exists {
		return domainErrors.ErrOrderNotFound
	}
	r.orders[o.ID] = data
	return nil
}

func (r *OrderRepository) CreateReturn(_ context.Context, req *order.ReturnRequest, o *order.Order) error {
	data, err := json.Marshal(o)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[o.ID]; !exists {
		return domainErrors.ErrOrderNotFound
	}
	r.orders[o.ID] = data
	stored := *req
	stored.Items = append([]string(nil), req.Items...)
	r.returns[o.ID] = append(r.returns[o.ID], &stored)
	return nil
}

func (r *OrderRepository) ListReturnsByOrder(_ context.Context, orderID string) ([]*order.ReturnRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*order.ReturnRequest, 0, len(r.returns[orderID]))
	for _, req := range r.returns[orderID] {
		c := *req
		c.Items = append([]string(nil), req.Items...)
		out = append(out, &c)
	}
	return out, nil
}

// decode hands out a fresh copy so callers never share stored state.
func (r *OrderRepository) decode(id string) (*order.Order, error) {
	data, ok := r.orders[id]
	if !ok {
		return nil, domainErrors.ErrOrderNotFound
	}
	var o order.Order
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, err
	}
	return &o, nil
}
