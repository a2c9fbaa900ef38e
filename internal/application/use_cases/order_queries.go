package use_cases

import (
	"context"
	"errors"
	"sort"

	"github.com/yuzvak/storefront-service/internal/application/ports"
	domainErrors "github.com/yuzvak/storefront-service/internal/domain/errors"
	"github.com/yuzvak/storefront-service/internal/domain/order"
	"github.com/yuzvak/storefront-service/internal/domain/user"
	"github.com/yuzvak/storefront-service/internal/pkg/logger"
)

type AccountQueries struct {
	orders ports.OrderRepository
	users  ports.UserRepository
	log    *logger.Logger
}

func NewAccountQueries(orders ports.OrderRepository, users ports.UserRepository, log *logger.Logger) *AccountQueries {
	return &AccountQueries{orders: orders, users: users, log: log}
}

// OrderHistory lists the user's orders, newest first.
func (q *AccountQueries) OrderHistory(ctx context.Context, userID string) ([]*order.Order, error) {
	orders, err := q.orders.ListOrdersByUser(ctx, userID)
	if err != nil {
		q.log.Error("Failed to list orders", "error", err, "user_id", userID)
		return nil, err
	}
	sortNewestFirst(orders)
	return orders, nil
}

// OrderReturns lists the return requests filed against one of the user's
// orders. Another user's order reads as ErrOrderAccessDenied.
func (q *AccountQueries) OrderReturns(ctx context.Context, userID, orderID string) ([]*order.ReturnRequest, error) {
	o, err := q.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.OwnedBy(userID) {
		return nil, domainErrors.ErrOrderAccessDenied
	}

	returns, err := q.orders.ListReturnsByOrder(ctx, orderID)
	if err != nil {
		q.log.Error("Failed to list returns", "error", err, "order_id", orderID)
		return nil, err
	}
	return returns, nil
}

func (q *AccountQueries) AllOrders(ctx context.Context) ([]*order.Order, error) {
	orders, err := q.orders.ListOrders(ctx)
	if err != nil {
		q.log.Error("Failed to list all orders", "error", err)
		return nil, err
	}
	sortNewestFirst(orders)
	return orders, nil
}

func (q *AccountQueries) AllUsers(ctx context.Context) ([]*user.Profile, error) {
	return q.users.ListProfiles(ctx)
}

// Profile returns the stored profile, or a blank one for a user who has not
// saved theirs yet.
func (q *AccountQueries) Profile(ctx context.Context, identity ports.Identity) (*user.Profile, error) {
	p, err := q.users.GetProfile(ctx, identity.UID)
	if errors.Is(err, domainErrors.ErrUserNotFound) {
		return user.NewProfile(identity.UID, identity.Email), nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// IsAdmin reports the stored admin flag; unknown users are not admins.
func (q *AccountQueries) IsAdmin(ctx context.Context, uid string) (bool, error) {
	p, err := q.users.GetProfile(ctx, uid)
	if errors.Is(err, domainErrors.ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return p.IsAdmin, nil
}

func sortNewestFirst(orders []*order.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
