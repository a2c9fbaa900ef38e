package commands

import (
	"context"

	"github.com/yuzvak/storefront-service/internal/application/ports"
	domainErrors "github.com/yuzvak/storefront-service/internal/domain/errors"
	"github.com/yuzvak/storefront-service/internal/domain/order"
	"github.com/yuzvak/storefront-service/internal/pkg/clock"
	"github.com/yuzvak/storefront-service/internal/pkg/generator"
	"github.com/yuzvak/storefront-service/internal/pkg/logger"
)

type CancelOrderCommand struct {
	UserID  string
	OrderID string
	Reason  string
}

type RequestReturnCommand struct {
	UserID   string
	OrderID  string
	Items    []string
	Action   order.ReturnAction
	Reason   string
	Comments string
}

type UpdateOrderStatusCommand struct {
	OrderID string
	Status  string
}

type OrderHandler struct {
	orders ports.OrderRepository
	idGen  *generator.CodeGenerator
	clock  clock.Clock
	log    *logger.Logger
}

func NewOrderHandler(
	orders ports.OrderRepository,
	idGen *generator.CodeGenerator,
	clk clock.Clock,
	log *logger.Logger,
) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		idGen:  idGen,
		clock:  clk,
		log:    log,
	}
}

func (h *OrderHandler) Cancel(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	o, err := h.ownedOrder(ctx, cmd.UserID, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	if err := o.Cancel(cmd.Reason, h.clock.Now()); err != nil {
		return nil, err
	}

	if err := h.orders.UpdateOrder(ctx, o); err != nil {
		h.log.Error("Failed to cancel order", "error", err, "order_id", o.ID)
		return nil, err
	}

	h.log.Info("Order cancelled", "order_id", o.ID, "user_id", cmd.UserID)
	return o, nil
}

func (h *OrderHandler) RequestReturn(ctx context.Context, cmd RequestReturnCommand) (*order.ReturnRequest, error) {
	o, err := h.ownedOrder(ctx, cmd.UserID, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	now := h.clock.Now()
	req, err := order.NewReturnRequest(h.idGen.GenerateReturnID(), o, cmd.Items, cmd.Action, cmd.Reason, cmd.Comments, now)
	if err != nil {
		return nil, err
	}
	if err := o.MarkReturnRequested(now); err != nil {
		return nil, err
	}

	if err := h.orders.CreateReturn(ctx, req, o); err != nil {
		h.log.Error("Failed to store return request", "error", err, "order_id", o.ID)
		return nil, err
	}

	h.log.Info("Return requested", "return_id", req.ID, "order_id", o.ID, "action", string(req.Action))
	return req, nil
}

// UpdateStatus is the admin path; ownership is not checked.
func (h *OrderHandler) UpdateStatus(ctx context.Context, cmd UpdateOrderStatusCommand) (*order.Order, error) {
	status, err := order.ParseStatus(cmd.Status)
	if err != nil {
		return nil, err
	}

	o, err := h.orders.GetOrderByID(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	if err := o.SetStatus(status, h.clock.Now()); err != nil {
		return nil, err
	}

	if err := h.orders.UpdateOrder(ctx, o); err != nil {
		h.log.Error("Failed to update order status", "error", err, "order_id", o.ID)
		return nil, err
	}

	h.log.Info("Order status updated", "order_id", o.ID, "status", string(status))
	return o, nil
}

func (h *OrderHandler) ownedOrder(ctx context.Context, userID, orderID string) (*order.Order, error) {
	o, err := h.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.OwnedBy(userID) {
		return nil, domainErrors.ErrOrderAccessDenied
	}
	return o, nil
}
