package commands

import (
	"context"

	"github.com/yuzvak/storefront-service/internal/application/use_cases"
	"github.com/yuzvak/storefront-service/internal/domain/order"
	"github.com/yuzvak/storefront-service/internal/pkg/logger"
)

type PlaceOrderCommand struct {
	SessionID     string
	UserID        string
	Billing       order.Billing
	PaymentMethod string
}

type PlaceOrderHandler struct {
	checkoutUseCase *use_cases.CheckoutUseCase
	log             *logger.Logger
}

func NewPlaceOrderHandler(
	checkoutUseCase *use_cases.CheckoutUseCase,
	log *logger.Logger,
) *PlaceOrderHandler {
	return &PlaceOrderHandler{
		checkoutUseCase: checkoutUseCase,
		log:             log,
	}
}

func (h *PlaceOrderHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (*order.Order, error) {
	h.log.Info("Processing checkout", "session_id", cmd.SessionID, "user_id", cmd.UserID)

	placed, err := h.checkoutUseCase.ExecuteCheckout(ctx, use_cases.CheckoutRequest{
		SessionID:     cmd.SessionID,
		UserID:        cmd.UserID,
		Billing:       cmd.Billing,
		PaymentMethod: cmd.PaymentMethod,
	})
	if err != nil {
		h.log.Warn("Checkout failed", "error", err.Error(), "session_id", cmd.SessionID, "user_id", cmd.UserID)
		return nil, err
	}

	h.log.Info("Order placed",
		"order_id", placed.ID,
		"user_id", placed.UserID,
		"items", len(placed.Items),
		"total", placed.Total.String(),
	)

	return placed, nil
}
