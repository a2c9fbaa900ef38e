package handlers

import (
	"net/http"

	"github.com/yuzvak/storefront-service/internal/application/commands"
	"github.com/yuzvak/storefront-service/internal/domain/order"
	"github.com/yuzvak/storefront-service/internal/infrastructure/http/middleware"
	"github.com/yuzvak/storefront-service/internal/infrastructure/http/response"
	"github.com/yuzvak/storefront-service/internal/infrastructure/monitoring"
	"github.com/yuzvak/storefront-service/internal/pkg/logger"
)

type CheckoutHandler struct {
	placeOrder *commands.PlaceOrderHandler
	log        *logger.Logger
}

func NewCheckoutHandler(placeOrder *commands.PlaceOrderHandler, log *logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{placeOrder: placeOrder, log: log}
}

type CheckoutRequest struct {
	BillingDetails order.Billing `json:"billingDetails"`
	PaymentMethod  string        `json:"paymentMethod"`
}

func (h *CheckoutHandler) HandleCheckout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := identity(w, r)
		if !ok {
			return
		}

		var req CheckoutRequest
		if !decodeBody(w, r, &req) {
			return
		}

		metrics := monitoring.NewCheckoutMetrics()
		metrics.RecordAttempt()

		placed, err := h.placeOrder.Handle(r.Context(), commands.PlaceOrderCommand{
			SessionID:     middleware.SessionIDFromContext(r.Context()),
			UserID:        caller.UID,
			Billing:       req.BillingDetails,
			PaymentMethod: req.PaymentMethod,
		})
		if err != nil {
			metrics.RecordFailure(err)
			response.WriteDomainError(w, err)
			return
		}

		metrics.RecordSuccess(int64(placed.Total))
		response.WriteCreated(w, placed, "Order placed successfully")
	}
}
