package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yuzvak/storefront-service/internal/application/commands"
	"github.com/yuzvak/storefront-service/internal/application/use_cases"
	"github.com/yuzvak/storefront-service/internal/domain/order"
	"github.com/yuzvak/storefront-service/internal/infrastructure/http/response"
	"github.com/yuzvak/storefront-service/internal/infrastructure/monitoring"
	"github.com/yuzvak/storefront-service/internal/pkg/logger"
)

type OrdersHandler struct {
	queries *use_cases.AccountQueries
	orders  *commands.OrderHandler
	log     *logger.Logger
}

func NewOrdersHandler(queries *use_cases.AccountQueries, orders *commands.OrderHandler, log *logger.Logger) *OrdersHandler {
	return &OrdersHandler{queries: queries, orders: orders, log: log}
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

type ReturnRequest struct {
	Items    []string           `json:"items"`
	Action   order.ReturnAction `json:"action"`
	Reason   string             `json:"reason"`
	Comments string             `json:"comments"`
}

func (h *OrdersHandler) HandleListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := identity(w, r)
		if !ok {
			return
		}

		orders, err := h.queries.OrderHistory(r.Context(), caller.UID)
		if err != nil {
			response.WriteDomainError(w, err)
			return
		}
		response.WriteSuccess(w, orders)
	}
}

func (h *OrdersHandler) HandleListReturns() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := identity(w, r)
		if !ok {
			return
		}

		returns, err := h.queries.OrderReturns(r.Context(), caller.UID, chi.URLParam(r, "id"))
		if err != nil {
			response.WriteDomainError(w, err)
			return
		}
		response.WriteSuccess(w, returns)
	}
}

func (h *OrdersHandler) HandleCancelOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := identity(w, r)
		if !ok {
			return
		}

		var req CancelOrderRequest
		if !decodeBody(w, r, &req) {
			return
		}

		cancelled, err := h.orders.Cancel(r.Context(), commands.CancelOrderCommand{
			UserID:  caller.UID,
			OrderID: chi.URLParam(r, "id"),
			Reason:  req.Reason,
		})
		if err != nil {
			response.WriteDomainError(w, err)
			return
		}

		monitoring.RecordOrderStatusChange(string(cancelled.Status))
		response.WriteSuccess(w, cancelled, "Order cancelled")
	}
}

func (h *OrdersHandler) HandleRequestReturn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := identity(w, r)
		if !ok {
			return
		}

		var req ReturnRequest
		if !decodeBody(w, r, &req) {
			return
		}

		created, err := h.orders.RequestReturn(r.Context(), commands.RequestReturnCommand{
			UserID:   caller.UID,
			OrderID:  chi.URLParam(r, "id"),
			Items:    req.Items,
			Action:   req.Action,
			Reason:   req.Reason,
			Comments: req.Comments,
		})
		if err != nil {
			response.WriteDomainError(w, err)
			return
		}

		monitoring.RecordReturnRequest(string(created.Action))
		monitoring.RecordOrderStatusChange(string(order.StatusReturnRequested))
		response.WriteCreated(w, created, "Return request submitted")
	}
}
