package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yuzvak/storefront-service/internal/application/commands"
	"github.com/yuzvak/storefront-service/internal/application/use_cases"
	"github.com/yuzvak/storefront-service/internal/infrastructure/http/response"
	"github.com/yuzvak/storefront-service/internal/infrastructure/monitoring"
	"github.com/yuzvak/storefront-service/internal/pkg/logger"
)

type AdminHandler struct {
	queries *use_cases.AccountQueries
	orders  *commands.OrderHandler
	logger  *logger.Logger
}

func NewAdminHandler(queries *use_cases.AccountQueries, orders *commands.OrderHandler, logger *logger.Logger) *AdminHandler {
	return &AdminHandler{
		queries: queries,
		orders:  orders,
		logger:  logger,
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (h *AdminHandler) HandleListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := h.queries.AllOrders(r.Context())
		if err != nil {
			response.WriteDomainError(w, err)
			return
		}
		response.WriteSuccess(w, orders)
	}
}

func (h *AdminHandler) HandleListUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := h.queries.AllUsers(r.Context())
		if err != nil {
			h.logger.Error("Failed to list users", "error", err)
			response.WriteDomainError(w, err)
			return
		}
		response.WriteSuccess(w, users)
	}
}

func (h *AdminHandler) HandleUpdateStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateStatusRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Status == "" {
			response.WriteValidationError(w, "Validation failed", map[string]string{"status": "status is required"})
			return
		}

		updated, err := h.orders.UpdateStatus(r.Context(), commands.UpdateOrderStatusCommand{
			OrderID: chi.URLParam(r, "id"),
			Status:  req.Status,
		})
		if err != nil {
			response.WriteDomainError(w, err)
			return
		}

		monitoring.RecordOrderStatusChange(string(updated.Status))
		response.WriteSuccess(w, updated, "Order status updated")
	}
}
