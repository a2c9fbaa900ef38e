package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yuzvak/storefront-service/internal/application/use_cases"
	"github.com/yuzvak/storefront-service/internal/domain/cart"
	domainErrors "github.com/yuzvak/storefront-service/internal/domain/errors"
	"github.com/yuzvak/storefront-service/internal/infrastructure/http/middleware"
	"github.com/yuzvak/storefront-service/internal/infrastructure/http/response"
	"github.com/yuzvak/storefront-service/internal/pkg/logger"
)

type CartHandler struct {
	carts *use_cases.CartUseCase
	log   *logger.Logger
}

func NewCartHandler(carts *use_cases.CartUseCase, log *logger.Logger) *CartHandler {
	return &CartHandler{carts: carts, log: log}
}

type AddItemRequest struct {
	ID       cart.ItemID `json:"id"`
	Quantity int         `json:"quantity"`
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) HandleGetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		snapshot, err := h.carts.View(r.Context(), sessionID)
		if err != nil {
			response.WriteDomainError(w, err)
			return
		}
		response.WriteSuccess(w, snapshot)
	}
}

func (h *CartHandler) HandleAddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddItemRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.ID == "" {
			response.WriteValidationError(w, "Validation failed", map[string]string{"id": "id is required"})
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		snapshot, err := h.carts.AddItem(r.Context(), sessionID, req.ID, req.Quantity)
		h.writeCart(w, sessionID, "add", snapshot, err)
	}
}

func (h *CartHandler) HandleSetQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SetQuantityRequest
		if !decodeBody(w, r, &req) {
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		id := cart.ItemID(chi.URLParam(r, "id"))
		snapshot, err := h.carts.SetQuantity(r.Context(), sessionID, id, req.Quantity)
		h.writeCart(w, sessionID, "set_quantity", snapshot, err)
	}
}

func (h *CartHandler) HandleRemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		id := cart.ItemID(chi.URLParam(r, "id"))
		snapshot, err := h.carts.RemoveItem(r.Context(), sessionID, id)
		h.writeCart(w, sessionID, "remove", snapshot, err)
	}
}

func (h *CartHandler) HandleClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		snapshot, err := h.carts.Clear(r.Context(), sessionID)
		h.writeCart(w, sessionID, "clear", snapshot, err)
	}
}

// writeCart answers with the cart as it now stands. A save failure does not
// undo the change, so it is reported in the message rather than as an error.
func (h *CartHandler) writeCart(w http.ResponseWriter, sessionID, op string, snapshot cart.Snapshot, err error) {
	switch {
	case err == nil:
		response.WriteSuccess(w, snapshot)
	case errors.Is(err, domainErrors.ErrCartPersistence):
		h.log.Warn("Cart updated but not persisted", "op", op, "session_id", sessionID, "error", err)
		response.WriteSuccess(w, snapshot, "Cart updated but could not be saved")
	default:
		response.WriteDomainError(w, err)
	}
}
