package response

import (
	"errors"
	"net/http"

	domainErrors "github.com/yuzvak/storefront-service/internal/domain/errors"
)

type ErrorMapping struct {
	HTTPStatus int
	Status     Status
	Message    string
}

type errorMapping struct {
	err     error
	mapping ErrorMapping
}

// errorMappings is checked in order so wrapped errors resolve to the most
// specific entry first.
var errorMappings = []errorMapping{
	{domainErrors.ErrProductNotFound, ErrorMapping{http.StatusNotFound, StatusNotFound, "Product not found"}},
	{domainErrors.ErrEmptyCart, ErrorMapping{http.StatusBadRequest, StatusError, "Cart is empty"}},
	{domainErrors.ErrCheckoutBusy, ErrorMapping{http.StatusConflict, StatusConflict, "A checkout for this cart is already in progress"}},
	{domainErrors.ErrInvalidBilling, ErrorMapping{http.StatusBadRequest, StatusValidationError, "Billing details are incomplete"}},
	{domainErrors.ErrCartPersistence, ErrorMapping{http.StatusServiceUnavailable, StatusServiceUnavailable, "Cart could not be saved"}},
	{domainErrors.ErrCartUnavailable, ErrorMapping{http.StatusServiceUnavailable, StatusServiceUnavailable, "Cart is temporarily unavailable"}},
	{domainErrors.ErrOrderNotFound, ErrorMapping{http.StatusNotFound, StatusNotFound, "Order not found"}},
	{domainErrors.ErrOrderAccessDenied, ErrorMapping{http.StatusNotFound, StatusNotFound, "Order not found"}},
	{domainErrors.ErrOrderNotCancellable, ErrorMapping{http.StatusConflict, StatusConflict, "Order can no longer be cancelled"}},
	{domainErrors.ErrOrderNotReturnable, ErrorMapping{http.StatusConflict, StatusConflict, "Order is not eligible for return"}},
	{domainErrors.ErrCancelReasonMissing, ErrorMapping{http.StatusBadRequest, StatusValidationError, "Cancellation reason is required"}},
	{domainErrors.ErrInvalidOrderStatus, ErrorMapping{http.StatusBadRequest, StatusValidationError, "Invalid order status"}},
	{domainErrors.ErrReturnItemsMissing, ErrorMapping{http.StatusBadRequest, StatusValidationError, "Select at least one item from the order"}},
	{domainErrors.ErrReturnReasonMissing, ErrorMapping{http.StatusBadRequest, StatusValidationError, "Return reason is required"}},
	{domainErrors.ErrInvalidReturnAction, ErrorMapping{http.StatusBadRequest, StatusValidationError, "Action must be return or replace"}},
	{domainErrors.ErrUserNotFound, ErrorMapping{http.StatusNotFound, StatusNotFound, "User not found"}},
	{domainErrors.ErrProfileNameMissing, ErrorMapping{http.StatusBadRequest, StatusValidationError, "First and last name are required"}},
	{domainErrors.ErrUnauthenticated, ErrorMapping{http.StatusUnauthorized, StatusUnauthorized, "Authentication required"}},
	{domainErrors.ErrForbidden, ErrorMapping{http.StatusForbidden, StatusForbidden, "Admin privileges required"}},
	{domainErrors.ErrTransactionFailed, ErrorMapping{http.StatusInternalServerError, StatusInternalError, "Transaction failed"}},
}

// MapDomainError resolves err to a status and body. Only the mapped message
// reaches the client; the underlying error text stays in the logs.
func MapDomainError(err error) (int, *ErrorResponse) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.mapping.HTTPStatus, Error(m.mapping.Status, m.mapping.Message)
		}
	}

	return http.StatusInternalServerError, Error(StatusInternalError, "Internal server error")
}

func WriteDomainError(w http.ResponseWriter, err error) {
	statusCode, errorResponse := MapDomainError(err)
	WriteJSON(w, statusCode, errorResponse)
}
