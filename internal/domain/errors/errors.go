package errors

import (
	"errors"
)

var (
	ErrProductNotFound = errors.New("product not found")

	ErrCartPersistence = errors.New("cart could not be persisted")
	ErrCartUnavailable = errors.New("cart could not be loaded")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrCheckoutBusy    = errors.New("another checkout is in progress for this cart")

	ErrInvalidBilling = errors.New("billing details are incomplete")

	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderNotCancellable = errors.New("order can no longer be cancelled")
	ErrOrderNotReturnable  = errors.New("order is not eligible for return")
	ErrCancelReasonMissing = errors.New("cancellation reason is required")
	ErrInvalidOrderStatus  = errors.New("invalid order status")
	ErrOrderAccessDenied   = errors.New("order belongs to another user")

	ErrReturnItemsMissing  = errors.New("at least one item must be selected")
	ErrReturnReasonMissing = errors.New("return reason is required")
	ErrInvalidReturnAction = errors.New("return action must be return or replace")

	ErrUserNotFound       = errors.New("user not found")
	ErrProfileNameMissing = errors.New("first and last name are required")

	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("admin privileges required")

	ErrTransactionFailed = errors.New("transaction failed")
)
