package monitoring

import (
	"errors"

	domainErrors "github.com/yuzvak/storefront-service/internal/domain/errors"
)

// CartObserver feeds cart store events into Prometheus.
type CartObserver struct{}

func NewCartObserver() *CartObserver {
	return &CartObserver{}
}

func (o *CartObserver) ObserveLoad(outcome string) {
	CartLoadsTotal.WithLabelValues(outcome).Inc()
}

func (o *CartObserver) ObserveMutation(op string, err error) {
	result := "ok"
	if err != nil {
		result = "persist_failed"
	}
	CartMutationsTotal.WithLabelValues(op, result).Inc()
}

type CheckoutMetrics struct{}

func NewCheckoutMetrics() *CheckoutMetrics {
	return &CheckoutMetrics{}
}

func (m *CheckoutMetrics) RecordAttempt() {
	RecordCheckoutAttempt()
}

func (m *CheckoutMetrics) RecordSuccess(totalMinorUnits int64) {
	RecordOrderPlaced(totalMinorUnits)
}

func (m *CheckoutMetrics) RecordFailure(err error) {
	RecordCheckoutFailure(FailureReason(err))
}

// FailureReason maps an error to a low-cardinality label.
func FailureReason(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, domainErrors.ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, domainErrors.ErrInvalidBilling):
		return "invalid_billing"
	case errors.Is(err, domainErrors.ErrCheckoutBusy):
		return "busy"
	case errors.Is(err, domainErrors.ErrTransactionFailed):
		return "store_failed"
	default:
		return "internal"
	}
}
