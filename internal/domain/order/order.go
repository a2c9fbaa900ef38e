package order

import (
	"errors"
	"strings"
	"time"

	"github.com/yuzvak/storefront-service/internal/domain/cart"
	domainErrors "github.com/yuzvak/storefront-service/internal/domain/errors"
)

type Status string

const (
	StatusPlaced          Status = "Placed"
	StatusShipped         Status = "Shipped"
	StatusDelivered       Status = "Delivered"
	StatusCancelled       Status = "Cancelled"
	StatusReturnRequested Status = "Return Requested"
)

var statuses = []Status{StatusPlaced, StatusShipped, StatusDelivered, StatusCancelled, StatusReturnRequested}

func Statuses() []Status {
	return append([]Status(nil), statuses...)
}

func (s Status) Valid() bool {
	for _, known := range statuses {
		if s == known {
			return true
		}
	}
	return false
}

func ParseStatus(s string) (Status, error) {
	status := Status(strings.TrimSpace(s))
	if !status.Valid() {
		return "", domainErrors.ErrInvalidOrderStatus
	}
	return status, nil
}

type Billing struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
}

func (b Billing) Validate() error {
	for _, field := range []string{b.FirstName, b.LastName, b.Email, b.Address} {
		if strings.TrimSpace(field) == "" {
			return domainErrors.ErrInvalidBilling
		}
	}
	if !strings.Contains(b.Email, "@") {
		return domainErrors.ErrInvalidBilling
	}
	return nil
}

// Order is a placed cart. Items and amounts are frozen at placement.
type Order struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	Items         []cart.LineItem `json:"items"`
	Subtotal      cart.Money      `json:"subtotal"`
	Tax           cart.Money      `json:"tax"`
	ShippingFee   cart.Money      `json:"shippingFee"`
	Total         cart.Money      `json:"total"`
	Billing       Billing         `json:"billingDetails"`
	PaymentMethod string          `json:"paymentMethod"`
	Status        Status          `json:"status"`
	CancelReason  string          `json:"cancelReason,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func NewOrder(id, userID string, snapshot cart.Snapshot, billing Billing, paymentMethod string, now time.Time) (*Order, error) {
	if id == "" {
		return nil, errors.New("order id cannot be empty")
	}
	if userID == "" {
		return nil, errors.New("user id cannot be empty")
	}
	if snapshot.IsEmpty() {
		return nil, domainErrors.ErrEmptyCart
	}
	if err := billing.Validate(); err != nil {
		return nil, err
	}

	items := make([]cart.LineItem, len(snapshot.Items))
	for i, item := range snapshot.Items {
		items[i] = item.Clone()
	}

	return &Order{
		ID:            id,
		UserID:        userID,
		Items:         items,
		Subtotal:      snapshot.Totals.Subtotal,
		Tax:           snapshot.Totals.Tax,
		ShippingFee:   snapshot.Totals.ShippingFee,
		Total:         snapshot.Totals.Total,
		Billing:       billing,
		PaymentMethod: paymentMethod,
		Status:        StatusPlaced,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (o *Order) CanCancel() bool {
	return o.Status == StatusPlaced || o.Status == StatusShipped
}

func (o *Order) CanReturn() bool {
	return o.Status == StatusDelivered
}

func (o *Order) Cancel(reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return domainErrors.ErrCancelReasonMissing
	}
	if !o.CanCancel() {
		return domainErrors.ErrOrderNotCancellable
	}

	o.Status = StatusCancelled
	o.CancelReason = reason
	o.UpdatedAt = now
	return nil
}

func (o *Order) MarkReturnRequested(now time.Time) error {
	if !o.CanReturn() {
		return domainErrors.ErrOrderNotReturnable
	}

	o.Status = StatusReturnRequested
	o.UpdatedAt = now
	return nil
}

// SetStatus is the admin override; any known status is accepted.
func (o *Order) SetStatus(status Status, now time.Time) error {
	if !status.Valid() {
		return domainErrors.ErrInvalidOrderStatus
	}

	o.Status = status
	o.UpdatedAt = now
	return nil
}

func (o *Order) OwnedBy(userID string) bool {
	return o.UserID == userID
}

// HasItem reports whether the order contains a line titled title.
func (o *Order) HasItem(title string) bool {
	for _, item := range o.Items {
		if item.Title == title {
			return true
		}
	}
	return false
}
