package firestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/yuzvak/storefront-service/internal/application/ports"
	"github.com/yuzvak/storefront-service/internal/domain/cart"
	domainErrors "github.com/yuzvak/storefront-service/internal/domain/errors"
	"github.com/yuzvak/storefront-service/internal/domain/order"
)

var _ ports.OrderRepository = (*OrderRepository)(nil)

// orderDoc is the stored shape of an order. Items keep the cart wire format
// so product attributes survive unchanged.
type orderDoc struct {
	UserID        string     `firestore:"userId"`
	Items         string     `firestore:"items"`
	Subtotal      int64      `firestore:"subtotal"`
	Tax           int64      `firestore:"tax"`
	ShippingFee   int64      `firestore:"shippingFee"`
	Total         int64      `firestore:"total"`
	Billing       billingDoc `firestore:"billingDetails"`
	PaymentMethod string     `firestore:"paymentMethod"`
	Status        string     `firestore:"status"`
	CancelReason  string     `firestore:"cancelReason"`
	CreatedAt     time.Time  `firestore:"createdAt"`
	UpdatedAt     time.Time  `firestore:"updatedAt"`
}

type billingDoc struct {
	FirstName  string `firestore:"firstName"`
	LastName   string `firestore:"lastName"`
	Email      string `firestore:"email"`
	Phone      string `firestore:"phone"`
	Address    string `firestore:"address"`
	City       string `firestore:"city"`
	PostalCode string `firestore:"postalCode"`
}

type returnDoc struct {
	OrderID   string    `firestore:"orderId"`
	UserID    string    `firestore:"userId"`
	Items     []string  `firestore:"items"`
	Action    string    `firestore:"action"`
	Reason    string    `firestore:"reason"`
	Comments  string    `firestore:"comments"`
	Status    string    `firestore:"status"`
	CreatedAt time.Time `firestore:"createdAt"`
}

type OrderRepository struct {
	client *firestore.Client
}

func NewOrderRepository(client *firestore.Client) *OrderRepository {
	return &OrderRepository{client: client}
}

func (r *OrderRepository) orders() *firestore.CollectionRef {
	return r.client.Collection(ordersCollection)
}

func (r *OrderRepository) returns() *firestore.CollectionRef {
	return r.client.Collection(returnsCollection)
}

func (r *OrderRepository) CreateOrder(ctx context.Context, o *order.Order) error {
	doc, err := toOrderDoc(o)
	if err != nil {
		return err
	}

	if _, err := r.orders().Doc(o.ID).Create(ctx, doc); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("%w: duplicate order id %s", domainErrors.ErrTransactionFailed, o.ID)
		}
		return err
	}
	return nil
}

func (r *OrderRepository) GetOrderByID(ctx context.Context, id string) (*order.Order, error) {
	snap, err := r.orders().Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, domainErrors.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return fromOrderSnapshot(snap)
}

func (r *OrderRepository) ListOrdersByUser(ctx context.Context, userID string) ([]*order.Order, error) {
	q := r.orders().Where("userId", "==", userID).OrderBy("createdAt", firestore.Desc)
	return r.collect(ctx, q)
}

func (r *OrderRepository) ListOrders(ctx context.Context) ([]*order.Order, error) {
	return r.collect(ctx, r.orders().OrderBy("createdAt", firestore.Desc))
}

func (r *OrderRepository) UpdateOrder(ctx context.Context, o *order.Order) error {
	_, err := r.orders().Doc(o.ID).Update(ctx, statusUpdates(o))
	if status.Code(err) == codes.NotFound {
		return domainErrors.ErrOrderNotFound
	}
	return err
}

func (r *OrderRepository) CreateReturn(ctx context.Context, req *order.ReturnRequest, o *order.Order) error {
	orderRef := r.orders().Doc(o.ID)
	returnRef := r.returns().Doc(req.ID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(orderRef); err != nil {
			return err
		}
		if err := tx.Create(returnRef, toReturnDoc(req)); err != nil {
			return err
		}
		return tx.Update(orderRef, statusUpdates(o))
	})
	if status.Code(err) == codes.NotFound {
		return domainErrors.ErrOrderNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %v", domainErrors.ErrTransactionFailed, err)
	}
	return nil
}

func (r *OrderRepository) ListReturnsByOrder(ctx context.Context, orderID string) ([]*order.ReturnRequest, error) {
	iter := r.returns().Where("orderId", "==", orderID).OrderBy("createdAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	out := []*order.ReturnRequest{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}

		var doc returnDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("return %s: %w", snap.Ref.ID, err)
		}
		out = append(out, fromReturnDoc(snap.Ref.ID, doc))
	}
	return out, nil
}

func (r *OrderRepository) collect(ctx context.Context, q firestore.Query) ([]*order.Order, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	out := []*order.Order{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}

		o, err := fromOrderSnapshot(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func statusUpdates(o *order.Order) []firestore.Update {
	return []firestore.Update{
		{Path: "status", Value: string(o.Status)},
		{Path: "cancelReason", Value: o.CancelReason},
		{Path: "updatedAt", Value: o.UpdatedAt},
	}
}

func toOrderDoc(o *order.Order) (orderDoc, error) {
	items, err := cart.Serialize(o.Items)
	if err != nil {
		return orderDoc{}, fmt.Errorf("encode order items: %w", err)
	}

	b := o.Billing
	return orderDoc{
		UserID:      o.UserID,
		Items:       string(items),
		Subtotal:    int64(o.Subtotal),
		Tax:         int64(o.Tax),
		ShippingFee: int64(o.ShippingFee),
		Total:       int64(o.Total),
		Billing: billingDoc{
			FirstName:  b.FirstName,
			LastName:   b.LastName,
			Email:      b.Email,
			Phone:      b.Phone,
			Address:    b.Address,
			City:       b.City,
			PostalCode: b.PostalCode,
		},
		PaymentMethod: o.PaymentMethod,
		Status:        string(o.Status),
		CancelReason:  o.CancelReason,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}, nil
}

func fromOrderSnapshot(snap *firestore.DocumentSnapshot) (*order.Order, error) {
	var doc orderDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("order %s: %w", snap.Ref.ID, err)
	}
	return fromOrderDoc(snap.Ref.ID, doc)
}

func fromOrderDoc(id string, doc orderDoc) (*order.Order, error) {
	var items []cart.LineItem
	if err := json.Unmarshal([]byte(doc.Items), &items); err != nil {
		return nil, fmt.Errorf("order %s items: %w", id, err)
	}

	b := doc.Billing
	return &order.Order{
		ID:          id,
		UserID:      doc.UserID,
		Items:       items,
		Subtotal:    cart.Money(doc.Subtotal),
		Tax:         cart.Money(doc.Tax),
		ShippingFee: cart.Money(doc.ShippingFee),
		Total:       cart.Money(doc.Total),
		Billing: order.Billing{
			FirstName:  b.FirstName,
			LastName:   b.LastName,
			Email:      b.Email,
			Phone:      b.Phone,
			Address:    b.Address,
			City:       b.City,
			PostalCode: b.PostalCode,
		},
		PaymentMethod: doc.PaymentMethod,
		Status:        order.Status(doc.Status),
		CancelReason:  doc.CancelReason,
		CreatedAt:     doc.CreatedAt.UTC(),
		UpdatedAt:     doc.UpdatedAt.UTC(),
	}, nil
}

func toReturnDoc(req *order.ReturnRequest) returnDoc {
	return returnDoc{
		OrderID:   req.OrderID,
		UserID:    req.UserID,
		Items:     req.Items,
		Action:    string(req.Action),
		Reason:    req.Reason,
		Comments:  req.Comments,
		Status:    req.Status,
		CreatedAt: req.CreatedAt,
	}
}

func fromReturnDoc(id string, doc returnDoc) *order.ReturnRequest {
	return &order.ReturnRequest{
		ID:        id,
		OrderID:   doc.OrderID,
		UserID:    doc.UserID,
		Items:     doc.Items,
		Action:    order.ReturnAction(doc.Action),
		Reason:    doc.Reason,
		Comments:  doc.Comments,
		Status:    doc.Status,
		CreatedAt: doc.CreatedAt.UTC(),
	}
}
