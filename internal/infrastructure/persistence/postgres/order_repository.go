package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yuzvak/storefront-service/internal/domain/cart"
	domainErrors "github.com/yuzvak/storefront-service/internal/domain/errors"
	"github.com/yuzvak/storefront-service/internal/domain/order"
	"github.com/yuzvak/storefront-service/internal/infrastructure/monitoring"
)

const orderColumns = `id, user_id, items, subtotal, tax, shipping_fee, total, billing,
		payment_method, status, cancel_reason, created_at, updated_at`

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(conn *Connection) *OrderRepository {
	return &OrderRepository{db: conn.GetDB()}
}

func (r *OrderRepository) CreateOrder(ctx context.Context, o *order.Order) error {
	items, billing, err := encodeOrder(o)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = monitoring.InstrumentExec(ctx, r.db, "INSERT", "orders", query,
		o.ID, o.UserID, items, int64(o.Subtotal), int64(o.Tax), int64(o.ShippingFee), int64(o.Total),
		billing, o.PaymentMethod, string(o.Status), o.CancelReason, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: duplicate order id %s", domainErrors.ErrTransactionFailed, o.ID)
		}
		return err
	}
	return nil
}

func (r *OrderRepository) GetOrderByID(ctx context.Context, id string) (*order.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	row := monitoring.InstrumentQueryRow(ctx, r.db, "SELECT", "orders", query, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainErrors.ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *OrderRepository) ListOrdersByUser(ctx context.Context, userID string) ([]*order.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *OrderRepository) ListOrders(ctx context.Context) ([]*order.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *OrderRepository) UpdateOrder(ctx context.Context, o *order.Order) error {
	query := `
		UPDATE orders
		SET status = $2, cancel_reason = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := monitoring.InstrumentExec(ctx, r.db, "UPDATE", "orders", query,
		o.ID, string(o.Status), o.CancelReason, o.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return expectOneRow(result, domainErrors.ErrOrderNotFound)
}

func (r *OrderRepository) CreateReturn(ctx context.Context, req *order.ReturnRequest, o *order.Order) error {
	items, err := json.Marshal(req.Items)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapTxErr(err)
	}
	defer tx.Rollback()

	_, err = monitoring.InstrumentTxExec(ctx, tx, "INSERT", "return_requests", `
		INSERT INTO return_requests (id, order_id, user_id, items, action, reason, comments, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, req.ID, req.OrderID, req.UserID, items, string(req.Action), req.Reason, req.Comments, req.Status, req.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert return request: %w", err)
	}

	result, err := monitoring.InstrumentTxExec(ctx, tx, "UPDATE", "orders", `
		UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1
	`, o.ID, string(o.Status), o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if err := expectOneRow(result, domainErrors.ErrOrderNotFound); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return wrapTxErr(err)
	}
	return nil
}

func (r *OrderRepository) ListReturnsByOrder(ctx context.Context, orderID string) ([]*order.ReturnRequest, error) {
	query := `
		SELECT id, order_id, user_id, items, action, reason, comments, status, created_at
		FROM return_requests
		WHERE order_id = $1
		ORDER BY created_at
	`

	rows, err := monitoring.InstrumentQuery(ctx, r.db, "SELECT", "return_requests", query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*order.ReturnRequest{}
	for rows.Next() {
		var (
			req    order.ReturnRequest
			items  []byte
			action string
		)
		if err := rows.Scan(&req.ID, &req.OrderID, &req.UserID, &items, &action,
			&req.Reason, &req.Comments, &req.Status, &req.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(items, &req.Items); err != nil {
			return nil, fmt.Errorf("return %s items: %w", req.ID, err)
		}
		req.Action = order.ReturnAction(action)
		out = append(out, &req)
	}
	return out, rows.Err()
}

func (r *OrderRepository) list(ctx context.Context, query string, args ...interface{}) ([]*order.Order, error) {
	rows, err := monitoring.InstrumentQuery(ctx, r.db, "SELECT", "orders", query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*order.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(s scanner) (*order.Order, error) {
	var (
		o                              order.Order
		items, billing                 []byte
		subtotal, tax, shipping, total int64
		status                         string
	)
	err := s.Scan(&o.ID, &o.UserID, &items, &subtotal, &tax, &shipping, &total, &billing,
		&o.PaymentMethod, &status, &o.CancelReason, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("order %s items: %w", o.ID, err)
	}
	if err := json.Unmarshal(billing, &o.Billing); err != nil {
		return nil, fmt.Errorf("order %s billing: %w", o.ID, err)
	}
	o.Subtotal = cart.Money(subtotal)
	o.Tax = cart.Money(tax)
	o.ShippingFee = cart.Money(shipping)
	o.Total = cart.Money(total)
	o.Status = order.Status(status)
	return &o, nil
}

func encodeOrder(o *order.Order) (items, billing []byte, err error) {
	items, err = cart.Serialize(o.Items)
	if err != nil {
		return nil, nil, fmt.Errorf("encode order items: %w", err)
	}
	billing, err = json.Marshal(o.Billing)
	if err != nil {
		return nil, nil, fmt.Errorf("encode billing: %w", err)
	}
	return items, billing, nil
}

func expectOneRow(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
