package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/yuzvak/storefront-service/internal/domain/cart"
	"github.com/yuzvak/storefront-service/internal/infrastructure/monitoring"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(conn *Connection) *ProductRepository {
	return &ProductRepository{db: conn.GetDB()}
}

func (r *ProductRepository) ListProducts(ctx context.Context) ([]cart.CatalogItem, error) {
	query := `
		SELECT id, title, price, category, attributes
		FROM products
		ORDER BY position, id
	`

	rows, err := monitoring.InstrumentQuery(ctx, r.db, "SELECT", "products", query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []cart.CatalogItem{}
	for rows.Next() {
		var (
			item       cart.CatalogItem
			id         string
			price      int64
			attributes []byte
		)
		if err := rows.Scan(&id, &item.Title, &price, &item.Category, &attributes); err != nil {
			return nil, err
		}
		item.ID = cart.ItemID(id)
		item.Price = cart.Money(price)
		if len(attributes) > 0 {
			if err := json.Unmarshal(attributes, &item.Attributes); err != nil {
				return nil, fmt.Errorf("product %s attributes: %w", id, err)
			}
			if len(item.Attributes) == 0 {
				item.Attributes = nil
			}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpsertProducts writes items in one transaction; their slice order becomes
// the catalog order.
func (r *ProductRepository) UpsertProducts(ctx context.Context, items []cart.CatalogItem) error {
	query := `
		INSERT INTO products (id, title, price, category, attributes, position, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title,
			price = EXCLUDED.price,
			category = EXCLUDED.category,
			attributes = EXCLUDED.attributes,
			position = EXCLUDED.position,
			updated_at = NOW()
	`

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapTxErr(err)
	}
	defer tx.Rollback()

	for i, item := range items {
		attributes := []byte("{}")
		if len(item.Attributes) > 0 {
			attributes, err = json.Marshal(item.Attributes)
			if err != nil {
				return fmt.Errorf("product %s attributes: %w", item.ID, err)
			}
		}

		_, err = monitoring.InstrumentTxExec(ctx, tx, "UPSERT", "products", query,
			string(item.ID), item.Title, int64(item.Price), item.Category, attributes, i,
		)
		if err != nil {
			return fmt.Errorf("upsert product %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return wrapTxErr(err)
	}
	return nil
}
