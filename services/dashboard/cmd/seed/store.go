package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/IlkomUNJ/webhw2b-Saccharin-e/pkg/database"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/services/dashboard/internal/domain"
)

const (
	insertProduct = `
		INSERT INTO products (id, title, slug, summary, category, price_cents, currency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title, slug = EXCLUDED.slug, summary = EXCLUDED.summary,
			category = EXCLUDED.category, price_cents = EXCLUDED.price_cents`

	insertOrder = `
		INSERT INTO orders (id, user_id, status, total_cents, currency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, total_cents = EXCLUDED.total_cents`

	insertOrderItem = `
		INSERT INTO order_items (id, order_id, product_id, name, price_cents, quantity, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`

	insertWishlist = `
		INSERT INTO wishlists (user_id, product_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`
)

// dataset is everything one seed run writes.
type dataset struct {
	userID   string
	products []domain.CatalogDocument
	orders   []domain.Order
	wishlist []string
}

// write upserts ds in a single transaction so reruns converge on the same
// rows.
func write(ctx context.Context, db database.DBTX, ds dataset) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	if err := writeRows(ctx, tx, ds); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

func writeRows(ctx context.Context, tx pgx.Tx, ds dataset) error {
	exec := func(what, sql string, args ...any) error {
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("seed %s: %w", what, err)
		}
		return nil
	}

	for _, p := range ds.products {
		if err := exec("product "+p.ID, insertProduct,
			p.ID, p.Name, p.Slug, p.Description, p.CategoryName, p.BasePrice, p.Currency, p.CreatedAt); err != nil {
			return err
		}
	}
	for _, o := range ds.orders {
		if err := exec("order "+o.ID, insertOrder,
			o.ID, o.UserID, o.Status, domain.CentsFromPrice(o.Total), o.Currency, o.CreatedAt); err != nil {
			return err
		}
		for pos, it := range o.Items {
			if err := exec("order item "+it.ID, insertOrderItem,
				it.ID, o.ID, it.ProductID, it.Name, domain.CentsFromPrice(it.Price), it.Quantity, pos); err != nil {
				return err
			}
		}
	}
	for _, productID := range ds.wishlist {
		if err := exec("wishlist "+productID, insertWishlist, ds.userID, productID); err != nil {
			return err
		}
	}
	return nil
}
