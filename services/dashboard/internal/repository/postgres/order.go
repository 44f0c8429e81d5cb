package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/IlkomUNJ/webhw2b-Saccharin-e/pkg/database"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/services/dashboard/internal/domain"
)

// Items are aggregated in the same query to avoid one round trip per order.
const listOrdersByUserQuery = `
	SELECT
		o.id, o.user_id, o.status, o.total_cents, o.currency, o.created_at,
		COALESCE(
			JSONB_AGG(
				JSONB_BUILD_OBJECT(
					'id', oi.id,
					'product_id', oi.product_id,
					'name', oi.name,
					'price_cents', oi.price_cents,
					'quantity', oi.quantity
				) ORDER BY oi.position
			) FILTER (WHERE oi.id IS NOT NULL),
			'[]'::jsonb
		) AS items
	FROM orders o
	LEFT JOIN order_items oi ON oi.order_id = o.id
	WHERE o.user_id = $1
	GROUP BY o.id, o.user_id, o.status, o.total_cents, o.currency, o.created_at
	ORDER BY o.created_at DESC, o.id DESC`

type itemRow struct {
	ID         string `json:"id"`
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
}

// OrderRepository implements repository.OrderRepository using PostgreSQL.
type OrderRepository struct {
	pool database.DBTX
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// ListByUser returns the user's orders newest first, items in line order.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) (_ []domain.Order, err error) {
	ctx, done := database.TraceQuery(ctx, "select_orders", listOrdersByUserQuery)
	defer func() { done(err) }()

	rows, err := r.pool.Query(ctx, listOrdersByUserQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders for user %s: %w", userID, err)
	}

	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, fmt.Errorf("scan orders: %w", err)
	}
	return orders, nil
}

func scanOrder(row pgx.CollectableRow) (domain.Order, error) {
	var (
		o          domain.Order
		totalCents int64
		itemsJSON  []byte
	)
	if err := row.Scan(&o.ID, &o.UserID, &o.Status, &totalCents, &o.Currency, &o.CreatedAt, &itemsJSON); err != nil {
		return domain.Order{}, err
	}
	if !domain.IsValidStatus(o.Status) {
		return domain.Order{}, fmt.Errorf("order %s has unknown status %q", o.ID, o.Status)
	}
	o.Total = domain.PriceFromCents(totalCents)

	var items []itemRow
	if err := json.Unmarshal(itemsJSON, &items); err != nil {
		return domain.Order{}, fmt.Errorf("decode items of order %s: %w", o.ID, err)
	}
	o.Items = make([]domain.OrderItem, 0, len(items))
	for _, it := range items {
		o.Items = append(o.Items, domain.OrderItem{
			ID:        it.ID,
			OrderID:   o.ID,
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     domain.PriceFromCents(it.PriceCents),
			Quantity:  it.Quantity,
		})
	}
	return o, nil
}
