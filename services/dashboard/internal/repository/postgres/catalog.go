package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/IlkomUNJ/webhw2b-Saccharin-e/pkg/database"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/services/dashboard/internal/domain"
)

const listProductsQuery = `
	SELECT id, title, slug, summary, category, price_cents, currency, created_at
	FROM products
	ORDER BY created_at, id`

// CatalogRepository implements repository.CatalogSource using PostgreSQL.
type CatalogRepository struct {
	pool database.DBTX
}

// NewCatalogRepository creates a new PostgreSQL-backed catalog source.
func NewCatalogRepository(pool database.DBTX) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// All returns the whole catalog in created_at, id order.
func (r *CatalogRepository) All(ctx context.Context) (_ []domain.Product, err error) {
	ctx, done := database.TraceQuery(ctx, "select_products", listProductsQuery)
	defer func() { done(err) }()

	rows, err := r.pool.Query(ctx, listProductsQuery)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	products, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Product, error) {
		var (
			p     domain.Product
			cents int64
		)
		if err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Summary, &p.Category, &cents, &p.Currency, &p.CreatedAt); err != nil {
			return domain.Product{}, err
		}
		p.Price = domain.PriceFromCents(cents)
		return p, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan products: %w", err)
	}
	return products, nil
}
