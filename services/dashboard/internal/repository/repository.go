package repository

import (
	"context"

	"github.com/IlkomUNJ/webhw2b-Saccharin-e/services/dashboard/internal/domain"
)

// CatalogSource supplies the full product catalog.
type CatalogSource interface {
	// All returns every product ordered by created_at then id. There is no
	// paging; callers filter in memory.
	All(ctx context.Context) ([]domain.Product, error)
}

// CatalogWriter maintains a catalog snapshot fed by product events.
type CatalogWriter interface {
	Upsert(ctx context.Context, p domain.Product) error
	Delete(ctx context.Context, id string) error
}

// OrderRepository reads a user's order history.
type OrderRepository interface {
	// ListByUser returns the user's orders newest first with items loaded.
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

// WishlistRepository reads wishlist counts.
type WishlistRepository interface {
	CountByUser(ctx context.Context, userID string) (int, error)
}
