package postgres

import (
	"context"
	"fmt"

	"github.com/IlkomUNJ/webhw2b-Saccharin-e/pkg/database"
)

const countWishlistQuery = `SELECT COUNT(*) FROM wishlists WHERE user_id = $1`

// WishlistRepository implements repository.WishlistRepository using PostgreSQL.
type WishlistRepository struct {
	pool database.DBTX
}

// NewWishlistRepository creates a new PostgreSQL-backed wishlist repository.
func NewWishlistRepository(pool database.DBTX) *WishlistRepository {
	return &WishlistRepository{pool: pool}
}

// CountByUser returns how many products the user has wishlisted.
func (r *WishlistRepository) CountByUser(ctx context.Context, userID string) (_ int, err error) {
	ctx, done := database.TraceQuery(ctx, "count_wishlists", countWishlistQuery)
	defer func() { done(err) }()

	var n int
	if err := r.pool.QueryRow(ctx, countWishlistQuery, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count wishlist for user %s: %w", userID, err)
	}
	return n, nil
}
