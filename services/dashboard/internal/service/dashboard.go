package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/errgroup"

	"github.com/IlkomUNJ/webhw2b-Saccharin-e/services/dashboard/internal/domain"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/services/dashboard/internal/repository"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/services/dashboard/internal/search"
)

// DashboardService builds the dashboard and search view-models from the
// catalog, order and wishlist stores.
type DashboardService struct {
	catalog       repository.CatalogSource
	orders        repository.OrderRepository
	wishlists     repository.WishlistRepository
	logger        *slog.Logger
	searchResults prometheus.Histogram
}

// NewDashboardService creates a new dashboard service. Metrics are registered
// on reg; pass prometheus.NewRegistry() in tests.
func NewDashboardService(
	catalog repository.CatalogSource,
	orders repository.OrderRepository,
	wishlists repository.WishlistRepository,
	reg prometheus.Registerer,
	logger *slog.Logger,
) *DashboardService {
	return &DashboardService{
		catalog:   catalog,
		orders:    orders,
		wishlists: wishlists,
		logger:    logger,
		searchResults: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "dashboard_search_results_total",
			Help:    "Number of products matching a search before pagination.",
			Buckets: []float64{0, 1, 5, 12, 24, 50, 100, 250, 1000},
		}),
	}
}

// Summary loads the landing page data for user. The catalog, orders and
// wishlist reads run concurrently; the first failure cancels the others.
func (s *DashboardService) Summary(ctx context.Context, user domain.User) (*domain.Summary, error) {
	var (
		products []domain.Product
		orders   []domain.Order
		wishlist int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		all, err := s.catalog.All(gctx)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		products = all
		return nil
	})
	g.Go(func() error {
		list, err := s.orders.ListByUser(gctx, user.ID)
		if err != nil {
			return fmt.Errorf("list orders: %w", err)
		}
		orders = list
		return nil
	})
	g.Go(func() error {
		n, err := s.wishlists.CountByUser(gctx, user.ID)
		if err != nil {
			return fmt.Errorf("count wishlist: %w", err)
		}
		wishlist = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &domain.Summary{
		User:          user,
		Products:      head(products, domain.SummaryProductLimit),
		WishlistCount: wishlist,
		OrdersCount:   len(orders),
		TotalSpent:    domain.TotalSpent(orders),
		Orders:        head(orders, domain.SummaryOrderLimit),
	}

	s.logger.DebugContext(ctx, "dashboard summary built",
		slog.String("user_id", user.ID),
		slog.Int("products", len(summary.Products)),
		slog.Int("orders", summary.OrdersCount),
	)
	return summary, nil
}

// Search runs q against a fresh catalog snapshot.
func (s *DashboardService) Search(ctx context.Context, q domain.SearchQuery) (*domain.SearchResult, error) {
	catalog, err := s.catalog.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	result := search.Run(catalog, q)
	s.searchResults.Observe(float64(result.Total))
	return &result, nil
}

// head copies at most n leading elements into a non-nil slice.
func head[T any](items []T, n int) []T {
	out := make([]T, 0, min(n, len(items)))
	return append(out, items[:min(n, len(items))]...)
}
