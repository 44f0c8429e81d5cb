package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IlkomUNJ/webhw2b-Saccharin-e/pkg/database"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func strPtr(s string) *string { return &s }

var productColumns = []string{"id", "title", "slug", "summary", "category", "price_cents", "currency", "created_at"}

func TestCatalogRepository_All(t *testing.T) {
	mock := newMock(t)
	repo := NewCatalogRepository(mock)
	t0 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT id, title, slug, summary, category, price_cents, currency, created_at\\s+FROM products\\s+ORDER BY created_at, id").
		WillReturnRows(pgxmock.NewRows(productColumns).
			AddRow("p1", "Blue Shirt", "blue-shirt", strPtr("cotton"), strPtr("Apparel"), int64(1999), "USD", t0).
			AddRow("p2", "Mystery Box", "mystery-box", (*string)(nil), (*string)(nil), int64(500), "USD", t0.Add(time.Minute)))

	products, err := repo.All(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "p1", products[0].ID)
	assert.Equal(t, "19.99", products[0].Price.StringFixed(2))
	require.NotNil(t, products[0].Summary)
	assert.Equal(t, "cotton", *products[0].Summary)
	assert.Equal(t, "Apparel", *products[0].Category)

	assert.Nil(t, products[1].Summary)
	assert.Nil(t, products[1].Category)
	assert.Equal(t, "5.00", products[1].Price.StringFixed(2))
}

func TestCatalogRepository_All_Empty(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("FROM products").WillReturnRows(pgxmock.NewRows(productColumns))

	products, err := NewCatalogRepository(mock).All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestCatalogRepository_All_QueryError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("FROM products").WillReturnError(errors.New("connection reset"))

	_, err := NewCatalogRepository(mock).All(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list products")
}

func TestWishlistRepository_CountByUser(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM wishlists WHERE user_id = \\$1").
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))

	n, err := NewWishlistRepository(mock).CountByUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestWishlistRepository_CountByUser_Error(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("FROM wishlists").WithArgs("user-1").WillReturnError(errors.New("timeout"))

	_, err := NewWishlistRepository(mock).CountByUser(context.Background(), "user-1")
	assert.ErrorContains(t, err, "count wishlist for user user-1")
}

var orderColumns = []string{"id", "user_id", "status", "total_cents", "currency", "created_at", "items"}

func TestOrderRepository_ListByUser(t *testing.T) {
	mock := newMock(t)
	t0 := time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM orders o\\s+LEFT JOIN order_items oi").
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows(orderColumns).
			AddRow("o2", "user-1", "delivered", int64(2500), "USD", t0,
				[]byte(`[{"id":"i1","product_id":"p1","name":"Blue Shirt","price_cents":1000,"quantity":2},{"id":"i2","product_id":"p2","name":"Mug","price_cents":500,"quantity":1}]`)).
			AddRow("o1", "user-1", "pending", int64(900), "USD", t0.Add(-time.Hour), []byte(`[]`)))

	orders, err := NewOrderRepository(mock).ListByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, orders, 2)

	first := orders[0]
	assert.Equal(t, "o2", first.ID)
	assert.Equal(t, "25.00", first.Total.StringFixed(2))
	require.Len(t, first.Items, 2)
	assert.Equal(t, "o2", first.Items[0].OrderID)
	assert.Equal(t, "10.00", first.Items[0].Price.StringFixed(2))
	assert.Equal(t, "20.00", first.Items[0].LineTotal().StringFixed(2))

	assert.NotNil(t, orders[1].Items)
	assert.Empty(t, orders[1].Items)
}

func TestOrderRepository_ListByUser_BadItemsJSON(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("FROM orders").
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows(orderColumns).
			AddRow("o1", "user-1", "pending", int64(1), "USD", time.Now(), []byte(`{not json`)))

	_, err := NewOrderRepository(mock).ListByUser(context.Background(), "user-1")
	assert.ErrorContains(t, err, "decode items of order o1")
}

func TestOrderRepository_ListByUser_UnknownStatus(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("FROM orders").
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows(orderColumns).
			AddRow("o1", "user-1", "lost", int64(1), "USD", time.Now(), []byte(`[]`)))

	_, err := NewOrderRepository(mock).ListByUser(context.Background(), "user-1")
	assert.ErrorContains(t, err, `order o1 has unknown status "lost"`)
}

func TestOrderRepository_ListByUser_NoOrders(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("FROM orders").WithArgs("ghost").WillReturnRows(pgxmock.NewRows(orderColumns))

	orders, err := NewOrderRepository(mock).ListByUser(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Empty(t, orders)
}
