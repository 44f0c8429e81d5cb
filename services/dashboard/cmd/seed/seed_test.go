package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IlkomUNJ/webhw2b-Saccharin-e/services/dashboard/internal/domain"
)

var seedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestDemoData_IsDeterministic(t *testing.T) {
	a := demoProducts(seedNow)
	b := demoProducts(seedNow)
	assert.Equal(t, a, b)
	assert.Equal(t, demoOrders(seedNow, a), demoOrders(seedNow, b))
	assert.Equal(t, demoUserID(), demoUserID())
}

func TestDemoProducts(t *testing.T) {
	products := demoProducts(seedNow)
	require.Len(t, products, len(productSeeds))

	ids := map[string]bool{}
	var uncategorized int
	for i, p := range products {
		assert.False(t, ids[p.ID], "duplicate id %s", p.ID)
		ids[p.ID] = true
		assert.NotEmpty(t, p.Slug)
		if i > 0 {
			assert.True(t, p.CreatedAt.After(products[i-1].CreatedAt))
		}
		if p.CategoryName == nil {
			uncategorized++
		}
	}
	assert.Equal(t, 2, uncategorized)
	assert.Equal(t, "oxford-shirt", products[0].Slug)
}

func TestDemoOrders(t *testing.T) {
	products := demoProducts(seedNow)
	orders := demoOrders(seedNow, products)
	require.Len(t, orders, len(orderSeeds))

	// Repeated products collapse into one line.
	shipped := orders[3]
	require.Len(t, shipped.Items, 2)
	assert.Equal(t, 2, shipped.Items[0].Quantity)
	assert.Equal(t, "114.98", shipped.Total.StringFixed(2))

	// delivered 29.99+12.50, completed 41.99, delivered 32.99
	assert.Equal(t, "117.47", domain.TotalSpent(orders).StringFixed(2))

	for _, o := range orders {
		assert.Equal(t, demoUserID(), o.UserID)
		assert.True(t, domain.IsValidStatus(o.Status))
	}
}

func TestWrite(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	products := demoProducts(seedNow)[:1]
	orders := demoOrders(seedNow, demoProducts(seedNow))[:1]
	ds := dataset{userID: demoUserID(), products: products, orders: orders, wishlist: []string{products[0].ID}}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO products").
		WithArgs(products[0].ID, "Oxford Shirt", "oxford-shirt", pgxmock.AnyArg(), pgxmock.AnyArg(),
			int64(2999), "USD", products[0].CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(orders[0].ID, demoUserID(), domain.OrderStatusDelivered, int64(4249), "USD", orders[0].CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO order_items").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO order_items").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO wishlists").
		WithArgs(demoUserID(), products[0].ID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, write(context.Background(), mock, ds))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWrite_RollsBackOnError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	products := demoProducts(seedNow)[:1]

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO products").WillReturnError(errors.New("duplicate key value"))
	mock.ExpectRollback()

	err = write(context.Background(), mock, dataset{userID: demoUserID(), products: products})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed product")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWrite_BeginFails(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	err = write(context.Background(), mock, dataset{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin seed")
}
