package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPriceCents(t *testing.T) {
	assert.True(t, decimal.RequireFromString("19.99").Equal(PriceFromCents(1999)))
	assert.True(t, decimal.Zero.Equal(PriceFromCents(0)))
	assert.Equal(t, int64(1999), CentsFromPrice(decimal.RequireFromString("19.99")))
	assert.Equal(t, int64(2000), CentsFromPrice(decimal.RequireFromString("19.995")))
}

func TestOrder_CountsTowardSpend(t *testing.T) {
	counted := map[string]bool{
		OrderStatusPending:    false,
		OrderStatusConfirmed:  false,
		OrderStatusProcessing: false,
		OrderStatusShipped:    false,
		OrderStatusDelivered:  true,
		OrderStatusCompleted:  true,
		OrderStatusCanceled:   false,
		OrderStatusRefunded:   false,
	}
	for status, want := range counted {
		assert.True(t, IsValidStatus(status), status)
		assert.Equal(t, want, Order{Status: status}.CountsTowardSpend(), status)
	}
	assert.False(t, IsValidStatus("lost"))
}

func TestTotalSpent(t *testing.T) {
	orders := []Order{
		{Status: OrderStatusDelivered, Total: decimal.RequireFromString("10.50")},
		{Status: OrderStatusCompleted, Total: decimal.RequireFromString("4.25")},
		{Status: OrderStatusPending, Total: decimal.RequireFromString("100")},
		{Status: OrderStatusCanceled, Total: decimal.RequireFromString("7")},
	}
	assert.Equal(t, "14.75", TotalSpent(orders).StringFixed(2))
	assert.True(t, TotalSpent(nil).IsZero())
}

func TestOrderItem_LineTotal(t *testing.T) {
	item := OrderItem{Price: decimal.RequireFromString("2.50"), Quantity: 3}
	assert.Equal(t, "7.50", item.LineTotal().StringFixed(2))
}

func TestDefaultSearchQuery(t *testing.T) {
	q := DefaultSearchQuery()
	assert.Empty(t, q.Text)
	assert.Empty(t, q.Category)
	assert.True(t, q.MinPrice.IsZero())
	assert.True(t, decimal.NewFromInt(999999).Equal(q.MaxPrice))
	assert.Equal(t, 1, q.Page)
}

func TestCatalogDocument_ToProduct(t *testing.T) {
	desc, cat := "soft", "Apparel"
	created := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	p := CatalogDocument{
		ID: "p1", Name: "Shirt", Slug: "shirt", Description: &desc, CategoryName: &cat,
		BasePrice: 2599, Currency: "EUR", CreatedAt: created,
	}.ToProduct()

	assert.Equal(t, "Shirt", p.Title)
	assert.Equal(t, &desc, p.Summary)
	assert.Equal(t, &cat, p.Category)
	assert.Equal(t, "25.99", p.Price.StringFixed(2))
	assert.Equal(t, created, p.CreatedAt)
}

func TestSortProducts(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ps := []Product{
		{ID: "c", CreatedAt: t0.Add(time.Hour)},
		{ID: "b", CreatedAt: t0},
		{ID: "a", CreatedAt: t0},
	}
	SortProducts(ps)
	assert.Equal(t, "a", ps[0].ID)
	assert.Equal(t, "b", ps[1].ID)
	assert.Equal(t, "c", ps[2].ID)
}
