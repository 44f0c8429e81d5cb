package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product is the catalog view-model the dashboard lists and searches.
type Product struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Slug      string          `json:"slug"`
	Summary   *string         `json:"summary"`
	Category  *string         `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
	CreatedAt time.Time       `json:"created_at"`
}

// PriceFromCents converts minor currency units to a two-place decimal.
func PriceFromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// CentsFromPrice converts a decimal price to minor units, rounding half away
// from zero.
func CentsFromPrice(price decimal.Decimal) int64 {
	return price.Shift(2).Round(0).IntPart()
}

// CatalogDocument is the product representation published by the product
// service: its REST listing, its search index documents and its events.
type CatalogDocument struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  *string   `json:"description,omitempty"`
	CategoryName *string   `json:"category_name,omitempty"`
	BasePrice    int64     `json:"base_price"`
	Currency     string    `json:"currency"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToProduct maps the document onto the dashboard view-model.
func (d CatalogDocument) ToProduct() Product {
	return Product{
		ID:        d.ID,
		Title:     d.Name,
		Slug:      d.Slug,
		Summary:   d.Description,
		Category:  d.CategoryName,
		Price:     PriceFromCents(d.BasePrice),
		Currency:  d.Currency,
		CreatedAt: d.CreatedAt,
	}
}

// SortProducts orders products by created_at then id, the order every
// catalog source returns.
func SortProducts(ps []Product) {
	slices.SortStableFunc(ps, func(a, b Product) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
