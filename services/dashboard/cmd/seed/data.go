package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/IlkomUNJ/webhw2b-Saccharin-e/pkg/slug"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/services/dashboard/internal/domain"
)

// seedNamespace makes every generated id stable across runs.
var seedNamespace = uuid.MustParse("6f1c3a52-8d2e-4b7a-9c41-2e5d7f0a1b3c")

const (
	demoEmail = "demo@example.com"
	demoRole  = "customer"
)

func seedID(kind string, n int) string {
	return uuid.NewSHA1(seedNamespace, fmt.Appendf(nil, "%s:%d", kind, n)).String()
}

func demoUserID() string { return seedID("user", 0) }

type productSeed struct {
	title    string
	summary  string
	category string
	cents    int64
}

var productSeeds = []productSeed{
	{"Oxford Shirt", "Crisp cotton button-down", "Apparel", 2999},
	{"Linen Shirt", "Breathable summer shirt", "Apparel", 3499},
	{"Denim Jacket", "Classic washed denim", "Apparel", 6900},
	{"Wool Scarf", "", "Apparel", 1999},
	{"Ceramic Mug", "Holds 350ml, dishwasher safe", "Home", 1250},
	{"Throw Blanket", "Knitted shirt-fabric blend", "Home", 4500},
	{"Desk Lamp", "Warm LED with dimmer", "Home", 3900},
	{"Go in Practice", "Patterns for production services", "Books", 4199},
	{"Distributed Systems", "", "Books", 5250},
	{"The Shirt Book", "A history of the shirt", "Books", 2400},
	{"Wireless Earbuds", "Noise cancelling", "Electronics", 8999},
	{"USB-C Hub", "7-in-1 adapter", "Electronics", 3299},
	{"Gift Card", "Redeemable store-wide", "", 2500},
	{"Mystery Box", "", "", 999999},
}

// demoProducts returns the catalog, one minute apart from base.
func demoProducts(base time.Time) []domain.CatalogDocument {
	docs := make([]domain.CatalogDocument, len(productSeeds))
	for i, s := range productSeeds {
		doc := domain.CatalogDocument{
			ID:        seedID("product", i),
			Name:      s.title,
			Slug:      slug.Generate(s.title),
			BasePrice: s.cents,
			Currency:  "USD",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if s.summary != "" {
			doc.Description = &s.summary
		}
		if s.category != "" {
			doc.CategoryName = &s.category
		}
		docs[i] = doc
	}
	return docs
}

type orderSeed struct {
	status string
	items  []int // indexes into productSeeds
	age    time.Duration
}

var orderSeeds = []orderSeed{
	{domain.OrderStatusDelivered, []int{0, 4}, 40 * 24 * time.Hour},
	{domain.OrderStatusCompleted, []int{7}, 30 * 24 * time.Hour},
	{domain.OrderStatusCanceled, []int{10}, 20 * 24 * time.Hour},
	{domain.OrderStatusShipped, []int{1, 1, 5}, 10 * 24 * time.Hour},
	{domain.OrderStatusDelivered, []int{11}, 7 * 24 * time.Hour},
	{domain.OrderStatusRefunded, []int{2}, 3 * 24 * time.Hour},
	{domain.OrderStatusPending, []int{9, 6}, 2 * time.Hour},
}

// demoOrders builds the demo user's order history. Repeated product indexes
// collapse into one line with a higher quantity.
func demoOrders(now time.Time, products []domain.CatalogDocument) []domain.Order {
	orders := make([]domain.Order, len(orderSeeds))
	for i, s := range orderSeeds {
		o := domain.Order{
			ID:        seedID("order", i),
			UserID:    demoUserID(),
			Status:    s.status,
			Currency:  "USD",
			CreatedAt: now.Add(-s.age),
		}
		lines := map[int]int{}
		for _, idx := range s.items {
			if pos, ok := lines[idx]; ok {
				o.Items[pos].Quantity++
				continue
			}
			p := products[idx]
			lines[idx] = len(o.Items)
			o.Items = append(o.Items, domain.OrderItem{
				ID:        seedID(fmt.Sprintf("order-%d-item", i), len(o.Items)),
				OrderID:   o.ID,
				ProductID: p.ID,
				Name:      p.Name,
				Price:     domain.PriceFromCents(p.BasePrice),
				Quantity:  1,
			})
		}
		for _, it := range o.Items {
			o.Total = o.Total.Add(it.LineTotal())
		}
		orders[i] = o
	}
	return orders
}

// wishlistProducts are the product indexes on the demo user's wishlist.
var wishlistProducts = []int{2, 6, 10}
