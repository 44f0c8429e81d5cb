package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order status constants.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCompleted  = "completed"
	OrderStatusCanceled   = "canceled"
	OrderStatusRefunded   = "refunded"
)

// Order is a user's order with its line items loaded.
type Order struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Status    string          `json:"status"`
	Total     decimal.Decimal `json:"total"`
	Currency  string          `json:"currency"`
	Items     []OrderItem     `json:"items"`
	CreatedAt time.Time       `json:"created_at"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// LineTotal returns price times quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CountsTowardSpend reports whether the order's total is money the user has
// actually spent. Only delivered and completed orders count.
func (o Order) CountsTowardSpend() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusCompleted
}

// IsValidStatus checks if a status string is known.
func IsValidStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCompleted, OrderStatusCanceled, OrderStatusRefunded:
		return true
	}
	return false
}

// TotalSpent sums Total over orders that count toward spend.
func TotalSpent(orders []Order) decimal.Decimal {
	sum := decimal.Zero
	for _, o := range orders {
		if o.CountsTowardSpend() {
			sum = sum.Add(o.Total)
		}
	}
	return sum
}
