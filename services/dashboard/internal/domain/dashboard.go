package domain

import "github.com/shopspring/decimal"

// Dashboard limits.
const (
	SummaryProductLimit = 8
	SummaryOrderLimit   = 5
	SearchPageSize      = 12
)

// Search defaults applied when a parameter is absent or malformed.
const (
	DefaultMinPrice = 0
	DefaultMaxPrice = 999999
	DefaultPage     = 1
)

// User is the authenticated caller.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Summary is the landing page view-model.
type Summary struct {
	User          User            `json:"user"`
	Products      []Product       `json:"products"`
	WishlistCount int             `json:"wishlist_count"`
	OrdersCount   int             `json:"orders_count"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	Orders        []Order         `json:"orders"`
}

// SearchQuery is a parsed search request.
type SearchQuery struct {
	Text     string
	Category string
	MinPrice decimal.Decimal
	MaxPrice decimal.Decimal
	Page     int
}

// DefaultSearchQuery matches every product and asks for the first page.
func DefaultSearchQuery() SearchQuery {
	return SearchQuery{
		MinPrice: decimal.NewFromInt(DefaultMinPrice),
		MaxPrice: decimal.NewFromInt(DefaultMaxPrice),
		Page:     DefaultPage,
	}
}

// SearchResult is the search page view-model. It echoes the query so the
// client can re-render its filter form.
type SearchResult struct {
	Products   []Product       `json:"products"`
	Query      string          `json:"query"`
	Category   string          `json:"category"`
	MinPrice   decimal.Decimal `json:"min_price"`
	MaxPrice   decimal.Decimal `json:"max_price"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
	Total      int             `json:"total"`
	Categories []string        `json:"categories"`
}
