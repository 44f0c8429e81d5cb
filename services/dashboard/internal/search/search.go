// Package search filters, pages and facets a catalog snapshot in memory.
package search

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/IlkomUNJ/webhw2b-Saccharin-e/pkg/pagination"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/services/dashboard/internal/domain"
)

// maxPriceExponent bounds the decimal exponent of min_price and max_price.
const maxPriceExponent = 18

// ParseQuery reads q, category, min_price, max_price and page. q and category
// are used as given. Absent or malformed numbers fall back to their defaults
// instead of failing.
func ParseQuery(values url.Values) domain.SearchQuery {
	q := domain.DefaultSearchQuery()
	q.Text = values.Get("q")
	q.Category = values.Get("category")

	if d, ok := parsePrice(values.Get("min_price")); ok {
		q.MinPrice = d
	}
	if d, ok := parsePrice(values.Get("max_price")); ok {
		q.MaxPrice = d
	}
	if p, err := strconv.Atoi(strings.TrimSpace(values.Get("page"))); err == nil {
		q.Page = p
	}
	return q
}

// parsePrice rejects values whose exponent is outside ±maxPriceExponent.
func parsePrice(raw string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, false
	}
	if exp := d.Exponent(); exp > maxPriceExponent || exp < -maxPriceExponent {
		return decimal.Decimal{}, false
	}
	return d, true
}

// Run applies q to catalog. catalog is not modified and its order is kept.
func Run(catalog []domain.Product, q domain.SearchQuery) domain.SearchResult {
	text := strings.ToLower(q.Text)

	matched := make([]domain.Product, 0, len(catalog))
	for _, p := range catalog {
		if matchesText(p, text) && matchesCategory(p, q.Category) && inPriceRange(p, q.MinPrice, q.MaxPrice) {
			matched = append(matched, p)
		}
	}

	return domain.SearchResult{
		Products:   pagination.Slice(matched, q.Page, domain.SearchPageSize),
		Query:      q.Text,
		Category:   q.Category,
		MinPrice:   q.MinPrice,
		MaxPrice:   q.MaxPrice,
		Page:       q.Page,
		TotalPages: pagination.TotalPages(len(matched), domain.SearchPageSize),
		Total:      len(matched),
		Categories: Categories(catalog),
	}
}

// matchesText expects text already lower-cased. An empty text matches all.
func matchesText(p domain.Product, text string) bool {
	if text == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Title), text) {
		return true
	}
	if p.Summary != nil && strings.Contains(strings.ToLower(*p.Summary), text) {
		return true
	}
	return p.Category != nil && strings.Contains(strings.ToLower(*p.Category), text)
}

func matchesCategory(p domain.Product, category string) bool {
	if category == "" {
		return true
	}
	return p.Category != nil && strings.EqualFold(*p.Category, category)
}

func inPriceRange(p domain.Product, lo, hi decimal.Decimal) bool {
	return p.Price.GreaterThanOrEqual(lo) && p.Price.LessThanOrEqual(hi)
}

// Categories returns the distinct non-empty categories in catalog, case
// preserved and sorted ascending.
func Categories(catalog []domain.Product) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, p := range catalog {
		if p.Category == nil || *p.Category == "" {
			continue
		}
		if _, ok := seen[*p.Category]; ok {
			continue
		}
		seen[*p.Category] = struct{}{}
		out = append(out, *p.Category)
	}
	slices.Sort(out)
	return out
}
