// Package productapi reads the catalog from the product service REST API.
package productapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/IlkomUNJ/webhw2b-Saccharin-e/services/dashboard/internal/domain"
)

const (
	pageSize = 100
	maxPages = 1000
)

// JSONGetter fetches a URL and decodes its JSON body. *httpclient.Client
// satisfies it.
type JSONGetter interface {
	GetJSON(ctx context.Context, url string, out any) error
}

type listResponse struct {
	Data    []domain.CatalogDocument `json:"data"`
	Page    int                      `json:"page"`
	HasNext bool                     `json:"has_next"`
}

// CatalogRepository implements repository.CatalogSource by paging through
// GET /api/v1/products.
type CatalogRepository struct {
	client  JSONGetter
	baseURL string
}

// NewCatalogRepository reads from the product service at baseURL.
func NewCatalogRepository(client JSONGetter, baseURL string) *CatalogRepository {
	return &CatalogRepository{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// All walks every page and returns the products in created_at, id order.
func (r *CatalogRepository) All(ctx context.Context) ([]domain.Product, error) {
	products := []domain.Product{}
	for page := 1; ; page++ {
		if page > maxPages {
			return nil, fmt.Errorf("product service listing exceeded %d pages", maxPages)
		}

		var resp listResponse
		if err := r.client.GetJSON(ctx, r.pageURL(page), &resp); err != nil {
			return nil, fmt.Errorf("fetch products page %d: %w", page, err)
		}
		for _, doc := range resp.Data {
			products = append(products, doc.ToProduct())
		}
		if !resp.HasNext || len(resp.Data) == 0 {
			break
		}
	}

	domain.SortProducts(products)
	return products, nil
}

func (r *CatalogRepository) pageURL(page int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(pageSize))
	return r.baseURL + "/api/v1/products?" + q.Encode()
}
