// Package elasticsearch reads the catalog from the product search index.
package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/IlkomUNJ/webhw2b-Saccharin-e/services/dashboard/internal/domain"
)

const scanPageSize = 500

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source domain.CatalogDocument `json:"_source"`
			Sort   []any                  `json:"sort"`
		} `json:"hits"`
	} `json:"hits"`
}

type errorResponse struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
}

// CatalogRepository implements repository.CatalogSource by scanning an index
// with search_after.
type CatalogRepository struct {
	client *elasticsearch.Client
	index  string
}

// New connects to the cluster at esURL.
func New(esURL, index string) (*CatalogRepository, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{esURL}})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: create client: %w", err)
	}
	return NewCatalogRepository(client, index), nil
}

// NewCatalogRepository uses an existing client.
func NewCatalogRepository(client *elasticsearch.Client, index string) *CatalogRepository {
	return &CatalogRepository{client: client, index: index}
}

// All returns every indexed product in created_at, id order.
func (r *CatalogRepository) All(ctx context.Context) ([]domain.Product, error) {
	products := []domain.Product{}
	var after []any
	for {
		resp, err := r.page(ctx, after)
		if err != nil {
			return nil, err
		}
		hits := resp.Hits.Hits
		for _, h := range hits {
			products = append(products, h.Source.ToProduct())
		}
		if len(hits) < scanPageSize {
			break
		}
		after = hits[len(hits)-1].Sort
	}
	return products, nil
}

func (r *CatalogRepository) page(ctx context.Context, after []any) (*searchResponse, error) {
	body := map[string]any{
		"size":  scanPageSize,
		"query": map[string]any{"match_all": map[string]any{}},
		"sort": []map[string]string{
			{"created_at": "asc"},
			{"id": "asc"},
		},
	}
	if after != nil {
		body["search_after"] = after
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch scan: marshal query: %w", err)
	}

	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(r.index),
		r.client.Search.WithBody(bytes.NewReader(data)),
		r.client.Search.WithTrackTotalHits(false),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch scan: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		var errResp errorResponse
		if json.NewDecoder(res.Body).Decode(&errResp) == nil && errResp.Error.Type != "" {
			return nil, fmt.Errorf("elasticsearch scan: %s: %s", errResp.Error.Type, errResp.Error.Reason)
		}
		return nil, fmt.Errorf("elasticsearch scan: unexpected status %s", res.Status())
	}

	var out searchResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("elasticsearch scan: decode response: %w", err)
	}
	return &out, nil
}

// Ping checks that the cluster answers.
func (r *CatalogRepository) Ping(ctx context.Context) error {
	res, err := r.client.Ping(r.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("elasticsearch ping: unexpected status %s", res.Status())
	}
	return nil
}
