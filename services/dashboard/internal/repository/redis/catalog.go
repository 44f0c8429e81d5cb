package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/IlkomUNJ/webhw2b-Saccharin-e/services/dashboard/internal/domain"
)

const (
	productsKey = "dashboard:catalog:products"
	orderKey    = "dashboard:catalog:order"
)

// CatalogRepository keeps a catalog snapshot in Redis: a hash of id to
// product JSON, and a sorted set of ids scored by created_at in unix millis
// that fixes the listing order.
type CatalogRepository struct {
	client redis.UniversalClient
}

// NewCatalogRepository creates a new Redis-backed catalog snapshot.
func NewCatalogRepository(client redis.UniversalClient) *CatalogRepository {
	return &CatalogRepository{client: client}
}

// All returns the snapshot ordered by created_at, then id. Ids in the order
// set without a hash entry are skipped.
func (r *CatalogRepository) All(ctx context.Context) ([]domain.Product, error) {
	ids, err := r.client.ZRange(ctx, orderKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis zrange catalog: %w", err)
	}
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	values, err := r.client.HMGet(ctx, productsKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hmget catalog: %w", err)
	}

	products := make([]domain.Product, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var p domain.Product
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("unmarshal product %s: %w", ids[i], err)
		}
		products = append(products, p)
	}
	return products, nil
}

// Upsert stores p and positions it by its creation time.
func (r *CatalogRepository) Upsert(ctx context.Context, p domain.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, productsKey, p.ID, data)
		pipe.ZAdd(ctx, orderKey, redis.Z{Score: float64(p.CreatedAt.UnixMicro()), Member: p.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis upsert product %s: %w", p.ID, err)
	}
	return nil
}

// Delete removes the product. Deleting an unknown id is not an error.
func (r *CatalogRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, productsKey, id)
		pipe.ZRem(ctx, orderKey, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete product %s: %w", id, err)
	}
	return nil
}
