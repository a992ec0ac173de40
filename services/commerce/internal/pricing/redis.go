package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/commerce/pkg/logging"
)

const keyPrefix = "price:"

// CachedResolver serves prices from Redis and falls back to next for misses.
// Redis being unavailable degrades to next, it never fails a lookup.
type CachedResolver struct {
	client *redis.Client
	next   Resolver
	ttl    time.Duration
}

func NewCachedResolver(client *redis.Client, next Resolver, ttl time.Duration) *CachedResolver {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CachedResolver{client: client, next: next, ttl: ttl}
}

func (r *CachedResolver) PricesFor(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	ids = distinct(ids)
	if len(ids) == 0 {
		return map[uuid.UUID]decimal.Decimal{}, nil
	}
	l := logging.FromContext(ctx).With("component", "pricing.cache")

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = cacheKey(id)
	}

	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		l.Warn("price_cache_read_error", "error", err)
		return r.next.PricesFor(ctx, ids)
	}

	prices := make(map[uuid.UUID]decimal.Decimal, len(ids))
	var misses []uuid.UUID
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			misses = append(misses, ids[i])
			continue
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			misses = append(misses, ids[i])
			continue
		}
		prices[ids[i]] = d
	}
	if len(misses) == 0 {
		return prices, nil
	}

	fetched, err := r.next.PricesFor(ctx, misses)
	if err != nil {
		return nil, err
	}

	pipe := r.client.Pipeline()
	for id, p := range fetched {
		prices[id] = p
		pipe.Set(ctx, cacheKey(id), p.String(), r.ttl)
	}
	if len(fetched) > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			l.Warn("price_cache_write_error", "error", err)
		}
	}
	return prices, nil
}

func (r *CachedResolver) Invalidate(ctx context.Context, ids ...uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = cacheKey(id)
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(id uuid.UUID) string {
	return keyPrefix + id.String()
}
