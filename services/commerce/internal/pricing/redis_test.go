package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	prices map[uuid.UUID]decimal.Decimal
	err    error
	asked  [][]uuid.UUID
}

func (s *stubResolver) PricesFor(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	s.asked = append(s.asked, ids)
	if s.err != nil {
		return nil, s.err
	}
	out := make(map[uuid.UUID]decimal.Decimal)
	for _, id := range ids {
		if p, ok := s.prices[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func setupCache(t *testing.T, next Resolver) (*CachedResolver, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewCachedResolver(client, next, time.Minute), mr
}

func TestCachedResolver_ReadThrough(t *testing.T) {
	known := uuid.New()
	unknown := uuid.New()
	next := &stubResolver{prices: map[uuid.UUID]decimal.Decimal{known: decimal.RequireFromString("12.12")}}
	cache, mr := setupCache(t, next)
	ctx := context.Background()

	prices, err := cache.PricesFor(ctx, []uuid.UUID{known, unknown, known})
	require.NoError(t, err)
	require.Len(t, prices, 1)
	assert.Equal(t, "12.12", prices[known].String())
	require.Len(t, next.asked, 1)
	assert.Len(t, next.asked[0], 2)

	stored, err := mr.Get(cacheKey(known))
	require.NoError(t, err)
	assert.Equal(t, "12.12", stored)
	assert.Equal(t, time.Minute, mr.TTL(cacheKey(known)))
	assert.False(t, mr.Exists(cacheKey(unknown)))

	prices, err = cache.PricesFor(ctx, []uuid.UUID{known})
	require.NoError(t, err)
	assert.Equal(t, "12.12", prices[known].String())
	assert.Len(t, next.asked, 1, "hit must not reach the source")
}

func TestCachedResolver_Invalidate(t *testing.T) {
	id := uuid.New()
	next := &stubResolver{prices: map[uuid.UUID]decimal.Decimal{id: decimal.RequireFromString("1.50")}}
	cache, mr := setupCache(t, next)
	ctx := context.Background()

	_, err := cache.PricesFor(ctx, []uuid.UUID{id})
	require.NoError(t, err)
	require.True(t, mr.Exists(cacheKey(id)))

	require.NoError(t, cache.Invalidate(ctx, id))
	assert.False(t, mr.Exists(cacheKey(id)))
	assert.NoError(t, cache.Invalidate(ctx))
}

func TestCachedResolver_RedisDownFallsThrough(t *testing.T) {
	id := uuid.New()
	next := &stubResolver{prices: map[uuid.UUID]decimal.Decimal{id: decimal.RequireFromString("2.00")}}
	cache, mr := setupCache(t, next)
	mr.SetError("LOADING redis is loading the dataset in memory")

	prices, err := cache.PricesFor(context.Background(), []uuid.UUID{id})
	require.NoError(t, err)
	assert.True(t, prices[id].Equal(decimal.RequireFromString("2.00")))
}

func TestCachedResolver_SourceErrorPropagates(t *testing.T) {
	boom := errors.New("db down")
	cache, _ := setupCache(t, &stubResolver{err: boom})

	_, err := cache.PricesFor(context.Background(), []uuid.UUID{uuid.New()})
	assert.ErrorIs(t, err, boom)
}

func TestCachedResolver_GarbageEntryIsAMiss(t *testing.T) {
	id := uuid.New()
	next := &stubResolver{prices: map[uuid.UUID]decimal.Decimal{id: decimal.RequireFromString("3.00")}}
	cache, mr := setupCache(t, next)
	require.NoError(t, mr.Set(cacheKey(id), "not-a-number"))

	prices, err := cache.PricesFor(context.Background(), []uuid.UUID{id})
	require.NoError(t, err)
	assert.True(t, prices[id].Equal(decimal.RequireFromString("3")))
	assert.Len(t, next.asked, 1)
}
