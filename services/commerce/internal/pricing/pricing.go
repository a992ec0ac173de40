// Package pricing resolves current unit prices for products.
package pricing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Resolver returns the unit price of every known product id. Unknown ids
// are omitted from the map, never reported as an error.
type Resolver interface {
	PricesFor(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
}

// Invalidator drops cached prices after a catalog write.
type Invalidator interface {
	Invalidate(ctx context.Context, ids ...uuid.UUID) error
}

func distinct(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
