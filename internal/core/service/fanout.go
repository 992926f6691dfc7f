package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

// DefaultFanout bounds concurrent upstream requests issued by one operation.
const DefaultFanout = 8

// fetchProducts fetches every id with at most limit requests in flight. The
// first failure cancels the rest and fails the whole lookup.
func fetchProducts(ctx context.Context, api port.CatalogAPI, ids []string, limit int) (map[string]domain.Product, error) {
	results := make([]domain.Product, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, id := range ids {
		g.Go(func() error {
			p, err := api.GetProduct(gctx, id)
			if err != nil {
				return fmt.Errorf("get product %s: %w", id, err)
			}
			results[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Product, len(ids))
	for i, id := range ids {
		byID[id] = results[i]
	}
	return byID, nil
}

func normalizeFanout(n int) int {
	if n < 1 {
		return DefaultFanout
	}
	return n
}
