package service

import (
	"context"
	"fmt"
	"log"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

const categoryPageSize = 100

type CatalogService struct {
	api port.CatalogAPI
}

func NewCatalogService(api port.CatalogAPI) *CatalogService {
	return &CatalogService{api: api}
}

// LoadCategories returns the category list headed by AllCategories. When the
// category endpoint fails the list is derived from the full product list.
func (s *CatalogService) LoadCategories(ctx context.Context) ([]domain.Category, error) {
	cats, err := s.api.ListCategories(ctx, 1, categoryPageSize)
	if err == nil {
		return append([]domain.Category{domain.AllCategories}, cats...), nil
	}
	log.Printf("catalog: list categories failed, deriving from products: %v", err)

	products, perr := s.api.ListProducts(ctx, "")
	if perr != nil {
		return nil, fmt.Errorf("derive categories: %w", perr)
	}
	return append([]domain.Category{domain.AllCategories}, DeriveCategories(products)...), nil
}

// DeriveCategories returns one category per distinct non-empty product
// category, in first-seen order, named by its id.
func DeriveCategories(products []domain.Product) []domain.Category {
	seen := make(map[string]bool)
	out := make([]domain.Category, 0)
	for _, p := range products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, domain.Category{ID: p.Category, Name: p.Category})
	}
	return out
}

// LoadProducts returns the products of categoryID, or all products when it is
// empty.
func (s *CatalogService) LoadProducts(ctx context.Context, categoryID string) ([]domain.Product, error) {
	products, err := s.api.ListProducts(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}
