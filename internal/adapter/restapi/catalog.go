package restapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rl1809/storefront/internal/core/domain"
)

func (c *Client) ListCategories(ctx context.Context, page, size int) ([]domain.Category, error) {
	var dtos []categoryDTO
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   []string{"categories"},
		query:  url.Values{"page": {strconv.Itoa(page)}, "size": {strconv.Itoa(size)}},
		out:    &dtos,
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Category, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (c *Client) ListProducts(ctx context.Context, categoryID string) ([]domain.Product, error) {
	q := url.Values{"all": {"true"}}
	if categoryID != "" {
		q.Set("maDM", categoryID)
	}
	var dtos []productDTO
	if err := c.do(ctx, call{method: http.MethodGet, path: []string{"products"}, query: q, out: &dtos}); err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	var dto productDTO
	if err := c.do(ctx, call{method: http.MethodGet, path: []string{"products", id}, out: &dto}); err != nil {
		return domain.Product{}, err
	}
	return dto.toDomain(), nil
}

func (c *Client) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	var dto productDTO
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   []string{"products"},
		body:   productFromDomain(p),
		out:    &dto,
	})
	if err != nil {
		return domain.Product{}, err
	}
	return dto.toDomain(), nil
}

func (c *Client) UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	body := productFromDomain(p)
	body.MaSP = ""
	var dto productDTO
	err := c.do(ctx, call{
		method: http.MethodPut,
		path:   []string{"products", p.ID},
		body:   body,
		out:    &dto,
	})
	if err != nil {
		return domain.Product{}, err
	}
	updated := dto.toDomain()
	updated.ID = p.ID
	return updated, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, call{method: http.MethodDelete, path: []string{"products", id}})
}
