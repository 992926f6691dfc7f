package restapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rl1809/storefront/internal/core/domain"
)

func (c *Client) ListReviews(ctx context.Context, customerID string, page, size int) ([]domain.Review, error) {
	q := url.Values{
		"customerId": {customerID},
		"page":       {strconv.Itoa(page)},
		"size":       {strconv.Itoa(size)},
	}
	var dtos []reviewDTO
	if err := c.do(ctx, call{method: http.MethodGet, path: []string{"reviews"}, query: q, out: &dtos}); err != nil {
		return nil, err
	}
	today := c.today()
	out := make([]domain.Review, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toDomain(today))
	}
	return out, nil
}

func (c *Client) CreateReview(ctx context.Context, r domain.Review) (domain.Review, error) {
	var dto reviewDTO
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   []string{"reviews"},
		body:   reviewFromDomain(r),
		out:    &dto,
		bare:   true,
	})
	if err != nil {
		return domain.Review{}, err
	}
	if dto.MaDG == "" {
		return r, nil
	}
	return dto.toDomain(c.today()), nil
}
