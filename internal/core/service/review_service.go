package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

const (
	reviewIDPrefix   = "DG"
	reviewsPageSize  = 10
	msgFillAllFields = "Please fill in all fields"
)

// NewReviewID returns a random 128-bit identifier. It needs no collision probe
// against the upstream.
func NewReviewID() string {
	return reviewIDPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

type ReviewService struct {
	reviews port.ReviewAPI
	catalog port.CatalogAPI
	fanout  int
	newID   func() string
	now     func() time.Time
}

func NewReviewService(reviews port.ReviewAPI, catalog port.CatalogAPI, fanout int) *ReviewService {
	return &ReviewService{
		reviews: reviews,
		catalog: catalog,
		fanout:  normalizeFanout(fanout),
		newID:   NewReviewID,
		now:     time.Now,
	}
}

// LoadReviews returns the reviews written by a customer. Other users have none.
func (s *ReviewService) LoadReviews(ctx context.Context, user *domain.User) ([]domain.Review, error) {
	if !user.IsCustomer() || user.CustomerID == "" {
		return nil, nil
	}
	reviews, err := s.reviews.ListReviews(ctx, user.CustomerID, 1, reviewsPageSize)
	if errors.Is(err, port.ErrNoData) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// ReviewProducts returns the products of the order's line items for the
// product picker, in line-item order.
func (s *ReviewService) ReviewProducts(ctx context.Context, order domain.Order) ([]domain.Product, error) {
	ids := order.ProductIDs()
	byID, err := fetchProducts(ctx, s.catalog, ids, s.fanout)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		out = append(out, byID[id])
	}
	return out, nil
}

// ParseRating accepts a whole number from MinRating to MaxRating.
func ParseRating(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ValidationError(msgFillAllFields)
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < domain.MinRating || n > domain.MaxRating {
		return 0, ValidationError(fmt.Sprintf("Rating must be a whole number from %d to %d", domain.MinRating, domain.MaxRating))
	}
	return n, nil
}

// SubmitReview validates the review locally and posts it.
func (s *ReviewService) SubmitReview(ctx context.Context, user *domain.User, order domain.Order, productID, rating, comment string) (domain.Review, error) {
	if user == nil {
		return domain.Review{}, ValidationError("Please log in to write a review")
	}
	if order.ID == "" {
		return domain.Review{}, ValidationError("Please select an order to review")
	}
	if productID == "" || !order.HasProduct(productID) {
		return domain.Review{}, ValidationError("Please select a product from this order")
	}
	n, err := ParseRating(rating)
	if err != nil {
		return domain.Review{}, err
	}
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return domain.Review{}, ValidationError(msgFillAllFields)
	}

	r := domain.Review{
		ID:         s.newID(),
		OrderID:    order.ID,
		ProductID:  productID,
		CustomerID: user.CustomerID,
		Rating:     n,
		Content:    comment,
		Date:       s.now().Format("2006-01-02"),
	}
	created, err := s.reviews.CreateReview(ctx, r)
	if err != nil {
		return domain.Review{}, fmt.Errorf("create review: %w", err)
	}
	return created, nil
}
