package service

import (
	"context"
	"strings"
	"testing"

	"github.com/rl1809/storefront/internal/core/domain"
)

func TestNewReviewID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewReviewID()
		if !strings.HasPrefix(id, "DG") {
			t.Fatalf("expected DG prefix, got %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"1", 1, true},
		{"5", 5, true},
		{" 3 ", 3, true},
		{"0", 0, false},
		{"6", 0, false},
		{"4.5", 0, false},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseRating(tt.in)
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("ParseRating(%q) = %d, %v; want %d", tt.in, got, err, tt.want)
		}
		if !tt.ok && err == nil {
			t.Errorf("ParseRating(%q) expected error", tt.in)
		}
	}
}

func TestSubmitReview_Validation(t *testing.T) {
	order := domain.Order{ID: "DH1", Items: []domain.LineItem{{ProductID: "SP1"}}}
	tests := []struct {
		name      string
		user      *domain.User
		order     domain.Order
		productID string
		rating    string
		comment   string
	}{
		{"anonymous", nil, order, "SP1", "5", "great"},
		{"no order", customer, domain.Order{}, "SP1", "5", "great"},
		{"product not in order", customer, order, "SP2", "5", "great"},
		{"rating out of range", customer, order, "SP1", "7", "great"},
		{"fractional rating", customer, order, "SP1", "2.5", "great"},
		{"empty comment", customer, order, "SP1", "4", "   "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newMockAPI()
			svc := NewReviewService(api, api, 4)

			_, err := svc.SubmitReview(context.Background(), tt.user, tt.order, tt.productID, tt.rating, tt.comment)
			if _, ok := err.(ValidationError); !ok {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if calls := api.calls.Load(); calls != 0 {
				t.Errorf("expected no network call, got %d", calls)
			}
		})
	}
}

func TestSubmitReview_Success(t *testing.T) {
	api := newMockAPI()
	svc := NewReviewService(api, api, 4)
	svc.newID = func() string { return "DGfixed" }

	order := domain.Order{ID: "DH1", Items: []domain.LineItem{{ProductID: "SP1"}}}
	r, err := svc.SubmitReview(context.Background(), customer, order, "SP1", "4", " tasty ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.ID != "DGfixed" || r.Rating != 4 || r.Content != "tasty" || r.CustomerID != "KH1" {
		t.Errorf("unexpected review %+v", r)
	}
	if len(api.createdReviews) != 1 {
		t.Errorf("expected 1 posted review, got %d", len(api.createdReviews))
	}
}

func TestReviewProducts_LineItemOrder(t *testing.T) {
	api := newMockAPI()
	api.productByID["SP1"] = domain.Product{ID: "SP1", Name: "Bucket"}
	api.productByID["SP2"] = domain.Product{ID: "SP2", Name: "Cola"}
	svc := NewReviewService(api, api, 4)

	order := domain.Order{ID: "DH1", Items: []domain.LineItem{{ProductID: "SP2"}, {ProductID: "SP1"}}}
	products, err := svc.ReviewProducts(context.Background(), order)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 2 || products[0].ID != "SP2" || products[1].ID != "SP1" {
		t.Errorf("unexpected products %+v", products)
	}
}

func TestLoadReviews_OnlyCustomers(t *testing.T) {
	api := newMockAPI()
	api.reviews = []domain.Review{{ID: "DG1"}}
	svc := NewReviewService(api, api, 4)

	reviews, err := svc.LoadReviews(context.Background(), &domain.User{Username: "admin", Role: domain.RoleAdmin})
	if err != nil || reviews != nil {
		t.Errorf("expected no reviews for admin, got %v, %v", reviews, err)
	}
	if calls := api.calls.Load(); calls != 0 {
		t.Errorf("expected no network call, got %d", calls)
	}

	reviews, err = svc.LoadReviews(context.Background(), customer)
	if err != nil || len(reviews) != 1 {
		t.Errorf("expected 1 review, got %v, %v", reviews, err)
	}
}
