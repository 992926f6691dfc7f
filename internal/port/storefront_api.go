package port

import (
	"context"

	"github.com/rl1809/storefront/internal/core/domain"
)

type OrderFilter struct {
	Page       int
	Size       int
	CustomerID string
}

type OrderRequest struct {
	CustomerID    string
	Date          string
	Total         int64
	Status        domain.OrderStatus
	Address       string
	PaymentMethod string
	Items         []domain.LineItem
}

type CustomerRequest struct {
	FullName string
	Email    string
	Phone    string
	Address  string
}

type AccountRequest struct {
	Username   string
	Password   string
	CustomerID string
}

type CatalogAPI interface {
	ListCategories(ctx context.Context, page, size int) ([]domain.Category, error)

	// ListProducts returns all products, filtered by category when categoryID is not empty
	ListProducts(ctx context.Context, categoryID string) ([]domain.Product, error)

	GetProduct(ctx context.Context, id string) (domain.Product, error)
	CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type OrderAPI interface {
	// ListOrders returns order headers without line items, ErrNoData when the upstream returns none
	ListOrders(ctx context.Context, filter OrderFilter) ([]domain.Order, error)

	// GetOrder returns one order with its line items
	GetOrder(ctx context.Context, id string) (domain.Order, error)

	CreateOrder(ctx context.Context, req OrderRequest) (domain.Order, error)

	// UpdateOrderStatus returns the status reported back by the upstream, empty if omitted
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.OrderStatus, error)
}

type AccountAPI interface {
	// Login returns the account with Role left unset
	Login(ctx context.Context, username, password string) (domain.User, error)

	// CreateCustomer returns the new customer id
	CreateCustomer(ctx context.Context, req CustomerRequest) (string, error)

	CreateAccount(ctx context.Context, req AccountRequest) error
}

type ReviewAPI interface {
	ListReviews(ctx context.Context, customerID string, page, size int) ([]domain.Review, error)
	CreateReview(ctx context.Context, r domain.Review) (domain.Review, error)
}

// StorefrontAPI is the remote REST backend that owns all durable state.
type StorefrontAPI interface {
	CatalogAPI
	OrderAPI
	AccountAPI
	ReviewAPI
}
