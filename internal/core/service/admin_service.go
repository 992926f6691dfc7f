package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

const receiptListLimit = 20

// ProductForm carries the admin product form as typed text.
type ProductForm struct {
	ID          string
	Name        string
	Price       string
	Category    string
	Image       string
	Description string
	Stock       string
}

type ReceiptForm struct {
	ID        string
	ProductID string
	Quantity  int
}

type AdminService struct {
	catalog  port.CatalogAPI
	orders   port.OrderAPI
	receipts port.ReceiptRepository
	now      func() time.Time
}

func NewAdminService(catalog port.CatalogAPI, orders port.OrderAPI, receipts port.ReceiptRepository) *AdminService {
	return &AdminService{catalog: catalog, orders: orders, receipts: receipts, now: time.Now}
}

// FilterProducts applies the search term (case-insensitive substring of name
// or id), the exact category filter, and a stable sort.
func FilterProducts(products []domain.Product, q domain.ProductQuery) []domain.Product {
	q = q.Normalized()
	term := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if term != "" && !strings.Contains(strings.ToLower(p.Name), term) && !strings.Contains(strings.ToLower(p.ID), term) {
			continue
		}
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		out = append(out, p)
	}

	compare := func(a, b domain.Product) int {
		switch q.Field {
		case domain.SortByPrice:
			return cmp.Compare(a.Price, b.Price)
		case domain.SortByStock:
			return cmp.Compare(a.Stock, b.Stock)
		default:
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	}
	if q.Order == domain.SortDesc {
		slices.SortStableFunc(out, func(a, b domain.Product) int { return compare(b, a) })
	} else {
		slices.SortStableFunc(out, compare)
	}
	return out
}

func parseProductForm(f ProductForm) (domain.Product, error) {
	name := strings.TrimSpace(f.Name)
	category := strings.TrimSpace(f.Category)
	priceText := strings.TrimSpace(f.Price)
	stockText := strings.TrimSpace(f.Stock)
	if name == "" || priceText == "" || category == "" || stockText == "" {
		return domain.Product{}, ValidationError("Please fill in all required fields")
	}

	price, err := strconv.ParseFloat(priceText, 64)
	if err != nil || price <= 0 || math.IsInf(price, 0) {
		return domain.Product{}, ValidationError("Price must be a positive number")
	}
	stock, err := strconv.Atoi(stockText)
	if err != nil || stock < 0 {
		return domain.Product{}, ValidationError("Stock must be a whole number of zero or more")
	}

	image := strings.TrimSpace(f.Image)
	if image == "" {
		image = domain.PlaceholderImage
	}
	return domain.Product{
		ID:          strings.TrimSpace(f.ID),
		Name:        name,
		Category:    category,
		Price:       int64(math.Round(price)),
		Image:       image,
		Description: strings.TrimSpace(f.Description),
		Stock:       stock,
	}, nil
}

func (s *AdminService) CreateProduct(ctx context.Context, form ProductForm) (domain.Product, error) {
	p, err := parseProductForm(form)
	if err != nil {
		return domain.Product{}, err
	}
	created, err := s.catalog.CreateProduct(ctx, p)
	if errors.Is(err, port.ErrNoData) {
		return p, nil
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}
	if created.ID == "" {
		created.ID = p.ID
	}
	return created, nil
}

func (s *AdminService) UpdateProduct(ctx context.Context, id string, form ProductForm) (domain.Product, error) {
	if id == "" {
		return domain.Product{}, ValidationError("Please select a product to update")
	}
	p, err := parseProductForm(form)
	if err != nil {
		return domain.Product{}, err
	}
	p.ID = id
	updated, err := s.catalog.UpdateProduct(ctx, p)
	if errors.Is(err, port.ErrNoData) {
		return p, nil
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("update product %s: %w", id, err)
	}
	return updated, nil
}

func (s *AdminService) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return ValidationError("Please select a product to delete")
	}
	if err := s.catalog.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	return nil
}

// UpdateOrderStatus returns the status to show for the order: the one the
// upstream echoes, or the requested one when it echoes none.
func (s *AdminService) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.OrderStatus, error) {
	if !status.Valid() {
		return "", ValidationError(fmt.Sprintf("Unknown order status %q", status))
	}
	got, err := s.orders.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return "", fmt.Errorf("update order %s: %w", id, err)
	}
	if got == "" {
		got = status
	}
	return got, nil
}

// CreateReceipt records an inbound stock receipt. When it names a product the
// product's stock is raised upstream and the updated product is returned. A
// failed raise removes the receipt again.
func (s *AdminService) CreateReceipt(ctx context.Context, form ReceiptForm, current *domain.Product) (domain.InboundReceipt, *domain.Product, error) {
	id := strings.TrimSpace(form.ID)
	if id == "" {
		return domain.InboundReceipt{}, nil, ValidationError("Please enter a receipt ID")
	}
	if form.Quantity < 0 {
		return domain.InboundReceipt{}, nil, ValidationError("Quantity must not be negative")
	}
	if form.ProductID != "" && current == nil {
		return domain.InboundReceipt{}, nil, ValidationError("Unknown product " + form.ProductID)
	}

	r := domain.InboundReceipt{
		ID:        id,
		ProductID: form.ProductID,
		Quantity:  form.Quantity,
		CreatedAt: s.now(),
	}
	if err := s.receipts.CreateReceipt(ctx, r); err != nil {
		if errors.Is(err, port.ErrDuplicate) {
			return domain.InboundReceipt{}, nil, ValidationError(fmt.Sprintf("Receipt %s already exists", id))
		}
		return domain.InboundReceipt{}, nil, fmt.Errorf("create receipt: %w", err)
	}

	if current == nil || form.Quantity == 0 {
		return r, nil, nil
	}
	p := *current
	p.Stock += form.Quantity
	updated, err := s.catalog.UpdateProduct(ctx, p)
	if errors.Is(err, port.ErrNoData) {
		return r, &p, nil
	}
	if err != nil {
		// the receipt id stays free for a retry
		if derr := s.receipts.DeleteReceipt(ctx, r.ID); derr != nil {
			log.Printf("admin: failed to release receipt %s: %v", r.ID, derr)
		}
		return domain.InboundReceipt{}, nil, fmt.Errorf("raise stock of %s: %w", p.ID, err)
	}
	return r, &updated, nil
}

func (s *AdminService) ListReceipts(ctx context.Context) ([]domain.InboundReceipt, error) {
	return s.receipts.ListReceipts(ctx, receiptListLimit)
}
