package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

const (
	DefaultOrderPageSize = 10

	noProductsFound = "No Products Found"
	unknownProduct  = "Unknown Product"
)

type PaymentMethod struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var PaymentMethods = []PaymentMethod{
	{Value: "momo", Label: "Momo"},
	{Value: "cash", Label: "Cash on Delivery"},
}

func validPaymentMethod(v string) bool {
	for _, m := range PaymentMethods {
		if m.Value == v {
			return true
		}
	}
	return false
}

// OrderService aggregates order headers, order details and product lookups
// into the order history projection, and places orders.
type OrderService struct {
	orders   port.OrderAPI
	catalog  port.CatalogAPI
	fanout   int
	pageSize int
	now      func() time.Time
}

func NewOrderService(orders port.OrderAPI, catalog port.CatalogAPI, fanout, pageSize int) *OrderService {
	if pageSize < 1 {
		pageSize = DefaultOrderPageSize
	}
	return &OrderService{
		orders:   orders,
		catalog:  catalog,
		fanout:   normalizeFanout(fanout),
		pageSize: pageSize,
		now:      time.Now,
	}
}

// LoadOrders fetches the order list of user (every order for an
// administrator, none for a user without a customer id), then each order's detail, and derives each total from the
// line items. Any failing request fails the whole load.
func (s *OrderService) LoadOrders(ctx context.Context, user *domain.User) ([]domain.Order, error) {
	filter := port.OrderFilter{Page: 1, Size: s.pageSize}
	if !user.IsAdmin() {
		if user == nil || user.CustomerID == "" {
			return []domain.Order{}, nil
		}
		filter.CustomerID = user.CustomerID
	}

	headers, err := s.orders.ListOrders(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	out := make([]domain.Order, len(headers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanout)
	for i, h := range headers {
		g.Go(func() error {
			detail, err := s.orders.GetOrder(gctx, h.ID)
			if err != nil {
				return fmt.Errorf("get order %s: %w", h.ID, err)
			}
			o := h
			o.Items = detail.Items
			o.Total = domain.LineItemsTotal(detail.Items)
			out[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// OrderProductNames maps each order id to the names of its distinct products.
// Products shared between orders are fetched once.
func (s *OrderService) OrderProductNames(ctx context.Context, orders []domain.Order) (map[string][]string, error) {
	seen := make(map[string]bool)
	var ids []string
	for _, o := range orders {
		for _, id := range o.ProductIDs() {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	products, err := fetchProducts(ctx, s.catalog, ids, s.fanout)
	if err != nil {
		return nil, err
	}

	names := make(map[string][]string, len(orders))
	for _, o := range orders {
		pids := o.ProductIDs()
		if len(pids) == 0 {
			names[o.ID] = []string{noProductsFound}
			continue
		}
		list := make([]string, 0, len(pids))
		for _, id := range pids {
			list = append(list, productName(products[id]))
		}
		names[o.ID] = list
	}
	return names, nil
}

func productName(p domain.Product) string {
	if p.Name == "" {
		return unknownProduct
	}
	return p.Name
}

// Checkout submits the whole cart as a new order and returns a locally
// synthesized record of it. Validation failures never reach the network.
func (s *OrderService) Checkout(ctx context.Context, user *domain.User, cart domain.Cart, address, paymentMethod string) (domain.Order, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return domain.Order{}, ValidationError("Please enter a delivery address")
	}
	if cart.Count() == 0 {
		return domain.Order{}, ValidationError("Your cart is empty")
	}
	if paymentMethod == "" {
		paymentMethod = PaymentMethods[0].Value
	}
	if !validPaymentMethod(paymentMethod) {
		return domain.Order{}, ValidationError("Please select a valid payment method")
	}

	customerID := domain.GuestCustomerID
	if user != nil && user.CustomerID != "" {
		customerID = user.CustomerID
	}

	req := port.OrderRequest{
		CustomerID:    customerID,
		Date:          s.now().Format("2006-01-02"),
		Total:         cart.Total(),
		Status:        domain.OrderStatusProcessing,
		Address:       address,
		PaymentMethod: paymentMethod,
		Items:         cart.LineItems(),
	}

	created, err := s.orders.CreateOrder(ctx, req)
	if err != nil {
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}

	// not re-fetched: fields the upstream omits come from the request
	o := domain.Order{
		ID:         created.ID,
		CustomerID: firstNonEmpty(created.CustomerID, req.CustomerID),
		Date:       firstNonEmpty(created.Date, req.Date),
		Status:     domain.OrderStatus(firstNonEmpty(string(created.Status), string(req.Status))),
		Total:      created.Total,
		Address:    firstNonEmpty(created.Address, req.Address),
		Items:      req.Items,
	}
	if o.Total == 0 {
		o.Total = req.Total
	}
	return o, nil
}

// OrdersFailureMessage is the text shown when LoadOrders fails.
func OrdersFailureMessage(err error) string {
	if errors.Is(err, port.ErrNoData) {
		return msgNoOrders
	}
	return DisplayMessage(err, msgFetchOrders)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
