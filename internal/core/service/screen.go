package service

import (
	"context"
	"log"
	"strings"

	"github.com/rl1809/storefront/internal/core/domain"
)

const (
	fallbackAccount = "Please log in to view your account details."
	fallbackReview  = "Please log in as a customer to write a review."
	fallbackAdmin   = "Admin access required."

	productsLoading = "Loading..."
)

// Screen is the rendered state of one session. Exactly one body matching View
// is set, or Fallback when the user may not see the view.
type Screen struct {
	SessionID string      `json:"sessionId"`
	Version   int64       `json:"version"`
	View      domain.View `json:"view"`
	Nav       NavBar      `json:"nav"`
	Error     string      `json:"error,omitempty"`
	Notice    string      `json:"notice,omitempty"`
	Loading   bool        `json:"loading"`
	Fallback  string      `json:"fallback,omitempty"`

	Home     *HomeBody     `json:"home,omitempty"`
	Menu     *MenuBody     `json:"menu,omitempty"`
	Cart     *CartBody     `json:"cart,omitempty"`
	Checkout *CheckoutBody `json:"checkout,omitempty"`
	Account  *AccountBody  `json:"account,omitempty"`
	Review   *ReviewBody   `json:"review,omitempty"`
	Admin    *AdminBody    `json:"admin,omitempty"`
}

type NavBar struct {
	LoggedIn  bool          `json:"loggedIn"`
	Username  string        `json:"username,omitempty"`
	Role      domain.Role   `json:"role,omitempty"`
	CartCount int           `json:"cartCount"`
	Links     []domain.View `json:"links"`
}

type Highlight struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

type HomeBody struct {
	Headline   string      `json:"headline"`
	Tagline    string      `json:"tagline"`
	Highlights []Highlight `json:"highlights"`
}

type ProductCard struct {
	domain.Product
	CanAdd bool `json:"canAdd"`
}

type MenuBody struct {
	Categories       []domain.Category `json:"categories"`
	SelectedCategory string            `json:"selectedCategory"`
	Products         []ProductCard     `json:"products"`
}

type CartLine struct {
	domain.CartItem
	Subtotal     int64 `json:"subtotal"`
	CanIncrement bool  `json:"canIncrement"`
}

type CartBody struct {
	Items []CartLine `json:"items"`
	Total int64      `json:"total"`
	Empty bool       `json:"empty"`
}

type CheckoutBody struct {
	Items          []CartLine      `json:"items"`
	Total          int64           `json:"total"`
	PaymentMethods []PaymentMethod `json:"paymentMethods"`
}

type OrderSummary struct {
	domain.Order
	Products string `json:"products"`
}

type AccountBody struct {
	Username string          `json:"username"`
	Orders   []OrderSummary  `json:"orders"`
	Reviews  []domain.Review `json:"reviews"`
}

type ReviewBody struct {
	Orders          []domain.Order   `json:"orders"`
	SelectedOrderID string           `json:"selectedOrderId,omitempty"`
	Products        []domain.Product `json:"products"`
	MinRating       int              `json:"minRating"`
	MaxRating       int              `json:"maxRating"`
}

type AdminBody struct {
	Query      domain.ProductQuery     `json:"query"`
	Categories []string                `json:"categories"`
	Products   []domain.Product        `json:"products"`
	Orders     []domain.Order          `json:"orders"`
	Statuses   []domain.OrderStatus    `json:"statuses"`
	Receipts   []domain.InboundReceipt `json:"receipts"`
}

var homeBody = HomeBody{
	Headline: "Welcome to our store",
	Tagline:  "Order your favorite fried chicken and drinks now!",
	Highlights: []Highlight{
		{Title: "Promotions", Text: "Get 20% off on buckets this week!"},
		{Title: "Store Locator", Text: "Find a store near you."},
		{Title: "Fast Delivery", Text: "Order now, delivered in 30 mins!"},
	},
}

// Render builds the screen of a session. The admin view also lists the
// latest inbound receipts.
func (s *Storefront) Render(ctx context.Context, sess domain.Session) Screen {
	sc := Screen{
		SessionID: sess.ID,
		Version:   sess.Version,
		View:      sess.View,
		Nav:       navBar(sess),
		Error:     sess.Error,
		Notice:    sess.Notice,
		Loading:   sess.Loading,
	}

	if !sess.View.Permits(sess.User) {
		sc.Fallback = fallbackFor(sess.View)
		return sc
	}

	switch sess.View {
	case domain.ViewHome:
		body := homeBody
		sc.Home = &body
	case domain.ViewMenu:
		sc.Menu = menuBody(sess)
	case domain.ViewCart:
		lines := cartLines(sess.Cart)
		sc.Cart = &CartBody{Items: lines, Total: sess.Cart.Total(), Empty: len(lines) == 0}
	case domain.ViewCheckout:
		sc.Checkout = &CheckoutBody{Items: cartLines(sess.Cart), Total: sess.Cart.Total(), PaymentMethods: PaymentMethods}
	case domain.ViewAccount:
		sc.Account = accountBody(sess)
	case domain.ViewReview:
		sc.Review = &ReviewBody{
			Orders:          nonNil(sess.Orders),
			SelectedOrderID: sess.ReviewOrderID,
			Products:        nonNil(sess.ReviewProducts),
			MinRating:       domain.MinRating,
			MaxRating:       domain.MaxRating,
		}
	case domain.ViewAdmin:
		sc.Admin = s.adminBody(ctx, sess)
	}
	return sc
}

func fallbackFor(v domain.View) string {
	switch v {
	case domain.ViewReview:
		return fallbackReview
	case domain.ViewAdmin:
		return fallbackAdmin
	default:
		return fallbackAccount
	}
}

func navBar(sess domain.Session) NavBar {
	nav := NavBar{
		CartCount: sess.Cart.Count(),
		Links:     []domain.View{domain.ViewHome, domain.ViewMenu, domain.ViewCart},
	}
	switch {
	case sess.User.IsAdmin():
		nav.Links = append(nav.Links, domain.ViewAdmin)
	case sess.User.IsCustomer():
		nav.Links = append(nav.Links, domain.ViewAccount)
	default:
		nav.Links = append(nav.Links, domain.ViewLogin, domain.ViewRegister)
	}
	if sess.User != nil {
		nav.LoggedIn = true
		nav.Username = sess.User.Username
		nav.Role = sess.User.Role
	}
	return nav
}

func menuBody(sess domain.Session) *MenuBody {
	cards := make([]ProductCard, 0, len(sess.Products))
	for _, p := range sess.Products {
		cards = append(cards, ProductCard{Product: p, CanAdd: p.InStock()})
	}
	return &MenuBody{
		Categories:       nonNil(sess.Categories),
		SelectedCategory: sess.SelectedCategory,
		Products:         cards,
	}
}

func cartLines(c domain.Cart) []CartLine {
	lines := make([]CartLine, 0, len(c))
	for _, it := range c {
		lines = append(lines, CartLine{CartItem: it, Subtotal: it.Subtotal(), CanIncrement: it.Quantity < it.Stock})
	}
	return lines
}

func accountBody(sess domain.Session) *AccountBody {
	orders := make([]OrderSummary, 0, len(sess.Orders))
	for _, o := range sess.Orders {
		products := productsLoading
		if names, ok := sess.OrderProducts[o.ID]; ok {
			products = strings.Join(names, ", ")
		}
		orders = append(orders, OrderSummary{Order: o, Products: products})
	}
	return &AccountBody{
		Username: sess.User.Username,
		Orders:   orders,
		Reviews:  nonNil(sess.Reviews),
	}
}

func (s *Storefront) adminBody(ctx context.Context, sess domain.Session) *AdminBody {
	receipts, err := s.svc.Admin.ListReceipts(ctx)
	if err != nil {
		log.Printf("storefront: session %s: list receipts: %v", sess.ID, err)
	}

	var categories []string
	seen := make(map[string]bool)
	for _, p := range sess.Products {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}

	return &AdminBody{
		Query:      sess.ProductQuery.Normalized(),
		Categories: nonNil(categories),
		Products:   FilterProducts(sess.Products, sess.ProductQuery),
		Orders:     nonNil(sess.Orders),
		Statuses:   domain.OrderStatuses,
		Receipts:   nonNil(receipts),
	}
}

// nonNil keeps empty lists rendering as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
