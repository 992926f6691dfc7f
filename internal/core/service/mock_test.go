package service

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

// Mock StorefrontAPI
type mockAPI struct {
	mu sync.Mutex

	categories    []domain.Category
	categoriesErr error
	products      []domain.Product
	productsErr   error
	productByID   map[string]domain.Product
	productErr    error

	orders    []domain.Order
	ordersErr error
	details   map[string]domain.Order
	detailErr error
	delay     time.Duration

	createdOrder   domain.Order
	createOrderErr error
	orderRequests  []port.OrderRequest
	updatedStatus  domain.OrderStatus
	updateStatuses map[string]domain.OrderStatus

	user       domain.User
	loginErr   error
	customerID string
	customers  []port.CustomerRequest
	accounts   []port.AccountRequest

	reviews        []domain.Review
	createdReviews []domain.Review

	createdProducts  []domain.Product
	updatedProducts  []domain.Product
	updateProductErr error
	deletedProducts  []string

	// onListOrders runs before ListOrders answers
	onListOrders func()
	// onCreateOrder runs before CreateOrder answers
	onCreateOrder func()

	calls       atomic.Int32
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func newMockAPI() *mockAPI {
	return &mockAPI{
		productByID:    make(map[string]domain.Product),
		details:        make(map[string]domain.Order),
		updateStatuses: make(map[string]domain.OrderStatus),
	}
}

func (m *mockAPI) enter() func() {
	m.calls.Add(1)
	n := m.inFlight.Add(1)
	for {
		cur := m.maxInFlight.Load()
		if n <= cur || m.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	return func() { m.inFlight.Add(-1) }
}

func (m *mockAPI) ListCategories(ctx context.Context, page, size int) ([]domain.Category, error) {
	defer m.enter()()
	return m.categories, m.categoriesErr
}

func (m *mockAPI) ListProducts(ctx context.Context, categoryID string) ([]domain.Product, error) {
	defer m.enter()()
	if m.productsErr != nil {
		return nil, m.productsErr
	}
	if categoryID == "" {
		return m.products, nil
	}
	var out []domain.Product
	for _, p := range m.products {
		if p.Category == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockAPI) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	defer m.enter()()
	if m.productErr != nil {
		return domain.Product{}, m.productErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.productByID[id]
	if !ok {
		return domain.Product{}, port.ErrNotFound
	}
	return p, nil
}

func (m *mockAPI) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	defer m.enter()()
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		p.ID = "SP-NEW"
	}
	m.createdProducts = append(m.createdProducts, p)
	return p, nil
}

func (m *mockAPI) UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	defer m.enter()()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateProductErr != nil {
		return domain.Product{}, m.updateProductErr
	}
	m.updatedProducts = append(m.updatedProducts, p)
	return p, nil
}

func (m *mockAPI) DeleteProduct(ctx context.Context, id string) error {
	defer m.enter()()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletedProducts = append(m.deletedProducts, id)
	return nil
}

func (m *mockAPI) ListOrders(ctx context.Context, filter port.OrderFilter) ([]domain.Order, error) {
	defer m.enter()()
	if m.onListOrders != nil {
		m.onListOrders()
	}
	if m.ordersErr != nil {
		return nil, m.ordersErr
	}
	var out []domain.Order
	for _, o := range m.orders {
		if filter.CustomerID == "" || o.CustomerID == filter.CustomerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockAPI) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	defer m.enter()()
	if m.detailErr != nil {
		return domain.Order{}, m.detailErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.details[id], nil
}

func (m *mockAPI) CreateOrder(ctx context.Context, req port.OrderRequest) (domain.Order, error) {
	defer m.enter()()
	if m.onCreateOrder != nil {
		m.onCreateOrder()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orderRequests = append(m.orderRequests, req)
	return m.createdOrder, m.createOrderErr
}

func (m *mockAPI) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.OrderStatus, error) {
	defer m.enter()()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateStatuses[id] = status
	return m.updatedStatus, nil
}

func (m *mockAPI) Login(ctx context.Context, username, password string) (domain.User, error) {
	defer m.enter()()
	if m.loginErr != nil {
		return domain.User{}, m.loginErr
	}
	u := m.user
	if u.Username == "" {
		u.Username = username
	}
	return u, nil
}

func (m *mockAPI) CreateCustomer(ctx context.Context, req port.CustomerRequest) (string, error) {
	defer m.enter()()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers = append(m.customers, req)
	return m.customerID, nil
}

func (m *mockAPI) CreateAccount(ctx context.Context, req port.AccountRequest) error {
	defer m.enter()()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts = append(m.accounts, req)
	return nil
}

func (m *mockAPI) ListReviews(ctx context.Context, customerID string, page, size int) ([]domain.Review, error) {
	defer m.enter()()
	return m.reviews, nil
}

func (m *mockAPI) CreateReview(ctx context.Context, r domain.Review) (domain.Review, error) {
	defer m.enter()()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createdReviews = append(m.createdReviews, r)
	return r, nil
}

// userMessageErr stands in for an upstream error carrying a server message.
type userMessageErr struct{ msg string }

func (e userMessageErr) Error() string       { return "upstream: " + e.msg }
func (e userMessageErr) UserMessage() string { return e.msg }

// Mock SessionRepository
type mockSessionRepo struct {
	mu       sync.Mutex
	sessions map[string][]byte
	versions map[string]int64
	// conflicts makes the next n saves fail with ErrOptimisticLock
	conflicts int
	saves     int
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{
		sessions: make(map[string][]byte),
		versions: make(map[string]int64),
	}
}

func (m *mockSessionRepo) Get(ctx context.Context, id string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.sessions[id]
	if !ok {
		return nil, port.ErrNotFound
	}
	var s domain.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *mockSessionRepo) Save(ctx context.Context, s domain.Session) (domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.conflicts > 0 {
		m.conflicts--
		return domain.Session{}, port.ErrOptimisticLock
	}
	if m.versions[s.ID] != s.Version {
		return domain.Session{}, port.ErrOptimisticLock
	}
	s.Version++
	data, err := json.Marshal(s)
	if err != nil {
		return domain.Session{}, err
	}
	m.sessions[s.ID] = data
	m.versions[s.ID] = s.Version
	return s, nil
}

func (m *mockSessionRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	delete(m.versions, id)
	return nil
}

func (m *mockSessionRepo) Ping(ctx context.Context) error {
	return nil
}

// Mock ReceiptRepository
type mockReceiptRepo struct {
	mu       sync.Mutex
	receipts []domain.InboundReceipt
}

func (m *mockReceiptRepo) CreateReceipt(ctx context.Context, r domain.InboundReceipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.receipts {
		if existing.ID == r.ID {
			return port.ErrDuplicate
		}
	}
	m.receipts = append(m.receipts, r)
	return nil
}

func (m *mockReceiptRepo) DeleteReceipt(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.receipts {
		if r.ID == id {
			m.receipts = append(m.receipts[:i], m.receipts[i+1:]...)
			return nil
		}
	}
	return port.ErrNotFound
}

func (m *mockReceiptRepo) ListReceipts(ctx context.Context, limit int) ([]domain.InboundReceipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.InboundReceipt, 0, len(m.receipts))
	for i := len(m.receipts) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.receipts[i])
	}
	return out, nil
}

func (m *mockReceiptRepo) Ping(ctx context.Context) error {
	return nil
}

func newTestStorefront(api *mockAPI, sessions *mockSessionRepo) *Storefront {
	return NewStorefront(sessions, Services{
		Catalog:  NewCatalogService(api),
		Orders:   NewOrderService(api, api, 4, 10),
		Reviews:  NewReviewService(api, api, 4),
		Accounts: NewAccountService(api),
		Admin:    NewAdminService(api, api, &mockReceiptRepo{}),
	})
}
