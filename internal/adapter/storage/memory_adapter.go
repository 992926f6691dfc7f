package storage

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

// MemorySessionRepository keeps sessions in process memory. Sessions are
// stored encoded so callers never share slices with the store.
type MemorySessionRepository struct {
	mu       sync.Mutex
	sessions map[string][]byte
	versions map[string]int64
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string][]byte),
		versions: make(map[string]int64),
	}
}

func (m *MemorySessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	m.mu.Lock()
	data, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return nil, port.ErrNotFound
	}

	var s domain.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &s, nil
}

func (m *MemorySessionRepository) Save(ctx context.Context, s domain.Session) (domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.versions[s.ID] != s.Version {
		return domain.Session{}, port.ErrOptimisticLock
	}
	s.Version++
	data, err := json.Marshal(s)
	if err != nil {
		return domain.Session{}, fmt.Errorf("encode session %s: %w", s.ID, err)
	}
	m.sessions[s.ID] = data
	m.versions[s.ID] = s.Version
	return s, nil
}

func (m *MemorySessionRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	delete(m.versions, id)
	return nil
}

func (m *MemorySessionRepository) Ping(ctx context.Context) error {
	return nil
}

type MemoryReceiptRepository struct {
	mu       sync.RWMutex
	receipts map[string]domain.InboundReceipt
}

func NewMemoryReceiptRepository() *MemoryReceiptRepository {
	return &MemoryReceiptRepository{receipts: make(map[string]domain.InboundReceipt)}
}

func (m *MemoryReceiptRepository) CreateReceipt(ctx context.Context, r domain.InboundReceipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.receipts[r.ID]; ok {
		return port.ErrDuplicate
	}
	m.receipts[r.ID] = r
	return nil
}

func (m *MemoryReceiptRepository) DeleteReceipt(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.receipts[id]; !ok {
		return port.ErrNotFound
	}
	delete(m.receipts, id)
	return nil
}

func (m *MemoryReceiptRepository) ListReceipts(ctx context.Context, limit int) ([]domain.InboundReceipt, error) {
	m.mu.RLock()
	out := make([]domain.InboundReceipt, 0, len(m.receipts))
	for _, r := range m.receipts {
		out = append(out, r)
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b domain.InboundReceipt) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryReceiptRepository) Ping(ctx context.Context) error {
	return nil
}
