package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

func TestMemorySession_VersionCheck(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepository()

	s := domain.NewSession("s1", time.Now())
	saved, err := repo.Save(ctx, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := repo.Save(ctx, s); !errors.Is(err, port.ErrOptimisticLock) {
		t.Errorf("expected ErrOptimisticLock, got %v", err)
	}
	if _, err := repo.Save(ctx, saved); err != nil {
		t.Errorf("expected save with current version to succeed, got %v", err)
	}
}

func TestMemorySession_NoSharedState(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepository()

	s := domain.NewSession("s1", time.Now())
	s.Cart = s.Cart.Add(domain.Product{ID: "SP1", Stock: 2})
	if _, err := repo.Save(ctx, s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := repo.Get(ctx, "s1")
	got.Cart[0].Quantity = 99

	again, _ := repo.Get(ctx, "s1")
	if again.Cart[0].Quantity != 1 {
		t.Errorf("stored session was modified through a returned copy")
	}
}

func TestMemoryReceipts_NewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryReceiptRepository()
	now := time.Now()

	repo.CreateReceipt(ctx, domain.InboundReceipt{ID: "PN1", Quantity: 1, CreatedAt: now.Add(-2 * time.Minute)})
	repo.CreateReceipt(ctx, domain.InboundReceipt{ID: "PN2", Quantity: 1, CreatedAt: now})
	repo.CreateReceipt(ctx, domain.InboundReceipt{ID: "PN3", Quantity: 1, CreatedAt: now.Add(-time.Minute)})

	if err := repo.CreateReceipt(ctx, domain.InboundReceipt{ID: "PN1"}); !errors.Is(err, port.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}

	got, err := repo.ListReceipts(ctx, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "PN2" || got[1].ID != "PN3" {
		t.Errorf("unexpected receipts %+v", got)
	}
}

func TestMemoryReceipts_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryReceiptRepository()

	repo.CreateReceipt(ctx, domain.InboundReceipt{ID: "PN1", Quantity: 1, CreatedAt: time.Now()})
	if err := repo.DeleteReceipt(ctx, "PN1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.DeleteReceipt(ctx, "PN1"); !errors.Is(err, port.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := repo.CreateReceipt(ctx, domain.InboundReceipt{ID: "PN1", Quantity: 2, CreatedAt: time.Now()}); err != nil {
		t.Errorf("expected id to be reusable after delete, got %v", err)
	}
}
