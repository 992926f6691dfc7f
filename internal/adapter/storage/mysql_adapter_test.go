package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

func getMySQLDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		t.Skip("MYSQL_DSN not set")
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	return db
}

func TestMySQLReceipt_CreateAndList(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	repo := NewMySQLReceiptRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	// Cleanup old test receipts
	db.ExecContext(ctx, `DELETE FROM inbound_receipts WHERE id LIKE 'test-pn-%'`)

	now := time.Now().UTC().Truncate(time.Millisecond)
	first := domain.InboundReceipt{ID: "test-pn-1", ProductID: "SP1", Quantity: 5, CreatedAt: now.Add(-time.Minute)}
	second := domain.InboundReceipt{ID: "test-pn-2", Quantity: 2, CreatedAt: now}

	for _, r := range []domain.InboundReceipt{first, second} {
		if err := repo.CreateReceipt(ctx, r); err != nil {
			t.Fatalf("CreateReceipt failed: %v", err)
		}
	}

	if err := repo.CreateReceipt(ctx, first); !errors.Is(err, port.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}

	receipts, err := repo.ListReceipts(ctx, 100)
	if err != nil {
		t.Fatalf("ListReceipts failed: %v", err)
	}
	var ours []domain.InboundReceipt
	for _, r := range receipts {
		if r.ID == first.ID || r.ID == second.ID {
			ours = append(ours, r)
		}
	}
	if len(ours) != 2 || ours[0].ID != second.ID {
		t.Errorf("expected newest first, got %+v", ours)
	}

	if err := repo.DeleteReceipt(ctx, first.ID); err != nil {
		t.Errorf("DeleteReceipt failed: %v", err)
	}
	if err := repo.DeleteReceipt(ctx, first.ID); !errors.Is(err, port.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// Cleanup
	db.ExecContext(ctx, `DELETE FROM inbound_receipts WHERE id LIKE 'test-pn-%'`)
}
