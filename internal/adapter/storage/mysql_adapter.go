package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

const createReceiptsTable = `
CREATE TABLE IF NOT EXISTS inbound_receipts (
	id         VARCHAR(64)  NOT NULL PRIMARY KEY,
	product_id VARCHAR(64)  NOT NULL DEFAULT '',
	quantity   INT          NOT NULL,
	created_at DATETIME(6)  NOT NULL,
	INDEX idx_inbound_receipts_created_at (created_at)
)`

type MySQLReceiptRepository struct {
	db *sql.DB
}

func NewMySQLReceiptRepository(db *sql.DB) *MySQLReceiptRepository {
	return &MySQLReceiptRepository{db: db}
}

// Migrate creates the receipts table when it does not exist.
func (m *MySQLReceiptRepository) Migrate(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, createReceiptsTable); err != nil {
		return fmt.Errorf("create inbound_receipts: %w", err)
	}
	return nil
}

func (m *MySQLReceiptRepository) CreateReceipt(ctx context.Context, r domain.InboundReceipt) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO inbound_receipts (id, product_id, quantity, created_at)
		VALUES (?, ?, ?, ?)`,
		r.ID, r.ProductID, r.Quantity, r.CreatedAt,
	)
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return port.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert receipt: %w", err)
	}
	return nil
}

func (m *MySQLReceiptRepository) DeleteReceipt(ctx context.Context, id string) error {
	res, err := m.db.ExecContext(ctx, `DELETE FROM inbound_receipts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete receipt: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete receipt: %w", err)
	}
	if n == 0 {
		return port.ErrNotFound
	}
	return nil
}

func (m *MySQLReceiptRepository) ListReceipts(ctx context.Context, limit int) ([]domain.InboundReceipt, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, product_id, quantity, created_at
		FROM inbound_receipts
		ORDER BY created_at DESC, id
		LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query receipts: %w", err)
	}
	defer rows.Close()

	var out []domain.InboundReceipt
	for rows.Next() {
		var r domain.InboundReceipt
		if err := rows.Scan(&r.ID, &r.ProductID, &r.Quantity, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate receipts: %w", err)
	}
	return out, nil
}

func (m *MySQLReceiptRepository) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}
