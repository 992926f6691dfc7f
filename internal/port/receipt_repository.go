package port

import (
	"context"

	"github.com/rl1809/storefront/internal/core/domain"
)

type ReceiptRepository interface {
	// CreateReceipt persists a new receipt, ErrDuplicate if the id is taken
	CreateReceipt(ctx context.Context, r domain.InboundReceipt) error

	// DeleteReceipt removes a receipt, ErrNotFound if it does not exist
	DeleteReceipt(ctx context.Context, id string) error

	// ListReceipts returns the most recent receipts first
	ListReceipts(ctx context.Context, limit int) ([]domain.InboundReceipt, error)

	Ping(ctx context.Context) error
}
