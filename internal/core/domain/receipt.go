package domain

import "time"

// InboundReceipt records stock received into inventory.
type InboundReceipt struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId,omitempty"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
}
