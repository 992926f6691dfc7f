package domain

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// OrderStatuses lists the statuses an administrator may assign, in display order.
var OrderStatuses = []OrderStatus{
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// LineItem is one product-quantity-price entry of an order detail.
type LineItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
}

// Order is the client-side projection of an upstream order. Total is derived
// from Items and is not authoritative.
type Order struct {
	ID         string      `json:"id"`
	CustomerID string      `json:"customerId"`
	Date       string      `json:"date"`
	Status     OrderStatus `json:"status"`
	Total      int64       `json:"total"`
	Address    string      `json:"address,omitempty"`
	Items      []LineItem  `json:"items,omitempty"`
}

// LineItemsTotal returns the sum of unit price times quantity.
func LineItemsTotal(items []LineItem) int64 {
	var total int64
	for _, it := range items {
		total += it.UnitPrice * int64(it.Quantity)
	}
	return total
}

// ProductIDs returns the distinct non-empty product ids of the order's line
// items in first-seen order.
func (o Order) ProductIDs() []string {
	seen := make(map[string]bool, len(o.Items))
	ids := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		if it.ProductID == "" || seen[it.ProductID] {
			continue
		}
		seen[it.ProductID] = true
		ids = append(ids, it.ProductID)
	}
	return ids
}

func (o Order) HasProduct(productID string) bool {
	for _, it := range o.Items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}
