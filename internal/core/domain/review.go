package domain

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID         string `json:"id"`
	OrderID    string `json:"orderId"`
	ProductID  string `json:"productId"`
	CustomerID string `json:"customerId,omitempty"`
	Rating     int    `json:"rating"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Date       string `json:"date"`
	Image      string `json:"image,omitempty"`
	StoreReply string `json:"storeReply,omitempty"`
}
