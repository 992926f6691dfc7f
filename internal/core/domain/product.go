package domain

const (
	PlaceholderImage = "https://via.placeholder.com/150"
	UnknownCategory  = "Unknown"
)

type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Price       int64  `json:"price"`
	Image       string `json:"image"`
	Description string `json:"description"`
	Stock       int    `json:"stock"`
}

func (p Product) InStock() bool {
	return p.Stock > 0
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AllCategories is the synthetic entry that disables category filtering.
var AllCategories = Category{ID: "", Name: "All Categories"}
