package domain

import "time"

// Session is everything one browser holds: the active view, the user, the
// cart and the projections fetched from the upstream API.
type Session struct {
	ID string `json:"id"`
	// Version increases on every save and guards concurrent writers.
	Version int64 `json:"version"`
	// Generation increases whenever the session user changes. Results of
	// operations issued under an older generation are discarded.
	Generation int64 `json:"generation"`

	View             View       `json:"view"`
	User             *User      `json:"user,omitempty"`
	Cart             Cart       `json:"cart"`
	Categories       []Category `json:"categories"`
	SelectedCategory string     `json:"selectedCategory"`
	Products         []Product  `json:"products"`

	Orders        []Order             `json:"orders"`
	OrderProducts map[string][]string `json:"orderProducts,omitempty"`
	Reviews       []Review            `json:"reviews"`

	ProductQuery ProductQuery `json:"productQuery"`

	ReviewOrderID  string    `json:"reviewOrderId,omitempty"`
	ReviewProducts []Product `json:"reviewProducts,omitempty"`

	Error   string `json:"error,omitempty"`
	Notice  string `json:"notice,omitempty"`
	Loading bool   `json:"loading"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewSession(id string, now time.Time) Session {
	return Session{
		ID:        id,
		View:      ViewHome,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetUser replaces the session user and starts a new generation. Projections
// that belong to the previous user are dropped.
func (s *Session) SetUser(u *User) {
	s.User = u
	s.Generation++
	s.Orders = nil
	s.OrderProducts = nil
	s.Reviews = nil
	s.ReviewOrderID = ""
	s.ReviewProducts = nil
}

func (s *Session) FindOrder(id string) (Order, bool) {
	for _, o := range s.Orders {
		if o.ID == id {
			return o, true
		}
	}
	return Order{}, false
}

func (s *Session) FindProduct(id string) (Product, bool) {
	for _, p := range s.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// Flash sets the visible error and clears any notice.
func (s *Session) Flash(errMsg string) {
	s.Error = errMsg
	s.Notice = ""
}

// Inform sets the visible notice and clears any error.
func (s *Session) Inform(notice string) {
	s.Notice = notice
	s.Error = ""
}
