package domain

type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

func (it CartItem) Subtotal() int64 {
	return it.Price * int64(it.Quantity)
}

// Cart is an ordered list holding at most one item per product id. Its
// operations return a new Cart and never modify the receiver.
type Cart []CartItem

func (c Cart) Add(p Product) Cart {
	out := make(Cart, 0, len(c)+1)
	found := false
	for _, it := range c {
		if it.ID == p.ID {
			it.Quantity++
			found = true
		}
		out = append(out, it)
	}
	if !found {
		out = append(out, CartItem{Product: p, Quantity: 1})
	}
	return out
}

func (c Cart) Remove(id string) Cart {
	out := make(Cart, 0, len(c))
	for _, it := range c {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}

// UpdateQuantity sets the quantity of the item with the given id. A quantity
// below one removes the item. No stock clamp is applied.
func (c Cart) UpdateQuantity(id string, n int) Cart {
	if n < 1 {
		return c.Remove(id)
	}
	out := make(Cart, len(c))
	copy(out, c)
	for i := range out {
		if out[i].ID == id {
			out[i].Quantity = n
		}
	}
	return out
}

// Without subtracts the quantities of ordered from c. Lines added or raised
// after ordered was taken keep the remainder.
func (c Cart) Without(ordered Cart) Cart {
	out := make(Cart, 0, len(c))
	for _, it := range c {
		if o, ok := ordered.Find(it.ID); ok {
			it.Quantity -= o.Quantity
		}
		if it.Quantity > 0 {
			out = append(out, it)
		}
	}
	return out
}

func (c Cart) Find(id string) (CartItem, bool) {
	for _, it := range c {
		if it.ID == id {
			return it, true
		}
	}
	return CartItem{}, false
}

func (c Cart) Total() int64 {
	var total int64
	for _, it := range c {
		total += it.Subtotal()
	}
	return total
}

// Count is the number of distinct products, as shown on the navigation bar.
func (c Cart) Count() int {
	return len(c)
}

func (c Cart) LineItems() []LineItem {
	items := make([]LineItem, 0, len(c))
	for _, it := range c {
		items = append(items, LineItem{ProductID: it.ID, Quantity: it.Quantity, UnitPrice: it.Price})
	}
	return items
}
