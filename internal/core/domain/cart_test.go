package domain

import (
	"fmt"
	"testing"
)

func product(id string, price int64, stock int) Product {
	return Product{ID: id, Name: "Product " + id, Price: price, Stock: stock}
}

func TestCartAdd_DistinctProducts(t *testing.T) {
	var cart Cart
	for i := 0; i < 7; i++ {
		cart = cart.Add(product(fmt.Sprintf("p%d", i), 10, 5))
	}
	if cart.Count() != 7 {
		t.Errorf("expected 7 items, got %d", cart.Count())
	}
	for _, it := range cart {
		if it.Quantity != 1 {
			t.Errorf("expected quantity 1 for %s, got %d", it.ID, it.Quantity)
		}
	}
}

func TestCartAdd_ExistingIncrements(t *testing.T) {
	cart := Cart{}.Add(product("a", 10, 5)).Add(product("b", 20, 5))
	before := cart.Count()

	next := cart.Add(product("a", 10, 5))

	if next.Count() != before {
		t.Errorf("expected length %d, got %d", before, next.Count())
	}
	it, ok := next.Find("a")
	if !ok || it.Quantity != 2 {
		t.Errorf("expected quantity 2, got %+v", it)
	}
	// receiver untouched
	if old, _ := cart.Find("a"); old.Quantity != 1 {
		t.Errorf("expected original cart quantity 1, got %d", old.Quantity)
	}
}

func TestCartUpdateQuantity_ZeroRemoves(t *testing.T) {
	cart := Cart{}.Add(product("a", 10, 5)).Add(product("b", 20, 5)).Add(product("c", 30, 5))

	updated := cart.UpdateQuantity("b", 0)
	removed := cart.Remove("b")

	if len(updated) != len(removed) {
		t.Fatalf("expected equal lengths, got %d and %d", len(updated), len(removed))
	}
	for i := range updated {
		if updated[i] != removed[i] {
			t.Errorf("item %d differs: %+v vs %+v", i, updated[i], removed[i])
		}
	}
	if _, ok := updated.Find("b"); ok {
		t.Error("expected b to be removed")
	}
}

func TestCartUpdateQuantity_NoStockClamp(t *testing.T) {
	cart := Cart{}.Add(product("a", 10, 2)).UpdateQuantity("a", 9)
	it, _ := cart.Find("a")
	if it.Quantity != 9 {
		t.Errorf("expected quantity 9, got %d", it.Quantity)
	}
}

func TestCartTotal(t *testing.T) {
	cart := Cart{}.Add(product("a", 45000, 5)).Add(product("a", 45000, 5)).Add(product("b", 12000, 5))
	if got := cart.Total(); got != 102000 {
		t.Errorf("expected total 102000, got %d", got)
	}

	items := cart.LineItems()
	if LineItemsTotal(items) != cart.Total() {
		t.Errorf("line items total %d differs from cart total %d", LineItemsTotal(items), cart.Total())
	}
}

func TestCartWithout_KeepsLaterAdditions(t *testing.T) {
	ordered := Cart{}.Add(product("a", 10, 5)).Add(product("b", 20, 5))
	current := ordered.Add(product("a", 10, 5)).Add(product("c", 30, 5))

	left := current.Without(ordered)

	if left.Count() != 2 {
		t.Fatalf("expected 2 remaining lines, got %+v", left)
	}
	if it, ok := left.Find("a"); !ok || it.Quantity != 1 {
		t.Errorf("expected one a left, got %+v", it)
	}
	if _, ok := left.Find("b"); ok {
		t.Error("expected ordered line b removed")
	}
	if it, ok := left.Find("c"); !ok || it.Quantity != 1 {
		t.Errorf("expected c kept, got %+v", it)
	}
	if len(ordered.Without(ordered)) != 0 {
		t.Error("expected empty cart after removing itself")
	}
}
