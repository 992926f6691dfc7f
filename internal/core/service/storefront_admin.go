package service

import (
	"context"
	"fmt"
	"log"

	"github.com/rl1809/storefront/internal/core/domain"
)

// adminSnapshot loads the session and fails with ErrForbidden unless its user
// is the administrator.
func (s *Storefront) adminSnapshot(ctx context.Context, id string) (domain.Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}
	if !sess.User.IsAdmin() {
		return domain.Session{}, ErrForbidden
	}
	return sess, nil
}

func (s *Storefront) SetProductFilter(ctx context.Context, id, search, category string) (domain.Session, error) {
	snap, err := s.adminSnapshot(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}
	return s.applyIf(ctx, id, snap.Generation, func(sess *domain.Session) {
		sess.ProductQuery.Search = search
		sess.ProductQuery.Category = category
	})
}

// SortProducts toggles the admin product sort on field.
func (s *Storefront) SortProducts(ctx context.Context, id string, field domain.SortField) (domain.Session, error) {
	snap, err := s.adminSnapshot(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}
	return s.applyIf(ctx, id, snap.Generation, func(sess *domain.Session) {
		if !field.Valid() {
			sess.Flash(fmt.Sprintf("Unknown sort field %q", field))
			return
		}
		sess.ProductQuery = sess.ProductQuery.Toggle(field)
	})
}

func (s *Storefront) CreateProduct(ctx context.Context, id string, form ProductForm) (domain.Session, error) {
	snap, err := s.adminSnapshot(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}

	created, err := s.svc.Admin.CreateProduct(ctx, form)
	if err != nil {
		log.Printf("storefront: session %s: %v", id, err)
		return s.update(ctx, id, func(sess *domain.Session) {
			sess.Flash(DisplayMessage(err, msgAddProduct))
		})
	}
	return s.applyIf(ctx, id, snap.Generation, func(sess *domain.Session) {
		sess.Products = append(sess.Products, created)
		sess.Inform("Product added!")
	})
}

func (s *Storefront) UpdateProduct(ctx context.Context, id, productID string, form ProductForm) (domain.Session, error) {
	snap, err := s.adminSnapshot(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}

	updated, err := s.svc.Admin.UpdateProduct(ctx, productID, form)
	if err != nil {
		log.Printf("storefront: session %s: %v", id, err)
		return s.update(ctx, id, func(sess *domain.Session) {
			sess.Flash(DisplayMessage(err, msgUpdateProduct))
		})
	}
	return s.applyIf(ctx, id, snap.Generation, func(sess *domain.Session) {
		sess.Products = replaceProduct(sess.Products, updated)
		sess.Inform("Product updated!")
	})
}

func (s *Storefront) DeleteProduct(ctx context.Context, id, productID string) (domain.Session, error) {
	snap, err := s.adminSnapshot(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}

	if err := s.svc.Admin.DeleteProduct(ctx, productID); err != nil {
		log.Printf("storefront: session %s: %v", id, err)
		return s.update(ctx, id, func(sess *domain.Session) {
			sess.Flash(DisplayMessage(err, msgDeleteProduct))
		})
	}
	return s.applyIf(ctx, id, snap.Generation, func(sess *domain.Session) {
		kept := sess.Products[:0:0]
		for _, p := range sess.Products {
			if p.ID != productID {
				kept = append(kept, p)
			}
		}
		sess.Products = kept
		sess.Inform("Product deleted!")
	})
}

func (s *Storefront) UpdateOrderStatus(ctx context.Context, id, orderID string, status domain.OrderStatus) (domain.Session, error) {
	snap, err := s.adminSnapshot(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}

	got, err := s.svc.Admin.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		log.Printf("storefront: session %s: %v", id, err)
		return s.update(ctx, id, func(sess *domain.Session) {
			sess.Flash(DisplayMessage(err, msgUpdateOrder))
		})
	}
	return s.applyIf(ctx, id, snap.Generation, func(sess *domain.Session) {
		for i := range sess.Orders {
			if sess.Orders[i].ID == orderID {
				sess.Orders[i].Status = got
			}
		}
		sess.Inform("Order status updated!")
	})
}

// CreateReceipt records an inbound receipt and patches the stock of the
// received product in the local list.
func (s *Storefront) CreateReceipt(ctx context.Context, id string, form ReceiptForm) (domain.Session, error) {
	snap, err := s.adminSnapshot(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}

	var current *domain.Product
	if form.ProductID != "" {
		if p, ok := snap.FindProduct(form.ProductID); ok {
			current = &p
		}
	}

	r, updated, err := s.svc.Admin.CreateReceipt(ctx, form, current)
	if err != nil {
		log.Printf("storefront: session %s: %v", id, err)
		return s.update(ctx, id, func(sess *domain.Session) {
			sess.Flash(DisplayMessage(err, msgCreateReceipt))
		})
	}
	return s.applyIf(ctx, id, snap.Generation, func(sess *domain.Session) {
		if updated != nil {
			sess.Products = replaceProduct(sess.Products, *updated)
		}
		sess.Inform(fmt.Sprintf("Inbound receipt %s created!", r.ID))
	})
}

func replaceProduct(products []domain.Product, p domain.Product) []domain.Product {
	out := make([]domain.Product, len(products))
	copy(out, products)
	for i := range out {
		if out[i].ID == p.ID {
			out[i] = p
		}
	}
	return out
}
