package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

// maxApplyAttempts bounds how often an update is re-applied after losing a
// version race on the session record.
const maxApplyAttempts = 3

type Services struct {
	Catalog  *CatalogService
	Orders   *OrderService
	Reviews  *ReviewService
	Accounts *AccountService
	Admin    *AdminService
}

// Storefront is the view controller. Every user action loads the session,
// calls the upstream through the services, and applies the outcome to a fresh
// copy of the session. Outcomes of operations issued under an older session
// generation are dropped.
type Storefront struct {
	sessions port.SessionRepository
	svc      Services
	newID    func() string
	now      func() time.Time
}

func NewStorefront(sessions port.SessionRepository, svc Services) *Storefront {
	return &Storefront{
		sessions: sessions,
		svc:      svc,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

func (s *Storefront) update(ctx context.Context, id string, apply func(*domain.Session)) (domain.Session, error) {
	for attempt := 1; ; attempt++ {
		sess, err := s.sessions.Get(ctx, id)
		if err != nil {
			return domain.Session{}, err
		}
		apply(sess)
		sess.UpdatedAt = s.now()

		saved, err := s.sessions.Save(ctx, *sess)
		if errors.Is(err, port.ErrOptimisticLock) && attempt < maxApplyAttempts {
			continue
		}
		if err != nil {
			return domain.Session{}, fmt.Errorf("save session %s: %w", id, err)
		}
		return saved, nil
	}
}

// applyIf applies only while the session is still in generation gen.
func (s *Storefront) applyIf(ctx context.Context, id string, gen int64, apply func(*domain.Session)) (domain.Session, error) {
	return s.update(ctx, id, func(sess *domain.Session) {
		if sess.Generation != gen {
			log.Printf("storefront: session %s: dropping result of generation %d (now %d)", id, gen, sess.Generation)
			return
		}
		apply(sess)
	})
}

func (s *Storefront) Get(ctx context.Context, id string) (domain.Session, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}
	return *sess, nil
}

// Close forgets the session.
func (s *Storefront) Close(ctx context.Context, id string) error {
	if _, err := s.sessions.Get(ctx, id); err != nil {
		return err
	}
	return s.sessions.Delete(ctx, id)
}

// Open starts a session on the home view and loads the catalog.
func (s *Storefront) Open(ctx context.Context) (domain.Session, error) {
	sess := domain.NewSession(s.newID(), s.now())
	sess.Loading = true
	saved, err := s.sessions.Save(ctx, sess)
	if err != nil {
		return domain.Session{}, fmt.Errorf("create session: %w", err)
	}

	var (
		wg                 sync.WaitGroup
		cats               []domain.Category
		products           []domain.Product
		catErr, productErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		cats, catErr = s.svc.Catalog.LoadCategories(ctx)
	}()
	go func() {
		defer wg.Done()
		products, productErr = s.svc.Catalog.LoadProducts(ctx, "")
	}()
	wg.Wait()

	return s.update(ctx, saved.ID, func(sess *domain.Session) {
		if catErr != nil {
			log.Printf("storefront: session %s: %v", sess.ID, catErr)
			sess.Flash(DisplayMessage(catErr, msgFetchCategories))
		} else {
			sess.Categories = cats
		}
		if sess.SelectedCategory != "" {
			// a category was picked meanwhile; its own load owns the flag
			return
		}
		sess.Loading = false
		if productErr != nil {
			log.Printf("storefront: session %s: %v", sess.ID, productErr)
			sess.Flash(DisplayMessage(productErr, msgFetchProducts))
			return
		}
		sess.Products = products
	})
}

// Navigate switches the active view. Entering the account or admin view with
// a permitted user refreshes the order history.
func (s *Storefront) Navigate(ctx context.Context, id string, view domain.View) (domain.Session, error) {
	if !view.Valid() {
		return domain.Session{}, fmt.Errorf("%w: %q", ErrUnknownView, view)
	}
	sess, err := s.update(ctx, id, func(sess *domain.Session) {
		sess.View = view
		sess.Error = ""
		sess.Notice = ""
	})
	if err != nil {
		return domain.Session{}, err
	}
	if (view == domain.ViewAccount || view == domain.ViewAdmin) && view.Permits(sess.User) {
		return s.refreshAccount(ctx, sess)
	}
	return sess, nil
}

// SelectCategory reloads the product list for categoryID. Products stay as
// they were when the load fails.
func (s *Storefront) SelectCategory(ctx context.Context, id, categoryID string) (domain.Session, error) {
	if _, err := s.update(ctx, id, func(sess *domain.Session) {
		sess.SelectedCategory = categoryID
		sess.Loading = true
	}); err != nil {
		return domain.Session{}, err
	}

	products, err := s.svc.Catalog.LoadProducts(ctx, categoryID)

	return s.update(ctx, id, func(sess *domain.Session) {
		if sess.SelectedCategory != categoryID {
			return
		}
		sess.Loading = false
		if err != nil {
			log.Printf("storefront: session %s: %v", id, err)
			sess.Flash(DisplayMessage(err, msgFetchProducts))
			return
		}
		sess.Products = products
		sess.Error = ""
	})
}

func (s *Storefront) AddToCart(ctx context.Context, id, productID string) (domain.Session, error) {
	return s.update(ctx, id, func(sess *domain.Session) {
		p, ok := sess.FindProduct(productID)
		if !ok {
			sess.Flash("Product not found")
			return
		}
		if !p.InStock() {
			sess.Flash(p.Name + " is out of stock")
			return
		}
		sess.Cart = sess.Cart.Add(p)
		sess.Error = ""
	})
}

func (s *Storefront) RemoveFromCart(ctx context.Context, id, productID string) (domain.Session, error) {
	return s.update(ctx, id, func(sess *domain.Session) {
		sess.Cart = sess.Cart.Remove(productID)
	})
}

// UpdateQuantity sets a cart quantity. Raising it past the stock the item was
// added with is refused, as the increment control is disabled there.
func (s *Storefront) UpdateQuantity(ctx context.Context, id, productID string, n int) (domain.Session, error) {
	return s.update(ctx, id, func(sess *domain.Session) {
		it, ok := sess.Cart.Find(productID)
		if !ok {
			sess.Flash("Product is not in the cart")
			return
		}
		if n > it.Quantity && n > it.Stock {
			sess.Flash(fmt.Sprintf("Only %d of %s in stock", it.Stock, it.Name))
			return
		}
		sess.Cart = sess.Cart.UpdateQuantity(productID, n)
		sess.Error = ""
	})
}

// Checkout places the cart as an order. On success the ordered lines leave
// the cart; while the session generation is unchanged the view switches to
// the account and a local record of the order is appended without
// re-fetching. On failure the cart is kept.
func (s *Storefront) Checkout(ctx context.Context, id, address, paymentMethod string) (domain.Session, error) {
	snap, err := s.Get(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}

	order, err := s.svc.Orders.Checkout(ctx, snap.User, snap.Cart, address, paymentMethod)
	if err != nil {
		log.Printf("storefront: session %s: checkout: %v", id, err)
		return s.update(ctx, id, func(sess *domain.Session) {
			sess.Flash(DisplayMessage(err, msgPlaceOrder))
		})
	}

	names := make([]string, 0, len(snap.Cart))
	for _, it := range snap.Cart {
		names = append(names, it.Name)
	}

	return s.update(ctx, id, func(sess *domain.Session) {
		sess.Cart = sess.Cart.Without(snap.Cart)
		if sess.Generation != snap.Generation {
			log.Printf("storefront: session %s: order %s placed under generation %d (now %d)", id, order.ID, snap.Generation, sess.Generation)
			return
		}
		sess.View = domain.ViewAccount
		sess.Inform("Order placed successfully!")
		sess.Orders = append(sess.Orders, order)
		if sess.OrderProducts == nil {
			sess.OrderProducts = make(map[string][]string)
		}
		sess.OrderProducts[order.ID] = names
	})
}

func (s *Storefront) Login(ctx context.Context, id, username, password string) (domain.Session, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return domain.Session{}, err
	}

	user, err := s.svc.Accounts.Login(ctx, username, password)
	if err != nil {
		log.Printf("storefront: session %s: %v", id, err)
		return s.update(ctx, id, func(sess *domain.Session) {
			sess.Flash(LoginFailureMessage(err))
		})
	}

	sess, err := s.update(ctx, id, func(sess *domain.Session) {
		u := user
		sess.SetUser(&u)
		sess.View = domain.HomeFor(&u)
		sess.Error = ""
		sess.Notice = ""
	})
	if err != nil {
		return domain.Session{}, err
	}
	return s.refreshAccount(ctx, sess)
}

// Logout forgets the user and the cart and returns to the home view.
func (s *Storefront) Logout(ctx context.Context, id string) (domain.Session, error) {
	return s.update(ctx, id, func(sess *domain.Session) {
		sess.SetUser(nil)
		sess.Cart = nil
		sess.View = domain.ViewHome
		sess.Error = ""
		sess.Notice = ""
	})
}

func (s *Storefront) Register(ctx context.Context, id string, form RegistrationForm) (domain.Session, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return domain.Session{}, err
	}

	err := s.svc.Accounts.Register(ctx, form)
	return s.update(ctx, id, func(sess *domain.Session) {
		if err != nil {
			log.Printf("storefront: session %s: register: %v", id, err)
			sess.Flash(DisplayMessage(err, msgRegister))
			return
		}
		sess.View = domain.ViewLogin
		sess.Inform("Registration successful!")
	})
}

// refreshAccount reloads the order history of the session user. A customer
// also gets the product names of the orders and their reviews; an admin gets
// the full catalog. Nothing is applied once the session has moved to another
// generation.
func (s *Storefront) refreshAccount(ctx context.Context, snap domain.Session) (domain.Session, error) {
	if snap.User == nil {
		return snap, nil
	}
	if snap.User.IsAdmin() {
		return s.refreshAdmin(ctx, snap)
	}
	gen := snap.Generation

	orders, err := s.svc.Orders.LoadOrders(ctx, snap.User)
	if err != nil {
		log.Printf("storefront: session %s: %v", snap.ID, err)
		return s.applyIf(ctx, snap.ID, gen, func(sess *domain.Session) {
			sess.Orders = nil
			sess.OrderProducts = nil
			sess.Flash(OrdersFailureMessage(err))
		})
	}

	var (
		wg               sync.WaitGroup
		names            map[string][]string
		reviews          []domain.Review
		namesErr, revErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		names, namesErr = s.svc.Orders.OrderProductNames(ctx, orders)
	}()
	go func() {
		defer wg.Done()
		reviews, revErr = s.svc.Reviews.LoadReviews(ctx, snap.User)
	}()
	wg.Wait()

	return s.applyIf(ctx, snap.ID, gen, func(sess *domain.Session) {
		sess.Orders = orders
		if namesErr != nil {
			log.Printf("storefront: session %s: %v", snap.ID, namesErr)
			sess.OrderProducts = nil
			sess.Flash(DisplayMessage(namesErr, msgFetchProductDetails))
		} else {
			sess.OrderProducts = names
		}
		if revErr != nil {
			log.Printf("storefront: session %s: %v", snap.ID, revErr)
			sess.Flash(DisplayMessage(revErr, msgFetchReviews))
		} else {
			sess.Reviews = reviews
		}
	})
}

func (s *Storefront) refreshAdmin(ctx context.Context, snap domain.Session) (domain.Session, error) {
	var (
		wg                    sync.WaitGroup
		orders                []domain.Order
		products              []domain.Product
		ordersErr, productErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		orders, ordersErr = s.svc.Orders.LoadOrders(ctx, snap.User)
	}()
	go func() {
		defer wg.Done()
		products, productErr = s.svc.Catalog.LoadProducts(ctx, "")
	}()
	wg.Wait()

	return s.applyIf(ctx, snap.ID, snap.Generation, func(sess *domain.Session) {
		if productErr != nil {
			log.Printf("storefront: session %s: %v", snap.ID, productErr)
			sess.Flash(DisplayMessage(productErr, msgFetchProducts))
		} else {
			sess.SelectedCategory = ""
			sess.Products = products
		}
		if ordersErr != nil {
			log.Printf("storefront: session %s: %v", snap.ID, ordersErr)
			sess.Orders = nil
			sess.Flash(OrdersFailureMessage(ordersErr))
			return
		}
		sess.Orders = orders
	})
}

// SelectReviewOrder opens the review view for one of the user's orders and
// loads its products into the picker.
func (s *Storefront) SelectReviewOrder(ctx context.Context, id, orderID string) (domain.Session, error) {
	snap, err := s.Get(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}
	order, ok := snap.FindOrder(orderID)
	if !ok || !snap.User.IsCustomer() {
		return s.update(ctx, id, func(sess *domain.Session) {
			sess.View = domain.ViewReview
			sess.Flash("Please select an order to review")
		})
	}

	products, err := s.svc.Reviews.ReviewProducts(ctx, order)
	return s.applyIf(ctx, id, snap.Generation, func(sess *domain.Session) {
		sess.View = domain.ViewReview
		if err != nil {
			log.Printf("storefront: session %s: %v", id, err)
			sess.ReviewOrderID = ""
			sess.ReviewProducts = nil
			sess.Flash(DisplayMessage(err, msgFetchProductDetails))
			return
		}
		sess.ReviewOrderID = orderID
		sess.ReviewProducts = products
		sess.Error = ""
	})
}

// SubmitReview posts a review for the selected order. Success clears the
// review form and returns to the account view.
func (s *Storefront) SubmitReview(ctx context.Context, id, productID, rating, comment string) (domain.Session, error) {
	snap, err := s.Get(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}
	order, _ := snap.FindOrder(snap.ReviewOrderID)

	review, err := s.svc.Reviews.SubmitReview(ctx, snap.User, order, productID, rating, comment)
	if err != nil {
		log.Printf("storefront: session %s: %v", id, err)
		return s.update(ctx, id, func(sess *domain.Session) {
			sess.Flash(DisplayMessage(err, msgSubmitReview))
		})
	}

	return s.applyIf(ctx, id, snap.Generation, func(sess *domain.Session) {
		sess.ReviewOrderID = ""
		sess.ReviewProducts = nil
		sess.Reviews = append(sess.Reviews, review)
		sess.View = domain.ViewAccount
		sess.Inform("Review submitted!")
	})
}
