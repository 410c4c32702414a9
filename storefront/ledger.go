package storefront

import (
	"context"
	"log"
	"sort"

	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/storefront/client"
	"github.com/junaidrashid-git/storefront/storefront/localstore"
	"github.com/junaidrashid-git/storefront/store"
)

// LineItem is one cart line. Price is in the source currency.
type LineItem struct {
	Ref      models.ProductRef `json:"ref"`
	Title    string            `json:"title"`
	Price    float64           `json:"price"`
	Quantity int               `json:"quantity"`
	Image    string            `json:"image"`
	Category string            `json:"category"`
}

func cartItems(lines []LineItem) []models.CartItem {
	out := make([]models.CartItem, 0, len(lines))
	for _, l := range lines {
		out = append(out, models.CartItem{
			ProductID: l.Ref.ID,
			Title:     l.Title,
			Price:     l.Price,
			Quantity:  l.Quantity,
			Image:     l.Image,
			Category:  l.Category,
		})
	}
	return out
}

func lineIndex(lines []LineItem, ref models.ProductRef) int {
	for i, l := range lines {
		if l.Ref.Matches(ref) {
			return i
		}
	}
	return -1
}

// cartKeyLocked returns the identity key of the signed-in user, or
// ErrNotPermitted.
func (a *App) cartKeyLocked() (string, error) {
	if a.session == nil {
		return "", ErrNotPermitted
	}
	return a.session.key(), nil
}

// AddItem puts one unit of p in the cart, incrementing an existing line
// for the same product.
func (a *App) AddItem(p Product) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	key, err := a.cartKeyLocked()
	if err != nil {
		return err
	}
	lines := a.carts[key]
	if i := lineIndex(lines, p.Ref); i >= 0 {
		lines[i].Quantity++
	} else {
		lines = append(lines, LineItem{
			Ref:      p.Ref,
			Title:    p.Title,
			Price:    p.Price,
			Quantity: 1,
			Image:    p.Image,
			Category: p.Category,
		})
	}
	a.carts[key] = lines
	return a.persist(localstore.Carts, a.carts)
}

// SetQuantity sets a line to exactly qty. qty <= 0 removes the line.
func (a *App) SetQuantity(ref models.ProductRef, qty int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	key, err := a.cartKeyLocked()
	if err != nil {
		return err
	}
	lines := a.carts[key]
	i := lineIndex(lines, ref)
	if i < 0 {
		return nil
	}
	if qty <= 0 {
		a.carts[key] = append(lines[:i:i], lines[i+1:]...)
	} else {
		lines[i].Quantity = qty
	}
	return a.persist(localstore.Carts, a.carts)
}

// RemoveItem drops the line for ref from the cart.
func (a *App) RemoveItem(ref models.ProductRef) error {
	return a.SetQuantity(ref, 0)
}

// ClearCart empties the signed-in user's cart.
func (a *App) ClearCart() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	key, err := a.cartKeyLocked()
	if err != nil {
		return err
	}
	a.carts[key] = []LineItem{}
	return a.persist(localstore.Carts, a.carts)
}

// Cart returns a copy of the signed-in user's cart lines.
func (a *App) Cart() []LineItem {
	a.mu.Lock()
	defer a.mu.Unlock()
	key, err := a.cartKeyLocked()
	if err != nil {
		return nil
	}
	return append([]LineItem(nil), a.carts[key]...)
}

// CartTotal is the cart total in the display currency.
func (a *App) CartTotal() float64 {
	return models.CartTotal(cartItems(a.Cart()), a.pricing.Rate)
}

// CartCount is the number of units in the cart.
func (a *App) CartCount() int {
	return models.CartCount(cartItems(a.Cart()))
}

// PlaceOrder snapshots the cart into a confirmed order. The order is
// recorded and persisted before the cart is cleared; if the process dies in
// between, the cart survives alongside the order.
func (a *App) PlaceOrder(ctx context.Context, shipping models.ShippingInfo) (models.Order, error) {
	a.ops.Lock()
	defer a.ops.Unlock()

	sess, err := a.currentSession()
	if err != nil {
		return models.Order{}, err
	}
	key := sess.key()
	a.mu.Lock()
	lines := append([]LineItem(nil), a.carts[key]...)
	a.mu.Unlock()
	if len(lines) == 0 {
		return models.Order{}, models.ErrEmptyCart
	}
	if err := shipping.Validate(); err != nil {
		return models.Order{}, err
	}
	items := cartItems(lines)

	order, err := a.backend.PlaceOrder(ctx, sess.Token, items, shipping)
	if err != nil {
		if !client.IsUnavailable(err) {
			return models.Order{}, err
		}
		order, err = models.NewOrder(a.newID(), sess.User.ID, items, shipping, a.pricing, a.now())
		if err != nil {
			return models.Order{}, err
		}
		log.Printf("⚠️ backend unavailable, order %s recorded locally", order.ID)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.orders[key] = append([]models.Order{*order}, a.orders[key]...)
	if err := a.persist(localstore.Orders, a.orders); err != nil {
		return *order, err
	}
	a.carts[key] = withoutLines(a.carts[key], lines)
	if err := a.persist(localstore.Carts, a.carts); err != nil {
		return *order, err
	}
	log.Printf("✅ order %s placed for %s", order.ID, key)
	return *order, nil
}

// withoutLines takes the ordered quantities out of cart. Anything added
// while the order was being placed stays.
func withoutLines(cart, ordered []LineItem) []LineItem {
	out := []LineItem{}
	for _, l := range cart {
		if i := lineIndex(ordered, l.Ref); i >= 0 {
			l.Quantity -= ordered[i].Quantity
		}
		if l.Quantity > 0 {
			out = append(out, l)
		}
	}
	return out
}

// Orders returns the signed-in user's order history, most recent first.
func (a *App) Orders() []models.Order {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return nil
	}
	return append([]models.Order(nil), a.orders[a.session.key()]...)
}

// RefreshOrders replaces the local history with the backend's, keeping
// orders that were only ever recorded locally.
func (a *App) RefreshOrders(ctx context.Context) ([]models.Order, error) {
	a.ops.Lock()
	defer a.ops.Unlock()

	sess, err := a.currentSession()
	if err != nil {
		return nil, err
	}
	key := sess.key()

	remote, err := a.backend.Orders(ctx, sess.Token)
	if err != nil && !client.IsUnavailable(err) {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		return append([]models.Order(nil), a.orders[key]...), nil
	}
	a.orders[key] = mergeOrders(remote, a.orders[key])
	if err := a.persist(localstore.Orders, a.orders); err != nil {
		return nil, err
	}
	return append([]models.Order(nil), a.orders[key]...), nil
}

// AllOrders lists every order for an admin. Without a backend it lists
// every order held locally.
func (a *App) AllOrders(ctx context.Context) ([]models.Order, error) {
	a.ops.Lock()
	defer a.ops.Unlock()

	sess, err := a.currentAdmin()
	if err != nil {
		return nil, err
	}
	remote, err := a.backend.AllOrders(ctx, sess.Token)
	if err == nil {
		return remote, nil
	}
	if !client.IsUnavailable(err) {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	var all []models.Order
	for _, list := range a.orders {
		all = append(all, list...)
	}
	sortNewestFirst(all)
	return all, nil
}

func mergeOrders(remote, local []models.Order) []models.Order {
	seen := make(map[string]bool, len(remote))
	out := append([]models.Order{}, remote...)
	for _, o := range remote {
		seen[o.ID] = true
	}
	for _, o := range local {
		if !seen[o.ID] {
			out = append(out, o)
		}
	}
	sortNewestFirst(out)
	return out
}

func sortNewestFirst(orders []models.Order) {
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
}

// UpdateOrderStatus changes an order's status. Only the status of an order
// ever changes after it is placed.
func (a *App) UpdateOrderStatus(ctx context.Context, id, status string) (models.Order, error) {
	a.ops.Lock()
	defer a.ops.Unlock()

	sess, err := a.currentAdmin()
	if err != nil {
		return models.Order{}, err
	}
	next, err := models.ParseOrderStatus(status)
	if err != nil {
		return models.Order{}, err
	}

	updated, err := a.backend.UpdateOrderStatus(ctx, sess.Token, id, next)
	if err != nil && !client.IsUnavailable(err) {
		return models.Order{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if err == nil {
		a.setLocalStatusLocked(id, next)
		return *updated, a.persist(localstore.Orders, a.orders)
	}
	log.Printf("⚠️ backend unavailable, updating order %s locally", id)
	o, ok := a.setLocalStatusLocked(id, next)
	if !ok {
		return models.Order{}, store.ErrNotFound
	}
	return o, a.persist(localstore.Orders, a.orders)
}

func (a *App) setLocalStatusLocked(id string, status models.OrderStatus) (models.Order, bool) {
	for key, list := range a.orders {
		for i := range list {
			if list[i].ID == id {
				list[i].Status = status
				a.orders[key] = list
				return list[i], true
			}
		}
	}
	return models.Order{}, false
}
