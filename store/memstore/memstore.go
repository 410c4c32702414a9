// Package memstore keeps the whole store in process memory. It backs
// db.driver=memory for local development and the handler tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/store"
)

type Store struct {
	mu       sync.Mutex
	users    map[string]models.User
	products map[string]models.Product
	carts    map[string]models.Cart
	orders   []models.Order
	reviews  map[string][]models.Review
	now      func() time.Time
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users:    make(map[string]models.User),
		products: make(map[string]models.Product),
		carts:    make(map[string]models.Cart),
		reviews:  make(map[string][]models.Review),
		now:      time.Now,
	}
}

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Close() error { return nil }

// ─────────── Users ───────────

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.Email = models.NormalizeEmail(u.Email)
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return store.ErrDuplicateEmail
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now()
	}
	s.users[u.ID] = *u
	return nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = models.NormalizeEmail(email)
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) UserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ─────────── Products ───────────

func (s *Store) ListProducts(ctx context.Context, q models.ProductQuery) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if q.Matches(p) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return q.Less(out[i], out[j]) })
	return out, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for _, p := range s.products {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) ProductByID(ctx context.Context, id string) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertLocked(p)
	return nil
}

func (s *Store) insertLocked(p *models.Product) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := s.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	s.products[p.ID] = *p
}

func (s *Store) UpdateProduct(ctx context.Context, id string, in models.ProductInput) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	in.Apply(&p)
	p.UpdatedAt = s.now()
	s.products[id] = p
	return &p, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.products, id)
	delete(s.reviews, id)
	return nil
}

func (s *Store) CountProducts(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.products)), nil
}

func (s *Store) InsertProducts(ctx context.Context, ps []models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range ps {
		s.insertLocked(&ps[i])
	}
	return nil
}

// ─────────── Carts ───────────

func (s *Store) CartByUser(ctx context.Context, userID string) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[userID]
	if !ok {
		c = models.Cart{UserID: userID, Items: []models.CartItem{}, UpdatedAt: s.now()}
		s.carts[userID] = c
	}
	c.Items = append([]models.CartItem(nil), c.Items...)
	return &c, nil
}

func (s *Store) ReplaceCart(ctx context.Context, userID string, items []models.CartItem) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := models.Cart{
		UserID:    userID,
		Items:     append([]models.CartItem{}, items...),
		UpdatedAt: s.now(),
	}
	s.carts[userID] = c
	return &c, nil
}

func (s *Store) ClearCart(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[userID] = models.Cart{UserID: userID, Items: []models.CartItem{}, UpdatedAt: s.now()}
	return nil
}

// ─────────── Orders ───────────

func (s *Store) PlaceOrder(ctx context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = s.now()
	}
	stored := *o
	stored.Items = append([]models.OrderItem(nil), o.Items...)
	s.orders = append(s.orders, stored)
	s.carts[o.UserID] = models.Cart{UserID: o.UserID, Items: []models.CartItem{}, UpdatedAt: s.now()}
	return nil
}

// newestFirst copies the matching orders, most recent first.
func (s *Store) newestFirst(keep func(models.Order) bool) []models.Order {
	out := []models.Order{}
	for i := len(s.orders) - 1; i >= 0; i-- {
		if keep(s.orders[i]) {
			o := s.orders[i]
			o.Items = append([]models.OrderItem(nil), o.Items...)
			out = append(out, o)
		}
	}
	return out
}

func (s *Store) OrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.newestFirst(func(o models.Order) bool { return o.UserID == userID }), nil
}

func (s *Store) OrderForUser(ctx context.Context, id, userID string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	found := s.newestFirst(func(o models.Order) bool { return o.ID == id && o.UserID == userID })
	if len(found) == 0 {
		return nil, store.ErrNotFound
	}
	return &found[0], nil
}

func (s *Store) AllOrders(ctx context.Context) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.newestFirst(func(models.Order) bool { return true }), nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].Status = status
			o := s.orders[i]
			o.Items = append([]models.OrderItem(nil), o.Items...)
			return &o, nil
		}
	}
	return nil, store.ErrNotFound
}

// ─────────── Reviews ───────────

func (s *Store) AddReview(ctx context.Context, r *models.Review) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[r.ProductID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	list := append(s.reviews[r.ProductID], *r)
	s.reviews[r.ProductID] = list
	p.Rating = models.AggregateRating(models.RatingsOf(list))
	s.products[p.ID] = p
	return &p, nil
}

func (s *Store) ReviewsForProduct(ctx context.Context, productID string) ([]models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Review{}, s.reviews[productID]...), nil
}
