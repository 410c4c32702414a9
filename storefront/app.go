// Package storefront is the shop client core. It reconciles what the
// backend says with what was changed or cached locally, so the shop keeps
// working while the backend is unreachable.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/storefront/localstore"
)

var (
	// ErrNotPermitted is the soft refusal of a cart mutation without a signed-in identity.
	ErrNotPermitted = errors.New("sign in to use the cart")
	// ErrMissingIdentity is returned by operations that need a signed-in identity.
	ErrMissingIdentity = errors.New("not signed in")
)

type Options struct {
	Backend Backend
	Cache   localstore.Store
	Seed    SeedSource
	Pricing models.Pricing
}

// App owns all client state. Operations that reach the backend run one at a
// time under ops. mu guards the state itself and is never held across a
// backend call, so reads stay prompt while a request is in flight.
type App struct {
	ops sync.Mutex
	mu  sync.Mutex

	backend Backend
	cache   localstore.Store
	seed    SeedSource
	pricing models.Pricing
	now     func() time.Time
	newID   func() string

	session *Session
	catalog []Product
	carts   map[string][]LineItem
	orders  map[string][]models.Order
	reviews map[string][]models.Review
}

func New(opts Options) *App {
	if opts.Pricing.Rate <= 0 {
		opts.Pricing = models.Pricing{Rate: 83, Currency: "INR"}
	}
	return &App{
		backend: opts.Backend,
		cache:   opts.Cache,
		seed:    opts.Seed,
		pricing: opts.Pricing,
		now:     time.Now,
		newID:   newLocalID,
		carts:   make(map[string][]LineItem),
		orders:  make(map[string][]models.Order),
		reviews: make(map[string][]models.Review),
	}
}

// Init restores the persisted collections and the session, then loads the
// catalog. A failing backend never fails Init; a cancelled context does.
func (a *App) Init(ctx context.Context) error {
	a.ops.Lock()
	defer a.ops.Unlock()

	if err := a.restoreCollections(); err != nil {
		return err
	}
	if err := a.restoreSession(ctx); err != nil {
		return err
	}
	if _, err := a.loadCatalog(ctx); err != nil {
		return err
	}
	return nil
}

func (a *App) restoreCollections() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, c := range []struct {
		name string
		dst  any
	}{
		{localstore.Carts, &a.carts},
		{localstore.Orders, &a.orders},
		{localstore.Reviews, &a.reviews},
	} {
		if _, err := a.cache.Get(c.name, c.dst); err != nil {
			return fmt.Errorf("restore %s: %w", c.name, err)
		}
	}
	if a.carts == nil {
		a.carts = make(map[string][]LineItem)
	}
	if a.orders == nil {
		a.orders = make(map[string][]models.Order)
	}
	if a.reviews == nil {
		a.reviews = make(map[string][]models.Review)
	}
	return nil
}

// Close writes every collection back to the cache.
func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return errors.Join(
		a.persist(localstore.Carts, a.carts),
		a.persist(localstore.Orders, a.orders),
		a.persist(localstore.Reviews, a.reviews),
		a.persist(localstore.Products, a.catalog),
	)
}

// Pricing returns the display conversion used for totals.
func (a *App) Pricing() models.Pricing {
	return a.pricing
}

func (a *App) persist(collection string, v any) error {
	if err := a.cache.Set(collection, v); err != nil {
		log.Printf("❌ persist %s: %v", collection, err)
		return fmt.Errorf("persist %s: %w", collection, err)
	}
	return nil
}
