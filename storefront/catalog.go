package storefront

import (
	"context"
	"errors"
	"log"
	"sort"

	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/storefront/client"
	"github.com/junaidrashid-git/storefront/storefront/localstore"
	"github.com/junaidrashid-git/storefront/store"
)

// Product is a catalog entry together with the id space its id belongs to.
type Product struct {
	Ref models.ProductRef `json:"ref"`
	models.Product
	// Seeded marks demo products shown only because nothing else was
	// available. They never survive a successful backend load.
	Seeded bool `json:"seeded,omitempty"`
}

func authoritativeProduct(p models.Product) Product {
	return Product{Ref: models.AuthoritativeRef(p.ID), Product: p}
}

// Merge returns every authoritative product unchanged, followed by each
// local-only product whose id matches none of them.
func Merge(authoritative []models.Product, cached []Product) []Product {
	out := make([]Product, 0, len(authoritative)+len(cached))
	for _, p := range authoritative {
		out = append(out, authoritativeProduct(p))
	}
	for _, m := range cached {
		if m.Ref.Kind != models.RefLocal || m.Seeded {
			continue
		}
		if !matchesAny(out[:len(authoritative)], m.Ref) {
			out = append(out, m)
		}
	}
	return out
}

func matchesAny(list []Product, ref models.ProductRef) bool {
	for _, p := range list {
		if p.Ref.Matches(ref) {
			return true
		}
	}
	return false
}

// LoadCatalog fetches the authoritative catalog and merges in local-only
// products. When the backend cannot serve the catalog it falls back to the
// cached snapshot, then the seed catalog, then nothing. Only a cancelled
// context is returned as an error.
func (a *App) LoadCatalog(ctx context.Context) ([]Product, error) {
	a.ops.Lock()
	defer a.ops.Unlock()
	return a.loadCatalog(ctx)
}

func (a *App) loadCatalog(ctx context.Context) ([]Product, error) {
	list, err := a.backend.ListProducts(ctx, models.ProductQuery{})
	if err != nil && errors.Is(ctx.Err(), context.Canceled) {
		return nil, err
	}

	a.mu.Lock()
	cached := a.cachedCatalogLocked()
	if err == nil {
		defer a.mu.Unlock()
		a.catalog = Merge(list, cached)
		if err := a.persist(localstore.Products, a.catalog); err != nil {
			return a.productsLocked(), err
		}
		return a.productsLocked(), nil
	}

	log.Printf("⚠️ catalog fetch failed, using local catalog: %v", err)
	if len(cached) > 0 || a.seed == nil {
		defer a.mu.Unlock()
		a.catalog = append([]Product{}, cached...)
		return a.productsLocked(), nil
	}
	a.catalog = []Product{}
	a.mu.Unlock()

	seeded, err := a.seed.Fetch(ctx)
	if err != nil {
		log.Printf("⚠️ seed catalog unavailable: %v", err)
		return []Product{}, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, p := range seeded {
		a.catalog = append(a.catalog, Product{Ref: models.LocalRef(p.ID), Product: p, Seeded: true})
	}
	return a.productsLocked(), nil
}

func (a *App) cachedCatalogLocked() []Product {
	var cached []Product
	if _, err := a.cache.Get(localstore.Products, &cached); err != nil {
		log.Printf("⚠️ unreadable catalog snapshot: %v", err)
		return nil
	}
	return cached
}

// Products returns a copy of the merged catalog.
func (a *App) Products() []Product {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.productsLocked()
}

func (a *App) productsLocked() []Product {
	return append([]Product(nil), a.catalog...)
}

// Product looks up a catalog entry by its ref.
func (a *App) Product(ref models.ProductRef) (Product, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if i := a.indexLocked(ref); i >= 0 {
		return a.catalog[i], true
	}
	return Product{}, false
}

func (a *App) indexLocked(ref models.ProductRef) int {
	for i, p := range a.catalog {
		if p.Ref == ref {
			return i
		}
	}
	return -1
}

// Filter applies the same search, category and sort rules as GET /products
// to the merged catalog.
func (a *App) Filter(q models.ProductQuery) []Product {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Product, 0, len(a.catalog))
	for _, p := range a.catalog {
		if q.Matches(p.Product) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return q.Less(out[i].Product, out[j].Product) })
	return out
}

// Categories lists the distinct categories of the merged catalog.
func (a *App) Categories() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for _, p := range a.catalog {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out
}

// CreateProduct adds a product through the backend, or as a local-only
// product when the backend is unavailable.
func (a *App) CreateProduct(ctx context.Context, in models.ProductInput) (Product, error) {
	a.ops.Lock()
	defer a.ops.Unlock()

	sess, err := a.currentAdmin()
	if err != nil {
		return Product{}, err
	}
	if err := in.Validate(); err != nil {
		return Product{}, err
	}

	var created Product
	p, err := a.backend.CreateProduct(ctx, sess.Token, in)
	switch {
	case err == nil:
		created = authoritativeProduct(*p)
	case client.IsUnavailable(err):
		now := a.now()
		local := models.Product{ID: a.newID(), CreatedAt: now, UpdatedAt: now}
		in.Apply(&local)
		created = Product{Ref: models.LocalRef(local.ID), Product: local}
		log.Printf("⚠️ backend unavailable, product %s created locally", local.ID)
	default:
		return Product{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.catalog = append([]Product{created}, a.catalog...)
	return created, a.persist(localstore.Products, a.catalog)
}

// UpdateProduct edits a product. Authoritative products go through the
// backend first; local-only products, and any product while the backend is
// unavailable, are edited in the local catalog.
func (a *App) UpdateProduct(ctx context.Context, ref models.ProductRef, in models.ProductInput) (Product, error) {
	a.ops.Lock()
	defer a.ops.Unlock()

	sess, err := a.currentAdmin()
	if err != nil {
		return Product{}, err
	}
	if err := in.Validate(); err != nil {
		return Product{}, err
	}
	if _, ok := a.Product(ref); !ok {
		return Product{}, store.ErrNotFound
	}

	if ref.IsAuthoritative() {
		p, err := a.backend.UpdateProduct(ctx, sess.Token, ref.ID, in)
		switch {
		case err == nil:
			updated := authoritativeProduct(*p)
			a.mu.Lock()
			defer a.mu.Unlock()
			if i := a.indexLocked(ref); i >= 0 {
				a.catalog[i] = updated
			}
			return updated, a.persist(localstore.Products, a.catalog)
		case !client.IsUnavailable(err):
			return Product{}, err
		}
		log.Printf("⚠️ backend unavailable, product %s edited locally", ref.ID)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.indexLocked(ref)
	if i < 0 {
		return Product{}, store.ErrNotFound
	}
	updated := a.catalog[i]
	in.Apply(&updated.Product)
	updated.UpdatedAt = a.now()
	updated.Seeded = false
	a.catalog[i] = updated
	return updated, a.persist(localstore.Products, a.catalog)
}

// DeleteProduct removes a product, through the backend for authoritative
// products when it is available.
func (a *App) DeleteProduct(ctx context.Context, ref models.ProductRef) error {
	a.ops.Lock()
	defer a.ops.Unlock()

	sess, err := a.currentAdmin()
	if err != nil {
		return err
	}
	if _, ok := a.Product(ref); !ok {
		return store.ErrNotFound
	}

	if ref.IsAuthoritative() {
		if err := a.backend.DeleteProduct(ctx, sess.Token, ref.ID); err != nil {
			if !client.IsUnavailable(err) {
				return err
			}
			log.Printf("⚠️ backend unavailable, product %s deleted locally", ref.ID)
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if i := a.indexLocked(ref); i >= 0 {
		a.catalog = append(a.catalog[:i:i], a.catalog[i+1:]...)
	}
	return a.persist(localstore.Products, a.catalog)
}
