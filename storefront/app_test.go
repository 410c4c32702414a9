package storefront

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/junaidrashid-git/storefront/auth"
	orderControllers "github.com/junaidrashid-git/storefront/controllers/order"
	"github.com/junaidrashid-git/storefront/media"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/routes"
	"github.com/junaidrashid-git/storefront/store"
	"github.com/junaidrashid-git/storefront/store/memstore"
	"github.com/junaidrashid-git/storefront/storefront/client"
	"github.com/junaidrashid-git/storefront/storefront/localstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

// backend runs the real API in-process. While down it answers every request
// with 503, which the client treats as unreachable. A non-zero fail status
// makes every request fail the way the API does when its store is down.
type backend struct {
	url   string
	down  atomic.Bool
	fail  atomic.Int32
	stall atomic.Pointer[stall]
}

// stall holds requests until release is closed, signalling each arrival on
// entered.
type stall struct {
	entered chan struct{}
	release chan struct{}
}

// hold makes the next requests block in the handler until the returned
// function is called. It is also called on cleanup.
func (b *backend) hold(t *testing.T) (*stall, func()) {
	s := &stall{entered: make(chan struct{}, 1), release: make(chan struct{})}
	b.stall.Store(s)
	var once sync.Once
	release := func() {
		once.Do(func() {
			b.stall.Store(nil)
			close(s.release)
		})
	}
	t.Cleanup(release)
	return s, release
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	gin.SetMode(gin.TestMode)
	st := memstore.New()
	r := gin.New()
	routes.SetupRoutes(r, routes.Deps{
		Store:    st,
		Resolver: auth.NewResolver(st, auth.NewTokens(testSecret, time.Hour), auth.Options{AdminEmail: "admin@store.com", BcryptCost: bcrypt.MinCost}),
		Pricing:  models.Pricing{Rate: 83, Currency: "INR"},
		Hub:      orderControllers.NewHub(),
		Uploader: media.NewLocal(t.TempDir(), "/uploads"),
	})

	b := &backend{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if s := b.stall.Load(); s != nil {
			select {
			case s.entered <- struct{}{}:
			default:
			}
			<-s.release
		}
		if b.down.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		if status := b.fail.Load(); status != 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(int(status))
			_, _ = w.Write([]byte(`{"error":"Failed to fetch products"}`))
			return
		}
		r.ServeHTTP(w, req)
	}))
	t.Cleanup(srv.Close)
	b.url = srv.URL + "/api"
	return b
}

type staticSeed []models.Product

func (s staticSeed) Fetch(context.Context) ([]models.Product, error) {
	return append([]models.Product(nil), s...), nil
}

type failingSeed struct{}

func (failingSeed) Fetch(context.Context) ([]models.Product, error) {
	return nil, errors.New("seed offline")
}

func newApp(t *testing.T, b *backend, cache localstore.Store, seed SeedSource) *App {
	t.Helper()
	app := New(Options{
		Backend: client.New(b.url, 5*time.Second),
		Cache:   cache,
		Seed:    seed,
		Pricing: models.Pricing{Rate: 83, Currency: "INR"},
	})
	require.NoError(t, app.Init(context.Background()))
	return app
}

func lampInput() models.ProductInput {
	return models.ProductInput{Title: "Lamp", Price: 10, Description: "desk lamp", Category: "home", Image: "lamp.png"}
}

func testShipping() models.ShippingInfo {
	return models.ShippingInfo{
		FullName: "Jane Doe",
		Email:    "jane@x.com",
		Phone:    "9876543210",
		Address:  "12 Market Road",
		City:     "Kochi",
		ZipCode:  "682001",
	}
}

// withProduct signs up an admin, creates a lamp through the backend and
// returns it from the catalog.
func withProduct(t *testing.T, app *App) Product {
	t.Helper()
	ctx := context.Background()
	_, err := app.Register(ctx, "Admin", "admin@store.com", "secret1")
	require.NoError(t, err)
	p, err := app.CreateProduct(ctx, lampInput())
	require.NoError(t, err)
	require.True(t, p.Ref.IsAuthoritative())
	return p
}

func TestScenario(t *testing.T) {
	b := newBackend(t)
	app := newApp(t, b, localstore.NewMemory(), nil)
	ctx := context.Background()

	admin, err := app.Register(ctx, "Admin", "admin@store.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	p, err := app.CreateProduct(ctx, lampInput())
	require.NoError(t, err)

	jane, err := app.Register(ctx, "Jane", "jane@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, jane.Role)

	_, first := app.Login(ctx, "jane@x.com", "wrong12")
	_, second := app.Login(ctx, "jane@x.com", "wrong12")
	assert.ErrorIs(t, first, auth.ErrInvalidCredentials)
	assert.ErrorIs(t, second, auth.ErrInvalidCredentials)
	assert.Equal(t, first.Error(), second.Error())

	// A failed login leaves the current session alone.
	user, ok := app.Identity()
	require.True(t, ok)
	assert.Equal(t, "jane@x.com", user.Email)

	require.NoError(t, app.AddItem(p))
	require.NoError(t, app.AddItem(p))
	cart := app.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, 2, cart[0].Quantity)
	assert.Equal(t, 20*83.0, app.CartTotal())

	order, err := app.PlaceOrder(ctx, testShipping())
	require.NoError(t, err)
	assert.Equal(t, 20*83.0, order.Total)
	assert.Equal(t, models.OrderStatusConfirmed, order.Status)
	assert.Empty(t, app.Cart())
	assert.Equal(t, []models.Order{order}, app.Orders())

	_, err = app.AddReview(ctx, p.Ref, 4, "bright")
	require.NoError(t, err)
	got, _ := app.Product(p.Ref)
	assert.Equal(t, models.Rating{Average: 4, Count: 1}, got.Rating)

	_, err = app.AddReview(ctx, p.Ref, 2, "flickers")
	require.NoError(t, err)
	got, _ = app.Product(p.Ref)
	assert.Equal(t, models.Rating{Average: 3, Count: 2}, got.Rating)
	assert.Len(t, app.ListReviews(p.Ref), 2)
}

func TestMerge(t *testing.T) {
	authoritative := []models.Product{
		{ID: "a1", Title: "One", Price: 1},
		{ID: "a2", Title: "Two", Price: 2},
	}
	cached := []Product{
		{Ref: models.LocalRef("a1"), Product: models.Product{ID: "a1", Title: "stale copy"}},
		{Ref: models.LocalRef("l1"), Product: models.Product{ID: "l1", Title: "Local"}},
		{Ref: models.LocalRef("s1"), Product: models.Product{ID: "s1", Title: "Seed"}, Seeded: true},
		{Ref: models.AuthoritativeRef("gone"), Product: models.Product{ID: "gone", Title: "Deleted upstream"}},
	}

	merged := Merge(authoritative, cached)

	require.Len(t, merged, 3)
	for i, p := range authoritative {
		assert.Equal(t, models.AuthoritativeRef(p.ID), merged[i].Ref)
		assert.Equal(t, p, merged[i].Product)
	}
	assert.Equal(t, models.LocalRef("l1"), merged[2].Ref)

	assert.Len(t, Merge(authoritative, nil), 2)
	assert.Len(t, Merge(nil, cached), 1)
}

func TestCart_NotPermittedWithoutIdentity(t *testing.T) {
	b := newBackend(t)
	app := newApp(t, b, localstore.NewMemory(), nil)
	p := withProduct(t, app)
	require.NoError(t, app.Logout())

	assert.ErrorIs(t, app.AddItem(p), ErrNotPermitted)
	assert.ErrorIs(t, app.SetQuantity(p.Ref, 3), ErrNotPermitted)
	assert.Empty(t, app.Cart())
	assert.Zero(t, app.CartTotal())

	_, err := app.PlaceOrder(context.Background(), testShipping())
	assert.ErrorIs(t, err, ErrMissingIdentity)
}

func TestCart_LineItems(t *testing.T) {
	b := newBackend(t)
	app := newApp(t, b, localstore.NewMemory(), nil)
	lamp := withProduct(t, app)
	kettle, err := app.CreateProduct(context.Background(), models.ProductInput{
		Title: "Kettle", Price: 2.5, Description: "steel", Category: "kitchen", Image: "k.png",
	})
	require.NoError(t, err)

	require.NoError(t, app.AddItem(lamp))
	require.NoError(t, app.AddItem(kettle))
	require.NoError(t, app.AddItem(lamp))
	require.NoError(t, app.SetQuantity(kettle.Ref, 4))

	cart := app.Cart()
	require.Len(t, cart, 2)
	assert.Equal(t, 2, cart[0].Quantity)
	assert.Equal(t, 4, cart[1].Quantity)
	assert.Equal(t, (2*10+4*2.5)*83, app.CartTotal())
	assert.Equal(t, 6, app.CartCount())

	require.NoError(t, app.SetQuantity(kettle.Ref, 0))
	assert.Len(t, app.Cart(), 1)
	require.NoError(t, app.SetQuantity(lamp.Ref, -1))
	assert.Empty(t, app.Cart())

	require.NoError(t, app.AddItem(lamp))
	require.NoError(t, app.RemoveItem(lamp.Ref))
	assert.Empty(t, app.Cart())

	require.NoError(t, app.AddItem(kettle))
	require.NoError(t, app.ClearCart())
	assert.Empty(t, app.Cart())
}

func TestCart_FiledUnderIdentity(t *testing.T) {
	b := newBackend(t)
	app := newApp(t, b, localstore.NewMemory(), nil)
	ctx := context.Background()
	lamp := withProduct(t, app)

	require.NoError(t, app.AddItem(lamp))
	_, err := app.Register(ctx, "Jane", "jane@x.com", "secret1")
	require.NoError(t, err)
	assert.Empty(t, app.Cart())

	_, err = app.Login(ctx, "ADMIN@store.com", "secret1")
	require.NoError(t, err)
	assert.Len(t, app.Cart(), 1)
}

func TestPlaceOrder_Rejections(t *testing.T) {
	b := newBackend(t)
	app := newApp(t, b, localstore.NewMemory(), nil)
	ctx := context.Background()
	lamp := withProduct(t, app)

	_, err := app.PlaceOrder(ctx, testShipping())
	assert.ErrorIs(t, err, models.ErrEmptyCart)
	assert.Empty(t, app.Orders())

	require.NoError(t, app.AddItem(lamp))
	bad := testShipping()
	bad.Phone = "12345"
	_, err = app.PlaceOrder(ctx, bad)
	assert.True(t, models.IsValidation(err))
	assert.Len(t, app.Cart(), 1)
	assert.Empty(t, app.Orders())
}

func TestPlaceOrder_OfflineRecordsLocally(t *testing.T) {
	b := newBackend(t)
	cache := localstore.NewMemory()
	app := newApp(t, b, cache, nil)
	ctx := context.Background()
	lamp := withProduct(t, app)
	require.NoError(t, app.AddItem(lamp))
	require.NoError(t, app.AddItem(lamp))

	b.down.Store(true)
	order, err := app.PlaceOrder(ctx, testShipping())
	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, 20*83.0, order.Total)
	assert.Empty(t, app.Cart())

	var persisted map[string][]models.Order
	found, err := cache.Get(localstore.Orders, &persisted)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, persisted["admin@store.com"], 1)
	assert.Equal(t, order.ID, persisted["admin@store.com"][0].ID)

	// Back online, the locally recorded order is kept next to the backend's.
	b.down.Store(false)
	require.NoError(t, app.AddItem(lamp))
	_, err = app.PlaceOrder(ctx, testShipping())
	require.NoError(t, err)
	orders, err := app.RefreshOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestUpdateOrderStatus(t *testing.T) {
	b := newBackend(t)
	app := newApp(t, b, localstore.NewMemory(), nil)
	ctx := context.Background()
	lamp := withProduct(t, app)

	require.NoError(t, app.AddItem(lamp))
	online, err := app.PlaceOrder(ctx, testShipping())
	require.NoError(t, err)

	updated, err := app.UpdateOrderStatus(ctx, online.ID, "shipped")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, updated.Status)
	assert.Equal(t, models.OrderStatusShipped, app.Orders()[0].Status)

	_, err = app.UpdateOrderStatus(ctx, online.ID, "lost")
	assert.ErrorIs(t, err, models.ErrInvalidStatus)
	_, err = app.UpdateOrderStatus(ctx, "missing", "shipped")
	assert.ErrorIs(t, err, store.ErrNotFound)

	b.down.Store(true)
	require.NoError(t, app.AddItem(lamp))
	offline, err := app.PlaceOrder(ctx, testShipping())
	require.NoError(t, err)
	updated, err = app.UpdateOrderStatus(ctx, offline.ID, "delivered")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, updated.Status)
	assert.Equal(t, offline.Total, updated.Total)
	_, err = app.UpdateOrderStatus(ctx, "missing", "shipped")
	assert.ErrorIs(t, err, store.ErrNotFound)

	b.down.Store(false)
	_, err = app.Register(ctx, "Jane", "jane@x.com", "secret1")
	require.NoError(t, err)
	_, err = app.UpdateOrderStatus(ctx, online.ID, "delivered")
	assert.ErrorIs(t, err, auth.ErrForbidden)
}

func TestCatalog_AdminOnly(t *testing.T) {
	b := newBackend(t)
	app := newApp(t, b, localstore.NewMemory(), nil)
	ctx := context.Background()

	_, err := app.CreateProduct(ctx, lampInput())
	assert.ErrorIs(t, err, ErrMissingIdentity)

	_, err = app.Register(ctx, "Jane", "jane@x.com", "secret1")
	require.NoError(t, err)
	_, err = app.CreateProduct(ctx, lampInput())
	assert.ErrorIs(t, err, auth.ErrForbidden)
	assert.Empty(t, app.Products())
}

func TestCatalog_OfflineMutationsAndReconnect(t *testing.T) {
	b := newBackend(t)
	cache := localstore.NewMemory()
	app := newApp(t, b, cache, nil)
	ctx := context.Background()
	lamp := withProduct(t, app)

	b.down.Store(true)
	local, err := app.CreateProduct(ctx, models.ProductInput{
		Title: "Offline Mug", Price: 3, Description: "mug", Category: "kitchen", Image: "m.png",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RefLocal, local.Ref.Kind)
	assert.Equal(t, local.ID, local.Ref.ID)

	edit := lampInput()
	edit.Price = 99
	edited, err := app.UpdateProduct(ctx, lamp.Ref, edit)
	require.NoError(t, err)
	assert.Equal(t, 99.0, edited.Price)

	_, err = app.UpdateProduct(ctx, models.LocalRef("nope"), edit)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Restart while offline: the cached snapshot is the catalog.
	restarted := newApp(t, b, cache, staticSeed{{ID: "s", Title: "Seed"}})
	assert.Len(t, restarted.Products(), 2)

	// Reconnect: authoritative products win, local-only ones are kept.
	b.down.Store(false)
	products, err := restarted.LoadCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, lamp.Ref, products[0].Ref)
	assert.Equal(t, 10.0, products[0].Price)
	assert.Equal(t, local.Ref, products[1].Ref)

	require.NoError(t, restarted.DeleteProduct(ctx, local.Ref))
	require.NoError(t, restarted.DeleteProduct(ctx, lamp.Ref))
	assert.Empty(t, restarted.Products())
	products, err = restarted.LoadCatalog(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestCatalog_SeedFallback(t *testing.T) {
	b := newBackend(t)
	b.down.Store(true)
	seed := staticSeed{
		{ID: "1", Title: "Backpack", Price: 109.95, Category: "bags"},
		{ID: "2", Title: "T-Shirt", Price: 22.3, Category: "clothing"},
	}

	app := newApp(t, b, localstore.NewMemory(), seed)
	products := app.Products()
	require.Len(t, products, 2)
	assert.Equal(t, models.LocalRef("1"), products[0].Ref)
	assert.True(t, products[0].Seeded)
	assert.Equal(t, []string{"bags", "clothing"}, app.Categories())
	assert.Len(t, app.Filter(models.ProductQuery{Search: "shirt"}), 1)

	// Demo products never outlive a reachable backend.
	b.down.Store(false)
	products, err := app.LoadCatalog(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestCatalog_EmptyWhenNothingAvailable(t *testing.T) {
	b := newBackend(t)
	b.down.Store(true)

	assert.Empty(t, newApp(t, b, localstore.NewMemory(), failingSeed{}).Products())
	assert.Empty(t, newApp(t, b, localstore.NewMemory(), nil).Products())
}

func TestReviews_OfflineRecomputesRating(t *testing.T) {
	b := newBackend(t)
	app := newApp(t, b, localstore.NewMemory(), nil)
	ctx := context.Background()
	lamp := withProduct(t, app)

	_, err := app.AddReview(ctx, lamp.Ref, 4, "bright")
	require.NoError(t, err)

	b.down.Store(true)
	review, err := app.AddReview(ctx, lamp.Ref, 2, "flickers")
	require.NoError(t, err)
	assert.Equal(t, "Admin", review.AuthorName)
	got, _ := app.Product(lamp.Ref)
	assert.Equal(t, models.Rating{Average: 3, Count: 2}, got.Rating)

	list, err := app.RefreshReviews(ctx, lamp.Ref)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = app.AddReview(ctx, lamp.Ref, 9, "too good")
	assert.True(t, models.IsValidation(err))
	_, err = app.AddReview(ctx, models.LocalRef("nope"), 3, "hm")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, app.Logout())
	_, err = app.AddReview(ctx, lamp.Ref, 3, "hm")
	assert.ErrorIs(t, err, ErrMissingIdentity)
}

func TestNextRating(t *testing.T) {
	full := []models.Review{{Rating: 4}, {Rating: 2}}
	assert.Equal(t, models.Rating{Average: 3, Count: 2}, nextRating(models.Rating{Average: 4, Count: 1}, full))

	// Only the newest review is held locally; extend the known aggregate.
	partial := []models.Review{{Rating: 3}}
	assert.Equal(t, models.Rating{Average: 4, Count: 3}, nextRating(models.Rating{Average: 4.5, Count: 2}, partial))

	assert.Equal(t, models.Rating{Average: 5, Count: 1}, nextRating(models.Rating{}, []models.Review{{Rating: 5}}))
}

func TestSession_Restore(t *testing.T) {
	b := newBackend(t)
	cache := localstore.NewMemory()
	app := newApp(t, b, cache, nil)
	_, err := app.Register(context.Background(), "Jane", "jane@x.com", "secret1")
	require.NoError(t, err)

	restarted := newApp(t, b, cache, nil)
	user, ok := restarted.Identity()
	require.True(t, ok)
	assert.Equal(t, "jane@x.com", user.Email)

	b.down.Store(true)
	offline := newApp(t, b, cache, nil)
	_, ok = offline.Identity()
	assert.True(t, ok)
}

func TestSession_DropsExpiredAndRejectedTokens(t *testing.T) {
	b := newBackend(t)
	user := models.UserSummary{ID: "u1", Name: "Jane", Email: "jane@x.com", Role: models.RoleUser}

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "u1",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	cache := localstore.NewMemory()
	require.NoError(t, cache.Set(localstore.Session, Session{Token: expired, User: user}))
	app := newApp(t, b, cache, nil)
	_, ok := app.Identity()
	assert.False(t, ok)
	found, err := cache.Get(localstore.Session, &Session{})
	require.NoError(t, err)
	assert.False(t, found)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "u1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("someone-else"))
	require.NoError(t, err)

	cache = localstore.NewMemory()
	require.NoError(t, cache.Set(localstore.Session, Session{Token: forged, User: user}))
	app = newApp(t, b, cache, nil)
	_, ok = app.Identity()
	assert.False(t, ok)
}

func TestClose_PersistsEverything(t *testing.T) {
	b := newBackend(t)
	cache := localstore.NewMemory()
	app := newApp(t, b, cache, nil)
	lamp := withProduct(t, app)
	require.NoError(t, app.AddItem(lamp))
	require.NoError(t, app.Close())

	restarted := newApp(t, b, cache, nil)
	cart := restarted.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, lamp.Ref, cart[0].Ref)
}

func TestInit_ServerErrorFallsBackToLocalState(t *testing.T) {
	b := newBackend(t)
	cache := localstore.NewMemory()
	app := newApp(t, b, cache, nil)
	lamp := withProduct(t, app)

	// The API answers but its store is down.
	b.fail.Store(http.StatusInternalServerError)
	restarted := New(Options{
		Backend: client.New(b.url, 5*time.Second),
		Cache:   cache,
		Pricing: models.Pricing{Rate: 83, Currency: "INR"},
	})
	require.NoError(t, restarted.Init(context.Background()))

	products := restarted.Products()
	require.Len(t, products, 1)
	assert.Equal(t, lamp.Ref, products[0].Ref)
	user, ok := restarted.Identity()
	require.True(t, ok)
	assert.Equal(t, "admin@store.com", user.Email)

	mug, err := restarted.CreateProduct(context.Background(), models.ProductInput{
		Title: "Mug", Price: 3, Description: "mug", Category: "kitchen", Image: "m.png",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RefLocal, mug.Ref.Kind)
}

func TestInit_ServerErrorUsesSeed(t *testing.T) {
	b := newBackend(t)
	b.fail.Store(http.StatusInternalServerError)

	app := newApp(t, b, localstore.NewMemory(), staticSeed{{ID: "1", Title: "Backpack", Price: 109.95}})
	products := app.Products()
	require.Len(t, products, 1)
	assert.True(t, products[0].Seeded)
}

func TestInit_CancelledContext(t *testing.T) {
	b := newBackend(t)
	app := New(Options{Backend: client.New(b.url, 5*time.Second), Cache: localstore.NewMemory()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, app.Init(ctx), context.Canceled)
}

func TestReads_DoNotWaitForBackend(t *testing.T) {
	b := newBackend(t)
	app := newApp(t, b, localstore.NewMemory(), nil)
	lamp := withProduct(t, app)
	require.NoError(t, app.AddItem(lamp))

	s, release := b.hold(t)
	loaded := make(chan error, 1)
	go func() {
		_, err := app.LoadCatalog(context.Background())
		loaded <- err
	}()
	<-s.entered

	read := make(chan int, 1)
	go func() {
		if _, ok := app.Identity(); !ok {
			read <- -1
			return
		}
		_ = app.Products()
		_ = app.CartTotal()
		read <- app.CartCount()
	}()
	select {
	case count := <-read:
		assert.Equal(t, 1, count)
	case <-time.After(2 * time.Second):
		t.Error("reads blocked while a catalog load was in flight")
	}

	release()
	require.NoError(t, <-loaded)
}

func TestPlaceOrder_KeepsItemsAddedWhileInFlight(t *testing.T) {
	b := newBackend(t)
	app := newApp(t, b, localstore.NewMemory(), nil)
	ctx := context.Background()
	lamp := withProduct(t, app)
	mug, err := app.CreateProduct(ctx, models.ProductInput{
		Title: "Mug", Price: 3, Description: "mug", Category: "kitchen", Image: "m.png",
	})
	require.NoError(t, err)
	require.NoError(t, app.AddItem(lamp))

	s, release := b.hold(t)
	placed := make(chan error, 1)
	var order models.Order
	go func() {
		var err error
		order, err = app.PlaceOrder(ctx, testShipping())
		placed <- err
	}()
	<-s.entered

	added := make(chan error, 1)
	go func() { added <- app.AddItem(mug) }()
	select {
	case err := <-added:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("cart blocked while an order was in flight")
	}

	release()
	require.NoError(t, <-placed)
	require.Len(t, order.Items, 1)
	assert.Equal(t, lamp.ID, order.Items[0].ProductID)

	cart := app.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, mug.Ref, cart[0].Ref)
}

func TestWithoutLines(t *testing.T) {
	lamp := models.AuthoritativeRef("lamp")
	mug := models.AuthoritativeRef("mug")
	ordered := []LineItem{{Ref: lamp, Quantity: 2}}

	assert.Empty(t, withoutLines([]LineItem{{Ref: lamp, Quantity: 2}}, ordered))
	assert.Equal(t,
		[]LineItem{{Ref: lamp, Quantity: 1}, {Ref: mug, Quantity: 1}},
		withoutLines([]LineItem{{Ref: lamp, Quantity: 3}, {Ref: mug, Quantity: 1}}, ordered))
	assert.Empty(t, withoutLines([]LineItem{{Ref: lamp, Quantity: 1}}, ordered))
}
