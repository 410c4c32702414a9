package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/auth"
	orderControllers "github.com/junaidrashid-git/storefront/controllers/order"
	"github.com/junaidrashid-git/storefront/media"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/routes"
	"github.com/junaidrashid-git/storefront/store"
	"github.com/junaidrashid-git/storefront/store/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	st := memstore.New()
	r := gin.New()
	routes.SetupRoutes(r, routes.Deps{
		Store:    st,
		Resolver: auth.NewResolver(st, auth.NewTokens("test-secret", time.Hour), auth.Options{AdminEmail: "admin@store.com", BcryptCost: bcrypt.MinCost}),
		Pricing:  models.Pricing{Rate: 83, Currency: "INR"},
		Hub:      orderControllers.NewHub(),
		Uploader: media.NewLocal(t.TempDir(), "/uploads"),
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_AgainstAPI(t *testing.T) {
	srv := newAPIServer(t)
	c := New(srv.URL+"/api/", 5*time.Second)
	ctx := context.Background()

	admin, err := c.Register(ctx, "Admin", "admin@store.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.User.Role)

	jane, err := c.Register(ctx, "Jane", "jane@x.com", "secret1")
	require.NoError(t, err)

	_, err = c.Register(ctx, "Jane", "JANE@x.com", "secret1")
	assert.ErrorIs(t, err, store.ErrDuplicateEmail)

	_, err = c.Login(ctx, "jane@x.com", "wrong12")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	me, err := c.Me(ctx, jane.Token)
	require.NoError(t, err)
	assert.Equal(t, "Jane", me.Name)

	_, err = c.Me(ctx, "bogus")
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)

	in := models.ProductInput{Title: "Lamp", Price: 10, Description: "desk lamp", Category: "home", Image: "lamp.png"}
	_, err = c.CreateProduct(ctx, jane.Token, in)
	assert.ErrorIs(t, err, auth.ErrForbidden)

	in.Price = -1
	_, err = c.CreateProduct(ctx, admin.Token, in)
	var v *models.ValidationError
	require.ErrorAs(t, err, &v)
	assert.Equal(t, "price", v.Field)

	in.Price = 10
	p, err := c.CreateProduct(ctx, admin.Token, in)
	require.NoError(t, err)

	list, err := c.ListProducts(ctx, models.ProductQuery{Search: "lamp"})
	require.NoError(t, err)
	require.Len(t, list, 1)

	items := []models.CartItem{{ProductID: p.ID, Title: p.Title, Price: p.Price, Quantity: 2}}
	order, err := c.PlaceOrder(ctx, jane.Token, items, models.ShippingInfo{
		FullName: "Jane", Email: "jane@x.com", Phone: "9876543210", Address: "1 Road", City: "Kochi", ZipCode: "682001",
	})
	require.NoError(t, err)
	assert.Equal(t, 1660.0, order.Total)

	_, err = c.UpdateOrderStatus(ctx, admin.Token, order.ID, "lost")
	assert.ErrorIs(t, err, models.ErrInvalidStatus)
	updated, err := c.UpdateOrderStatus(ctx, admin.Token, order.ID, models.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, updated.Status)

	review, product, err := c.AddReview(ctx, jane.Token, p.ID, models.ReviewInput{Rating: 4, Comment: "good"})
	require.NoError(t, err)
	assert.Equal(t, 4, review.Rating)
	assert.Equal(t, models.Rating{Average: 4, Count: 1}, product.Rating)

	reviews, err := c.ListReviews(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)

	require.NoError(t, c.DeleteProduct(ctx, admin.Token, p.ID))
	err = c.DeleteProduct(ctx, admin.Token, p.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.False(t, IsUnavailable(err))
}

func TestClient_TransportUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url, time.Second).ListProducts(context.Background(), models.ProductQuery{})
	assert.True(t, IsTransport(err))
}

func TestClient_GatewayStatusIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).ListProducts(context.Background(), models.ProductQuery{})
	assert.True(t, IsTransport(err))
}

func TestClient_InternalErrorIsNotTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to fetch products"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).ListProducts(context.Background(), models.ProductQuery{})
	require.Error(t, err)
	assert.False(t, IsTransport(err))
	assert.True(t, IsUnavailable(err))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "Failed to fetch products", apiErr.Message)
}

func TestClient_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(srv.URL, time.Second).ListProducts(ctx, models.ProductQuery{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, IsTransport(err))
	assert.False(t, IsUnavailable(err))
}
