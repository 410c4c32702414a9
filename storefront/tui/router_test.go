package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/junaidrashid-git/storefront/auth"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/storefront"
	"github.com/junaidrashid-git/storefront/storefront/client"
	"github.com/junaidrashid-git/storefront/storefront/localstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// offline is a backend that is never reachable.
type offline struct{}

func (offline) Register(context.Context, string, string, string) (*auth.Session, error) {
	return nil, client.ErrTransportUnavailable
}
func (offline) Login(context.Context, string, string) (*auth.Session, error) {
	return nil, client.ErrTransportUnavailable
}
func (offline) Me(context.Context, string) (*models.UserSummary, error) {
	return nil, client.ErrTransportUnavailable
}
func (offline) ListProducts(context.Context, models.ProductQuery) ([]models.Product, error) {
	return nil, client.ErrTransportUnavailable
}
func (offline) CreateProduct(context.Context, string, models.ProductInput) (*models.Product, error) {
	return nil, client.ErrTransportUnavailable
}
func (offline) UpdateProduct(context.Context, string, string, models.ProductInput) (*models.Product, error) {
	return nil, client.ErrTransportUnavailable
}
func (offline) DeleteProduct(context.Context, string, string) error {
	return client.ErrTransportUnavailable
}
func (offline) PlaceOrder(context.Context, string, []models.CartItem, models.ShippingInfo) (*models.Order, error) {
	return nil, client.ErrTransportUnavailable
}
func (offline) Orders(context.Context, string) ([]models.Order, error) {
	return nil, client.ErrTransportUnavailable
}
func (offline) AllOrders(context.Context, string) ([]models.Order, error) {
	return nil, client.ErrTransportUnavailable
}
func (offline) UpdateOrderStatus(context.Context, string, string, models.OrderStatus) (*models.Order, error) {
	return nil, client.ErrTransportUnavailable
}
func (offline) AddReview(context.Context, string, string, models.ReviewInput) (*models.Review, *models.Product, error) {
	return nil, nil, client.ErrTransportUnavailable
}
func (offline) ListReviews(context.Context, string) ([]models.Review, error) {
	return nil, client.ErrTransportUnavailable
}

type seedList []models.Product

func (s seedList) Fetch(context.Context) ([]models.Product, error) { return s, nil }

func offlineApp(t *testing.T) *storefront.App {
	t.Helper()
	app := storefront.New(storefront.Options{
		Backend: offline{},
		Cache:   localstore.NewMemory(),
		Seed:    seedList{{ID: "1", Title: "Backpack", Price: 109.95, Category: "bags"}},
		Pricing: models.Pricing{Rate: 83, Currency: "INR"},
	})
	require.NoError(t, app.Init(context.Background()))
	return app
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		view       View
		signedIn   bool
		admin      bool
		hasProduct bool
		want       View
	}{
		{"catalog is public", ViewCatalog, false, false, false, ViewCatalog},
		{"product needs a selection", ViewProduct, false, false, false, ViewCatalog},
		{"product with a selection", ViewProduct, false, false, true, ViewProduct},
		{"cart signed out", ViewCart, false, false, false, ViewLogin},
		{"checkout signed out", ViewCheckout, false, false, false, ViewLogin},
		{"orders signed out", ViewOrders, false, false, false, ViewLogin},
		{"orders signed in", ViewOrders, true, false, false, ViewOrders},
		{"admin signed out", ViewAdmin, false, false, false, ViewLogin},
		{"admin as user", ViewAdmin, true, false, false, ViewCatalog},
		{"admin as admin", ViewAdmin, true, true, false, ViewAdmin},
		{"register is public", ViewRegister, false, false, false, ViewRegister},
		{"unknown view", View(42), true, true, true, ViewCatalog},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.view, tt.signedIn, tt.admin, tt.hasProduct))
		})
	}
}

func TestView_String(t *testing.T) {
	assert.Equal(t, "catalog", ViewCatalog.String())
	assert.Equal(t, "admin", ViewAdmin.String())
	assert.Equal(t, "view(42)", View(42).String())
}

func TestModel_Route(t *testing.T) {
	m := NewModel(offlineApp(t))

	assert.IsType(t, &catalogScreen{}, m.Route(ViewCatalog))
	assert.IsType(t, &cartScreen{}, m.Route(ViewCart))
	assert.IsType(t, &checkoutScreen{}, m.Route(ViewCheckout))
	assert.IsType(t, &ordersScreen{}, m.Route(ViewOrders))
	assert.IsType(t, &authScreen{}, m.Route(ViewLogin))
	assert.IsType(t, &authScreen{}, m.Route(ViewRegister))
	assert.IsType(t, &adminScreen{}, m.Route(ViewAdmin))
	// Without a selected product the detail view falls back to the catalog.
	assert.IsType(t, &catalogScreen{}, m.Route(ViewProduct))
}

func TestModel_NavigationRules(t *testing.T) {
	app := offlineApp(t)
	m := NewModel(app)
	assert.Equal(t, ViewCatalog, m.CurrentView())

	m = update(t, m, Navigate(ViewCart)())
	assert.Equal(t, ViewLogin, m.CurrentView())

	m = update(t, m, Navigate(ViewAdmin)())
	assert.Equal(t, ViewLogin, m.CurrentView())

	products := app.Products()
	require.Len(t, products, 1)
	m = update(t, m, ShowProduct(products[0])())
	assert.Equal(t, ViewProduct, m.CurrentView())
	assert.IsType(t, &productScreen{}, m.screen)
	assert.Contains(t, m.View(), "Backpack")
}

func TestModel_ReportsResults(t *testing.T) {
	m := NewModel(offlineApp(t))

	m = update(t, m, report("", storefront.ErrNotPermitted))
	assert.True(t, m.failed)
	assert.Contains(t, m.View(), "Sign in to use the cart")

	m = update(t, m, reportThen("Order placed", nil, ViewOrders))
	assert.False(t, m.failed)
	assert.Equal(t, "Order placed", m.status)
	assert.Equal(t, ViewLogin, m.CurrentView())
}

func TestModel_CtrlCQuits(t *testing.T) {
	m := NewModel(offlineApp(t))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "name required", describe(&models.ValidationError{Field: "name", Message: "name required"}))
	assert.Equal(t, "Cart is empty", describe(models.ErrEmptyCart))
	assert.Equal(t, "Invalid email or password", describe(&client.APIError{Status: 401, Message: "Invalid email or password"}))
	assert.Equal(t, "forbidden", describe(auth.ErrForbidden))
	assert.Equal(t, "boom", describe(errors.New("boom")))
}

func TestFormatting(t *testing.T) {
	p := models.Pricing{Rate: 83, Currency: "INR"}
	assert.Equal(t, "INR 830.00", price(p, 10))
	assert.Equal(t, "INR 1660.00", money(p, 1660))
	assert.Equal(t, "abcdefgh", shortID("abcdefgh-1234"))
	assert.Equal(t, "abc", shortID("abc"))
}

func TestNextStatus(t *testing.T) {
	assert.Equal(t, models.OrderStatusShipped, nextStatus(models.OrderStatusConfirmed))
	assert.Equal(t, models.OrderStatusPending, nextStatus(models.OrderStatusDelivered))
	assert.Equal(t, models.OrderStatusConfirmed, nextStatus("unknown"))
}
