// Package storetest is the behaviour every store.Store implementation must
// share. Each implementation runs it from its own tests.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises s. Open must return an empty store.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	t.Run("Users", func(t *testing.T) { testUsers(t, open(t)) })
	t.Run("Products", func(t *testing.T) { testProducts(t, open(t)) })
	t.Run("Carts", func(t *testing.T) { testCarts(t, open(t)) })
	t.Run("Orders", func(t *testing.T) { testOrders(t, open(t)) })
	t.Run("Reviews", func(t *testing.T) { testReviews(t, open(t)) })
}

func lamp() models.Product {
	return models.Product{Title: "Lamp", Price: 10, Description: "desk lamp", Category: "home", Image: "lamp.png"}
}

func testUsers(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.Ping(ctx))

	u := &models.User{Name: "Jane", Email: "Jane@X.com", PasswordDigest: "digest", Role: models.RoleUser}
	require.NoError(t, s.CreateUser(ctx, u))
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "jane@x.com", u.Email)

	dup := &models.User{Name: "Other", Email: "jane@x.com", PasswordDigest: "digest", Role: models.RoleUser}
	assert.ErrorIs(t, s.CreateUser(ctx, dup), store.ErrDuplicateEmail)

	byEmail, err := s.UserByEmail(ctx, "JANE@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Equal(t, "digest", byEmail.PasswordDigest)

	byID, err := s.UserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", byID.Name)

	_, err = s.UserByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.UserByID(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func testProducts(t *testing.T, s store.Store) {
	ctx := context.Background()

	count, err := s.CountProducts(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	p := lamp()
	require.NoError(t, s.CreateProduct(ctx, &p))
	assert.NotEmpty(t, p.ID)

	require.NoError(t, s.InsertProducts(ctx, []models.Product{
		{Title: "Kettle", Price: 25, Description: "steel kettle", Category: "kitchen", Image: "k.png"},
		{Title: "Mug", Price: 5, Description: "blue mug", Category: "kitchen", Image: "m.png"},
	}))
	count, err = s.CountProducts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	categories, err := s.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"home", "kitchen"}, categories)

	kitchen, err := s.ListProducts(ctx, models.ProductQuery{Category: "kitchen", Sort: models.SortPriceLow})
	require.NoError(t, err)
	require.Len(t, kitchen, 2)
	assert.Equal(t, "Mug", kitchen[0].Title)
	assert.Equal(t, "Kettle", kitchen[1].Title)

	found, err := s.ListProducts(ctx, models.ProductQuery{Search: "LAMP"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, p.ID, found[0].ID)

	in := p.Input()
	in.Price = 12.5
	updated, err := s.UpdateProduct(ctx, p.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 12.5, updated.Price)
	assert.Equal(t, p.ID, updated.ID)

	got, err := s.ProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 12.5, got.Price)

	_, err = s.UpdateProduct(ctx, "missing", in)
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.DeleteProduct(ctx, p.ID))
	_, err = s.ProductByID(ctx, p.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteProduct(ctx, p.ID), store.ErrNotFound)
}

func quantities(c *models.Cart) map[string]int {
	out := make(map[string]int, len(c.Items))
	for _, it := range c.Items {
		out[it.ProductID] = it.Quantity
	}
	return out
}

func testCarts(t *testing.T, s store.Store) {
	ctx := context.Background()

	cart, err := s.CartByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", cart.UserID)
	assert.Empty(t, cart.Items)

	items := []models.CartItem{
		{ProductID: "p1", Title: "Lamp", Price: 10, Quantity: 2},
		{ProductID: "p2", Title: "Mug", Price: 5, Quantity: 1},
	}
	cart, err = s.ReplaceCart(ctx, "u1", items)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"p1": 2, "p2": 1}, quantities(cart))

	cart, err = s.ReplaceCart(ctx, "u1", items[:1])
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"p1": 2}, quantities(cart))

	cart, err = s.CartByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"p1": 2}, quantities(cart))

	other, err := s.CartByUser(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, other.Items)

	require.NoError(t, s.ClearCart(ctx, "u1"))
	cart, err = s.CartByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func testOrders(t *testing.T, s store.Store) {
	ctx := context.Background()
	pricing := models.Pricing{Rate: 83, Currency: "INR"}
	shipping := models.ShippingInfo{
		FullName: "Jane Doe", Email: "jane@x.com", Phone: "9876543210",
		Address: "12 Market Road", City: "Kochi", ZipCode: "682001",
	}
	items := []models.CartItem{{ProductID: "p1", Title: "Lamp", Price: 10, Quantity: 2}}
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	_, err := s.ReplaceCart(ctx, "u1", items)
	require.NoError(t, err)

	first, err := models.NewOrder("", "u1", items, shipping, pricing, base)
	require.NoError(t, err)
	require.NoError(t, s.PlaceOrder(ctx, first))
	assert.NotEmpty(t, first.ID)

	cart, err := s.CartByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	second, err := models.NewOrder("", "u1", items, shipping, pricing, base.Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, s.PlaceOrder(ctx, second))
	third, err := models.NewOrder("", "u2", items, shipping, pricing, base.Add(2*time.Hour))
	require.NoError(t, err)
	require.NoError(t, s.PlaceOrder(ctx, third))

	mine, err := s.OrdersByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)
	require.Len(t, mine[0].Items, 1)
	assert.Equal(t, 2, mine[0].Items[0].Quantity)
	assert.Equal(t, 1660.0, mine[0].Total)
	assert.Equal(t, "Kochi", mine[0].Shipping.City)

	got, err := s.OrderForUser(ctx, first.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, got.Status)
	_, err = s.OrderForUser(ctx, first.ID, "u2")
	assert.ErrorIs(t, err, store.ErrNotFound)

	all, err := s.AllOrders(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, third.ID, all[0].ID)

	updated, err := s.UpdateOrderStatus(ctx, first.ID, models.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, updated.Status)
	assert.Equal(t, 1660.0, updated.Total)
	require.Len(t, updated.Items, 1)

	// Setting the status an order already has still finds the order.
	same, err := s.UpdateOrderStatus(ctx, second.ID, models.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, second.ID, same.ID)
	assert.Equal(t, models.OrderStatusConfirmed, same.Status)
	again, err := s.UpdateOrderStatus(ctx, first.ID, models.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, again.Status)

	_, err = s.UpdateOrderStatus(ctx, "missing", models.OrderStatusShipped)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testReviews(t *testing.T, s store.Store) {
	ctx := context.Background()
	p := lamp()
	require.NoError(t, s.CreateProduct(ctx, &p))
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	product, err := s.AddReview(ctx, &models.Review{ProductID: p.ID, UserID: "u1", AuthorName: "Jane", Rating: 4, Comment: "bright", CreatedAt: base})
	require.NoError(t, err)
	assert.Equal(t, models.Rating{Average: 4, Count: 1}, product.Rating)

	product, err = s.AddReview(ctx, &models.Review{ProductID: p.ID, UserID: "u2", AuthorName: "Sam", Rating: 2, Comment: "flickers", CreatedAt: base.Add(time.Minute)})
	require.NoError(t, err)
	assert.Equal(t, models.Rating{Average: 3, Count: 2}, product.Rating)

	stored, err := s.ProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, product.Rating, stored.Rating)

	reviews, err := s.ReviewsForProduct(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "bright", reviews[0].Comment)

	_, err = s.AddReview(ctx, &models.Review{ProductID: "missing", UserID: "u1", Rating: 3, Comment: "hm"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	none, err := s.ReviewsForProduct(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}
