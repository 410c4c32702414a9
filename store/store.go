// Package store defines the authoritative persistence contract of the API.
// Implementations live in sqlstore (gorm: postgres, mysql), mongostore and
// memstore.
package store

import (
	"context"
	"errors"

	"github.com/junaidrashid-git/storefront/models"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when the unique email constraint is violated.
	ErrDuplicateEmail = errors.New("email already registered")
)

type Users interface {
	CreateUser(ctx context.Context, u *models.User) error
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByID(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

type Products interface {
	ListProducts(ctx context.Context, q models.ProductQuery) ([]models.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	ProductByID(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	// UpdateProduct overwrites the writable fields of an existing product.
	UpdateProduct(ctx context.Context, id string, in models.ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	CountProducts(ctx context.Context) (int64, error)
	InsertProducts(ctx context.Context, ps []models.Product) error
}

type Carts interface {
	// CartByUser returns the user's cart, creating an empty one on first access.
	CartByUser(ctx context.Context, userID string) (*models.Cart, error)
	ReplaceCart(ctx context.Context, userID string, items []models.CartItem) (*models.Cart, error)
	ClearCart(ctx context.Context, userID string) error
}

type Orders interface {
	// PlaceOrder records the order and then empties the user's cart. The order
	// is durable before the cart is cleared.
	PlaceOrder(ctx context.Context, o *models.Order) error
	OrdersByUser(ctx context.Context, userID string) ([]models.Order, error)
	OrderForUser(ctx context.Context, id, userID string) (*models.Order, error)
	AllOrders(ctx context.Context) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error)
}

type Reviews interface {
	// AddReview appends r and recomputes the product rating in one step.
	// Readers never see one without the other.
	AddReview(ctx context.Context, r *models.Review) (*models.Product, error)
	ReviewsForProduct(ctx context.Context, productID string) ([]models.Review, error)
}

type Store interface {
	Users
	Products
	Carts
	Orders
	Reviews
	Ping(ctx context.Context) error
	Close() error
}
