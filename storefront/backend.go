package storefront

import (
	"context"

	"github.com/junaidrashid-git/storefront/auth"
	"github.com/junaidrashid-git/storefront/models"
)

// Backend is the authoritative store as seen from the client. Any method may
// fail with client.ErrTransportUnavailable, which is what the local
// fallbacks key on. *client.Client implements it.
type Backend interface {
	Register(ctx context.Context, name, email, password string) (*auth.Session, error)
	Login(ctx context.Context, email, password string) (*auth.Session, error)
	Me(ctx context.Context, token string) (*models.UserSummary, error)

	ListProducts(ctx context.Context, q models.ProductQuery) ([]models.Product, error)
	CreateProduct(ctx context.Context, token string, in models.ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, token, id string, in models.ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, token, id string) error

	PlaceOrder(ctx context.Context, token string, items []models.CartItem, shipping models.ShippingInfo) (*models.Order, error)
	Orders(ctx context.Context, token string) ([]models.Order, error)
	AllOrders(ctx context.Context, token string) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, token, id string, status models.OrderStatus) (*models.Order, error)

	AddReview(ctx context.Context, token, productID string, in models.ReviewInput) (*models.Review, *models.Product, error)
	ListReviews(ctx context.Context, productID string) ([]models.Review, error)
}

// SeedSource provides the public demo catalog used when neither the backend
// nor the local cache has products. *seed.Fetcher implements it.
type SeedSource interface {
	Fetch(ctx context.Context) ([]models.Product, error)
}
