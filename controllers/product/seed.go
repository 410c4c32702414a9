package productcontroller

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/controllers/respond"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/store"
)

// CatalogSource yields the products used to seed an empty catalog.
type CatalogSource interface {
	Fetch(ctx context.Context) ([]models.Product, error)
}

// POST /seed/products
func SeedProducts(products store.Products, source CatalogSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := SeedIfEmpty(c.Request.Context(), products, source)
		if errors.Is(err, ErrAlreadySeeded) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Products already seeded"})
			return
		}
		if err != nil {
			respond.Error(c, err, "", "Failed to seed products")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Products seeded successfully", "count": count})
	}
}

var ErrAlreadySeeded = errors.New("products already seeded")

// SeedIfEmpty inserts the source catalog with fresh ids when the store has
// no products. It is shared by the HTTP route and the seed command.
func SeedIfEmpty(ctx context.Context, products store.Products, source CatalogSource) (int, error) {
	count, err := products.CountProducts(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, ErrAlreadySeeded
	}

	list, err := source.Fetch(ctx)
	if err != nil {
		return 0, err
	}
	for i := range list {
		list[i].ID = ""
	}
	if err := products.InsertProducts(ctx, list); err != nil {
		return 0, err
	}
	log.Printf("🌱 Seeded %d products", len(list))
	return len(list), nil
}
