package productcontroller

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/controllers/respond"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/store"
)

// CreateProduct creates a product from a JSON body. The image is a URL,
// usually one returned by POST /admin/uploads.
func CreateProduct(products store.Products) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.BadRequest(c, err)
			return
		}
		if err := input.Validate(); err != nil {
			respond.Error(c, err, "", "Failed to create product")
			return
		}

		var product models.Product
		input.Apply(&product)
		if err := products.CreateProduct(c.Request.Context(), &product); err != nil {
			respond.Error(c, err, "Product not found", "Failed to create product")
			return
		}

		log.Printf("✅ Product created: %s (%s)", product.Title, product.ID)
		c.JSON(http.StatusCreated, product)
	}
}
