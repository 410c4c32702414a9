package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/controllers/respond"
	"github.com/junaidrashid-git/storefront/store"
)

// GetProductByID returns a single product.
// URL param: /products/:id
func GetProductByID(products store.Products) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := products.ProductByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respond.Error(c, err, "Product not found", "Failed to fetch product")
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
