package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/controllers/respond"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/store"
)

// UpdateProduct replaces the writable fields of an existing product by ID.
func UpdateProduct(products store.Products) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.BadRequest(c, err)
			return
		}
		if err := input.Validate(); err != nil {
			respond.Error(c, err, "", "Failed to update product")
			return
		}

		product, err := products.UpdateProduct(c.Request.Context(), c.Param("id"), input)
		if err != nil {
			respond.Error(c, err, "Product not found", "Failed to update product")
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
