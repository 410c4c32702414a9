package productcontroller

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/controllers/respond"
	"github.com/junaidrashid-git/storefront/store"
)

// DeleteProduct removes a product together with its reviews.
func DeleteProduct(products store.Products) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := products.DeleteProduct(c.Request.Context(), id); err != nil {
			respond.Error(c, err, "Product not found", "Failed to delete product")
			return
		}

		log.Printf("🗑️ Product deleted: %s", id)
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
