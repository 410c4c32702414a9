package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/controllers/respond"
	"github.com/junaidrashid-git/storefront/store"
)

// GET /products/categories
func GetCategories(products store.Products) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := products.ListCategories(c.Request.Context())
		if err != nil {
			respond.Error(c, err, "", "Failed to fetch categories")
			return
		}
		if categories == nil {
			categories = []string{}
		}
		c.JSON(http.StatusOK, categories)
	}
}
