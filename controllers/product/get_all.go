package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/controllers/respond"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/store"
)

// GET /products?search=&category=&sort=
func GetProducts(products store.Products) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1️⃣ Filtering & sorting params
		q := models.ProductQuery{
			Search:   c.Query("search"),
			Category: c.Query("category"),
			Sort:     c.DefaultQuery("sort", models.SortNewest),
		}

		// 2️⃣ Query store
		list, err := products.ListProducts(c.Request.Context(), q)
		if err != nil {
			respond.Error(c, err, "Product not found", "Failed to fetch products")
			return
		}
		c.JSON(http.StatusOK, list)
	}
}
