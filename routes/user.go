package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/junaidrashid-git/storefront/controllers/cart"
	productcontroller "github.com/junaidrashid-git/storefront/controllers/product"
	"github.com/junaidrashid-git/storefront/middleware"
)

// SetupProductRoutes registers “/products/*”. Reads are public, writes
// need an admin token and reviews a user token.
func SetupProductRoutes(api *gin.RouterGroup, d Deps) {
	authenticate := middleware.Authenticate(d.Resolver)

	products := api.Group("/products")
	{
		// ──────────────── Browse Products ────────────────
		products.GET("", productcontroller.GetProducts(d.Store))
		products.GET("/categories", productcontroller.GetCategories(d.Store))
		products.GET("/:id", productcontroller.GetProductByID(d.Store))

		// ──────────────── Reviews ────────────────
		products.GET("/:id/reviews", productcontroller.GetReviews(d.Store))
		products.POST("/:id/reviews", authenticate, productcontroller.AddReview(d.Store))

		// ──────────────── Product Management ────────────────
		products.POST("", authenticate, middleware.RequireAdmin, productcontroller.CreateProduct(d.Store))
		products.PUT("/:id", authenticate, middleware.RequireAdmin, productcontroller.UpdateProduct(d.Store))
		products.DELETE("/:id", authenticate, middleware.RequireAdmin, productcontroller.DeleteProduct(d.Store))
	}
}

// SetupUserRoutes registers “/cart”. Requires JWT middleware.
func SetupUserRoutes(api *gin.RouterGroup, d Deps) {
	cartGroup := api.Group("/cart")
	cartGroup.Use(middleware.Authenticate(d.Resolver))
	{
		cartGroup.GET("", cartControllers.GetCart(d.Store, d.Pricing))
		cartGroup.PUT("", cartControllers.UpdateCart(d.Store, d.Pricing))
		cartGroup.DELETE("", cartControllers.ClearCart(d.Store))
	}
}
