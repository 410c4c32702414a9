package routes

import (
	"github.com/gin-gonic/gin"
	productcontroller "github.com/junaidrashid-git/storefront/controllers/product"
	userControllers "github.com/junaidrashid-git/storefront/controllers/user"
	"github.com/junaidrashid-git/storefront/middleware"
)

// SetupAuthRoutes registers all “/auth/*” endpoints.
func SetupAuthRoutes(api *gin.RouterGroup, d Deps) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", userControllers.Register(d.Resolver))
		authGroup.POST("/login", userControllers.Login(d.Resolver))
		authGroup.GET("/me", middleware.Authenticate(d.Resolver), userControllers.GetMe)
	}
}

// SetupSeedRoutes registers “/seed/*”. Requires the X-API-KEY header.
func SetupSeedRoutes(api *gin.RouterGroup, d Deps) {
	seedGroup := api.Group("/seed")
	seedGroup.Use(middleware.ValidateAPIKey(d.SeedAPIKey))
	{
		seedGroup.POST("/products", productcontroller.SeedProducts(d.Store, d.Seed))
	}
}
