package routes

import (
	"github.com/gin-gonic/gin"
	adminController "github.com/junaidrashid-git/storefront/controllers/admin"
	orderControllers "github.com/junaidrashid-git/storefront/controllers/order"
	productcontroller "github.com/junaidrashid-git/storefront/controllers/product"
	userControllers "github.com/junaidrashid-git/storefront/controllers/user"
	"github.com/junaidrashid-git/storefront/middleware"
)

// SetupAdminRoutes registers all “/admin/*” endpoints. Requires an admin token.
func SetupAdminRoutes(api *gin.RouterGroup, d Deps) {
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.Authenticate(d.Resolver), middleware.RequireAdmin)
	{
		// ─────────── User Management ───────────
		adminGroup.GET("/users", userControllers.GetAllUsers(d.Store))

		// ─────────── Orders ───────────
		adminGroup.GET("/orders", orderControllers.GetAllOrdersHandler(d.Store))
		adminGroup.GET("/orders/ws", d.Hub.Handler)

		// ─────────── Product Spreadsheets ───────────
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.GET("/export", productcontroller.ExportProductsToExcel(d.Store))
			productAdmin.POST("/import", productcontroller.ImportProductsFromExcel(d.Store))
		}

		// ─────────── Images ───────────
		adminGroup.POST("/uploads", adminController.UploadImage(d.Uploader, d.MaxUploadBytes))
	}
}
