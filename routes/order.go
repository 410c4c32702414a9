package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/junaidrashid-git/storefront/controllers/order"
	"github.com/junaidrashid-git/storefront/middleware"
)

func SetupOrderRoutes(api *gin.RouterGroup, d Deps) {
	orders := api.Group("/orders")
	orders.Use(middleware.Authenticate(d.Resolver))
	{
		// Create a new order from the posted items or the stored cart
		orders.POST("", orderControllers.PlaceOrderHandler(d.Store, d.Pricing, d.Hub))

		// Own order history and detail
		orders.GET("", orderControllers.GetUserOrdersHandler(d.Store))
		orders.GET("/:id", orderControllers.GetOrderByIDHandler(d.Store))

		// Update order status (admin)
		orders.PATCH("/:id/status", middleware.RequireAdmin, orderControllers.UpdateOrderStatusHandler(d.Store, d.Hub))
	}
}
