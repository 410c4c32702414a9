package orderControllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/junaidrashid-git/storefront/controllers/respond"
	"github.com/junaidrashid-git/storefront/middleware"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/store"
)

// -------- Request Structs --------

// PlaceOrderRequest carries the cart snapshot to order. When Items is empty
// the caller's stored cart is used instead.
type PlaceOrderRequest struct {
	Items        []models.CartItem   `json:"items"`
	ShippingInfo models.ShippingInfo `json:"shipping_info"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderStore is the slice of the store that order placement needs.
type OrderStore interface {
	store.Carts
	store.Orders
}

// -------- Core Logic --------

// PlaceOrder snapshots the items into a confirmed order, records it and
// empties the user's cart. The order is written before the cart is cleared.
func PlaceOrder(ctx context.Context, st OrderStore, userID string, req PlaceOrderRequest, pricing models.Pricing) (*models.Order, error) {
	items := req.Items
	if len(items) == 0 {
		cart, err := st.CartByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		items = cart.Items
	}
	if err := models.ValidateItems(items); err != nil {
		return nil, err
	}

	order, err := models.NewOrder(uuid.NewString(), userID, models.NormalizeItems(items), req.ShippingInfo, pricing, time.Now())
	if err != nil {
		return nil, err
	}
	if err := st.PlaceOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// -------- Handlers --------

// Place order (user)
func PlaceOrderHandler(st OrderStore, pricing models.Pricing, hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.BadRequest(c, err)
			return
		}

		order, err := PlaceOrder(c.Request.Context(), st, user.ID, req, pricing)
		if err != nil {
			respond.Error(c, err, "Cart not found", "Failed to create order")
			return
		}

		log.Printf("🛒 Order %s placed by %s (total %.2f %s)", order.ID, user.Email, order.Total, order.Currency)
		hub.Broadcast(OrderEvent{Type: EventOrderCreated, Order: *order})
		c.JSON(http.StatusCreated, order)
	}
}

// GET /orders, most recent first
func GetUserOrdersHandler(orders store.Orders) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		list, err := orders.OrdersByUser(c.Request.Context(), user.ID)
		if err != nil {
			respond.Error(c, err, "Order not found", "Failed to fetch orders")
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// GET /orders/:id, scoped to the caller's own orders
func GetOrderByIDHandler(orders store.Orders) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		order, err := orders.OrderForUser(c.Request.Context(), c.Param("id"), user.ID)
		if err != nil {
			respond.Error(c, err, "Order not found", "Failed to fetch order")
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// GET /admin/orders
func GetAllOrdersHandler(orders store.Orders) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := orders.AllOrders(c.Request.Context())
		if err != nil {
			respond.Error(c, err, "Order not found", "Failed to fetch orders")
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// PATCH /orders/:id/status
func UpdateOrderStatusHandler(orders store.Orders, hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		newStatus, err := models.ParseOrderStatus(req.Status)
		if err != nil {
			respond.Error(c, err, "", "Failed to update order status")
			return
		}

		order, err := orders.UpdateOrderStatus(c.Request.Context(), c.Param("id"), newStatus)
		if err != nil {
			respond.Error(c, err, "Order not found", "Failed to update order status")
			return
		}

		hub.Broadcast(OrderEvent{Type: EventOrderStatus, Order: *order})
		c.JSON(http.StatusOK, order)
	}
}
