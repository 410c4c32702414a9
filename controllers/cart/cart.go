package cartControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/controllers/respond"
	"github.com/junaidrashid-git/storefront/middleware"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/store"
)

type UpdateCartInput struct {
	Items []models.CartItem `json:"items"`
}

// CartResponse is the stored cart plus its derived totals in the display currency.
type CartResponse struct {
	*models.Cart
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
	Currency string  `json:"currency"`
}

func NewCartResponse(cart *models.Cart, pricing models.Pricing) CartResponse {
	return CartResponse{
		Cart:     cart,
		Total:    models.CartTotal(cart.Items, pricing.Rate),
		Count:    models.CartCount(cart.Items),
		Currency: pricing.Currency,
	}
}

// GET /cart
func GetCart(carts store.Carts, pricing models.Pricing) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		cart, err := carts.CartByUser(c.Request.Context(), user.ID)
		if err != nil {
			respond.Error(c, err, "Cart not found", "Failed to fetch cart")
			return
		}
		c.JSON(http.StatusOK, NewCartResponse(cart, pricing))
	}
}

// PUT /cart replaces the whole cart. Duplicate lines are merged and lines
// with quantity <= 0 dropped.
func UpdateCart(carts store.Carts, pricing models.Pricing) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		var input UpdateCartInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.BadRequest(c, err)
			return
		}
		if err := models.ValidateItems(input.Items); err != nil {
			respond.Error(c, err, "", "Failed to update cart")
			return
		}

		cart, err := carts.ReplaceCart(c.Request.Context(), user.ID, models.NormalizeItems(input.Items))
		if err != nil {
			respond.Error(c, err, "Cart not found", "Failed to update cart")
			return
		}
		c.JSON(http.StatusOK, NewCartResponse(cart, pricing))
	}
}

// DELETE /cart
func ClearCart(carts store.Carts) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if err := carts.ClearCart(c.Request.Context(), user.ID); err != nil {
			respond.Error(c, err, "Cart not found", "Failed to clear cart")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}
