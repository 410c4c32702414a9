package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/controllers/respond"
	"github.com/junaidrashid-git/storefront/middleware"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/store"
)

// GET /products/:id/reviews, oldest first.
func GetReviews(reviews store.Reviews) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := reviews.ReviewsForProduct(c.Request.Context(), c.Param("id"))
		if err != nil {
			respond.Error(c, err, "Product not found", "Failed to fetch reviews")
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// POST /products/:id/reviews
// Responds with the stored review and the product carrying its new rating.
func AddReview(reviews store.Reviews) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		var input models.ReviewInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.BadRequest(c, err)
			return
		}
		if err := input.Validate(); err != nil {
			respond.Error(c, err, "", "Failed to add review")
			return
		}

		review := models.Review{
			ProductID:  c.Param("id"),
			UserID:     user.ID,
			AuthorName: user.Name,
			Rating:     input.Rating,
			Comment:    input.Comment,
		}
		product, err := reviews.AddReview(c.Request.Context(), &review)
		if err != nil {
			respond.Error(c, err, "Product not found", "Failed to add review")
			return
		}

		c.JSON(http.StatusCreated, gin.H{"review": review, "product": product})
	}
}
