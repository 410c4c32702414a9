package userControllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/auth"
	"github.com/junaidrashid-git/storefront/controllers/respond"
	"github.com/junaidrashid-git/storefront/middleware"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/store"
)

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /auth/register
func Register(resolver *auth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.BadRequest(c, err)
			return
		}

		session, err := resolver.Register(c.Request.Context(), input.Name, input.Email, input.Password)
		if err != nil {
			respond.Error(c, err, "", "Registration failed")
			return
		}

		log.Printf("✅ Registered %s as %s", session.User.Email, session.User.Role)
		c.JSON(http.StatusCreated, gin.H{
			"message": "User registered successfully",
			"token":   session.Token,
			"user":    session.User,
		})
	}
}

// POST /auth/login
func Login(resolver *auth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.BadRequest(c, err)
			return
		}

		session, err := resolver.Login(c.Request.Context(), input.Email, input.Password)
		if err != nil {
			respond.Error(c, err, "", "Login failed")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Login successful",
			"token":   session.Token,
			"user":    session.User,
		})
	}
}

// GET /auth/me
func GetMe(c *gin.Context) {
	user := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"user": user.Summary()})
}

// GET /admin/users
func GetAllUsers(users store.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := users.ListUsers(c.Request.Context())
		if err != nil {
			respond.Error(c, err, "", "Failed to fetch users")
			return
		}

		summaries := make([]models.UserSummary, 0, len(list))
		for _, u := range list {
			summaries = append(summaries, u.Summary())
		}
		c.JSON(http.StatusOK, summaries)
	}
}
