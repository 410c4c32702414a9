package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/auth"
	orderControllers "github.com/junaidrashid-git/storefront/controllers/order"
	productcontroller "github.com/junaidrashid-git/storefront/controllers/product"
	"github.com/junaidrashid-git/storefront/media"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/store"
)

// Deps is everything the route table hands to the handlers.
type Deps struct {
	Store          store.Store
	Resolver       *auth.Resolver
	Pricing        models.Pricing
	Hub            *orderControllers.Hub
	Uploader       media.Uploader
	MaxUploadBytes int64
	Seed           productcontroller.CatalogSource
	SeedAPIKey     string
}

// SetupRoutes is the single entry‐point that wires every route group under /api.
func SetupRoutes(r *gin.Engine, d Deps) {
	api := r.Group("/api")

	// 1️⃣ Public Auth routes
	SetupAuthRoutes(api, d)

	// 2️⃣ Catalog (public reads, admin writes) and reviews
	SetupProductRoutes(api, d)

	// 3️⃣ Cart & orders (JWT‐protected)
	SetupUserRoutes(api, d)
	SetupOrderRoutes(api, d)

	// 4️⃣ Admin routes (JWT + admin role)
	SetupAdminRoutes(api, d)

	// 5️⃣ Seed (API‐Key‐protected) and health
	SetupSeedRoutes(api, d)
	api.GET("/health", Health(d.Store))
}

// Health reports liveness and whether the store answers a ping.
func Health(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status, code, storeState := "OK", http.StatusOK, "up"
		if err := st.Ping(ctx); err != nil {
			status, code, storeState = "DEGRADED", http.StatusServiceUnavailable, "down"
		}
		c.JSON(code, gin.H{
			"status":    status,
			"message":   "E-commerce API is running",
			"store":     storeState,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
