package commands

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/auth"
	"github.com/junaidrashid-git/storefront/config"
	orderControllers "github.com/junaidrashid-git/storefront/controllers/order"
	"github.com/junaidrashid-git/storefront/media"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/routes"
	"github.com/junaidrashid-git/storefront/seed"
	"github.com/junaidrashid-git/storefront/store"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the REST API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	log.Println("✅ Starting application...")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateServer(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer st.Close()

	uploader, err := newUploader(cfg.Media)
	if err != nil {
		return err
	}

	r := NewEngine(cfg, st, uploader)

	// Start backup routine at the configured hour, local uploads only
	if cfg.Media.Provider == "local" && cfg.Media.BackupDir != "" {
		backup := media.NewBackup(cfg.Media.UploadDir, cfg.Media.BackupDir, cfg.Media.BackupRetain, cfg.Media.BackupHour)
		go backup.Run(ctx)
	}

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("🚀 Server running on %s", cfg.Server.Addr)
	log.Printf("📡 API: http://localhost%s/api", cfg.Server.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Println("👋 Server stopped")
	return nil
}

// NewEngine builds the gin engine with CORS, static uploads and all routes.
func NewEngine(cfg *config.Config, st store.Store, uploader media.Uploader) *gin.Engine {
	r := gin.Default()
	r.MaxMultipartMemory = cfg.Media.MaxUploadBytes

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: !allowsAnyOrigin(cfg.Server.AllowOrigins),
		MaxAge:           12 * time.Hour,
	}))

	// Serve uploaded images
	if cfg.Media.Provider == "local" {
		r.Static(cfg.Media.PublicPath, cfg.Media.UploadDir)
	}

	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	routes.SetupRoutes(r, routes.Deps{
		Store:          st,
		Resolver:       auth.NewResolver(st, tokens, auth.Options{AdminEmail: cfg.Auth.AdminEmail, BcryptCost: cfg.Auth.BcryptCost}),
		Pricing:        models.Pricing{Rate: cfg.Currency.Rate, Currency: cfg.Currency.Code},
		Hub:            orderControllers.NewHub(),
		Uploader:       uploader,
		MaxUploadBytes: cfg.Media.MaxUploadBytes,
		Seed:           seed.NewFetcher(cfg.Seed.URL),
		SeedAPIKey:     cfg.Seed.APIKey,
	})
	return r
}

// Browsers refuse credentialed responses to a wildcard origin.
func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

func newUploader(cfg config.MediaConfig) (media.Uploader, error) {
	switch cfg.Provider {
	case "cloudinary":
		return media.NewCloudinary(cfg.CloudinaryURL, cfg.Folder)
	default:
		return media.NewLocal(cfg.UploadDir, cfg.PublicPath), nil
	}
}
