package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/seed"
	"github.com/junaidrashid-git/storefront/storefront"
	"github.com/junaidrashid-git/storefront/storefront/client"
	"github.com/junaidrashid-git/storefront/storefront/localstore"
	"github.com/junaidrashid-git/storefront/storefront/tui"
	"github.com/spf13/cobra"
)

var shopCmd = &cobra.Command{
	Use:   "shop",
	Short: "Open the terminal storefront",
	Long: `Browse the catalog, manage a cart, check out and review products from the
terminal. Carts, orders, reviews and the last catalog are kept under
client.data_dir, so the shop keeps working while the API is unreachable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShop(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(shopCmd)
}

func runShop(ctx context.Context) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cache, err := localstore.Open(cfg.Client.DataDir)
	if err != nil {
		return err
	}

	// The alternate screen owns the terminal, so the standard logger goes to a file.
	logFile, err := tea.LogToFile(filepath.Join(cfg.Client.DataDir, "storefront.log"), "shop")
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	app := storefront.New(storefront.Options{
		Backend: client.New(cfg.Client.APIURL, cfg.Client.Timeout),
		Cache:   cache,
		Seed:    seed.NewFetcher(cfg.Seed.URL),
		Pricing: models.Pricing{Rate: cfg.Currency.Rate, Currency: cfg.Currency.Code},
	})
	if err := app.Init(ctx); err != nil {
		return fmt.Errorf("failed to start shop: %w", err)
	}
	defer func() {
		err = errors.Join(err, app.Close())
	}()

	return tui.Run(app)
}
