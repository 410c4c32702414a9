package commands

import (
	"context"
	"errors"
	"fmt"

	productcontroller "github.com/junaidrashid-git/storefront/controllers/product"
	"github.com/junaidrashid-git/storefront/seed"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill an empty catalog from the public demo store",
	Long: `Fetch the demo catalog (seed.url, fakestoreapi.com by default) and insert
it into the configured store. Nothing happens when the catalog already has products.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer st.Close()

	count, err := productcontroller.SeedIfEmpty(ctx, st, seed.NewFetcher(cfg.Seed.URL))
	if errors.Is(err, productcontroller.ErrAlreadySeeded) {
		fmt.Println("Products already seeded")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("Seeded %d products\n", count)
	return nil
}
