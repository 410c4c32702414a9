package commands

import (
	"fmt"
	"os"

	"github.com/junaidrashid-git/storefront/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	dbDriver string
	dbDSN    string
	apiURL   string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Storefront - REST shop backend and terminal client",
	Long: `Storefront runs a small e-commerce REST API and a terminal shop client
that keeps working from its local cache when the API is unreachable.

Commands:
  serve   - Run the REST API
  seed    - Fill an empty catalog from the public demo store
  shop    - Open the terminal storefront`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbDriver, "db-driver", "", "Store driver: postgres, mysql, mongo or memory (overrides db.driver)")
	rootCmd.PersistentFlags().StringVar(&dbDSN, "db", "", "Database connection string (overrides db.dsn)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "API base URL for the shop client (overrides client.api_url)")
}

// loadConfig reads configuration and applies the global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dbDriver != "" {
		cfg.DB.Driver = dbDriver
	}
	if dbDSN != "" {
		cfg.DB.DSN = dbDSN
	}
	if apiURL != "" {
		cfg.Client.APIURL = apiURL
	}
	return cfg, nil
}
