package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/junaidrashid-git/storefront/config"
	"github.com/junaidrashid-git/storefront/store"
	"github.com/junaidrashid-git/storefront/store/memstore"
	"github.com/junaidrashid-git/storefront/store/mongostore"
	"github.com/junaidrashid-git/storefront/store/sqlstore"
)

// openStore sets up the store selected by db.driver.
func openStore(ctx context.Context, cfg config.DBConfig) (store.Store, error) {
	switch cfg.Driver {
	case "postgres", "mysql":
		return sqlstore.Open(cfg.Driver, cfg.DSN)
	case "mongo":
		ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		return mongostore.Open(ctx, cfg.DSN, cfg.Name)
	case "memory":
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("unsupported db.driver %q", cfg.Driver)
	}
}
