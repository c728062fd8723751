// Package cli implements the catalog-promotion command line tool: it loads a
// YAML catalog, runs the catalog promotion processor over it and prints the
// resulting prices or the promotions applied to an order.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jcmexdev/ecommerce-promotions/internal/order-service/promotion"
	"github.com/jcmexdev/ecommerce-promotions/internal/pkg/telemetry"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/app"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/catalogpromotion"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/pricehistory"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/storage/memory"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/storage/sqlite"
)

type options struct {
	fixture  string
	dbPath   string
	jsonOut  bool
	logLevel string
}

// NewRootCommand returns the catalog-promotion command. Results are written
// to out; logs go to stderr.
func NewRootCommand(out io.Writer) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "catalog-promotion",
		Short: "Apply catalog and order promotions to a YAML catalog",
		Long: `Load a catalog from a YAML fixture, apply every active catalog promotion
and print the resulting channel prices.

Examples:
  catalog-promotion process -f catalog.yaml
  catalog-promotion process -f catalog.yaml --db data/pricing.db --json
  catalog-promotion order -f catalog.yaml --channel WEB --line MUG_BLUE=2 --line HAT_RED=1`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.fixture, "fixture", "f", "", "YAML catalog fixture")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite catalog database (in-memory when empty)")
	root.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "print JSON instead of a table")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	_ = root.MarkPersistentFlagRequired("fixture")

	root.AddCommand(newProcessCommand(opts, out), newOrderCommand(opts, out))
	return root
}

// session is a loaded and processed catalog.
type session struct {
	svc     *app.Service
	fixture *app.Fixture
	result  *catalogpromotion.Result
	close   func() error
}

func openSession(ctx context.Context, opts *options) (*session, error) {
	logger := telemetry.NewLogger(os.Stderr, opts.logLevel)

	f, err := os.Open(opts.fixture)
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	fixture, err := app.ParseFixture(f)
	f.Close()
	if err != nil {
		return nil, err
	}

	var (
		catalog app.Catalog
		history pricehistory.Repository
		closeFn = func() error { return nil }
	)
	if opts.dbPath != "" {
		store, err := sqlite.Open(opts.dbPath)
		if err != nil {
			return nil, err
		}
		catalog, history, closeFn = store, store, store.Close
	} else {
		catalog, history = memory.NewCatalog(), pricehistory.NewMemoryRepository()
	}

	processor := catalogpromotion.NewProcessor(
		catalog,
		catalogpromotion.NewCatalogPromotionApplicator(
			catalogpromotion.NewActionBasedDiscountApplicator(catalogpromotion.NewActionBasedPriceCalculator(), logger),
		),
		pricehistory.NewLogger(history, nil),
		pricehistory.NewLowestPriceProcessor(history, logger),
		catalogpromotion.WithLogger(logger),
	)
	svc := app.NewService(catalog, processor, promotion.NewApplicator(logger), logger)

	if err := svc.LoadFixture(ctx, fixture); err != nil {
		_ = closeFn()
		return nil, err
	}
	result, err := svc.ProcessCatalog(ctx)
	if err != nil {
		_ = closeFn()
		return nil, err
	}
	return &session{svc: svc, fixture: fixture, result: result, close: closeFn}, nil
}
