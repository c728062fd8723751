package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	runlogsqlite "github.com/jcmexdev/ecommerce-promotions/internal/coordinator/runlog/sqlite"
	"github.com/jcmexdev/ecommerce-promotions/internal/order-service/promotion"
	"github.com/jcmexdev/ecommerce-promotions/internal/pkg/config"
	"github.com/jcmexdev/ecommerce-promotions/internal/pkg/grpcserver"
	"github.com/jcmexdev/ecommerce-promotions/internal/pkg/telemetry"
	pricinggrpc "github.com/jcmexdev/ecommerce-promotions/internal/pricing/adapters/grpc"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/app"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/catalogpromotion"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/pricehistory"
	catalogsqlite "github.com/jcmexdev/ecommerce-promotions/internal/pricing/storage/sqlite"
)

func main() {
	if err := run(); err != nil {
		slog.Error("pricing service stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg config.PricingService
	if err := config.ParseEnv(&cfg); err != nil {
		return err
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "pricing-service"
	}
	logger := telemetry.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, telemetry.TracerConfig{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.OTLPEndpoint,
		Environment: cfg.Environment,
		SampleRatio: cfg.SampleRatio,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Error("tracer shutdown error", "error", err)
		}
	}()

	for _, path := range []string{cfg.DatabasePath, cfg.RunLogPath} {
		if err := grpcserver.EnsureDir(path); err != nil {
			return err
		}
	}
	store, err := catalogsqlite.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	runLog, err := runlogsqlite.Open(cfg.RunLogPath)
	if err != nil {
		return err
	}
	defer runLog.Close()

	processor := catalogpromotion.NewProcessor(
		store,
		catalogpromotion.NewCatalogPromotionApplicator(
			catalogpromotion.NewActionBasedDiscountApplicator(catalogpromotion.NewActionBasedPriceCalculator(), logger),
		),
		pricehistory.NewLogger(store, nil),
		pricehistory.NewLowestPriceProcessor(store, logger),
		catalogpromotion.WithRunLog(runLog),
		catalogpromotion.WithLogger(logger),
	)
	svc := app.NewService(store, processor, promotion.NewApplicator(logger), logger, app.WithMaxLineQuantity(cfg.MaxLineQuantity))

	if cfg.FixturePath != "" {
		if err := loadFixture(ctx, svc, cfg.FixturePath); err != nil {
			return err
		}
	}
	if cfg.ProcessOnStart {
		if _, err := svc.ProcessCatalog(ctx); err != nil {
			return fmt.Errorf("initial catalog run: %w", err)
		}
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return fmt.Errorf("listen on :%d: %w", cfg.Port, err)
	}

	srv := grpcserver.New(logger)
	pricinggrpc.Register(srv.Registrar(), pricinggrpc.NewServer(svc))
	srv.MarkServing(pricinggrpc.ServiceName)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Serve(gctx, lis) })
	if cfg.ReprocessInterval > 0 {
		g.Go(func() error { return reprocessEvery(gctx, svc, cfg.ReprocessInterval, logger) })
	}
	return g.Wait()
}

func loadFixture(ctx context.Context, svc *app.Service, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()

	fixture, err := app.ParseFixture(f)
	if err != nil {
		return err
	}
	return svc.LoadFixture(ctx, fixture)
}

// reprocessEvery re-applies catalog promotions on a fixed interval so that
// promotions starting or ending between runs take effect. A failed run is
// logged and retried on the next tick.
func reprocessEvery(ctx context.Context, svc *app.Service, interval time.Duration, logger *slog.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := svc.ProcessCatalog(ctx); err != nil {
				logger.ErrorContext(ctx, "scheduled catalog run failed", "error", err)
			}
		}
	}
}
