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

	paymentgrpc "github.com/jcmexdev/ecommerce-promotions/internal/payment-service/adapters/grpc"
	"github.com/jcmexdev/ecommerce-promotions/internal/payment-service/app"
	"github.com/jcmexdev/ecommerce-promotions/internal/payment-service/encryption"
	"github.com/jcmexdev/ecommerce-promotions/internal/payment-service/storage/sqlite"
	"github.com/jcmexdev/ecommerce-promotions/internal/pkg/config"
	"github.com/jcmexdev/ecommerce-promotions/internal/pkg/grpcserver"
	"github.com/jcmexdev/ecommerce-promotions/internal/pkg/telemetry"
)

func main() {
	if err := run(); err != nil {
		slog.Error("payment service stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg config.PaymentService
	if err := config.ParseEnv(&cfg); err != nil {
		return err
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "payment-service"
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

	encrypter, err := encryption.NewAESEncrypter([]byte(cfg.Secret))
	if err != nil {
		return err
	}

	if err := grpcserver.EnsureDir(cfg.DatabasePath); err != nil {
		return err
	}
	store, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	svc := app.NewService(store, encrypter, logger)

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return fmt.Errorf("listen on :%d: %w", cfg.Port, err)
	}

	srv := grpcserver.New(logger)
	paymentgrpc.Register(srv.Registrar(), paymentgrpc.NewServer(svc))
	srv.MarkServing(paymentgrpc.ServiceName)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Serve(gctx, lis) })
	return g.Wait()
}
