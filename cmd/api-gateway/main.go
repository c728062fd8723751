package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jcmexdev/ecommerce-promotions/internal/api-gateway/infra/adapters/service"
	"github.com/jcmexdev/ecommerce-promotions/internal/api-gateway/infra/httpx"
	"github.com/jcmexdev/ecommerce-promotions/internal/pkg/cache"
	"github.com/jcmexdev/ecommerce-promotions/internal/pkg/config"
	"github.com/jcmexdev/ecommerce-promotions/internal/pkg/grpcserver"
	"github.com/jcmexdev/ecommerce-promotions/internal/pkg/telemetry"
)

func main() {
	if err := run(); err != nil {
		slog.Error("api gateway stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg config.APIGateway
	if err := config.ParseEnv(&cfg); err != nil {
		return err
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "api-gateway"
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

	pricingConn, err := grpcserver.Dial(cfg.PricingAddr)
	if err != nil {
		return err
	}
	defer pricingConn.Close()

	paymentConn, err := grpcserver.Dial(cfg.PaymentAddr)
	if err != nil {
		return err
	}
	defer paymentConn.Close()

	var idempotencyCache cache.Cache
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisCache(cfg.RedisAddr, "api-gateway")
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, idempotent replay degraded", "addr", cfg.RedisAddr, "error", err)
		}
		idempotencyCache = redisCache
	} else {
		logger.Info("REDIS_ADDR not set, using in-process idempotency cache")
		idempotencyCache = cache.NewMemoryCache("api-gateway")
	}

	handler := httpx.NewHandler(
		service.NewGRPCPricingService(pricingConn),
		service.NewGRPCPaymentService(paymentConn),
	)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           httpx.NewRouter(handler, idempotencyCache, cfg.IdempotencyTTL),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("api gateway listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
