// Package telemetry wires structured logging and the OpenTelemetry SDK.
//
// Call SetupTracer once at the top of main(), defer the returned shutdown
// function, and every span created in the process is exported over OTLP.
//
//	shutdown, err := telemetry.SetupTracer(ctx, telemetry.TracerConfig{ServiceName: "pricing-service"})
//	if err != nil { ... }
//	defer shutdown(context.Background())
package telemetry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// ShutdownFunc flushes buffered spans and closes the exporter connection.
type ShutdownFunc func(ctx context.Context) error

type TracerConfig struct {
	ServiceName string
	// Endpoint is the collector host:port; an http(s):// prefix is stripped.
	Endpoint    string
	Environment string
	// SampleRatio in (0, 1) enables ratio sampling; anything else samples
	// every trace.
	SampleRatio float64
}

// SetupTracer installs the global TracerProvider and the W3C TraceContext +
// Baggage propagators.
//
// Lifecycle:
//  1. A gRPC client connection to the collector is created. grpc.NewClient
//     does not dial eagerly, so a collector that is down does not fail
//     startup; spans are dropped by the exporter until it comes up.
//  2. Spans are batched and flushed every 5s or when the batch is full.
//  3. The propagators make otelgrpc inject and extract traceparent on every
//     call, which is what joins the gateway and service spans into one trace.
//  4. ShutdownFunc flushes the pending batch, then closes the connection.
//     Call it with a fresh context; the one passed to main is usually done.
func SetupTracer(ctx context.Context, cfg TracerConfig) (ShutdownFunc, error) {
	endpoint := stripScheme(cfg.Endpoint)
	if endpoint == "" {
		endpoint = "localhost:4317"
	}

	conn, err := grpc.NewClient(endpoint, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("telemetry: dial collector at %s: %w", endpoint, err)
	}

	exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("telemetry: create OTLP trace exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("deployment.environment", cfg.Environment),
	))
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("telemetry: build resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SampleRatio)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return func(ctx context.Context) error {
		if err := tp.Shutdown(ctx); err != nil {
			return fmt.Errorf("telemetry: shut down tracer provider: %w", err)
		}
		return conn.Close()
	}, nil
}

func sampler(ratio float64) sdktrace.Sampler {
	if ratio > 0 && ratio < 1 {
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
	return sdktrace.AlwaysSample()
}

func stripScheme(endpoint string) string {
	for _, prefix := range []string{"http://", "https://"} {
		endpoint = strings.TrimPrefix(endpoint, prefix)
	}
	return endpoint
}
