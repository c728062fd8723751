// Package grpcserver builds the instrumented gRPC servers and client
// connections shared by the services, and runs a server until its context
// is cancelled.
package grpcserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/jcmexdev/ecommerce-promotions/internal/pkg/interceptors"
)

// Server is a gRPC server with a health service reporting SERVING for every
// registered service name.
type Server struct {
	grpc   *grpc.Server
	health *health.Server
	logger *slog.Logger
}

func New(logger *slog.Logger, opts ...grpc.ServerOption) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	opts = append([]grpc.ServerOption{
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.UnaryInterceptor(interceptors.UnaryServerInterceptor(logger)),
	}, opts...)

	s := &Server{
		grpc:   grpc.NewServer(opts...),
		health: health.NewServer(),
		logger: logger,
	}
	healthpb.RegisterHealthServer(s.grpc, s.health)
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	return s
}

// Registrar is where service implementations are registered.
func (s *Server) Registrar() grpc.ServiceRegistrar {
	return s.grpc
}

// MarkServing reports serviceName as SERVING on the health service.
func (s *Server) MarkServing(serviceName string) {
	s.health.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	s.logger.InfoContext(ctx, "grpc server listening", "addr", lis.Addr().String())

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpc.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		s.health.Shutdown()
		s.grpc.GracefulStop()
		return serveResult(<-serveErr)
	case err := <-serveErr:
		return serveResult(err)
	}
}

func serveResult(err error) error {
	if err == nil || errors.Is(err, grpc.ErrServerStopped) {
		return nil
	}
	return fmt.Errorf("serve gRPC: %w", err)
}

// Dial opens an instrumented client connection to addr. The connection is
// lazy, so an unreachable addr only fails on the first call.
func Dial(addr string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithUnaryInterceptor(interceptors.UnaryClientInterceptor()),
	}, opts...)

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return conn, nil
}

// EnsureDir creates the parent directory of a database file.
func EnsureDir(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create storage dir: %w", err)
		}
	}
	return nil
}
