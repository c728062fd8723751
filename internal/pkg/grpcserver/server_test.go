package grpcserver

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

func TestServer_HealthAndGracefulStop(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	srv := New(nil)
	srv.MarkServing("pricing.v1.PricingService")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	conn, err := Dial("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
	)
	require.NoError(t, err)
	defer conn.Close()

	client := healthpb.NewHealthClient(conn)
	for _, name := range []string{"", "pricing.v1.PricingService"} {
		resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: name})
		require.NoError(t, err)
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestEnsureDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, EnsureDir(dir+"/nested/data/pricing.db"))
	assert.DirExists(t, dir+"/nested/data")
	require.NoError(t, EnsureDir("pricing.db"))
}
