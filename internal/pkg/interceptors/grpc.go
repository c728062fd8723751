package interceptors

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// UnaryServerInterceptor moves the request id and idempotency key from
// incoming metadata onto the context, minting a request id when the caller
// sent none, and logs every call.
func UnaryServerInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		requestID := RequestIDFromContext(ctx)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		idempotencyKey := IdempotencyKeyFromContext(ctx)

		ctx = WithRequestID(ctx, requestID)
		ctx = WithIdempotencyKey(ctx, idempotencyKey)

		start := time.Now()
		resp, err := handler(ctx, req)
		logger.InfoContext(ctx, "grpc call",
			"method", info.FullMethod,
			"request_id", requestID,
			"idempotency_key", idempotencyKey,
			"code", status.Code(err).String(),
			"duration", time.Since(start),
		)
		return resp, err
	}
}

// UnaryClientInterceptor forwards the request id and idempotency key of the
// calling context to the server.
func UnaryClientInterceptor() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		return invoker(PropagateToOutgoing(ctx), method, req, reply, cc, opts...)
	}
}
