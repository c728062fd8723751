// Package interceptors carries request ids and idempotency keys across the
// HTTP gateway and the gRPC services.
package interceptors

import (
	"context"

	"google.golang.org/grpc/metadata"

	"github.com/jcmexdev/ecommerce-promotions/internal/pkg/interceptors/constants"
)

// WithRequestID stores id on ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, constants.ContextKeyRequestID, id)
}

// WithIdempotencyKey stores key on ctx.
func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, constants.ContextKeyIdempotencyKey, key)
}

// RequestIDFromContext returns the request id carried by ctx, looking at the
// context value first and then at incoming gRPC metadata.
func RequestIDFromContext(ctx context.Context) string {
	return valueFromContext(ctx, constants.ContextKeyRequestID, constants.HeaderXRequestID)
}

// IdempotencyKeyFromContext returns the idempotency key carried by ctx.
func IdempotencyKeyFromContext(ctx context.Context) string {
	return valueFromContext(ctx, constants.ContextKeyIdempotencyKey, constants.HeaderXIdempotencyKey)
}

func valueFromContext(ctx context.Context, key any, header string) string {
	if v, ok := ctx.Value(key).(string); ok && v != "" {
		return v
	}
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if vals := md.Get(header); len(vals) > 0 {
			return vals[0]
		}
	}
	return ""
}

// PropagateToOutgoing copies the request id and idempotency key of ctx into
// outgoing gRPC metadata.
func PropagateToOutgoing(ctx context.Context) context.Context {
	var kv []string
	if id := RequestIDFromContext(ctx); id != "" {
		kv = append(kv, constants.HeaderXRequestID, id)
	}
	if key := IdempotencyKeyFromContext(ctx); key != "" {
		kv = append(kv, constants.HeaderXIdempotencyKey, key)
	}
	if len(kv) == 0 {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, kv...)
}
