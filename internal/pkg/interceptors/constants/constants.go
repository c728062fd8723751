// Package constants holds the metadata keys shared by the HTTP gateway and
// the gRPC services.
package constants

type contextKey string

const (
	HeaderXRequestID      = "x-request-id"
	HeaderXIdempotencyKey = "x-idempotency-key"

	// ContextKeyRequestID is the context key for the request id.
	ContextKeyRequestID contextKey = HeaderXRequestID
	// ContextKeyIdempotencyKey is the context key for the idempotency key.
	ContextKeyIdempotencyKey contextKey = HeaderXIdempotencyKey
)
