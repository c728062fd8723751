package middlewares

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/ecommerce-promotions/internal/pkg/interceptors"
	"github.com/jcmexdev/ecommerce-promotions/internal/pkg/interceptors/constants"
)

// AttachTracingMetadata puts the request id assigned by middleware.RequestID
// and the caller's idempotency key on the request context and on outgoing
// gRPC metadata. It must run after middleware.RequestID.
func AttachTracingMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())
		idempotencyKey := r.Header.Get(constants.HeaderXIdempotencyKey)

		ctx := interceptors.WithRequestID(r.Context(), requestID)
		if idempotencyKey != "" {
			ctx = interceptors.WithIdempotencyKey(ctx, idempotencyKey)
		}
		ctx = interceptors.PropagateToOutgoing(ctx)

		w.Header().Set(middleware.RequestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
