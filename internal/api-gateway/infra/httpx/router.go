package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/ecommerce-promotions/internal/api-gateway/infra/httpx/middlewares"
	"github.com/jcmexdev/ecommerce-promotions/internal/pkg/cache"
)

// NewRouter wires the HTTP routes. idempotencyCache may be nil, in which case
// idempotency keys are only forwarded and never replayed.
func NewRouter(handler *Handler, idempotencyCache cache.Cache, idempotencyTTL time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachTracingMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if idempotencyCache != nil {
		r.Use(middlewares.Idempotency(idempotencyCache, idempotencyTTL))
	}

	r.Post("/catalog/reprocess", handler.ReprocessCatalog)
	r.Get("/variants/{code}/pricing/{channel}", handler.GetChannelPricing)
	r.Post("/orders/promotions", handler.ApplyOrderPromotions)
	r.Get("/orders/{number}/payment-requests", handler.ListPaymentRequests)
	r.Post("/payment-requests", handler.CreatePaymentRequest)
	r.Put("/gateway-configs/{name}", handler.PutGatewayConfig)
	r.Get("/gateway-configs/{name}", handler.GetGatewayConfig)
	return r
}
