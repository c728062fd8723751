package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jcmexdev/ecommerce-promotions/internal/api-gateway/core/ports"
	"github.com/jcmexdev/ecommerce-promotions/internal/payment-service/domain"
	"github.com/jcmexdev/ecommerce-promotions/internal/pkg/interceptors"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/app"
)

// Handler serves the public HTTP API in front of the pricing and payment
// services.
type Handler struct {
	pricing ports.PricingService
	payment ports.PaymentService
}

func NewHandler(pricing ports.PricingService, payment ports.PaymentService) *Handler {
	return &Handler{pricing: pricing, payment: payment}
}

// ReprocessCatalog re-applies every active catalog promotion.
func (h *Handler) ReprocessCatalog(w http.ResponseWriter, r *http.Request) {
	slog.InfoContext(r.Context(), "reprocessing catalog promotions", "request_id", interceptors.RequestIDFromContext(r.Context()))

	res, err := h.pricing.ProcessCatalog(r.Context())
	if err != nil {
		writeServiceError(w, r, "pricing_service_error", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) GetChannelPricing(w http.ResponseWriter, r *http.Request) {
	variantCode := chi.URLParam(r, "code")
	channelCode := chi.URLParam(r, "channel")

	view, err := h.pricing.GetChannelPricing(r.Context(), variantCode, channelCode)
	if err != nil {
		writeServiceError(w, r, "pricing_service_error", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ApplyOrderPromotions prices an order and applies the given order
// promotions to it. Nothing is persisted.
func (h *Handler) ApplyOrderPromotions(w http.ResponseWriter, r *http.Request) {
	var req app.OrderPromotionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.ChannelCode == "" || len(req.Lines) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "channel_code and lines are required")
		return
	}
	for _, line := range req.Lines {
		if line.VariantCode == "" || line.Quantity <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_line", "variant_code and quantity must be valid")
			return
		}
	}

	view, err := h.pricing.ApplyOrderPromotions(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, "pricing_service_error", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) PutGatewayConfig(w http.ResponseWriter, r *http.Request) {
	var req GatewayConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.FactoryName == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "factory_name is required")
		return
	}

	cfg := &domain.GatewayConfig{
		Name:        chi.URLParam(r, "name"),
		FactoryName: req.FactoryName,
		Config:      req.Config,
	}
	if err := h.payment.SaveGatewayConfig(r.Context(), cfg); err != nil {
		writeServiceError(w, r, "payment_service_error", err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (h *Handler) GetGatewayConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.payment.GetGatewayConfig(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeServiceError(w, r, "payment_service_error", err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (h *Handler) CreatePaymentRequest(w http.ResponseWriter, r *http.Request) {
	var req CreatePaymentRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.OrderNumber == "" || req.GatewayName == "" || !req.Action.Valid() {
		writeError(w, http.StatusBadRequest, "invalid_request", "order_number, gateway_name and a valid action are required")
		return
	}

	created, err := h.payment.CreatePaymentRequest(r.Context(), &domain.PaymentRequest{
		OrderNumber:  req.OrderNumber,
		GatewayName:  req.GatewayName,
		Action:       req.Action,
		Amount:       req.Amount,
		CurrencyCode: req.CurrencyCode,
		Payload:      req.Payload,
	})
	if err != nil {
		writeServiceError(w, r, "payment_service_error", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) ListPaymentRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.payment.ListPaymentRequests(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		writeServiceError(w, r, "payment_service_error", err)
		return
	}
	if requests == nil {
		requests = []*domain.PaymentRequest{}
	}
	writeJSON(w, http.StatusOK, requests)
}

// httpStatus maps the gRPC status carried by err to an HTTP status.
func httpStatus(err error) int {
	switch status.Code(err) {
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.NotFound:
		return http.StatusNotFound
	case codes.FailedPrecondition:
		return http.StatusConflict
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, code string, err error) {
	httpCode := httpStatus(err)
	if httpCode >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "upstream call failed", "path", r.URL.Path, "error", err)
	}
	msg := err.Error()
	if st, ok := status.FromError(err); ok {
		msg = st.Message()
	}
	writeError(w, httpCode, code, msg)
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, statusCode int, code, msg string) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
