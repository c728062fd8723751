package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jcmexdev/ecommerce-promotions/internal/api-gateway/infra/httpx/middlewares"
	"github.com/jcmexdev/ecommerce-promotions/internal/payment-service/domain"
	"github.com/jcmexdev/ecommerce-promotions/internal/pkg/cache"
	"github.com/jcmexdev/ecommerce-promotions/internal/pkg/interceptors"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/app"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/catalogpromotion"
)

type fakePricing struct {
	processCalls int
	lastRequest  *app.OrderPromotionsRequest
	lastReqID    string
	pricingErr   error
}

func (f *fakePricing) ProcessCatalog(ctx context.Context) (*catalogpromotion.Result, error) {
	f.processCalls++
	f.lastReqID = interceptors.RequestIDFromContext(ctx)
	return &catalogpromotion.Result{RunID: "run-1", Variants: 3}, nil
}

func (f *fakePricing) GetChannelPricing(_ context.Context, variantCode, channelCode string) (*app.ChannelPricingView, error) {
	if f.pricingErr != nil {
		return nil, f.pricingErr
	}
	return &app.ChannelPricingView{VariantCode: variantCode, ChannelCode: channelCode, Price: 800}, nil
}

func (f *fakePricing) ApplyOrderPromotions(_ context.Context, req *app.OrderPromotionsRequest) (*app.OrderPromotionsView, error) {
	f.lastRequest = req
	return &app.OrderPromotionsView{OrderNumber: req.OrderNumber, ChannelCode: req.ChannelCode, ItemsTotal: 1700}, nil
}

type fakePayment struct {
	configs  map[string]*domain.GatewayConfig
	requests []*domain.PaymentRequest
}

func newFakePayment() *fakePayment {
	return &fakePayment{configs: make(map[string]*domain.GatewayConfig)}
}

func (f *fakePayment) SaveGatewayConfig(_ context.Context, cfg *domain.GatewayConfig) error {
	f.configs[cfg.Name] = cfg
	return nil
}

func (f *fakePayment) GetGatewayConfig(_ context.Context, name string) (*domain.GatewayConfig, error) {
	cfg, ok := f.configs[name]
	if !ok {
		return nil, status.Error(codes.NotFound, "gateway config not found")
	}
	return cfg, nil
}

func (f *fakePayment) CreatePaymentRequest(_ context.Context, req *domain.PaymentRequest) (*domain.PaymentRequest, error) {
	req.ID = "pr-1"
	req.State = domain.StateNew
	f.requests = append(f.requests, req)
	return req, nil
}

func (f *fakePayment) ListPaymentRequests(_ context.Context, orderNumber string) ([]*domain.PaymentRequest, error) {
	var out []*domain.PaymentRequest
	for _, r := range f.requests {
		if r.OrderNumber == orderNumber {
			out = append(out, r)
		}
	}
	return out, nil
}

func newTestRouter(pricing *fakePricing, payment *fakePayment, c cache.Cache) http.Handler {
	return NewRouter(NewHandler(pricing, payment), c, time.Hour)
}

func do(t *testing.T, h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_ChannelPricing(t *testing.T) {
	pricing := &fakePricing{}
	h := newTestRouter(pricing, newFakePayment(), nil)

	rec := do(t, h, http.MethodGet, "/variants/MUG_BLUE/pricing/WEB", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var view app.ChannelPricingView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.Equal(t, "MUG_BLUE", view.VariantCode)
	assert.Equal(t, "WEB", view.ChannelCode)
	assert.Equal(t, int64(800), view.Price)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestHandler_MapsUpstreamErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", status.Error(codes.NotFound, "variant not found"), http.StatusNotFound},
		{"invalid argument", status.Error(codes.InvalidArgument, "bad"), http.StatusBadRequest},
		{"failed precondition", status.Error(codes.FailedPrecondition, "invalid action"), http.StatusConflict},
		{"unavailable", status.Error(codes.Unavailable, "down"), http.StatusServiceUnavailable},
		{"plain error", assert.AnError, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(&fakePricing{pricingErr: tt.err}, newFakePayment(), nil)
			rec := do(t, h, http.MethodGet, "/variants/MUG_BLUE/pricing/WEB", "", nil)
			assert.Equal(t, tt.want, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, "pricing_service_error", body.Error)
		})
	}
}

func TestHandler_ApplyOrderPromotions(t *testing.T) {
	pricing := &fakePricing{}
	h := newTestRouter(pricing, newFakePayment(), nil)

	body := `{"order_number":"000001","channel_code":"WEB","lines":[{"variant_code":"MUG_BLUE","quantity":2}],
		"promotions":[{"code":"ORDER_300","name":"300 off","actions":[{"type":"order_fixed_discount","configuration":{"amounts":{"WEB":300}}}]}]}`
	rec := do(t, h, http.MethodPost, "/orders/promotions", body, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, pricing.lastRequest)
	assert.Equal(t, "000001", pricing.lastRequest.OrderNumber)
	require.Len(t, pricing.lastRequest.Promotions, 1)
	assert.Equal(t, "ORDER_300", pricing.lastRequest.Promotions[0].Code)

	var view app.OrderPromotionsView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.Equal(t, int64(1700), view.ItemsTotal)
}

func TestHandler_ApplyOrderPromotionsValidation(t *testing.T) {
	h := newTestRouter(&fakePricing{}, newFakePayment(), nil)

	tests := []struct {
		name string
		body string
		code string
	}{
		{"malformed json", `{`, "invalid_json"},
		{"no lines", `{"channel_code":"WEB"}`, "invalid_request"},
		{"no channel", `{"lines":[{"variant_code":"MUG_BLUE","quantity":1}]}`, "invalid_request"},
		{"zero quantity", `{"channel_code":"WEB","lines":[{"variant_code":"MUG_BLUE","quantity":0}]}`, "invalid_line"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/orders/promotions", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.code, body.Error)
		})
	}
}

func TestHandler_GatewayConfigs(t *testing.T) {
	payment := newFakePayment()
	h := newTestRouter(&fakePricing{}, payment, nil)

	rec := do(t, h, http.MethodGet, "/gateway-configs/stripe", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPut, "/gateway-configs/stripe", `{"factory_name":"stripe_checkout","config":{"secret_key":"sk_test"}}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, payment.configs, "stripe")
	assert.Equal(t, "stripe_checkout", payment.configs["stripe"].FactoryName)

	rec = do(t, h, http.MethodGet, "/gateway-configs/stripe", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cfg domain.GatewayConfig
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&cfg))
	assert.Equal(t, "sk_test", cfg.Config["secret_key"])

	rec = do(t, h, http.MethodPut, "/gateway-configs/stripe", `{"config":{}}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_PaymentRequests(t *testing.T) {
	payment := newFakePayment()
	h := newTestRouter(&fakePricing{}, payment, nil)

	rec := do(t, h, http.MethodPost, "/payment-requests", `{"order_number":"000001","gateway_name":"stripe","action":"refund"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPost, "/payment-requests", `{"order_number":"000001","gateway_name":"stripe","action":"teleport"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/orders/000001/payment-requests", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []domain.PaymentRequest
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, domain.ActionRefund, list[0].Action)

	rec = do(t, h, http.MethodGet, "/orders/000002/payment-requests", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandler_IdempotentReplay(t *testing.T) {
	pricing := &fakePricing{}
	h := newTestRouter(pricing, newFakePayment(), cache.NewMemoryCache("api-gateway"))
	headers := map[string]string{"x-idempotency-key": "key-1"}

	first := do(t, h, http.MethodPost, "/catalog/reprocess", "", headers)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Empty(t, first.Header().Get(middlewares.HeaderIdempotentReplayed))

	second := do(t, h, http.MethodPost, "/catalog/reprocess", "", headers)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "true", second.Header().Get(middlewares.HeaderIdempotentReplayed))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, pricing.processCalls)

	do(t, h, http.MethodPost, "/catalog/reprocess", "", map[string]string{"x-idempotency-key": "key-2"})
	do(t, h, http.MethodPost, "/catalog/reprocess", "", nil)
	assert.Equal(t, 3, pricing.processCalls)
}

func TestHandler_PropagatesRequestID(t *testing.T) {
	pricing := &fakePricing{}
	h := newTestRouter(pricing, newFakePayment(), nil)

	rec := do(t, h, http.MethodPost, "/catalog/reprocess", "", map[string]string{"X-Request-Id": "req-42"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-42", pricing.lastReqID)
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-Id"))
}
