package httpx

import "github.com/jcmexdev/ecommerce-promotions/internal/payment-service/domain"

type GatewayConfigRequest struct {
	FactoryName string         `json:"factory_name"`
	Config      map[string]any `json:"config"`
}

type CreatePaymentRequestRequest struct {
	OrderNumber  string                      `json:"order_number"`
	GatewayName  string                      `json:"gateway_name"`
	Action       domain.PaymentRequestAction `json:"action"`
	Amount       int64                       `json:"amount"`
	CurrencyCode string                      `json:"currency_code"`
	Payload      any                         `json:"payload,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
