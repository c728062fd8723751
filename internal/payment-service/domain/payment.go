// Package domain holds payment gateway configurations and payment requests.
package domain

import (
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// GatewayConfig is the configuration of one payment gateway. Config values
// hold credentials and are stored encrypted.
type GatewayConfig struct {
	Name        string         `json:"name"`
	FactoryName string         `json:"factory_name"`
	Config      map[string]any `json:"config"`
}

type PaymentRequestAction string

const (
	ActionAuthorize PaymentRequestAction = "authorize"
	ActionCapture   PaymentRequestAction = "capture"
	ActionRefund    PaymentRequestAction = "refund"
	ActionStatus    PaymentRequestAction = "status"
)

type PaymentRequestState string

const (
	StateNew        PaymentRequestState = "new"
	StateProcessing PaymentRequestState = "processing"
	StateCompleted  PaymentRequestState = "completed"
	StateFailed     PaymentRequestState = "failed"
	StateCancelled  PaymentRequestState = "cancelled"
)

// PaymentRequest is one request sent to a payment gateway. Payload is what
// the shop sent and ResponseData what the gateway answered; both are stored
// encrypted.
type PaymentRequest struct {
	ID           string               `json:"id"`
	OrderNumber  string               `json:"order_number"`
	GatewayName  string               `json:"gateway_name"`
	Action       PaymentRequestAction `json:"action"`
	State        PaymentRequestState  `json:"state"`
	Amount       int64                `json:"amount"`
	CurrencyCode string               `json:"currency_code"`
	Payload      any                  `json:"payload,omitempty"`
	ResponseData map[string]any       `json:"response_data,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

func (a PaymentRequestAction) Valid() bool {
	switch a {
	case ActionAuthorize, ActionCapture, ActionRefund, ActionStatus:
		return true
	}
	return false
}
