package grpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/jcmexdev/ecommerce-promotions/internal/payment-service/domain"
	"github.com/jcmexdev/ecommerce-promotions/internal/pkg/grpcjson"
)

// Client calls a remote PaymentService.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) SaveGatewayConfig(ctx context.Context, cfg *domain.GatewayConfig) error {
	_, err := grpcjson.Invoke[SaveGatewayConfigResponse](ctx, c.cc, methodSaveGatewayConfig, cfg)
	return err
}

func (c *Client) GetGatewayConfig(ctx context.Context, name string) (*domain.GatewayConfig, error) {
	return grpcjson.Invoke[domain.GatewayConfig](ctx, c.cc, methodGetGatewayConfig, &GetGatewayConfigRequest{Name: name})
}

func (c *Client) CreatePaymentRequest(ctx context.Context, req *domain.PaymentRequest) (*domain.PaymentRequest, error) {
	return grpcjson.Invoke[domain.PaymentRequest](ctx, c.cc, methodCreatePaymentRequest, req)
}

func (c *Client) CompletePaymentRequest(ctx context.Context, req *CompletePaymentRequestRequest) (*domain.PaymentRequest, error) {
	return grpcjson.Invoke[domain.PaymentRequest](ctx, c.cc, methodCompletePaymentRequest, req)
}

func (c *Client) ListPaymentRequests(ctx context.Context, orderNumber string) ([]*domain.PaymentRequest, error) {
	resp, err := grpcjson.Invoke[ListPaymentRequestsResponse](ctx, c.cc, methodListPaymentRequests, &ListPaymentRequestsRequest{OrderNumber: orderNumber})
	if err != nil {
		return nil, err
	}
	return resp.PaymentRequests, nil
}
