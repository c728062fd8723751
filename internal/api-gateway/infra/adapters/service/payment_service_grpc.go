package service

import (
	"context"
	"fmt"

	"google.golang.org/grpc"

	"github.com/jcmexdev/ecommerce-promotions/internal/api-gateway/core/ports"
	paymentgrpc "github.com/jcmexdev/ecommerce-promotions/internal/payment-service/adapters/grpc"
	"github.com/jcmexdev/ecommerce-promotions/internal/payment-service/domain"
)

// GRPCPaymentService is the PaymentService port backed by the payment gRPC
// service.
type GRPCPaymentService struct {
	client *paymentgrpc.Client
}

var _ ports.PaymentService = (*GRPCPaymentService)(nil)

func NewGRPCPaymentService(cc grpc.ClientConnInterface) ports.PaymentService {
	return &GRPCPaymentService{client: paymentgrpc.NewClient(cc)}
}

func (s *GRPCPaymentService) SaveGatewayConfig(ctx context.Context, cfg *domain.GatewayConfig) error {
	if err := s.client.SaveGatewayConfig(ctx, cfg); err != nil {
		return fmt.Errorf("grpc SaveGatewayConfig: %w", err)
	}
	return nil
}

func (s *GRPCPaymentService) GetGatewayConfig(ctx context.Context, name string) (*domain.GatewayConfig, error) {
	cfg, err := s.client.GetGatewayConfig(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("grpc GetGatewayConfig: %w", err)
	}
	return cfg, nil
}

func (s *GRPCPaymentService) CreatePaymentRequest(ctx context.Context, req *domain.PaymentRequest) (*domain.PaymentRequest, error) {
	out, err := s.client.CreatePaymentRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("grpc CreatePaymentRequest: %w", err)
	}
	return out, nil
}

func (s *GRPCPaymentService) ListPaymentRequests(ctx context.Context, orderNumber string) ([]*domain.PaymentRequest, error) {
	out, err := s.client.ListPaymentRequests(ctx, orderNumber)
	if err != nil {
		return nil, fmt.Errorf("grpc ListPaymentRequests: %w", err)
	}
	return out, nil
}
