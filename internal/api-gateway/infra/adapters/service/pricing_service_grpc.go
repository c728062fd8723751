package service

import (
	"context"
	"fmt"

	"google.golang.org/grpc"

	"github.com/jcmexdev/ecommerce-promotions/internal/api-gateway/core/ports"
	pricinggrpc "github.com/jcmexdev/ecommerce-promotions/internal/pricing/adapters/grpc"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/app"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/catalogpromotion"
)

// GRPCPricingService is the PricingService port backed by the pricing gRPC
// service.
type GRPCPricingService struct {
	client *pricinggrpc.Client
}

var _ ports.PricingService = (*GRPCPricingService)(nil)

func NewGRPCPricingService(cc grpc.ClientConnInterface) ports.PricingService {
	return &GRPCPricingService{client: pricinggrpc.NewClient(cc)}
}

func (s *GRPCPricingService) ProcessCatalog(ctx context.Context) (*catalogpromotion.Result, error) {
	res, err := s.client.ProcessCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("grpc ProcessCatalog: %w", err)
	}
	return res, nil
}

func (s *GRPCPricingService) GetChannelPricing(ctx context.Context, variantCode, channelCode string) (*app.ChannelPricingView, error) {
	res, err := s.client.GetChannelPricing(ctx, variantCode, channelCode)
	if err != nil {
		return nil, fmt.Errorf("grpc GetChannelPricing: %w", err)
	}
	return res, nil
}

func (s *GRPCPricingService) ApplyOrderPromotions(ctx context.Context, req *app.OrderPromotionsRequest) (*app.OrderPromotionsView, error) {
	res, err := s.client.ApplyOrderPromotions(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("grpc ApplyOrderPromotions: %w", err)
	}
	return res, nil
}
