package ports

import (
	"context"

	paymentdomain "github.com/jcmexdev/ecommerce-promotions/internal/payment-service/domain"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/app"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/catalogpromotion"
)

type PricingService interface {
	ProcessCatalog(ctx context.Context) (*catalogpromotion.Result, error)
	GetChannelPricing(ctx context.Context, variantCode, channelCode string) (*app.ChannelPricingView, error)
	ApplyOrderPromotions(ctx context.Context, req *app.OrderPromotionsRequest) (*app.OrderPromotionsView, error)
}

type PaymentService interface {
	SaveGatewayConfig(ctx context.Context, cfg *paymentdomain.GatewayConfig) error
	GetGatewayConfig(ctx context.Context, name string) (*paymentdomain.GatewayConfig, error)
	CreatePaymentRequest(ctx context.Context, req *paymentdomain.PaymentRequest) (*paymentdomain.PaymentRequest, error)
	ListPaymentRequests(ctx context.Context, orderNumber string) ([]*paymentdomain.PaymentRequest, error)
}
