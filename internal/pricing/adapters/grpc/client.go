package grpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/jcmexdev/ecommerce-promotions/internal/pkg/grpcjson"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/app"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/catalogpromotion"
)

// Client calls a remote PricingService.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) ProcessCatalog(ctx context.Context) (*catalogpromotion.Result, error) {
	return grpcjson.Invoke[catalogpromotion.Result](ctx, c.cc, methodProcessCatalog, &ProcessCatalogRequest{})
}

func (c *Client) GetChannelPricing(ctx context.Context, variantCode, channelCode string) (*app.ChannelPricingView, error) {
	return grpcjson.Invoke[app.ChannelPricingView](ctx, c.cc, methodGetChannelPricing,
		&GetChannelPricingRequest{VariantCode: variantCode, ChannelCode: channelCode})
}

func (c *Client) ApplyOrderPromotions(ctx context.Context, req *app.OrderPromotionsRequest) (*app.OrderPromotionsView, error) {
	return grpcjson.Invoke[app.OrderPromotionsView](ctx, c.cc, methodApplyOrderPromotions, req)
}
