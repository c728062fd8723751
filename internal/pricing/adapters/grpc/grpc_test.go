package grpc

import (
	"context"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	orderdomain "github.com/jcmexdev/ecommerce-promotions/internal/order-service/domain"
	"github.com/jcmexdev/ecommerce-promotions/internal/order-service/promotion"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/app"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/catalogpromotion"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/pricehistory"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/storage/memory"
)

const catalogYAML = `
channels:
  - code: WEB
    currency: EUR
variants:
  - code: MUG_BLUE
    product: MUG
    pricing:
      WEB: {price: 1000}
catalog_promotions:
  - code: HALF
    name: Half price
    channels: [WEB]
    scopes:
      - type: for_variants
        codes: [MUG_BLUE]
    actions:
      - type: percentage_discount
        amount: 0.5
`

func startServer(t *testing.T) *Client {
	t.Helper()
	ctx := context.Background()

	catalog := memory.NewCatalog()
	history := pricehistory.NewMemoryRepository()
	processor := catalogpromotion.NewProcessor(
		catalog,
		catalogpromotion.NewCatalogPromotionApplicator(
			catalogpromotion.NewActionBasedDiscountApplicator(catalogpromotion.NewActionBasedPriceCalculator(), nil),
		),
		pricehistory.NewLogger(history, nil),
		pricehistory.NewLowestPriceProcessor(history, nil),
	)
	svc := app.NewService(catalog, processor, promotion.NewApplicator(nil), nil)
	fixture, err := app.ParseFixture(strings.NewReader(catalogYAML))
	require.NoError(t, err)
	require.NoError(t, svc.LoadFixture(ctx, fixture))

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	Register(srv, NewServer(svc))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewClient(conn)
}

func TestPricingService(t *testing.T) {
	ctx := context.Background()
	client := startServer(t)

	result, err := client.ProcessCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"HALF"}, result.ActivePromotions)
	assert.NotEmpty(t, result.RunID)

	view, err := client.GetChannelPricing(ctx, "MUG_BLUE", "WEB")
	require.NoError(t, err)
	assert.Equal(t, int64(500), view.Price)
	assert.Equal(t, "EUR", view.CurrencyCode)

	order, err := client.ApplyOrderPromotions(ctx, &app.OrderPromotionsRequest{
		ChannelCode: "WEB",
		Lines:       []app.OrderLine{{VariantCode: "MUG_BLUE", Quantity: 3}},
		Promotions: []*orderdomain.Promotion{{
			Code: "UNIT_50",
			Name: "50 off each",
			Actions: []orderdomain.PromotionAction{{
				Type:          orderdomain.ActionUnitFixedDiscount,
				Configuration: orderdomain.PromotionActionConfiguration{Amounts: map[string]int64{"WEB": 50}},
			}},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1350), order.ItemsTotal)
	assert.Equal(t, []string{"UNIT_50"}, order.AppliedPromotions)
}

func TestPricingService_ErrorCodes(t *testing.T) {
	ctx := context.Background()
	client := startServer(t)

	_, err := client.GetChannelPricing(ctx, "NOPE", "WEB")
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.ApplyOrderPromotions(ctx, &app.OrderPromotionsRequest{ChannelCode: "WEB"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
