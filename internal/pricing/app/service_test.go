package app

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderdomain "github.com/jcmexdev/ecommerce-promotions/internal/order-service/domain"
	"github.com/jcmexdev/ecommerce-promotions/internal/order-service/promotion"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/catalogpromotion"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/domain"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/pricehistory"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/storage/memory"
)

const fixtureYAML = `
channels:
  - code: WEB
    name: Web store
    currency: USD
    lowest_price_visible: true
    lowest_price_checking_period: 30
taxons:
  - code: MUGS
    parent: KITCHEN
  - code: KITCHEN
variants:
  - code: MUG_BLUE
    product: MUG
    name: Blue mug
    taxons: [MUGS]
    pricing:
      WEB: {price: 1000, minimum_price: 500}
  - code: HAT_RED
    product: HAT
    name: Red hat
    pricing:
      WEB: {price: 2000}
catalog_promotions:
  - code: MUGS_20
    name: Mugs -20%
    channels: [WEB]
    scopes:
      - type: for_taxons
        codes: [MUGS]
    actions:
      - type: percentage_discount
        amount: 0.2
  - code: DISABLED
    name: Disabled
    enabled: false
    channels: [WEB]
    scopes:
      - type: for_products
        codes: [HAT]
    actions:
      - type: percentage_discount
        amount: 0.5
order_promotions:
  - code: ORDER_300
    name: 3 off
    priority: 1
    actions:
      - type: order_fixed_discount
        configuration:
          amounts: {WEB: 300}
`

func newTestService(t *testing.T) (*Service, *Fixture) {
	t.Helper()
	ctx := context.Background()

	fixture, err := ParseFixture(strings.NewReader(fixtureYAML))
	require.NoError(t, err)

	catalog := memory.NewCatalog()
	history := pricehistory.NewMemoryRepository()
	clock := func() time.Time { return time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC) }
	processor := catalogpromotion.NewProcessor(
		catalog,
		catalogpromotion.NewCatalogPromotionApplicator(
			catalogpromotion.NewActionBasedDiscountApplicator(catalogpromotion.NewActionBasedPriceCalculator(), nil),
		),
		pricehistory.NewLogger(history, clock),
		pricehistory.NewLowestPriceProcessor(history, nil),
		catalogpromotion.WithClock(clock),
	)

	svc := NewService(catalog, processor, promotion.NewApplicator(nil), nil)
	require.NoError(t, svc.LoadFixture(ctx, fixture))
	return svc, fixture
}

func TestParseFixture(t *testing.T) {
	f, err := ParseFixture(strings.NewReader(fixtureYAML))
	require.NoError(t, err)

	require.Len(t, f.Channels, 1)
	assert.Equal(t, 30, f.Channels[0].LowestPriceCheckPeriod)
	require.Len(t, f.Variants, 2)
	assert.Equal(t, PricingFixture{Price: 1000, MinimumPrice: 500}, f.Variants[0].Pricing["WEB"])
	require.Len(t, f.CatalogPromotions, 2)
	assert.Nil(t, f.CatalogPromotions[0].Enabled)
	assert.Equal(t, domain.ActionPercentageDiscount, f.CatalogPromotions[0].Actions[0].Type)
	require.Len(t, f.OrderPromotions, 1)
	assert.Equal(t, int64(300), f.OrderPromotions[0].Actions[0].Configuration.Amounts["WEB"])
}

func TestParseFixture_UnknownField(t *testing.T) {
	_, err := ParseFixture(strings.NewReader("channels:\n  - code: WEB\n    colour: red\n"))
	assert.ErrorContains(t, err, "parse fixture")
}

func TestParseFixture_Empty(t *testing.T) {
	f, err := ParseFixture(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Variants)
}

func TestService_ProcessCatalogAndChannelPricing(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	result, err := svc.ProcessCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"MUGS_20"}, result.ActivePromotions)
	assert.Equal(t, 1, result.DiscountedPricings)

	view, err := svc.ChannelPricing(ctx, "MUG_BLUE", "WEB")
	require.NoError(t, err)
	assert.Equal(t, int64(800), view.Price)
	require.NotNil(t, view.OriginalPrice)
	assert.Equal(t, int64(1000), *view.OriginalPrice)
	assert.True(t, view.IsPriceReduced)
	assert.Equal(t, "USD", view.CurrencyCode)
	assert.Equal(t, []domain.AppliedPromotion{{Code: "MUGS_20", Name: "Mugs -20%"}}, view.AppliedPromotions)

	hat, err := svc.ChannelPricing(ctx, "HAT_RED", "WEB")
	require.NoError(t, err)
	assert.Equal(t, int64(2000), hat.Price)
	assert.False(t, hat.IsPriceReduced)
}

func TestService_ChannelPricingNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.ChannelPricing(ctx, "NOPE", "WEB")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.ChannelPricing(ctx, "MUG_BLUE", "MOBILE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_ApplyOrderPromotions(t *testing.T) {
	ctx := context.Background()
	svc, fixture := newTestService(t)
	_, err := svc.ProcessCatalog(ctx)
	require.NoError(t, err)

	view, err := svc.ApplyOrderPromotions(ctx, OrderPromotionsRequest{
		OrderNumber: "000001",
		ChannelCode: "WEB",
		Lines:       []OrderLine{{VariantCode: "MUG_BLUE", Quantity: 2}, {VariantCode: "HAT_RED", Quantity: 1}},
		Promotions:  fixture.OrderPromotions,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"ORDER_300"}, view.AppliedPromotions)
	assert.Equal(t, int64(3300), view.ItemsTotal)
	require.Len(t, view.Lines, 2)
	assert.Equal(t, int64(800), view.Lines[0].UnitPrice)
	assert.Equal(t, int64(1600), view.Lines[0].Subtotal)
	assert.Equal(t, view.ItemsTotal, view.Lines[0].Total+view.Lines[1].Total)
	for _, unit := range view.Lines[0].Units {
		assert.GreaterOrEqual(t, unit.Total, int64(500))
		require.Len(t, unit.Adjustments, 1)
		assert.Equal(t, orderdomain.AdjustmentOrderPromotion, unit.Adjustments[0].Type)
		assert.Equal(t, "ORDER_300", unit.Adjustments[0].OriginCode)
	}
}

func TestService_ApplyOrderPromotionsValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.ApplyOrderPromotions(ctx, OrderPromotionsRequest{ChannelCode: "WEB"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.ApplyOrderPromotions(ctx, OrderPromotionsRequest{ChannelCode: "WEB", Lines: []OrderLine{{VariantCode: "MUG_BLUE"}}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.ApplyOrderPromotions(ctx, OrderPromotionsRequest{ChannelCode: "WEB", Lines: []OrderLine{{VariantCode: "MUG_BLUE", Quantity: DefaultMaxLineQuantity + 1}}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.ApplyOrderPromotions(ctx, OrderPromotionsRequest{ChannelCode: "WEB", Lines: []OrderLine{{VariantCode: "MUG_BLUE", Quantity: 2000000000}}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.ApplyOrderPromotions(ctx, OrderPromotionsRequest{ChannelCode: "MOBILE", Lines: []OrderLine{{VariantCode: "MUG_BLUE", Quantity: 1}}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	bad := &orderdomain.Promotion{Code: "BAD", Actions: []orderdomain.PromotionAction{{
		Type:          orderdomain.ActionOrderPercentageDiscount,
		Configuration: orderdomain.PromotionActionConfiguration{Percentage: 2},
	}}}
	_, err = svc.ApplyOrderPromotions(ctx, OrderPromotionsRequest{
		ChannelCode: "WEB",
		Lines:       []OrderLine{{VariantCode: "MUG_BLUE", Quantity: 1}},
		Promotions:  []*orderdomain.Promotion{bad},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_MaxLineQuantityOption(t *testing.T) {
	ctx := context.Background()
	base, _ := newTestService(t)
	svc := NewService(base.catalog, base.processor, base.promotions, nil, WithMaxLineQuantity(2))

	_, err := svc.ApplyOrderPromotions(ctx, OrderPromotionsRequest{ChannelCode: "WEB", Lines: []OrderLine{{VariantCode: "MUG_BLUE", Quantity: 2}}})
	require.NoError(t, err)

	_, err = svc.ApplyOrderPromotions(ctx, OrderPromotionsRequest{ChannelCode: "WEB", Lines: []OrderLine{{VariantCode: "MUG_BLUE", Quantity: 3}}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
