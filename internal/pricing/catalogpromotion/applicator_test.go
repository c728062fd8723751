package catalogpromotion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/domain"
)

func newApplicator() *CatalogPromotionApplicator {
	return NewCatalogPromotionApplicator(NewActionBasedDiscountApplicator(NewActionBasedPriceCalculator(), nil))
}

func percentage(code string, amount float64, channels ...string) *domain.CatalogPromotion {
	return &domain.CatalogPromotion{
		Code:     code,
		Name:     code,
		Enabled:  true,
		Channels: channels,
		Actions:  []domain.CatalogPromotionAction{{Type: domain.ActionPercentageDiscount, Amount: amount}},
	}
}

func TestActionBasedDiscountApplicator_CapturesOriginalPriceOnce(t *testing.T) {
	a := NewActionBasedDiscountApplicator(NewActionBasedPriceCalculator(), nil)
	pricing := &domain.ChannelPricing{ChannelCode: "WEB", Price: 1000}

	first := percentage("FIRST", 0.5, "WEB")
	second := percentage("SECOND", 0.1, "WEB")

	require.NoError(t, a.ApplyDiscountOnChannelPricing(first, first.Actions[0], pricing))
	assert.Equal(t, int64(500), pricing.Price)
	assert.Equal(t, int64(1000), *pricing.OriginalPrice)

	require.NoError(t, a.ApplyDiscountOnChannelPricing(second, second.Actions[0], pricing))
	assert.Equal(t, int64(450), pricing.Price, "discounts compound on the current price")
	assert.Equal(t, int64(1000), *pricing.OriginalPrice, "original price is not re-captured")
	assert.Len(t, pricing.AppliedPromotions, 2)
}

func TestActionBasedDiscountApplicator_SkipsIneligible(t *testing.T) {
	a := NewActionBasedDiscountApplicator(NewActionBasedPriceCalculator(), nil)
	promo := percentage("P", 0.5, "WEB")

	t.Run("price already at minimum", func(t *testing.T) {
		pricing := &domain.ChannelPricing{ChannelCode: "WEB", Price: 500, MinimumPrice: 500}
		require.NoError(t, a.ApplyDiscountOnChannelPricing(promo, promo.Actions[0], pricing))
		assert.Equal(t, int64(500), pricing.Price)
		assert.Nil(t, pricing.OriginalPrice)
		assert.Empty(t, pricing.AppliedPromotions)
	})

	t.Run("other exclusive promotion applied", func(t *testing.T) {
		pricing := &domain.ChannelPricing{ChannelCode: "WEB", Price: 800, OriginalPrice: domain.Int64(1000)}
		pricing.AddAppliedPromotion(&domain.CatalogPromotion{Code: "EXCL", Exclusive: true})
		require.NoError(t, a.ApplyDiscountOnChannelPricing(promo, promo.Actions[0], pricing))
		assert.Equal(t, int64(800), pricing.Price)
		assert.Len(t, pricing.AppliedPromotions, 1)
	})

	t.Run("unknown action type", func(t *testing.T) {
		pricing := &domain.ChannelPricing{ChannelCode: "WEB", Price: 1000}
		err := a.ApplyDiscountOnChannelPricing(promo, domain.CatalogPromotionAction{Type: "mystery"}, pricing)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), pricing.Price)
		assert.Nil(t, pricing.OriginalPrice)
		assert.Empty(t, pricing.AppliedPromotions)
	})
}

func TestActionBasedDiscountApplicator_InvalidActionFails(t *testing.T) {
	a := NewActionBasedDiscountApplicator(NewActionBasedPriceCalculator(), nil)
	promo := percentage("P", 2, "WEB")
	pricing := &domain.ChannelPricing{ChannelCode: "WEB", Price: 1000}

	err := a.ApplyDiscountOnChannelPricing(promo, promo.Actions[0], pricing)
	assert.ErrorIs(t, err, ErrInvalidAction)
	assert.Equal(t, int64(1000), pricing.Price)
}

func TestCatalogPromotionApplicator_ApplyOnVariant(t *testing.T) {
	v := domain.NewProductVariant("MUG_BLUE", "MUG", "Blue mug")
	v.AddChannelPricing(&domain.ChannelPricing{ChannelCode: "WEB", Price: 1000})
	v.AddChannelPricing(&domain.ChannelPricing{ChannelCode: "MOBILE", Price: 2000})

	promo := &domain.CatalogPromotion{
		Code:     "SPRING",
		Name:     "Spring sale",
		Enabled:  true,
		Channels: []string{"WEB", "SHOP"},
		Actions: []domain.CatalogPromotionAction{
			{Type: domain.ActionFixedDiscount, ChannelAmounts: map[string]int64{"WEB": 100}},
			{Type: domain.ActionPercentageDiscount, Amount: 0.1},
		},
	}

	require.NoError(t, newApplicator().ApplyOnVariant(v, promo))

	web := v.ChannelPricingForChannel("WEB")
	assert.Equal(t, int64(810), web.Price)
	assert.Equal(t, int64(1000), *web.OriginalPrice)
	assert.True(t, web.HasPromotionApplied("SPRING"))

	mobile := v.ChannelPricingForChannel("MOBILE")
	assert.Equal(t, int64(2000), mobile.Price, "untargeted channel is untouched")
	assert.Nil(t, mobile.OriginalPrice)
}

func TestCatalogPromotionApplicator_Exclusivity(t *testing.T) {
	newVariant := func() *domain.ProductVariant {
		v := domain.NewProductVariant("MUG_BLUE", "MUG", "Blue mug")
		v.AddChannelPricing(&domain.ChannelPricing{ChannelCode: "WEB", Price: 1000})
		return v
	}
	regular := percentage("REGULAR", 0.1, "WEB")
	exclusive := percentage("EXCLUSIVE", 0.5, "WEB")
	exclusive.Exclusive = true
	otherExclusive := percentage("OTHER_EXCLUSIVE", 0.2, "WEB")
	otherExclusive.Exclusive = true

	t.Run("exclusive replaces regular promotions", func(t *testing.T) {
		v := newVariant()
		a := newApplicator()
		require.NoError(t, a.ApplyOnVariant(v, regular))
		require.NoError(t, a.ApplyOnVariant(v, exclusive))

		p := v.ChannelPricingForChannel("WEB")
		assert.Equal(t, int64(500), p.Price)
		assert.Equal(t, []domain.AppliedPromotion{{Code: "EXCLUSIVE", Name: "EXCLUSIVE", Exclusive: true}}, p.AppliedPromotions)
	})

	t.Run("nothing stacks on an exclusive promotion", func(t *testing.T) {
		v := newVariant()
		a := newApplicator()
		require.NoError(t, a.ApplyOnVariant(v, exclusive))
		require.NoError(t, a.ApplyOnVariant(v, regular))
		require.NoError(t, a.ApplyOnVariant(v, otherExclusive))

		p := v.ChannelPricingForChannel("WEB")
		assert.Equal(t, int64(500), p.Price)
		assert.Len(t, p.AppliedPromotions, 1)
	})

	t.Run("exclusive promotion applies all its actions", func(t *testing.T) {
		v := newVariant()
		multi := percentage("MULTI", 0.5, "WEB")
		multi.Exclusive = true
		multi.Actions = append(multi.Actions, domain.CatalogPromotionAction{Type: domain.ActionFixedDiscount, ChannelAmounts: map[string]int64{"WEB": 100}})

		require.NoError(t, newApplicator().ApplyOnVariant(v, multi))
		assert.Equal(t, int64(400), v.ChannelPricingForChannel("WEB").Price)
	})
}

func TestClearer_ClearChannelPricing(t *testing.T) {
	p := &domain.ChannelPricing{ChannelCode: "WEB", Price: 500, OriginalPrice: domain.Int64(1000)}
	p.AddAppliedPromotion(&domain.CatalogPromotion{Code: "P"})

	Clearer{}.ClearChannelPricing(p)
	assert.Equal(t, int64(1000), p.Price)
	assert.Empty(t, p.AppliedPromotions)
	assert.False(t, p.IsPriceReduced())

	untouched := &domain.ChannelPricing{ChannelCode: "WEB", Price: 900, OriginalPrice: domain.Int64(1200)}
	Clearer{}.ClearChannelPricing(untouched)
	assert.Equal(t, int64(900), untouched.Price, "manual strike-through prices survive clearing")
}
