package catalogpromotion

import (
	"errors"
	"log/slog"

	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/domain"
)

// ActionBasedDiscountApplicator applies a single catalog promotion action to
// a channel pricing.
type ActionBasedDiscountApplicator struct {
	calculator PriceCalculator
	checkers   []EligibilityChecker
	logger     *slog.Logger
}

// NewActionBasedDiscountApplicator wires calculator with the minimum price
// and exclusivity checks.
func NewActionBasedDiscountApplicator(calculator PriceCalculator, logger *slog.Logger) *ActionBasedDiscountApplicator {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActionBasedDiscountApplicator{
		calculator: calculator,
		checkers:   []EligibilityChecker{MinimumPriceChecker{}, ExclusivityChecker{}},
		logger:     logger,
	}
}

// ApplyDiscountOnChannelPricing lowers pricing.Price according to action.
//
// The first applied discount captures the pre-discount price as the original
// price; later discounts compound on the current price. Actions without a
// matching calculator are skipped.
func (a *ActionBasedDiscountApplicator) ApplyDiscountOnChannelPricing(
	promotion *domain.CatalogPromotion,
	action domain.CatalogPromotionAction,
	pricing *domain.ChannelPricing,
) error {
	for _, c := range a.checkers {
		if !c.IsEligible(promotion, pricing) {
			return nil
		}
	}

	price, err := a.calculator.Calculate(pricing, action)
	if errors.Is(err, ErrCalculatorNotFound) {
		a.logger.Debug("skipping catalog promotion action",
			"promotion", promotion.Code, "action_type", action.Type, "channel", pricing.ChannelCode)
		return nil
	}
	if err != nil {
		return err
	}

	if pricing.OriginalPrice == nil {
		pricing.OriginalPrice = domain.Int64(pricing.Price)
	}
	pricing.Price = price
	pricing.AddAppliedPromotion(promotion)
	return nil
}

// CatalogPromotionApplicator applies every action of a catalog promotion to
// a variant, channel by channel.
type CatalogPromotionApplicator struct {
	discounts *ActionBasedDiscountApplicator
	clearer   Clearer
}

func NewCatalogPromotionApplicator(discounts *ActionBasedDiscountApplicator) *CatalogPromotionApplicator {
	return &CatalogPromotionApplicator{discounts: discounts}
}

// ApplyOnVariant applies promotion on every channel pricing of variant that
// the promotion targets. An exclusive promotion replaces the non-exclusive
// promotions already applied to a pricing.
func (a *CatalogPromotionApplicator) ApplyOnVariant(variant *domain.ProductVariant, promotion *domain.CatalogPromotion) error {
	for _, channelCode := range promotion.Channels {
		pricing := variant.ChannelPricingForChannel(channelCode)
		if pricing == nil {
			continue
		}

		if promotion.Exclusive && len(pricing.AppliedPromotions) > 0 && !pricing.HasExclusivePromotionOtherThan(promotion.Code) {
			a.clearer.ClearChannelPricing(pricing)
		}

		for _, action := range promotion.Actions {
			if err := a.discounts.ApplyDiscountOnChannelPricing(promotion, action, pricing); err != nil {
				return err
			}
		}
	}
	return nil
}
