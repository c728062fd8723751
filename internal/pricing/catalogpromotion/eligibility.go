package catalogpromotion

import "github.com/jcmexdev/ecommerce-promotions/internal/pricing/domain"

// EligibilityChecker decides whether promotion may change pricing at all.
type EligibilityChecker interface {
	IsEligible(promotion *domain.CatalogPromotion, pricing *domain.ChannelPricing) bool
}

// MinimumPriceChecker rejects pricings that already sit on their minimum
// price floor.
type MinimumPriceChecker struct{}

func (MinimumPriceChecker) IsEligible(_ *domain.CatalogPromotion, pricing *domain.ChannelPricing) bool {
	return pricing.MinimumPrice <= 0 || pricing.Price > pricing.MinimumPrice
}

// ExclusivityChecker rejects pricings that already carry an exclusive
// promotion other than the one being applied.
type ExclusivityChecker struct{}

func (ExclusivityChecker) IsEligible(promotion *domain.CatalogPromotion, pricing *domain.ChannelPricing) bool {
	return !pricing.HasExclusivePromotionOtherThan(promotion.Code)
}
