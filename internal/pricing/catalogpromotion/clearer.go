package catalogpromotion

import "github.com/jcmexdev/ecommerce-promotions/internal/pricing/domain"

// Clearer undoes catalog promotions.
type Clearer struct{}

// ClearChannelPricing restores the original price and forgets applied
// promotions. The original price is kept so the pricing still remembers its
// catalog price.
func (Clearer) ClearChannelPricing(pricing *domain.ChannelPricing) {
	if len(pricing.AppliedPromotions) == 0 {
		return
	}
	if pricing.OriginalPrice != nil {
		pricing.Price = *pricing.OriginalPrice
	}
	pricing.ClearAppliedPromotions()
}

// ClearVariant clears every channel pricing of variant.
func (c Clearer) ClearVariant(variant *domain.ProductVariant) {
	for _, pricing := range variant.ChannelPricings {
		c.ClearChannelPricing(pricing)
	}
}
