package domain

// AppliedPromotion records a catalog promotion that has changed a channel
// pricing.
type AppliedPromotion struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Exclusive bool   `json:"exclusive"`
}

// ChannelPricing is the price of a variant in one channel.
//
// OriginalPrice is the price before any catalog promotion was applied; it is
// nil until the first promotion is applied. MinimumPrice is a floor that no
// discount may cross (0 means no floor).
type ChannelPricing struct {
	ChannelCode               string
	VariantCode               string
	Price                     int64
	OriginalPrice             *int64
	MinimumPrice              int64
	LowestPriceBeforeDiscount *int64
	AppliedPromotions         []AppliedPromotion
}

// Clone returns a deep copy of p.
func (p *ChannelPricing) Clone() *ChannelPricing {
	c := *p
	c.OriginalPrice = cloneInt64(p.OriginalPrice)
	c.LowestPriceBeforeDiscount = cloneInt64(p.LowestPriceBeforeDiscount)
	c.AppliedPromotions = append([]AppliedPromotion(nil), p.AppliedPromotions...)
	return &c
}

// AddAppliedPromotion records promotion as applied. Recording the same
// promotion twice is a no-op.
func (p *ChannelPricing) AddAppliedPromotion(promotion *CatalogPromotion) {
	if p.HasPromotionApplied(promotion.Code) {
		return
	}
	p.AppliedPromotions = append(p.AppliedPromotions, AppliedPromotion{
		Code:      promotion.Code,
		Name:      promotion.Name,
		Exclusive: promotion.Exclusive,
	})
}

// HasPromotionApplied reports whether the promotion with code is applied.
func (p *ChannelPricing) HasPromotionApplied(code string) bool {
	for _, ap := range p.AppliedPromotions {
		if ap.Code == code {
			return true
		}
	}
	return false
}

// HasExclusivePromotionOtherThan reports whether an exclusive promotion other
// than code is applied.
func (p *ChannelPricing) HasExclusivePromotionOtherThan(code string) bool {
	for _, ap := range p.AppliedPromotions {
		if ap.Exclusive && ap.Code != code {
			return true
		}
	}
	return false
}

// ClearAppliedPromotions forgets every applied promotion.
func (p *ChannelPricing) ClearAppliedPromotions() {
	p.AppliedPromotions = nil
}

// IsPriceReduced reports whether the current price is below the original
// price.
func (p *ChannelPricing) IsPriceReduced() bool {
	return p.OriginalPrice != nil && p.Price < *p.OriginalPrice
}

func cloneInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Int64 returns a pointer to v.
func Int64(v int64) *int64 {
	return &v
}
