package domain

import "time"

// ScopeType selects which variants a catalog promotion applies to.
type ScopeType string

const (
	ScopeForVariants ScopeType = "for_variants"
	ScopeForProducts ScopeType = "for_products"
	ScopeForTaxons   ScopeType = "for_taxons"
)

// ActionType selects how a catalog promotion action changes a price.
type ActionType string

const (
	ActionFixedDiscount      ActionType = "fixed_discount"
	ActionPercentageDiscount ActionType = "percentage_discount"
)

// CatalogPromotionScope restricts a promotion to variants, products or taxons
// identified by Codes.
type CatalogPromotionScope struct {
	Type  ScopeType `json:"type" yaml:"type"`
	Codes []string  `json:"codes" yaml:"codes"`
}

// Matches reports whether v falls inside the scope.
func (s CatalogPromotionScope) Matches(v *ProductVariant) bool {
	for _, code := range s.Codes {
		switch s.Type {
		case ScopeForVariants:
			if v.Code == code {
				return true
			}
		case ScopeForProducts:
			if v.ProductCode == code {
				return true
			}
		case ScopeForTaxons:
			if v.HasTaxon(code) {
				return true
			}
		}
	}
	return false
}

// CatalogPromotionAction is one discount layer of a catalog promotion.
// Percentage discounts use Amount as a fraction in [0, 1]; fixed discounts
// use ChannelAmounts, keyed by channel code, in minor units.
type CatalogPromotionAction struct {
	Type           ActionType       `json:"type" yaml:"type"`
	Amount         float64          `json:"amount,omitempty" yaml:"amount,omitempty"`
	ChannelAmounts map[string]int64 `json:"channel_amounts,omitempty" yaml:"channel_amounts,omitempty"`
}

// CatalogPromotion discounts variant prices directly in the catalog,
// independently of the order promotion engine.
type CatalogPromotion struct {
	Code      string
	Name      string
	Priority  int
	Exclusive bool
	Enabled   bool
	StartDate *time.Time
	EndDate   *time.Time
	Channels  []string
	Scopes    []CatalogPromotionScope
	Actions   []CatalogPromotionAction
}

// IsActiveAt reports whether the promotion is enabled and inside its date
// window at now. The end date is exclusive.
func (c *CatalogPromotion) IsActiveAt(now time.Time) bool {
	if !c.Enabled {
		return false
	}
	if c.StartDate != nil && now.Before(*c.StartDate) {
		return false
	}
	if c.EndDate != nil && !now.Before(*c.EndDate) {
		return false
	}
	return true
}

// AppliesTo reports whether any scope matches v. A promotion without scopes
// applies to nothing.
func (c *CatalogPromotion) AppliesTo(v *ProductVariant) bool {
	for _, s := range c.Scopes {
		if s.Matches(v) {
			return true
		}
	}
	return false
}

// HasChannel reports whether the promotion targets channelCode.
func (c *CatalogPromotion) HasChannel(channelCode string) bool {
	for _, code := range c.Channels {
		if code == channelCode {
			return true
		}
	}
	return false
}
