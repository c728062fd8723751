package domain

// ProductVariant is a sellable variant of a product, priced per channel.
type ProductVariant struct {
	Code        string
	ProductCode string
	Name        string
	// TaxonCodes are the taxons of the owning product.
	TaxonCodes      []string
	ChannelPricings map[string]*ChannelPricing
}

// NewProductVariant returns a variant with an empty channel pricing set.
func NewProductVariant(code, productCode, name string) *ProductVariant {
	return &ProductVariant{
		Code:            code,
		ProductCode:     productCode,
		Name:            name,
		ChannelPricings: make(map[string]*ChannelPricing),
	}
}

// ChannelPricingForChannel returns the pricing for channelCode, or nil when
// the variant is not sold in that channel.
func (v *ProductVariant) ChannelPricingForChannel(channelCode string) *ChannelPricing {
	if v == nil {
		return nil
	}
	return v.ChannelPricings[channelCode]
}

// AddChannelPricing attaches p to the variant, replacing any pricing for the
// same channel.
func (v *ProductVariant) AddChannelPricing(p *ChannelPricing) {
	if v.ChannelPricings == nil {
		v.ChannelPricings = make(map[string]*ChannelPricing)
	}
	p.VariantCode = v.Code
	v.ChannelPricings[p.ChannelCode] = p
}

// HasTaxon reports whether the variant's product is classified under code.
func (v *ProductVariant) HasTaxon(code string) bool {
	for _, c := range v.TaxonCodes {
		if c == code {
			return true
		}
	}
	return false
}
