package domain

// DefaultLowestPriceCheckingPeriod is the number of days looked back when
// computing the lowest price before a discount.
const DefaultLowestPriceCheckingPeriod = 30

// Channel is a sales channel. Prices, promotions and price history are all
// scoped to a channel.
type Channel struct {
	Code             string
	Name             string
	BaseCurrencyCode string
	PriceHistory     ChannelPriceHistoryConfig
}

// ChannelPriceHistoryConfig controls whether, and over which period, the
// lowest price before a discount is shown for discounted variants.
type ChannelPriceHistoryConfig struct {
	LowestPriceForDiscountedProductsVisible        bool
	LowestPriceForDiscountedProductsCheckingPeriod int
	TaxonsExcludedFromShowingLowestPrice           []string
}

// CheckingPeriodDays returns the configured checking period, falling back to
// DefaultLowestPriceCheckingPeriod when unset.
func (c ChannelPriceHistoryConfig) CheckingPeriodDays() int {
	if c.LowestPriceForDiscountedProductsCheckingPeriod <= 0 {
		return DefaultLowestPriceCheckingPeriod
	}
	return c.LowestPriceForDiscountedProductsCheckingPeriod
}

// Taxonomy maps a taxon code to its parent code. Root taxons are absent or
// map to "".
type Taxonomy map[string]string

// Ancestors returns the parents of code, nearest first.
func (t Taxonomy) Ancestors(code string) []string {
	var out []string
	seen := map[string]bool{code: true}
	for parent := t[code]; parent != "" && !seen[parent]; parent = t[parent] {
		seen[parent] = true
		out = append(out, parent)
	}
	return out
}
