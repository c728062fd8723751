// Package pricehistory keeps the price log of channel pricings and derives
// the lowest price a discounted variant was sold at before its discount.
package pricehistory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/domain"
)

// Repository stores price log entries.
type Repository interface {
	// Append stores entry and assigns its ID.
	Append(ctx context.Context, entry *domain.PriceLogEntry) error
	// FindLatest returns the newest entry for the pricing, or nil if none.
	FindLatest(ctx context.Context, channelCode, variantCode string) (*domain.PriceLogEntry, error)
	// FindLowestPriceInPeriod returns the lowest price among the entries
	// older than latestID that were logged at or after since, together with
	// the entry that was in effect at since. It returns nil if there is none.
	FindLowestPriceInPeriod(ctx context.Context, latestID int64, channelCode, variantCode string, since time.Time) (*int64, error)
}

// Logger appends a log entry whenever a channel pricing's price changes.
type Logger struct {
	repo Repository
	now  func() time.Time
}

func NewLogger(repo Repository, now func() time.Time) *Logger {
	if now == nil {
		now = time.Now
	}
	return &Logger{repo: repo, now: now}
}

// Log records pricing if it differs from the latest entry. It reports whether
// an entry was written.
func (l *Logger) Log(ctx context.Context, pricing *domain.ChannelPricing) (bool, error) {
	latest, err := l.repo.FindLatest(ctx, pricing.ChannelCode, pricing.VariantCode)
	if err != nil {
		return false, fmt.Errorf("pricehistory: find latest for %s/%s: %w", pricing.VariantCode, pricing.ChannelCode, err)
	}
	if latest != nil && latest.Price == pricing.Price && equalPrice(latest.OriginalPrice, pricing.OriginalPrice) {
		return false, nil
	}

	entry := &domain.PriceLogEntry{
		ChannelCode: pricing.ChannelCode,
		VariantCode: pricing.VariantCode,
		Price:       pricing.Price,
		LoggedAt:    l.now().UTC(),
	}
	if pricing.OriginalPrice != nil {
		entry.OriginalPrice = domain.Int64(*pricing.OriginalPrice)
	}
	if err := l.repo.Append(ctx, entry); err != nil {
		return false, fmt.Errorf("pricehistory: append for %s/%s: %w", pricing.VariantCode, pricing.ChannelCode, err)
	}
	return true, nil
}

// LowestPriceProcessor keeps ChannelPricing.LowestPriceBeforeDiscount up to
// date.
type LowestPriceProcessor struct {
	repo   Repository
	logger *slog.Logger
}

func NewLowestPriceProcessor(repo Repository, logger *slog.Logger) *LowestPriceProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LowestPriceProcessor{repo: repo, logger: logger}
}

// Process sets the lowest price before discount of a reduced pricing to the
// lowest logged price within the channel's checking period, and clears it
// for pricings that are not reduced.
func (p *LowestPriceProcessor) Process(ctx context.Context, pricing *domain.ChannelPricing, channel domain.Channel) error {
	if !pricing.IsPriceReduced() {
		pricing.LowestPriceBeforeDiscount = nil
		return nil
	}

	latest, err := p.repo.FindLatest(ctx, pricing.ChannelCode, pricing.VariantCode)
	if err != nil {
		return fmt.Errorf("pricehistory: find latest for %s/%s: %w", pricing.VariantCode, pricing.ChannelCode, err)
	}
	if latest == nil {
		pricing.LowestPriceBeforeDiscount = nil
		return nil
	}

	since := latest.LoggedAt.AddDate(0, 0, -channel.PriceHistory.CheckingPeriodDays())
	lowest, err := p.repo.FindLowestPriceInPeriod(ctx, latest.ID, pricing.ChannelCode, pricing.VariantCode, since)
	if err != nil {
		return fmt.Errorf("pricehistory: lowest price for %s/%s: %w", pricing.VariantCode, pricing.ChannelCode, err)
	}

	p.logger.DebugContext(ctx, "lowest price before discount",
		"variant", pricing.VariantCode, "channel", pricing.ChannelCode, "since", since, "lowest", lowest)
	pricing.LowestPriceBeforeDiscount = lowest
	return nil
}

// DisplayChecker decides whether the lowest price before discount may be
// shown for a variant in a channel.
type DisplayChecker struct {
	taxonomy domain.Taxonomy
}

func NewDisplayChecker(taxonomy domain.Taxonomy) *DisplayChecker {
	return &DisplayChecker{taxonomy: taxonomy}
}

// IsLowestPriceDisplayable reports whether the channel shows lowest prices,
// the variant has one in that channel, and none of the variant's taxons (or
// their ancestors) is excluded by the channel.
func (c *DisplayChecker) IsLowestPriceDisplayable(variant *domain.ProductVariant, channel domain.Channel) bool {
	cfg := channel.PriceHistory
	if !cfg.LowestPriceForDiscountedProductsVisible {
		return false
	}

	pricing := variant.ChannelPricingForChannel(channel.Code)
	if pricing == nil || pricing.LowestPriceBeforeDiscount == nil {
		return false
	}

	if len(cfg.TaxonsExcludedFromShowingLowestPrice) == 0 {
		return true
	}
	excluded := make(map[string]bool, len(cfg.TaxonsExcludedFromShowingLowestPrice))
	for _, code := range cfg.TaxonsExcludedFromShowingLowestPrice {
		excluded[code] = true
	}
	for _, code := range variant.TaxonCodes {
		if excluded[code] {
			return false
		}
		for _, ancestor := range c.taxonomy.Ancestors(code) {
			if excluded[ancestor] {
				return false
			}
		}
	}
	return true
}

func equalPrice(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
