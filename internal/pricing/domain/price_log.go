package domain

import "time"

// PriceLogEntry is one point in the price history of a channel pricing.
type PriceLogEntry struct {
	ID            int64
	ChannelCode   string
	VariantCode   string
	Price         int64
	OriginalPrice *int64
	LoggedAt      time.Time
}
