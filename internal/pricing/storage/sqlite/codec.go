package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jcmexdev/ecommerce-promotions/internal/pkg/sqlitedb"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/domain"
)

type scanner interface {
	Scan(dest ...any) error
}

func scanChannel(row scanner) (domain.Channel, error) {
	var (
		ch       domain.Channel
		excluded string
	)
	err := row.Scan(
		&ch.Code, &ch.Name, &ch.BaseCurrencyCode,
		&ch.PriceHistory.LowestPriceForDiscountedProductsVisible,
		&ch.PriceHistory.LowestPriceForDiscountedProductsCheckingPeriod,
		&excluded,
	)
	if err != nil {
		return domain.Channel{}, err
	}
	if err := json.Unmarshal([]byte(excluded), &ch.PriceHistory.TaxonsExcludedFromShowingLowestPrice); err != nil {
		return domain.Channel{}, fmt.Errorf("sqlite: decode excluded taxons of %q: %w", ch.Code, err)
	}
	return ch, nil
}

func scanPricing(row scanner) (*domain.ChannelPricing, error) {
	var (
		p               domain.ChannelPricing
		original, lower sql.NullInt64
		applied         string
	)
	if err := row.Scan(&p.VariantCode, &p.ChannelCode, &p.Price, &original, &p.MinimumPrice, &lower, &applied); err != nil {
		return nil, fmt.Errorf("sqlite: scan channel pricing: %w", err)
	}
	p.OriginalPrice = fromNullInt64(original)
	p.LowestPriceBeforeDiscount = fromNullInt64(lower)
	if err := json.Unmarshal([]byte(applied), &p.AppliedPromotions); err != nil {
		return nil, fmt.Errorf("sqlite: decode applied promotions of %s/%s: %w", p.VariantCode, p.ChannelCode, err)
	}
	return &p, nil
}

func marshal(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("sqlite: encode %T: %w", v, err)
	}
	return string(b), nil
}

func nullableInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func fromNullInt64(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return domain.Int64(v.Int64)
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return sqlitedb.FormatTime(*t)
}

func parseNullableTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := sqlitedb.ParseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
