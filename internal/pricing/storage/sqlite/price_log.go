package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jcmexdev/ecommerce-promotions/internal/pkg/sqlitedb"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/domain"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/pricehistory"
)

var _ pricehistory.Repository = (*Store)(nil)

// Append stores entry and sets its ID.
func (s *Store) Append(ctx context.Context, entry *domain.PriceLogEntry) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO channel_pricing_log_entries (channel_code, variant_code, price, original_price, logged_at)
		VALUES (?, ?, ?, ?, ?)`,
		entry.ChannelCode, entry.VariantCode, entry.Price,
		nullableInt64(entry.OriginalPrice), sqlitedb.FormatTime(entry.LoggedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: append price log: %w", err)
	}
	if entry.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("sqlite: price log id: %w", err)
	}
	return nil
}

// FindLatest returns the newest entry for the pricing, or nil.
func (s *Store) FindLatest(ctx context.Context, channelCode, variantCode string) (*domain.PriceLogEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, channel_code, variant_code, price, original_price, logged_at
		FROM   channel_pricing_log_entries
		WHERE  variant_code = ? AND channel_code = ?
		ORDER  BY id DESC
		LIMIT  1`, variantCode, channelCode)

	var (
		e        domain.PriceLogEntry
		original sql.NullInt64
		at       string
	)
	err := row.Scan(&e.ID, &e.ChannelCode, &e.VariantCode, &e.Price, &original, &at)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: latest price log: %w", err)
	}
	e.OriginalPrice = fromNullInt64(original)
	if e.LoggedAt, err = sqlitedb.ParseTime(at); err != nil {
		return nil, err
	}
	return &e, nil
}

// FindLowestPriceInPeriod returns the lowest price logged before latestID
// since the given time, including the price in effect at since.
func (s *Store) FindLowestPriceInPeriod(ctx context.Context, latestID int64, channelCode, variantCode string, since time.Time) (*int64, error) {
	const q = `
		SELECT MIN(price) FROM (
			SELECT price FROM channel_pricing_log_entries
			WHERE  variant_code = ? AND channel_code = ? AND id < ? AND logged_at >= ?
			UNION ALL
			SELECT price FROM (
				SELECT price FROM channel_pricing_log_entries
				WHERE  variant_code = ? AND channel_code = ? AND id < ? AND logged_at < ?
				ORDER  BY id DESC
				LIMIT  1
			)
		)`

	sinceText := sqlitedb.FormatTime(since)
	var lowest sql.NullInt64
	err := s.db.QueryRowContext(ctx, q,
		variantCode, channelCode, latestID, sinceText,
		variantCode, channelCode, latestID, sinceText,
	).Scan(&lowest)
	if err != nil {
		return nil, fmt.Errorf("sqlite: lowest price in period: %w", err)
	}
	return fromNullInt64(lowest), nil
}
