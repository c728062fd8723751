// Package sqlite persists the pricing catalog and its price log in SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jcmexdev/ecommerce-promotions/internal/pkg/sqlitedb"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS channels (
    code                TEXT PRIMARY KEY,
    name                TEXT NOT NULL DEFAULT '',
    base_currency_code  TEXT NOT NULL DEFAULT '',
    lowest_price_visible INTEGER NOT NULL DEFAULT 0,
    checking_period     INTEGER NOT NULL DEFAULT 30,
    excluded_taxons     TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS taxons (
    code        TEXT PRIMARY KEY,
    parent_code TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS product_variants (
    code         TEXT PRIMARY KEY,
    product_code TEXT NOT NULL,
    name         TEXT NOT NULL DEFAULT '',
    taxon_codes  TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS channel_pricings (
    variant_code                 TEXT    NOT NULL REFERENCES product_variants(code) ON DELETE CASCADE,
    channel_code                 TEXT    NOT NULL,
    price                        INTEGER NOT NULL,
    original_price               INTEGER,
    minimum_price                INTEGER NOT NULL DEFAULT 0,
    lowest_price_before_discount INTEGER,
    applied_promotions           TEXT    NOT NULL DEFAULT '[]',
    PRIMARY KEY (variant_code, channel_code)
);

CREATE TABLE IF NOT EXISTS catalog_promotions (
    code       TEXT PRIMARY KEY,
    name       TEXT    NOT NULL DEFAULT '',
    priority   INTEGER NOT NULL DEFAULT 0,
    exclusive  INTEGER NOT NULL DEFAULT 0,
    enabled    INTEGER NOT NULL DEFAULT 1,
    start_date TEXT,
    end_date   TEXT,
    channels   TEXT NOT NULL DEFAULT '[]',
    scopes     TEXT NOT NULL DEFAULT '[]',
    actions    TEXT NOT NULL DEFAULT '[]'
);

-- Append-only: one row per observed price change.
CREATE TABLE IF NOT EXISTS channel_pricing_log_entries (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    channel_code   TEXT    NOT NULL,
    variant_code   TEXT    NOT NULL,
    price          INTEGER NOT NULL,
    original_price INTEGER,
    logged_at      TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_price_log_pricing ON channel_pricing_log_entries(variant_code, channel_code, id);
`

// Store is the SQLite catalog. It satisfies the catalog promotion processor's
// CatalogStore and pricehistory.Repository.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the catalog database at path.
func Open(path string) (*Store, error) {
	db, err := sqlitedb.Open(path, schema)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// PutChannel inserts or replaces a channel.
func (s *Store) PutChannel(ctx context.Context, ch domain.Channel) error {
	excluded, err := marshal(ch.PriceHistory.TaxonsExcludedFromShowingLowestPrice)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO channels (code, name, base_currency_code, lowest_price_visible, checking_period, excluded_taxons)
		VALUES (?, ?, ?, ?, ?, ?)`,
		ch.Code, ch.Name, ch.BaseCurrencyCode,
		ch.PriceHistory.LowestPriceForDiscountedProductsVisible,
		ch.PriceHistory.CheckingPeriodDays(),
		excluded,
	)
	if err != nil {
		return fmt.Errorf("sqlite: put channel %q: %w", ch.Code, err)
	}
	return nil
}

// Channels returns every channel ordered by code.
func (s *Store) Channels(ctx context.Context) ([]domain.Channel, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, name, base_currency_code, lowest_price_visible, checking_period, excluded_taxons
		FROM channels ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list channels: %w", err)
	}
	defer rows.Close()

	var out []domain.Channel
	for rows.Next() {
		ch, err := scanChannel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ch)
	}
	return out, rows.Err()
}

// Channel returns the channel with code.
func (s *Store) Channel(ctx context.Context, code string) (domain.Channel, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT code, name, base_currency_code, lowest_price_visible, checking_period, excluded_taxons
		FROM channels WHERE code = ?`, code)
	ch, err := scanChannel(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Channel{}, fmt.Errorf("sqlite: channel %q: %w", code, domain.ErrNotFound)
	}
	return ch, err
}

// PutTaxon inserts or replaces a taxon and its parent.
func (s *Store) PutTaxon(ctx context.Context, code, parentCode string) error {
	if _, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO taxons (code, parent_code) VALUES (?, ?)`, code, parentCode); err != nil {
		return fmt.Errorf("sqlite: put taxon %q: %w", code, err)
	}
	return nil
}

// Taxonomy returns the whole taxon tree.
func (s *Store) Taxonomy(ctx context.Context) (domain.Taxonomy, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT code, parent_code FROM taxons`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list taxons: %w", err)
	}
	defer rows.Close()

	out := make(domain.Taxonomy)
	for rows.Next() {
		var code, parent string
		if err := rows.Scan(&code, &parent); err != nil {
			return nil, fmt.Errorf("sqlite: scan taxon: %w", err)
		}
		out[code] = parent
	}
	return out, rows.Err()
}

// PutVariant inserts or replaces a variant together with its channel
// pricings.
func (s *Store) PutVariant(ctx context.Context, v *domain.ProductVariant) error {
	taxons, err := marshal(v.TaxonCodes)
	if err != nil {
		return err
	}
	return sqlitedb.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO product_variants (code, product_code, name, taxon_codes) VALUES (?, ?, ?, ?)
			ON CONFLICT(code) DO UPDATE SET product_code = excluded.product_code, name = excluded.name, taxon_codes = excluded.taxon_codes`,
			v.Code, v.ProductCode, v.Name, taxons); err != nil {
			return fmt.Errorf("sqlite: put variant %q: %w", v.Code, err)
		}
		for _, p := range v.ChannelPricings {
			p.VariantCode = v.Code
			if err := savePricing(ctx, tx, p); err != nil {
				return err
			}
		}
		return nil
	})
}

// Variants returns every variant with its channel pricings, ordered by code.
func (s *Store) Variants(ctx context.Context) ([]*domain.ProductVariant, error) {
	return s.loadVariants(ctx, `SELECT code, product_code, name, taxon_codes FROM product_variants ORDER BY code`)
}

// Variant returns the variant with code.
func (s *Store) Variant(ctx context.Context, code string) (*domain.ProductVariant, error) {
	vs, err := s.loadVariants(ctx, `SELECT code, product_code, name, taxon_codes FROM product_variants WHERE code = ?`, code)
	if err != nil {
		return nil, err
	}
	if len(vs) == 0 {
		return nil, fmt.Errorf("sqlite: variant %q: %w", code, domain.ErrNotFound)
	}
	return vs[0], nil
}

func (s *Store) loadVariants(ctx context.Context, q string, args ...any) ([]*domain.ProductVariant, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list variants: %w", err)
	}

	var out []*domain.ProductVariant
	byCode := make(map[string]*domain.ProductVariant)
	for rows.Next() {
		var code, productCode, name, taxons string
		if err := rows.Scan(&code, &productCode, &name, &taxons); err != nil {
			rows.Close()
			return nil, fmt.Errorf("sqlite: scan variant: %w", err)
		}
		v := domain.NewProductVariant(code, productCode, name)
		if err := json.Unmarshal([]byte(taxons), &v.TaxonCodes); err != nil {
			rows.Close()
			return nil, fmt.Errorf("sqlite: decode taxons of %q: %w", code, err)
		}
		out = append(out, v)
		byCode[code] = v
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if len(out) == 0 {
		return out, nil
	}

	// Single connection: the variant rows must be closed before this query.
	prows, err := s.db.QueryContext(ctx, `
		SELECT variant_code, channel_code, price, original_price, minimum_price, lowest_price_before_discount, applied_promotions
		FROM channel_pricings ORDER BY variant_code, channel_code`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list channel pricings: %w", err)
	}
	defer prows.Close()

	for prows.Next() {
		p, err := scanPricing(prows)
		if err != nil {
			return nil, err
		}
		if v, ok := byCode[p.VariantCode]; ok {
			v.AddChannelPricing(p)
		}
	}
	return out, prows.Err()
}

// SaveChannelPricings updates pricings in a single transaction.
func (s *Store) SaveChannelPricings(ctx context.Context, pricings []*domain.ChannelPricing) error {
	return sqlitedb.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, p := range pricings {
			if err := savePricing(ctx, tx, p); err != nil {
				return err
			}
		}
		return nil
	})
}

func savePricing(ctx context.Context, tx *sql.Tx, p *domain.ChannelPricing) error {
	applied, err := marshal(p.AppliedPromotions)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO channel_pricings
			(variant_code, channel_code, price, original_price, minimum_price, lowest_price_before_discount, applied_promotions)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(variant_code, channel_code) DO UPDATE SET
			price = excluded.price,
			original_price = excluded.original_price,
			minimum_price = excluded.minimum_price,
			lowest_price_before_discount = excluded.lowest_price_before_discount,
			applied_promotions = excluded.applied_promotions`,
		p.VariantCode, p.ChannelCode, p.Price,
		nullableInt64(p.OriginalPrice), p.MinimumPrice,
		nullableInt64(p.LowestPriceBeforeDiscount), applied,
	)
	if err != nil {
		return fmt.Errorf("sqlite: save pricing %s/%s: %w", p.VariantCode, p.ChannelCode, err)
	}
	return nil
}

// PutCatalogPromotion inserts or replaces a catalog promotion.
func (s *Store) PutCatalogPromotion(ctx context.Context, p *domain.CatalogPromotion) error {
	channels, err := marshal(p.Channels)
	if err != nil {
		return err
	}
	scopes, err := marshal(p.Scopes)
	if err != nil {
		return err
	}
	actions, err := marshal(p.Actions)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO catalog_promotions
			(code, name, priority, exclusive, enabled, start_date, end_date, channels, scopes, actions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Code, p.Name, p.Priority, p.Exclusive, p.Enabled,
		nullableTime(p.StartDate), nullableTime(p.EndDate),
		channels, scopes, actions,
	)
	if err != nil {
		return fmt.Errorf("sqlite: put catalog promotion %q: %w", p.Code, err)
	}
	return nil
}

// CatalogPromotions returns every catalog promotion ordered by code.
func (s *Store) CatalogPromotions(ctx context.Context) ([]*domain.CatalogPromotion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, name, priority, exclusive, enabled, start_date, end_date, channels, scopes, actions
		FROM catalog_promotions ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list catalog promotions: %w", err)
	}
	defer rows.Close()

	var out []*domain.CatalogPromotion
	for rows.Next() {
		var (
			p                         domain.CatalogPromotion
			start, end                sql.NullString
			channels, scopes, actions string
		)
		if err := rows.Scan(&p.Code, &p.Name, &p.Priority, &p.Exclusive, &p.Enabled, &start, &end, &channels, &scopes, &actions); err != nil {
			return nil, fmt.Errorf("sqlite: scan catalog promotion: %w", err)
		}
		if p.StartDate, err = parseNullableTime(start); err != nil {
			return nil, err
		}
		if p.EndDate, err = parseNullableTime(end); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(channels), &p.Channels); err != nil {
			return nil, fmt.Errorf("sqlite: decode channels of %q: %w", p.Code, err)
		}
		if err := json.Unmarshal([]byte(scopes), &p.Scopes); err != nil {
			return nil, fmt.Errorf("sqlite: decode scopes of %q: %w", p.Code, err)
		}
		if err := json.Unmarshal([]byte(actions), &p.Actions); err != nil {
			return nil, fmt.Errorf("sqlite: decode actions of %q: %w", p.Code, err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
