package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	orderdomain "github.com/jcmexdev/ecommerce-promotions/internal/order-service/domain"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/domain"
)

// Fixture is a catalog described in YAML, used to seed stores and by the
// catalog-promotion CLI.
type Fixture struct {
	Channels          []ChannelFixture          `yaml:"channels"`
	Taxons            []TaxonFixture            `yaml:"taxons"`
	Variants          []VariantFixture          `yaml:"variants"`
	CatalogPromotions []CatalogPromotionFixture `yaml:"catalog_promotions"`
	OrderPromotions   []*orderdomain.Promotion  `yaml:"order_promotions"`
}

type ChannelFixture struct {
	Code                   string   `yaml:"code"`
	Name                   string   `yaml:"name"`
	CurrencyCode           string   `yaml:"currency"`
	LowestPriceVisible     bool     `yaml:"lowest_price_visible"`
	LowestPriceCheckPeriod int      `yaml:"lowest_price_checking_period"`
	ExcludedTaxons         []string `yaml:"taxons_excluded_from_lowest_price"`
}

type TaxonFixture struct {
	Code   string `yaml:"code"`
	Parent string `yaml:"parent"`
}

type PricingFixture struct {
	Price        int64 `yaml:"price"`
	MinimumPrice int64 `yaml:"minimum_price"`
}

type VariantFixture struct {
	Code    string                    `yaml:"code"`
	Product string                    `yaml:"product"`
	Name    string                    `yaml:"name"`
	Taxons  []string                  `yaml:"taxons"`
	Pricing map[string]PricingFixture `yaml:"pricing"`
}

type CatalogPromotionFixture struct {
	Code      string                          `yaml:"code"`
	Name      string                          `yaml:"name"`
	Priority  int                             `yaml:"priority"`
	Exclusive bool                            `yaml:"exclusive"`
	Enabled   *bool                           `yaml:"enabled"`
	StartDate *time.Time                      `yaml:"start_date"`
	EndDate   *time.Time                      `yaml:"end_date"`
	Channels  []string                        `yaml:"channels"`
	Scopes    []domain.CatalogPromotionScope  `yaml:"scopes"`
	Actions   []domain.CatalogPromotionAction `yaml:"actions"`
}

// ParseFixture decodes a YAML fixture. Unknown fields are rejected.
func ParseFixture(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f Fixture
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("pricing: parse fixture: %w", err)
	}
	return &f, nil
}

// CatalogWriter is the write side of a catalog store.
type CatalogWriter interface {
	PutChannel(ctx context.Context, ch domain.Channel) error
	PutTaxon(ctx context.Context, code, parentCode string) error
	PutVariant(ctx context.Context, v *domain.ProductVariant) error
	PutCatalogPromotion(ctx context.Context, p *domain.CatalogPromotion) error
}

// Load writes the fixture's catalog into w.
func (f *Fixture) Load(ctx context.Context, w CatalogWriter) error {
	for _, c := range f.Channels {
		ch := domain.Channel{
			Code:             c.Code,
			Name:             c.Name,
			BaseCurrencyCode: c.CurrencyCode,
			PriceHistory: domain.ChannelPriceHistoryConfig{
				LowestPriceForDiscountedProductsVisible:        c.LowestPriceVisible,
				LowestPriceForDiscountedProductsCheckingPeriod: c.LowestPriceCheckPeriod,
				TaxonsExcludedFromShowingLowestPrice:           c.ExcludedTaxons,
			},
		}
		if err := w.PutChannel(ctx, ch); err != nil {
			return fmt.Errorf("pricing: load channel %s: %w", c.Code, err)
		}
	}

	for _, t := range f.Taxons {
		if err := w.PutTaxon(ctx, t.Code, t.Parent); err != nil {
			return fmt.Errorf("pricing: load taxon %s: %w", t.Code, err)
		}
	}

	for _, vf := range f.Variants {
		v := domain.NewProductVariant(vf.Code, vf.Product, vf.Name)
		v.TaxonCodes = vf.Taxons
		for channel, p := range vf.Pricing {
			v.AddChannelPricing(&domain.ChannelPricing{ChannelCode: channel, Price: p.Price, MinimumPrice: p.MinimumPrice})
		}
		if err := w.PutVariant(ctx, v); err != nil {
			return fmt.Errorf("pricing: load variant %s: %w", vf.Code, err)
		}
	}

	for _, pf := range f.CatalogPromotions {
		p := &domain.CatalogPromotion{
			Code:      pf.Code,
			Name:      pf.Name,
			Priority:  pf.Priority,
			Exclusive: pf.Exclusive,
			Enabled:   pf.Enabled == nil || *pf.Enabled,
			StartDate: pf.StartDate,
			EndDate:   pf.EndDate,
			Channels:  pf.Channels,
			Scopes:    pf.Scopes,
			Actions:   pf.Actions,
		}
		if err := w.PutCatalogPromotion(ctx, p); err != nil {
			return fmt.Errorf("pricing: load catalog promotion %s: %w", pf.Code, err)
		}
	}
	return nil
}
