// Package memory holds an in-process catalog, used by the CLI and by tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/domain"
)

// Catalog is a CatalogStore kept in memory. Reads hand out copies so callers
// can mutate them freely until they save.
type Catalog struct {
	mu         sync.RWMutex
	channels   map[string]domain.Channel
	variants   map[string]*domain.ProductVariant
	promotions map[string]*domain.CatalogPromotion
	taxonomy   domain.Taxonomy
}

func NewCatalog() *Catalog {
	return &Catalog{
		channels:   make(map[string]domain.Channel),
		variants:   make(map[string]*domain.ProductVariant),
		promotions: make(map[string]*domain.CatalogPromotion),
		taxonomy:   make(domain.Taxonomy),
	}
}

func (c *Catalog) PutChannel(_ context.Context, ch domain.Channel) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.channels[ch.Code] = ch
	return nil
}

func (c *Catalog) PutVariant(_ context.Context, v *domain.ProductVariant) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.variants[v.Code] = cloneVariant(v)
	return nil
}

func (c *Catalog) PutCatalogPromotion(_ context.Context, p *domain.CatalogPromotion) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *p
	c.promotions[p.Code] = &cp
	return nil
}

func (c *Catalog) PutTaxon(_ context.Context, code, parentCode string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.taxonomy[code] = parentCode
	return nil
}

func (c *Catalog) Taxonomy(context.Context) (domain.Taxonomy, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(domain.Taxonomy, len(c.taxonomy))
	for k, v := range c.taxonomy {
		out[k] = v
	}
	return out, nil
}

func (c *Catalog) Channels(context.Context) ([]domain.Channel, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Channel, 0, len(c.channels))
	for _, ch := range c.channels {
		out = append(out, ch)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (c *Catalog) Channel(_ context.Context, code string) (domain.Channel, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ch, ok := c.channels[code]
	if !ok {
		return domain.Channel{}, fmt.Errorf("memory: channel %q: %w", code, domain.ErrNotFound)
	}
	return ch, nil
}

func (c *Catalog) Variants(context.Context) ([]*domain.ProductVariant, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*domain.ProductVariant, 0, len(c.variants))
	for _, v := range c.variants {
		out = append(out, cloneVariant(v))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (c *Catalog) Variant(_ context.Context, code string) (*domain.ProductVariant, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.variants[code]
	if !ok {
		return nil, fmt.Errorf("memory: variant %q: %w", code, domain.ErrNotFound)
	}
	return cloneVariant(v), nil
}

func (c *Catalog) CatalogPromotions(context.Context) ([]*domain.CatalogPromotion, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*domain.CatalogPromotion, 0, len(c.promotions))
	for _, p := range c.promotions {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (c *Catalog) SaveChannelPricings(_ context.Context, pricings []*domain.ChannelPricing) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range pricings {
		v, ok := c.variants[p.VariantCode]
		if !ok {
			return fmt.Errorf("memory: save pricing for variant %q: %w", p.VariantCode, domain.ErrNotFound)
		}
		v.AddChannelPricing(p.Clone())
	}
	return nil
}

func cloneVariant(v *domain.ProductVariant) *domain.ProductVariant {
	out := domain.NewProductVariant(v.Code, v.ProductCode, v.Name)
	out.TaxonCodes = append([]string(nil), v.TaxonCodes...)
	for _, p := range v.ChannelPricings {
		out.AddChannelPricing(p.Clone())
	}
	return out
}
